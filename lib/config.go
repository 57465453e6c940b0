/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package lib

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/adrg/xdg"
)

const defaultConfigFilename = "cups-cloud-print/config.json"

// ConfigAccount holds the credentials of one Google account that owns
// cloud printers.
type ConfigAccount struct {
	// Account email address, e.g. alice@example.com.
	Name string `json:"name"`

	// OAuth refresh token for this account.
	RefreshToken string `json:"refresh_token"`
}

type Config struct {
	// Accounts whose printers are visible to this connector.
	Accounts []ConfigAccount `json:"accounts"`

	// GCP API URL prefix.
	CloudPrintBaseURL string `json:"cloud_print_base_url,omitempty"`

	// OAuth2 client ID (not unique per client).
	OAuthClientID string `json:"oauth_client_id,omitempty"`

	// OAuth2 client secret (not unique per client).
	OAuthClientSecret string `json:"oauth_client_secret,omitempty"`

	// OAuth2 auth URL.
	OAuthAuthURL string `json:"oauth_auth_url,omitempty"`

	// OAuth2 token URL.
	OAuthTokenURL string `json:"oauth_token_url,omitempty"`

	// User-chosen name of this connector instance. Should be unique per
	// Google user account.
	ProxyName string `json:"proxy_name,omitempty"`

	// Least severity to log.
	LogLevel string `json:"log_level"`

	// Log to the systemd journal in addition to stderr?
	LogToJournal *bool `json:"log_to_journal,omitempty"`
}

// DefaultConfig represents reasonable default values for Config fields.
// Account credentials are omitted on purpose; they are unique per install.
var DefaultConfig = Config{
	CloudPrintBaseURL: DefaultCloudPrintBaseURL,
	OAuthClientID:     ClientID,
	OAuthClientSecret: ClientSecret,
	OAuthAuthURL:      AuthURL,
	OAuthTokenURL:     TokenURL,
	LogLevel:          "INFO",
	LogToJournal:      PointerToBool(false),
}

// ConfigFilename returns the config file path, searching the XDG config
// directories first, falling back to the user config home for a file that
// does not exist yet.
func ConfigFilename() (string, error) {
	if filename, err := xdg.SearchConfigFile(defaultConfigFilename); err == nil {
		return filename, nil
	}
	return xdg.ConfigFile(defaultConfigFilename)
}

func ConfigFromFile(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig
	if err = json.Unmarshal(b, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return &config, nil
}

func (c *Config) ToFile(filename string) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, b, 0600)
}

// AccountNames returns the configured account names, in config order.
func (c *Config) AccountNames() []string {
	names := make([]string, len(c.Accounts))
	for i, account := range c.Accounts {
		names[i] = account.Name
	}
	return names
}

func PointerToBool(b bool) *bool {
	return &b
}
