/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package lib

const (
	ShortName = "CUPS Cloud Print"
	FullName  = "CUPS Cloud Print Connector"

	Version = "3.0"
)

// OAuth and API constants for Google Cloud Print.
const (
	DefaultCloudPrintBaseURL = "https://www.google.com/cloudprint/"

	ClientID     = "539833558011-35iq8btpgas80nrs3o7mv99hm95d4dv6.apps.googleusercontent.com"
	ClientSecret = "V9BfPOvdiYuw12hDx5Y5nR0a"

	RedirectURL     = "oob"
	ScopeCloudPrint = "https://www.googleapis.com/auth/cloudprint"
	AuthURL         = "https://accounts.google.com/o/oauth2/auth"
	TokenURL        = "https://accounts.google.com/o/oauth2/token"
)
