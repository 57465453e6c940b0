/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

// Package gcp is the Google Cloud Print API client. One
// CloudPrintRequestor serves one account; a multi-account install holds
// one requestor per account.
package gcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"

	"github.com/akayami/cups-cloud-print/cdd"
	"github.com/akayami/cups-cloud-print/lib"
)

// CloudPrintRequestor issues Google Cloud Print API calls on behalf of
// one account.
type CloudPrintRequestor struct {
	baseURL string
	account string
	client  httpDoer
}

// NewCloudPrintRequestor returns a requestor for one configured account,
// with an OAuth2-refreshing HTTP client.
func NewCloudPrintRequestor(config *lib.Config, account lib.ConfigAccount) (*CloudPrintRequestor, error) {
	client, err := newClient(config.OAuthClientID, config.OAuthClientSecret,
		config.OAuthAuthURL, config.OAuthTokenURL, account.RefreshToken, lib.ScopeCloudPrint)
	if err != nil {
		return nil, err
	}

	return &CloudPrintRequestor{
		baseURL: config.CloudPrintBaseURL,
		account: account.Name,
		client:  client,
	}, nil
}

// Account returns the account name this requestor was built for.
func (r *CloudPrintRequestor) Account() string {
	return r.account
}

// Search calls cloudprint/search to get the printers visible to this
// account. The returned printers carry no capabilities; use Printer for
// those.
func (r *CloudPrintRequestor) Search() ([]cdd.Printer, error) {
	form := url.Values{}
	form.Set("connection_status", "ALL")

	responseBody, _, _, err := postWithRetry(r.client, r.baseURL+"search", form)
	if err != nil {
		return nil, err
	}

	var searchData struct {
		Printers []cdd.Printer
	}
	if err = json.Unmarshal(responseBody, &searchData); err != nil {
		return nil, err
	}

	return searchData.Printers, nil
}

// Printer calls cloudprint/printer to get the full detail of one
// printer, capabilities included.
func (r *CloudPrintRequestor) Printer(printerID string) (*cdd.Printer, error) {
	form := url.Values{}
	form.Set("printerid", printerID)
	form.Set("extra_fields", "capabilities")

	responseBody, _, _, err := postWithRetry(r.client, r.baseURL+"printer", form)
	if err != nil {
		return nil, err
	}

	var printerData struct {
		Printers []cdd.Printer
	}
	if err = json.Unmarshal(responseBody, &printerData); err != nil {
		return nil, err
	}
	if len(printerData.Printers) < 1 {
		return nil, fmt.Errorf("no printer %s visible to account %s", printerID, r.account)
	}

	return &printerData.Printers[0], nil
}

// Submit calls cloudprint/submit to send a print job. The capability
// payload selects options within the printer's published capabilities;
// content is the spooled document.
func (r *CloudPrintRequestor) Submit(printerID, title string, capabilities *cdd.CapabilityPayload, contentType string, content io.Reader) (string, error) {
	ticket, err := json.Marshal(capabilities)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, value := range map[string]string{
		"printerid":    printerID,
		"title":        title,
		"capabilities": string(ticket),
		"contentType":  contentType,
	} {
		if err := w.WriteField(field, value); err != nil {
			return "", err
		}
	}
	part, err := w.CreateFormFile("content", title)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	responseBody, _, _, err := postBytesWithRetry(r.client, r.baseURL+"submit",
		w.FormDataContentType(), body.Bytes())
	if err != nil {
		return "", err
	}

	var submitData struct {
		Job struct {
			ID string
		}
	}
	if err = json.Unmarshal(responseBody, &submitData); err != nil {
		return "", err
	}

	return submitData.Job.ID, nil
}
