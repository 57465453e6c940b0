/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package gcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/akayami/cups-cloud-print/lib"
)

// httpDoer is satisfied by *http.Client; tests substitute their own.
type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// newClient creates an instance of http.Client, wrapped with OAuth
// credentials.
func newClient(oauthClientID, oauthClientSecret, oauthAuthURL, oauthTokenURL, refreshToken string, scopes ...string) (*http.Client, error) {
	config := &oauth2.Config{
		ClientID:     oauthClientID,
		ClientSecret: oauthClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  oauthAuthURL,
			TokenURL: oauthTokenURL,
		},
		RedirectURL: lib.RedirectURL,
		Scopes:      scopes,
	}

	token := &oauth2.Token{RefreshToken: refreshToken}
	client := config.Client(oauth2.NoContext, token)

	return client, nil
}

// postWithRetry calls post() and retries once on HTTP failure
// (response code != 200).
func postWithRetry(hc httpDoer, url string, form url.Values) ([]byte, uint, int, error) {
	return postBytesWithRetry(hc, url, "application/x-www-form-urlencoded", []byte(form.Encode()))
}

func postBytesWithRetry(hc httpDoer, url, contentType string, body []byte) ([]byte, uint, int, error) {
	responseBody, gcpErrorCode, httpStatusCode, err := post(hc, url, contentType, body)
	if responseBody != nil && httpStatusCode == http.StatusOK {
		return responseBody, gcpErrorCode, httpStatusCode, err
	}

	return post(hc, url, contentType, body)
}

// post POSTs to a URL. Returns the body of the response.
//
// Returns the response body, GCP error code, HTTP status, and error.
// On success, only the response body is guaranteed to be non-zero.
func post(hc httpDoer, url, contentType string, body []byte) ([]byte, uint, int, error) {
	request, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, 0, err
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("X-CloudPrint-Proxy", lib.ShortName)

	response, err := hc.Do(request)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("POST failure: %s", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, 0, response.StatusCode, fmt.Errorf("%s POST HTTP-level failure: %s", url, response.Status)
	}

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, 0, response.StatusCode, err
	}

	var responseStatus struct {
		Success   bool
		Message   string
		ErrorCode uint
	}
	if err = json.Unmarshal(responseBody, &responseStatus); err != nil {
		return nil, 0, response.StatusCode, err
	}
	if !responseStatus.Success {
		return nil, responseStatus.ErrorCode, response.StatusCode, fmt.Errorf(
			"%s call failed: %s", url, responseStatus.Message)
	}

	return responseBody, 0, response.StatusCode, nil
}
