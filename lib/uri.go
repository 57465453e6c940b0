/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package lib

import (
	"net/url"
	"strings"
)

// URIScheme is the scheme of every device URI written into a CUPS queue
// by this connector, including ones written by versions long gone.
const URIScheme = "cloudprint://"

// URIFormat identifies which historical encoding produced a device URI.
// No version tag was ever embedded in the URI, so the format must be
// recovered from structural cues; see ParseDeviceURI.
type URIFormat int

const (
	URIFormatLatest URIFormat = iota
	// Two path segments: account then printer id, with the printer name
	// in the authority. Written between 2014-03-07 and the next release.
	URIFormat20140307
	// Printer name in the authority, account as the only path segment,
	// no printer id at all. Written between 2014-02-10 and 2014-03-07.
	URIFormat20140210
)

// DeviceURI is the identity recovered from a device URI. Depending on
// Format, either PrinterID or PrinterName is authoritative; the other is
// empty, never guessed.
type DeviceURI struct {
	AccountName string
	PrinterName string
	PrinterID   string
	Format      URIFormat
}

// NewDeviceURI serializes account and printer id in the latest format.
func NewDeviceURI(accountName, printerID string) string {
	return URIScheme + url.PathEscape(accountName) + "/" + url.PathEscape(printerID)
}

// PrinterIDFromURI returns the first path segment of a latest-format
// device URI, undecoded. Returns "" if the URI has no path.
func PrinterIDFromURI(uri string) string {
	_, path := splitDeviceURI(uri)
	segment, _, _ := strings.Cut(path, "/")
	return segment
}

// ParseDeviceURI recovers the identity encoded in a device URI, in any of
// the three formats ever written, so that queues installed by old versions
// keep working after an upgrade.
//
// The checks run in this order; the order matters and must not change:
//
//  1. exactly two path segments can only be the 2014-03-07 format
//  2. an authority that is not a known account name can only be the
//     2014-02-10 format, which put the printer name there
//  3. otherwise the authority is an account name: latest format
//
// Swapping 1 and 2 would misclassify 2014-03-07 URIs whose printer name
// happens to not be an account name. ParseDeviceURI never fails: an input
// fitting no format degrades to the 2014-02-10 classification with empty
// fields, and the caller falls back to resolving by name.
func ParseDeviceURI(uri string, accountNames []string) DeviceURI {
	authority, path := splitDeviceURI(uri)
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(pathParts) == 2 {
		return DeviceURI{
			AccountName: unescape(pathParts[0]),
			PrinterName: unescape(authority),
			PrinterID:   unescape(pathParts[1]),
			Format:      URIFormat20140307,
		}
	}

	if !containsString(accountNames, unescape(authority)) {
		return DeviceURI{
			AccountName: unescape(pathParts[0]),
			PrinterName: unescape(authority),
			Format:      URIFormat20140210,
		}
	}

	return DeviceURI{
		AccountName: unescape(authority),
		PrinterID:   unescape(pathParts[0]),
		Format:      URIFormatLatest,
	}
}

// splitDeviceURI separates the authority from the path. net/url is not
// used here because it parses "@" in the authority as userinfo, and
// account names contain "@".
func splitDeviceURI(uri string) (authority, path string) {
	uri = strings.TrimPrefix(uri, URIScheme)
	authority, path, _ = strings.Cut(uri, "/")
	return authority, path
}

func unescape(s string) string {
	u, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return u
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
