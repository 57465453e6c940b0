/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package lib

import (
	"reflect"
	"testing"
)

func TestParseDeviceURI(t *testing.T) {
	accounts := []string{"alice@example.com"}

	cases := []struct {
		uri      string
		expected DeviceURI
	}{
		{
			"cloudprint://alice@example.com/printer123",
			DeviceURI{
				AccountName: "alice@example.com",
				PrinterID:   "printer123",
				Format:      URIFormatLatest,
			},
		},
		{
			"cloudprint://My%20Printer/alice%40example.com",
			DeviceURI{
				AccountName: "alice@example.com",
				PrinterName: "My Printer",
				Format:      URIFormat20140210,
			},
		},
		{
			"cloudprint://My%20Printer/alice%40example.com/printer123",
			DeviceURI{
				AccountName: "alice@example.com",
				PrinterName: "My Printer",
				PrinterID:   "printer123",
				Format:      URIFormat20140307,
			},
		},
		// Two segments always win, even when the authority is a known
		// account name.
		{
			"cloudprint://alice@example.com/bob%40example.com/printer456",
			DeviceURI{
				AccountName: "bob@example.com",
				PrinterName: "alice@example.com",
				PrinterID:   "printer456",
				Format:      URIFormat20140307,
			},
		},
		// Unclassifiable input degrades to the oldest format instead of
		// failing.
		{
			"cloudprint://garbage",
			DeviceURI{
				PrinterName: "garbage",
				Format:      URIFormat20140210,
			},
		},
	}

	for _, c := range cases {
		parsed := ParseDeviceURI(c.uri, accounts)
		if !reflect.DeepEqual(parsed, c.expected) {
			t.Logf("%s: expected %+v, got %+v", c.uri, c.expected, parsed)
			t.Fail()
		}
	}
}

func TestNewDeviceURIRoundTrip(t *testing.T) {
	accounts := []string{"alice@example.com"}

	uri := NewDeviceURI("alice@example.com", "printer 123")
	parsed := ParseDeviceURI(uri, accounts)
	if parsed.Format != URIFormatLatest {
		t.Errorf("expected latest format, got %d", parsed.Format)
	}
	if parsed.AccountName != "alice@example.com" {
		t.Errorf("expected account alice@example.com, got %s", parsed.AccountName)
	}
	if parsed.PrinterID != "printer 123" {
		t.Errorf("expected printer id to round-trip, got %q", parsed.PrinterID)
	}
}

func TestPrinterIDFromURI(t *testing.T) {
	cases := []struct {
		uri      string
		expected string
	}{
		{"cloudprint://alice@example.com/printer123", "printer123"},
		{"cloudprint://alice@example.com/printer123/extra", "printer123"},
		// The raw segment is returned; decoding is not reapplied here.
		{"cloudprint://alice@example.com/printer%20123", "printer%20123"},
		{"cloudprint://alice@example.com", ""},
	}

	for _, c := range cases {
		if id := PrinterIDFromURI(c.uri); id != c.expected {
			t.Errorf("%s: expected %q, got %q", c.uri, c.expected, id)
		}
	}
}
