/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

// Package cups talks to the local CUPS spooler: enumerating installed
// queues, finding driver candidates, and installing new queues.
package cups

import (
	"regexp"
	"strings"
)

// Printer is one locally-installed CUPS queue.
type Printer struct {
	Name      string
	DeviceURI string
	Info      string
	Location  string
	MakeModel string
}

// Attribute is one PPD/IPP attribute of a queue, e.g. a driver's
// DefaultDuplex selection.
type Attribute struct {
	Name  string
	Value string
}

// Connection performs CUPS administration. Implemented by
// CommandConnection; substituted by fakes in tests.
type Connection interface {
	// GetPrinters returns the installed queues, keyed by queue name.
	GetPrinters() (map[string]Printer, error)

	// GetPPDs returns driver candidates matching an IEEE 1284 device ID,
	// keyed by driver name.
	GetPPDs(deviceID string) (map[string]string, error)

	AddPrinter(name, ppdName, info, location, device string) error
	EnablePrinter(name string) error
	AcceptJobs(name string) error
	SetPrinterShared(name string, shared bool) error
}

var rDisallowedNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// SanitizePrinterName converts a cloud printer's display name to a name
// CUPS will accept for a queue. Spaces become underscores; everything
// else outside [a-zA-Z0-9-_] is dropped.
func SanitizePrinterName(name string) string {
	return rDisallowedNameChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
}
