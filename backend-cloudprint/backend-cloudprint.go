/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

// The cloudprint CUPS backend. Invoked by cupsd with no arguments for
// device discovery, and with job arguments to print:
//
//	cloudprint job-id user title copies options [file]
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/akayami/cups-cloud-print/cdd"
	"github.com/akayami/cups-cloud-print/cups"
	"github.com/akayami/cups-cloud-print/gcp"
	"github.com/akayami/cups-cloud-print/lib"
	"github.com/akayami/cups-cloud-print/log"
	"github.com/akayami/cups-cloud-print/manager"
)

// CUPS backend exit codes.
const (
	backendOK     = 0
	backendFailed = 1
	backendStop   = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) == 1 {
		return discover()
	}
	if len(os.Args) < 6 || len(os.Args) > 7 {
		fmt.Fprintf(os.Stderr, "Usage: %s job-id user title copies options [file]\n", os.Args[0])
		return backendFailed
	}
	return printJob(os.Args[3], os.Args[5])
}

// setupManager loads the config and builds a manager with one requestor
// per account.
func setupManager() (*manager.PrinterManager, *lib.Config, error) {
	filename, err := lib.ConfigFilename()
	if err != nil {
		return nil, nil, err
	}
	config, err := lib.ConfigFromFile(filename)
	if err != nil {
		return nil, nil, err
	}

	if level, ok := log.LevelFromString(config.LogLevel); ok {
		log.SetLevel(level)
	}
	if config.LogToJournal != nil && *config.LogToJournal {
		log.SetJournalEnabled(true)
	}

	requestors := make([]manager.Requestor, 0, len(config.Accounts))
	for _, account := range config.Accounts {
		requestor, err := gcp.NewCloudPrintRequestor(config, account)
		if err != nil {
			// One broken account must not take down discovery for the
			// others; jobs routed to it fail later, at resolution.
			log.WarningAccountf(account.Name, "Skipping account: %s", err)
			continue
		}
		requestors = append(requestors, requestor)
	}

	return manager.NewPrinterManager(requestors), config, nil
}

// discover prints one device line per visible cloud printer. A missing
// or unusable config means no devices, never a failure: cupsd runs all
// backends in discovery mode and a failure here breaks lpinfo entirely.
func discover() int {
	pm, _, err := setupManager()
	if err != nil {
		log.Warningf("Discovery skipped: %s", err)
		return backendOK
	}

	printers, err := pm.GetPrinters("")
	if err != nil {
		log.Warningf("Discovery failed: %s", err)
		return backendOK
	}
	for _, mp := range printers {
		fmt.Println(manager.BackendDescriptionLine(mp))
	}
	return backendOK
}

func printJob(title, options string) int {
	uri := os.Getenv("DEVICE_URI")
	if uri == "" {
		log.Error("DEVICE_URI environment variable is not set")
		return backendStop
	}

	pm, config, err := setupManager()
	if err != nil {
		log.Errorf("Failed to initialize: %s", err)
		return backendStop
	}

	identity := lib.ParseDeviceURI(uri, config.AccountNames())
	printerID, requestor := pm.GetPrinterIDByDetails(
		identity.AccountName, identity.PrinterName, identity.PrinterID)
	if printerID == "" || requestor == nil {
		// Old URI formats carry no printer id; fall back to scanning the
		// printer list.
		if mp := pm.GetPrinterByURI(uri); mp != nil {
			printerID, requestor = mp.Printer.ID, mp.Requestor
		}
	}
	if printerID == "" || requestor == nil {
		log.Errorf("No cloud printer found for %s", uri)
		return backendStop
	}

	details, err := pm.GetPrinterDetails(requestor, printerID)
	if err != nil {
		log.ErrorPrinterf(printerID, "Failed to fetch printer details: %s", err)
		return backendFailed
	}

	payload := buildPayload(details, options)

	content, cleanup, err := jobContent()
	if err != nil {
		log.ErrorPrinterf(printerID, "Failed to open job data: %s", err)
		return backendFailed
	}
	defer cleanup()

	jobID, err := requestor.Submit(printerID, title, payload, "application/pdf", content)
	if err != nil {
		log.ErrorPrinterf(printerID, "Failed to submit job: %s", err)
		return backendFailed
	}

	log.InfoPrinterf(printerID, "Submitted job %s", jobID)
	return backendOK
}

// buildPayload merges the job's option overrides with the driver's
// Default* selections and the printer's published capabilities.
func buildPayload(details *cdd.Printer, options string) *cdd.CapabilityPayload {
	var attrs []cups.Attribute
	if ppdFilename := os.Getenv("PPD"); ppdFilename != "" {
		if f, err := os.Open(ppdFilename); err == nil {
			attrs, err = cups.ParseDefaultAttributes(f)
			if err != nil {
				log.Warningf("Failed to parse PPD defaults: %s", err)
			}
			f.Close()
		}
	}

	overrides := manager.GetOverrideCapabilities(options)
	return manager.GetCapabilityPayload(attrs, details.Capabilities, overrides)
}

// jobContent returns the spooled document: the sixth argument when
// present, stdin otherwise.
func jobContent() (io.Reader, func(), error) {
	if len(os.Args) == 7 {
		f, err := os.Open(os.Args[6])
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}
	return os.Stdin, func() {}, nil
}
