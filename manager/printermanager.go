/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

// Package manager resolves cloud printers across accounts and installs
// them as CUPS queues.
package manager

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/akayami/cups-cloud-print/cdd"
	"github.com/akayami/cups-cloud-print/cups"
	"github.com/akayami/cups-cloud-print/lib"
	"github.com/akayami/cups-cloud-print/log"
)

// BackendDescription is the device line emitted in CUPS backend
// discovery mode.
const BackendDescription = `network %s "%s" "Google Cloud Print" "MFG:Google;MDL:Cloud Print;DES:GoogleCloudPrint;"`

const printerLocation = "Google Cloud Print"

// Requestor issues cloud API calls on behalf of one account.
// *gcp.CloudPrintRequestor implements it.
type Requestor interface {
	Account() string
	Search() ([]cdd.Printer, error)
	Printer(printerID string) (*cdd.Printer, error)
	Submit(printerID, title string, capabilities *cdd.CapabilityPayload, contentType string, content io.Reader) (string, error)
}

// ManagedPrinter pairs a cloud printer with the requestor of the
// account that owns it. Printer IDs are only unique within an account,
// so a printer is meaningless without its requestor.
type ManagedPrinter struct {
	Printer   cdd.Printer
	Requestor Requestor
}

// PrinterManager enumerates, resolves and installs cloud printers
// across a set of per-account requestors.
//
// Both the printer list and the per-printer detail cache live for the
// manager's lifetime and are never invalidated: a printer set changing
// mid-process is observed stale. Construct one manager per process or
// command invocation; methods are not safe for concurrent use.
type PrinterManager struct {
	requestors []Requestor

	// Populated by the first GetPrinters call; later calls only filter.
	printers        []ManagedPrinter
	printersFetched bool

	details *cache.Cache
}

func NewPrinterManager(requestors []Requestor) *PrinterManager {
	return &PrinterManager{
		requestors: requestors,
		details:    cache.New(cache.NoExpiration, 0),
	}
}

// AccountNames returns the account name of every configured requestor.
func (pm *PrinterManager) AccountNames() []string {
	names := make([]string, len(pm.requestors))
	for i, requestor := range pm.requestors {
		names[i] = requestor.Account()
	}
	return names
}

// FindRequestorForAccount returns the requestor for an account name, or
// nil if the account is not configured.
func (pm *PrinterManager) FindRequestorForAccount(account string) Requestor {
	for _, requestor := range pm.requestors {
		if requestor.Account() == account {
			return requestor
		}
	}
	return nil
}

// GetPrinters returns the cloud printers of all accounts, or of one
// account if accountName is non-empty.
//
// The cloud is searched once per manager lifetime, on the first call;
// every later call filters that one snapshot, whatever filter populated
// it. Staleness is the accepted price of not hammering the search API
// from every resolution.
func (pm *PrinterManager) GetPrinters(accountName string) ([]ManagedPrinter, error) {
	if !pm.printersFetched {
		// The snapshot is installed only once every search has succeeded.
		// A midway failure leaves the manager unfetched, so a retried call
		// starts from nothing instead of appending to a partial snapshot.
		var printers []ManagedPrinter
		for _, requestor := range pm.requestors {
			if accountName != "" && accountName != requestor.Account() {
				continue
			}
			found, err := requestor.Search()
			if err != nil {
				log.ErrorAccountf(requestor.Account(), "Search failed: %s", err)
				return nil, fmt.Errorf("search failed for account %s: %w", requestor.Account(), err)
			}
			log.InfoAccountf(requestor.Account(), "Search found %d printers", len(found))
			for _, printer := range found {
				printers = append(printers, ManagedPrinter{printer, requestor})
			}
		}
		pm.printers = printers
		pm.printersFetched = true
	}

	if accountName == "" {
		return pm.printers, nil
	}
	var filtered []ManagedPrinter
	for _, mp := range pm.printers {
		if mp.Requestor.Account() == accountName {
			filtered = append(filtered, mp)
		}
	}
	return filtered, nil
}

// GetPrinterByURI resolves a latest-format device URI to a printer by
// scanning the printer list for the URI's id segment. Returns nil when
// no printer matches.
func (pm *PrinterManager) GetPrinterByURI(uri string) *ManagedPrinter {
	printerID := lib.PrinterIDFromURI(uri)
	printers, err := pm.GetPrinters("")
	if err != nil {
		log.Warningf("Failed to list printers while resolving %s: %s", uri, err)
		return nil
	}
	for i := range printers {
		if printers[i].Printer.ID == printerID {
			return &printers[i]
		}
	}
	return nil
}

// GetPrinterIDByDetails resolves a parsed device identity to a printer
// id and requestor. Only id-based resolution is supported: when the
// identity carries no printer id (the 2014-02-10 format), this returns
// ("", nil) even if a printer name is present.
func (pm *PrinterManager) GetPrinterIDByDetails(account, printerName, printerID string) (string, Requestor) {
	requestor := pm.FindRequestorForAccount(unescape(account))
	if requestor == nil {
		return "", nil
	}

	if printerID != "" {
		return printerID, requestor
	}
	return "", nil
}

// GetPrinterDetails fetches a printer's full detail, capabilities
// included, caching per printer id for the manager's lifetime. A failed
// fetch is not cached and will be retried on the next call.
func (pm *PrinterManager) GetPrinterDetails(requestor Requestor, printerID string) (*cdd.Printer, error) {
	if details, found := pm.details.Get(printerID); found {
		return details.(*cdd.Printer), nil
	}

	details, err := requestor.Printer(printerID)
	if err != nil {
		return nil, err
	}
	pm.details.Set(printerID, details, cache.NoExpiration)
	return details, nil
}

// GetCUPSPrintersForAccount returns the installed CUPS queues whose
// device URI resolves to the given account, in any historical URI
// format. This is the reconciliation step when syncing local queues
// against one cloud account.
func (pm *PrinterManager) GetCUPSPrintersForAccount(connection cups.Connection, account string) ([]cups.Printer, error) {
	cupsPrinters, err := connection.GetPrinters()
	if err != nil {
		return nil, err
	}

	accountNames := pm.AccountNames()
	var accountPrinters []cups.Printer
	for _, cupsPrinter := range cupsPrinters {
		if !strings.HasPrefix(cupsPrinter.DeviceURI, lib.URIScheme) {
			continue
		}
		identity := lib.ParseDeviceURI(cupsPrinter.DeviceURI, accountNames)
		printerID, requestor := pm.GetPrinterIDByDetails(
			identity.AccountName, identity.PrinterName, identity.PrinterID)
		if printerID == "" || requestor == nil {
			continue
		}
		if requestor.Account() == account {
			accountPrinters = append(accountPrinters, cupsPrinter)
		}
	}

	sort.Slice(accountPrinters, func(i, j int) bool {
		return accountPrinters[i].Name < accountPrinters[j].Name
	})
	log.DebugAccountf(account, "Matched %d of %d local queues", len(accountPrinters), len(cupsPrinters))
	return accountPrinters, nil
}

// AddPrinter installs a cloud printer as a CUPS queue. When ppdName is
// empty a driver is chosen from the candidates matching this
// connector's device ID.
func (pm *PrinterManager) AddPrinter(connection cups.Connection, printerName, uri, ppdName string) error {
	printerName = cups.SanitizePrinterName(printerName)

	if ppdName == "" {
		deviceID := "MFG:GOOGLE;DRV:GCP;CMD:POSTSCRIPT;MDL:" + uri + ";"
		ppds, err := connection.GetPPDs(deviceID)
		if err != nil {
			return fmt.Errorf("failed to find a driver for %s: %w", printerName, err)
		}
		if len(ppds) == 0 {
			return fmt.Errorf("no driver candidates for %s", printerName)
		}
		names := make([]string, 0, len(ppds))
		for name := range ppds {
			names = append(names, name)
		}
		sort.Strings(names)
		ppdName = names[0]
	}

	if err := connection.AddPrinter(printerName, ppdName, printerName, printerLocation, uri); err != nil {
		return fmt.Errorf("failed to add %s: %w", printerName, err)
	}
	if err := connection.EnablePrinter(printerName); err != nil {
		return err
	}
	if err := connection.AcceptJobs(printerName); err != nil {
		return err
	}
	if err := connection.SetPrinterShared(printerName, false); err != nil {
		return err
	}

	log.Infof("Added %s", printerName)
	return nil
}

// BackendDescriptionLine formats one discovery-mode device line for a
// cloud printer.
func BackendDescriptionLine(mp ManagedPrinter) string {
	uri := lib.NewDeviceURI(mp.Requestor.Account(), mp.Printer.ID)
	return fmt.Sprintf(BackendDescription, uri, mp.Printer.Name)
}

func unescape(s string) string {
	u, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return u
}
