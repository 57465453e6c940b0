/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package manager

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/akayami/cups-cloud-print/cdd"
	"github.com/akayami/cups-cloud-print/cups"
)

type fakeRequestor struct {
	account      string
	printers     []cdd.Printer
	searchCalls  int
	searchErr    error
	printerCalls int
	printerErr   error
}

func (r *fakeRequestor) Account() string {
	return r.account
}

func (r *fakeRequestor) Search() ([]cdd.Printer, error) {
	r.searchCalls++
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.printers, nil
}

func (r *fakeRequestor) Printer(printerID string) (*cdd.Printer, error) {
	r.printerCalls++
	if r.printerErr != nil {
		return nil, r.printerErr
	}
	for i := range r.printers {
		if r.printers[i].ID == printerID {
			return &r.printers[i], nil
		}
	}
	return nil, errors.New("no such printer")
}

func (r *fakeRequestor) Submit(printerID, title string, capabilities *cdd.CapabilityPayload, contentType string, content io.Reader) (string, error) {
	return "", errors.New("not implemented")
}

func newFakeRequestors() (*fakeRequestor, *fakeRequestor) {
	alice := &fakeRequestor{
		account: "alice@example.com",
		printers: []cdd.Printer{
			{ID: "printer123", Name: "Office Printer"},
			{ID: "printer124", Name: "Kitchen Printer"},
		},
	}
	bob := &fakeRequestor{
		account:  "bob@example.com",
		printers: []cdd.Printer{{ID: "printer456", Name: "Lab Printer"}},
	}
	return alice, bob
}

func TestGetPrintersFetchesOnce(t *testing.T) {
	alice, bob := newFakeRequestors()
	pm := NewPrinterManager([]Requestor{alice, bob})

	all, err := pm.GetPrinters("")
	if err != nil {
		t.Fatalf("GetPrinters() failed: %s", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 printers, got %d", len(all))
	}

	// A different filter reuses the snapshot instead of searching again.
	bobOnly, err := pm.GetPrinters("bob@example.com")
	if err != nil {
		t.Fatalf("GetPrinters() failed: %s", err)
	}
	if len(bobOnly) != 1 || bobOnly[0].Printer.ID != "printer456" {
		t.Errorf("expected bob's printer, got %+v", bobOnly)
	}
	if alice.searchCalls != 1 || bob.searchCalls != 1 {
		t.Errorf("expected one search per account, got %d and %d",
			alice.searchCalls, bob.searchCalls)
	}
}

func TestGetPrintersPartialFailureLeavesNoState(t *testing.T) {
	alice, bob := newFakeRequestors()
	bob.searchErr = errors.New("network down")
	pm := NewPrinterManager([]Requestor{alice, bob})

	if _, err := pm.GetPrinters(""); err == nil {
		t.Fatal("expected an error when one account's search fails")
	}

	// The failed attempt must not leave alice's printers behind: a retry
	// searches every account again and must produce each printer once.
	bob.searchErr = nil
	all, err := pm.GetPrinters("")
	if err != nil {
		t.Fatalf("GetPrinters() failed after recovery: %s", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 printers after the retry, got %d", len(all))
	}
	counts := map[string]int{}
	for _, mp := range all {
		counts[mp.Printer.ID]++
	}
	for id, n := range counts {
		if n != 1 {
			t.Errorf("printer %s appears %d times after the retry, want 1", id, n)
		}
	}
	if alice.searchCalls != 2 {
		t.Errorf("expected alice to be searched once per attempt, got %d", alice.searchCalls)
	}
}

func TestGetPrintersFilteredFirstCall(t *testing.T) {
	alice, bob := newFakeRequestors()
	pm := NewPrinterManager([]Requestor{alice, bob})

	// A filtered first call populates the snapshot from the matching
	// account only; that is the snapshot every later call sees.
	aliceOnly, err := pm.GetPrinters("alice@example.com")
	if err != nil {
		t.Fatalf("GetPrinters() failed: %s", err)
	}
	if len(aliceOnly) != 2 {
		t.Errorf("expected 2 printers, got %+v", aliceOnly)
	}
	if bob.searchCalls != 0 {
		t.Errorf("expected bob's account to not be searched, got %d", bob.searchCalls)
	}

	all, _ := pm.GetPrinters("")
	if len(all) != 2 {
		t.Errorf("expected the stale 2-printer snapshot, got %d", len(all))
	}
}

func TestGetPrinterByURI(t *testing.T) {
	alice, bob := newFakeRequestors()
	pm := NewPrinterManager([]Requestor{alice, bob})

	mp := pm.GetPrinterByURI("cloudprint://alice@example.com/printer124")
	if mp == nil {
		t.Fatal("expected to resolve printer124")
	}
	if mp.Printer.Name != "Kitchen Printer" || mp.Requestor.Account() != "alice@example.com" {
		t.Errorf("resolved wrong printer: %+v", mp)
	}

	if mp := pm.GetPrinterByURI("cloudprint://alice@example.com/printer999"); mp != nil {
		t.Errorf("expected nil for unknown id, got %+v", mp)
	}
}

func TestGetPrinterIDByDetails(t *testing.T) {
	alice, bob := newFakeRequestors()
	pm := NewPrinterManager([]Requestor{alice, bob})

	id, requestor := pm.GetPrinterIDByDetails("alice%40example.com", "Office Printer", "printer123")
	if id != "printer123" || requestor != Requestor(alice) {
		t.Errorf("expected (printer123, alice), got (%s, %v)", id, requestor)
	}

	// Name-based resolution is not supported: no id means no result,
	// even with a perfectly good name.
	id, requestor = pm.GetPrinterIDByDetails("alice@example.com", "Office Printer", "")
	if id != "" || requestor != nil {
		t.Errorf("expected no result without an id, got (%s, %v)", id, requestor)
	}

	id, requestor = pm.GetPrinterIDByDetails("carol@example.com", "", "printer123")
	if id != "" || requestor != nil {
		t.Errorf("expected no result for unknown account, got (%s, %v)", id, requestor)
	}
}

func TestGetPrinterDetailsCached(t *testing.T) {
	alice, _ := newFakeRequestors()
	pm := NewPrinterManager([]Requestor{alice})

	first, err := pm.GetPrinterDetails(alice, "printer123")
	if err != nil {
		t.Fatalf("GetPrinterDetails() failed: %s", err)
	}
	second, err := pm.GetPrinterDetails(alice, "printer123")
	if err != nil {
		t.Fatalf("GetPrinterDetails() failed: %s", err)
	}

	if alice.printerCalls != 1 {
		t.Errorf("expected exactly one detail fetch, got %d", alice.printerCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached details differ: %+v vs %+v", first, second)
	}
}

func TestGetPrinterDetailsFailureNotCached(t *testing.T) {
	alice, _ := newFakeRequestors()
	alice.printerErr = errors.New("network down")
	pm := NewPrinterManager([]Requestor{alice})

	if _, err := pm.GetPrinterDetails(alice, "printer123"); err == nil {
		t.Fatal("expected an error")
	}

	alice.printerErr = nil
	if _, err := pm.GetPrinterDetails(alice, "printer123"); err != nil {
		t.Fatalf("expected the retry to succeed, got %s", err)
	}
	if alice.printerCalls != 2 {
		t.Errorf("expected the failure to not be cached, got %d calls", alice.printerCalls)
	}
}

type fakeConnection struct {
	printers map[string]cups.Printer
	added    []string
	enabled  []string
	accepted []string
	shared   map[string]bool
}

func newFakeConnection(printers map[string]cups.Printer) *fakeConnection {
	return &fakeConnection{printers: printers, shared: map[string]bool{}}
}

func (fc *fakeConnection) GetPrinters() (map[string]cups.Printer, error) {
	return fc.printers, nil
}

func (fc *fakeConnection) GetPPDs(deviceID string) (map[string]string, error) {
	return map[string]string{"drv:///gcp.ppd": "Google Cloud Print"}, nil
}

func (fc *fakeConnection) AddPrinter(name, ppdName, info, location, device string) error {
	fc.added = append(fc.added, name)
	return nil
}

func (fc *fakeConnection) EnablePrinter(name string) error {
	fc.enabled = append(fc.enabled, name)
	return nil
}

func (fc *fakeConnection) AcceptJobs(name string) error {
	fc.accepted = append(fc.accepted, name)
	return nil
}

func (fc *fakeConnection) SetPrinterShared(name string, shared bool) error {
	fc.shared[name] = shared
	return nil
}

func TestGetCUPSPrintersForAccount(t *testing.T) {
	alice, bob := newFakeRequestors()
	pm := NewPrinterManager([]Requestor{alice, bob})

	connection := newFakeConnection(map[string]cups.Printer{
		// Latest format, alice.
		"Office_Printer": {Name: "Office_Printer",
			DeviceURI: "cloudprint://alice%40example.com/printer123"},
		// 2014-03-07 format, bob.
		"Lab_Printer": {Name: "Lab_Printer",
			DeviceURI: "cloudprint://Lab%20Printer/bob%40example.com/printer456"},
		// 2014-02-10 format carries no printer id: never reconciled.
		"Old_Printer": {Name: "Old_Printer",
			DeviceURI: "cloudprint://Old%20Printer/alice%40example.com"},
		// Not ours.
		"Raw_Queue": {Name: "Raw_Queue", DeviceURI: "socket://10.0.0.2:9100"},
	})

	alicePrinters, err := pm.GetCUPSPrintersForAccount(connection, "alice@example.com")
	if err != nil {
		t.Fatalf("GetCUPSPrintersForAccount() failed: %s", err)
	}
	if len(alicePrinters) != 1 || alicePrinters[0].Name != "Office_Printer" {
		t.Errorf("expected only Office_Printer, got %+v", alicePrinters)
	}

	bobPrinters, err := pm.GetCUPSPrintersForAccount(connection, "bob@example.com")
	if err != nil {
		t.Fatalf("GetCUPSPrintersForAccount() failed: %s", err)
	}
	if len(bobPrinters) != 1 || bobPrinters[0].Name != "Lab_Printer" {
		t.Errorf("expected only Lab_Printer, got %+v", bobPrinters)
	}
}

func TestAddPrinter(t *testing.T) {
	alice, _ := newFakeRequestors()
	pm := NewPrinterManager([]Requestor{alice})
	connection := newFakeConnection(nil)

	uri := "cloudprint://alice%40example.com/printer123"
	if err := pm.AddPrinter(connection, "Office Printer", uri, ""); err != nil {
		t.Fatalf("AddPrinter() failed: %s", err)
	}

	expected := []string{"Office_Printer"}
	if !reflect.DeepEqual(connection.added, expected) ||
		!reflect.DeepEqual(connection.enabled, expected) ||
		!reflect.DeepEqual(connection.accepted, expected) {
		t.Errorf("queue was not fully installed: %+v", connection)
	}
	if shared, exists := connection.shared["Office_Printer"]; !exists || shared {
		t.Errorf("expected the queue to be explicitly unshared, got %+v", connection.shared)
	}
}

func TestBackendDescriptionLine(t *testing.T) {
	alice, _ := newFakeRequestors()
	mp := ManagedPrinter{Printer: alice.printers[0], Requestor: alice}

	line := BackendDescriptionLine(mp)
	expected := `network cloudprint://alice@example.com/printer123 "Office Printer" "Google Cloud Print" "MFG:Google;MDL:Cloud Print;DES:GoogleCloudPrint;"`
	if line != expected {
		t.Errorf("expected %q, got %q", expected, line)
	}
}
