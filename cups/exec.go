/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package cups

import (
	"fmt"
	"os/exec"
	"strings"
)

// CommandConnection implements Connection with the CUPS command-line
// tools (lpstat, lpinfo, lpadmin, cupsenable, cupsaccept). This avoids
// linking libcups; queue administration happens rarely enough that
// forking is not a concern.
type CommandConnection struct {
	// run executes a command and returns its combined output. Replaced
	// in tests.
	run func(name string, args ...string) ([]byte, error)
}

func NewCommandConnection() *CommandConnection {
	return &CommandConnection{
		run: func(name string, args ...string) ([]byte, error) {
			output, err := exec.Command(name, args...).CombinedOutput()
			if err != nil {
				return nil, fmt.Errorf("%s failed: %s: %s", name, err, strings.TrimSpace(string(output)))
			}
			return output, nil
		},
	}
}

// GetPrinters parses `lpstat -v` output, one queue per line:
//
//	device for Office_Printer: cloudprint://alice%40example.com/printer123
func (cc *CommandConnection) GetPrinters() (map[string]Printer, error) {
	output, err := cc.run("lpstat", "-v")
	if err != nil {
		return nil, err
	}

	printers := map[string]Printer{}
	for _, line := range strings.Split(string(output), "\n") {
		rest, found := strings.CutPrefix(line, "device for ")
		if !found {
			continue
		}
		name, device, found := strings.Cut(rest, ": ")
		if !found {
			continue
		}
		printers[name] = Printer{Name: name, DeviceURI: device}
	}

	return printers, nil
}

// GetPPDs parses `lpinfo --device-id ... -m` output, one driver per
// line: the driver name, a space, and a description.
func (cc *CommandConnection) GetPPDs(deviceID string) (map[string]string, error) {
	output, err := cc.run("lpinfo", "--device-id", deviceID, "-m")
	if err != nil {
		return nil, err
	}

	ppds := map[string]string{}
	for _, line := range strings.Split(string(output), "\n") {
		name, description, found := strings.Cut(strings.TrimSpace(line), " ")
		if !found || name == "" {
			continue
		}
		ppds[name] = description
	}

	return ppds, nil
}

func (cc *CommandConnection) AddPrinter(name, ppdName, info, location, device string) error {
	_, err := cc.run("lpadmin", "-p", name, "-m", ppdName,
		"-D", info, "-L", location, "-v", device)
	return err
}

func (cc *CommandConnection) EnablePrinter(name string) error {
	_, err := cc.run("cupsenable", name)
	return err
}

func (cc *CommandConnection) AcceptJobs(name string) error {
	_, err := cc.run("cupsaccept", name)
	return err
}

func (cc *CommandConnection) SetPrinterShared(name string, shared bool) error {
	sharedValue := "false"
	if shared {
		sharedValue = "true"
	}
	_, err := cc.run("lpadmin", "-p", name, "-o", "printer-is-shared="+sharedValue)
	return err
}
