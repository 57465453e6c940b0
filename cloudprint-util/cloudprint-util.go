/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package main

import (
	"fmt"
	"os"

	"github.com/satori/go.uuid"
	"github.com/urfave/cli"

	"github.com/akayami/cups-cloud-print/cups"
	"github.com/akayami/cups-cloud-print/gcp"
	"github.com/akayami/cups-cloud-print/lib"
	"github.com/akayami/cups-cloud-print/manager"
)

func main() {
	app := cli.NewApp()
	app.Name = "cloudprint-util"
	app.Usage = lib.FullName + " administration tools"
	app.Version = lib.Version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config-filename",
			Usage: "Connector config file, if not at the XDG default location",
		},
	}
	app.Commands = []cli.Command{
		cli.Command{
			Name:   "init",
			Usage:  "Creates a config file with one account",
			Action: initConfigFile,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account",
					Usage: "Account email address",
				},
				cli.StringFlag{
					Name:  "refresh-token",
					Usage: "OAuth refresh token for the account",
				},
				cli.StringFlag{
					Name:  "proxy-name",
					Usage: "Name of this connector instance. Defaults to a random UUID",
				},
			},
		},
		cli.Command{
			Name:   "list-cloud-printers",
			Usage:  "Lists printers visible to the configured accounts",
			Action: listCloudPrinters,
			Flags:  []cli.Flag{accountFlag},
		},
		cli.Command{
			Name:   "list-local-printers",
			Usage:  "Lists installed CUPS queues that belong to one account",
			Action: listLocalPrinters,
			Flags:  []cli.Flag{accountFlag},
		},
		cli.Command{
			Name:   "add-printer",
			Usage:  "Installs one cloud printer as a CUPS queue",
			Action: addPrinter,
			Flags: []cli.Flag{
				accountFlag,
				cli.StringFlag{
					Name:  "printer-id",
					Usage: "Cloud printer to install",
				},
				cli.StringFlag{
					Name:  "ppd",
					Usage: "Driver to use. Defaults to the best device-ID match",
				},
			},
		},
		cli.Command{
			Name:   "add-all-printers",
			Usage:  "Installs every cloud printer of an account as a CUPS queue",
			Action: addAllPrinters,
			Flags:  []cli.Flag{accountFlag},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var accountFlag = cli.StringFlag{
	Name:  "account",
	Usage: "Account email address",
}

func configFilenameFromContext(context *cli.Context) (string, error) {
	if filename := context.GlobalString("config-filename"); filename != "" {
		return filename, nil
	}
	return lib.ConfigFilename()
}

func initConfigFile(context *cli.Context) error {
	account := context.String("account")
	refreshToken := context.String("refresh-token")
	if account == "" || refreshToken == "" {
		return fmt.Errorf("--account and --refresh-token are required")
	}

	proxyName := context.String("proxy-name")
	if proxyName == "" {
		proxyName = uuid.NewV4().String()
	}

	config := lib.DefaultConfig
	config.Accounts = []lib.ConfigAccount{{Name: account, RefreshToken: refreshToken}}
	config.ProxyName = proxyName

	filename, err := configFilenameFromContext(context)
	if err != nil {
		return err
	}
	if err := config.ToFile(filename); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", filename)
	return nil
}

// managerFromContext builds a PrinterManager with one requestor per
// configured account.
func managerFromContext(context *cli.Context) (*manager.PrinterManager, *lib.Config, error) {
	filename, err := configFilenameFromContext(context)
	if err != nil {
		return nil, nil, err
	}
	config, err := lib.ConfigFromFile(filename)
	if err != nil {
		return nil, nil, err
	}

	requestors := make([]manager.Requestor, 0, len(config.Accounts))
	for _, account := range config.Accounts {
		requestor, err := gcp.NewCloudPrintRequestor(config, account)
		if err != nil {
			return nil, nil, fmt.Errorf("account %s: %w", account.Name, err)
		}
		requestors = append(requestors, requestor)
	}

	return manager.NewPrinterManager(requestors), config, nil
}

func listCloudPrinters(context *cli.Context) error {
	pm, _, err := managerFromContext(context)
	if err != nil {
		return err
	}

	printers, err := pm.GetPrinters(context.String("account"))
	if err != nil {
		return err
	}
	for _, mp := range printers {
		fmt.Printf("%s %s %q\n", mp.Requestor.Account(), mp.Printer.ID, mp.Printer.Name)
	}
	return nil
}

func listLocalPrinters(context *cli.Context) error {
	account := context.String("account")
	if account == "" {
		return fmt.Errorf("--account is required")
	}

	pm, _, err := managerFromContext(context)
	if err != nil {
		return err
	}

	printers, err := pm.GetCUPSPrintersForAccount(cups.NewCommandConnection(), account)
	if err != nil {
		return err
	}
	for _, printer := range printers {
		fmt.Printf("%s %s\n", printer.Name, printer.DeviceURI)
	}
	return nil
}

func addPrinter(context *cli.Context) error {
	account := context.String("account")
	printerID := context.String("printer-id")
	if account == "" || printerID == "" {
		return fmt.Errorf("--account and --printer-id are required")
	}

	pm, _, err := managerFromContext(context)
	if err != nil {
		return err
	}
	requestor := pm.FindRequestorForAccount(account)
	if requestor == nil {
		return fmt.Errorf("account %s is not configured", account)
	}

	details, err := pm.GetPrinterDetails(requestor, printerID)
	if err != nil {
		return err
	}

	uri := lib.NewDeviceURI(account, printerID)
	return pm.AddPrinter(cups.NewCommandConnection(), details.Name, uri, context.String("ppd"))
}

func addAllPrinters(context *cli.Context) error {
	account := context.String("account")
	if account == "" {
		return fmt.Errorf("--account is required")
	}

	pm, _, err := managerFromContext(context)
	if err != nil {
		return err
	}

	printers, err := pm.GetPrinters(account)
	if err != nil {
		return err
	}

	connection := cups.NewCommandConnection()
	for _, mp := range printers {
		uri := lib.NewDeviceURI(account, mp.Printer.ID)
		if err := pm.AddPrinter(connection, mp.Printer.Name, uri, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding %s: %s\n", mp.Printer.Name, err)
			continue
		}
		fmt.Printf("Added %s\n", cups.SanitizePrinterName(mp.Printer.Name))
	}
	return nil
}
