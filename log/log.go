/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

// Package log logs to an io.Writer in the same format as CUPS, so that
// backend output lands in the CUPS error_log looking like everything
// else there. Log lines can be tagged with a printer ID or an account
// name. Output can additionally be sent to the systemd journal.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

const (
	logFormat        = "%c [%s] %s\n"
	logPrinterFormat = "%c [%s] [Printer %s] %s\n"
	logAccountFormat = "%c [%s] [Account %s] %s\n"

	dateTimeFormat = "02/Jan/2006:15:04:05 -0700"

	journalPrinterFormat = "[Printer %s] %s"
	journalAccountFormat = "[Account %s] %s"
)

var (
	levelToInitial = map[LogLevel]rune{
		FATAL:   'X', // "EMERG" in CUPS.
		ERROR:   'E',
		WARNING: 'W',
		INFO:    'I',
		DEBUG:   'D',
	}

	logger struct {
		writer         io.Writer
		level          LogLevel
		journalEnabled bool
	}
)

// LogLevel represents a subset of the severity levels named by CUPS.
type LogLevel uint8

const (
	FATAL LogLevel = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

func LevelFromString(level string) (LogLevel, bool) {
	switch strings.ToLower(level) {
	case "fatal":
		return FATAL, true
	case "error":
		return ERROR, true
	case "warning":
		return WARNING, true
	case "info":
		return INFO, true
	case "debug":
		return DEBUG, true
	default:
		return 0, false
	}
}

func (l LogLevel) priority() journal.Priority {
	switch l {
	case FATAL:
		return journal.PriCrit
	case ERROR:
		return journal.PriErr
	case WARNING:
		return journal.PriWarning
	case INFO:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

func init() {
	logger.writer = os.Stderr
	logger.level = INFO
}

// SetWriter sets the io.Writer to log to. Default is os.Stderr.
func SetWriter(w io.Writer) {
	logger.writer = w
}

// SetLevel sets the minimum severity level to log. Default is INFO.
func SetLevel(l LogLevel) {
	logger.level = l
}

// SetJournalEnabled enables or disables writing to the systemd journal.
// Default is false.
func SetJournalEnabled(b bool) {
	logger.journalEnabled = b
}

func log(level LogLevel, printerID, account, format string, args ...interface{}) {
	if level > logger.level {
		return
	}

	levelInitial := levelToInitial[level]
	dateTime := time.Now().Format(dateTimeFormat)
	var message string
	if format == "" {
		message = fmt.Sprint(args...)
	} else {
		message = fmt.Sprintf(format, args...)
	}

	journalVars := make(map[string]string)
	var journalMessage string
	if printerID != "" {
		fmt.Fprintf(logger.writer, logPrinterFormat, levelInitial, dateTime, printerID, message)
		journalVars["PRINTER_ID"] = printerID
		journalMessage = fmt.Sprintf(journalPrinterFormat, printerID, message)
	} else if account != "" {
		fmt.Fprintf(logger.writer, logAccountFormat, levelInitial, dateTime, account, message)
		journalVars["ACCOUNT"] = account
		journalMessage = fmt.Sprintf(journalAccountFormat, account, message)
	} else {
		fmt.Fprintf(logger.writer, logFormat, levelInitial, dateTime, message)
		journalMessage = message
	}

	if logger.journalEnabled {
		journal.Send(journalMessage, level.priority(), journalVars)
	}
}

func Fatal(args ...interface{})                 { log(FATAL, "", "", "", args...) }
func Fatalf(format string, args ...interface{}) { log(FATAL, "", "", format, args...) }
func FatalPrinter(printerID string, args ...interface{}) {
	log(FATAL, printerID, "", "", args...)
}
func FatalPrinterf(printerID, format string, args ...interface{}) {
	log(FATAL, printerID, "", format, args...)
}

func Error(args ...interface{})                 { log(ERROR, "", "", "", args...) }
func Errorf(format string, args ...interface{}) { log(ERROR, "", "", format, args...) }
func ErrorPrinter(printerID string, args ...interface{}) {
	log(ERROR, printerID, "", "", args...)
}
func ErrorPrinterf(printerID, format string, args ...interface{}) {
	log(ERROR, printerID, "", format, args...)
}
func ErrorAccountf(account, format string, args ...interface{}) {
	log(ERROR, "", account, format, args...)
}

func Warning(args ...interface{})                 { log(WARNING, "", "", "", args...) }
func Warningf(format string, args ...interface{}) { log(WARNING, "", "", format, args...) }
func WarningPrinter(printerID string, args ...interface{}) {
	log(WARNING, printerID, "", "", args...)
}
func WarningPrinterf(printerID, format string, args ...interface{}) {
	log(WARNING, printerID, "", format, args...)
}
func WarningAccountf(account, format string, args ...interface{}) {
	log(WARNING, "", account, format, args...)
}

func Info(args ...interface{})                 { log(INFO, "", "", "", args...) }
func Infof(format string, args ...interface{}) { log(INFO, "", "", format, args...) }
func InfoPrinter(printerID string, args ...interface{}) {
	log(INFO, printerID, "", "", args...)
}
func InfoPrinterf(printerID, format string, args ...interface{}) {
	log(INFO, printerID, "", format, args...)
}
func InfoAccountf(account, format string, args ...interface{}) {
	log(INFO, "", account, format, args...)
}

func Debug(args ...interface{})                 { log(DEBUG, "", "", "", args...) }
func Debugf(format string, args ...interface{}) { log(DEBUG, "", "", format, args...) }
func DebugPrinter(printerID string, args ...interface{}) {
	log(DEBUG, printerID, "", "", args...)
}
func DebugPrinterf(printerID, format string, args ...interface{}) {
	log(DEBUG, printerID, "", format, args...)
}
func DebugAccountf(account, format string, args ...interface{}) {
	log(DEBUG, "", account, format, args...)
}
