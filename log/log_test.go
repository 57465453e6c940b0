/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T, level LogLevel) *bytes.Buffer {
	var buf bytes.Buffer
	SetWriter(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetWriter(os.Stderr)
		SetLevel(INFO)
	})
	return &buf
}

func TestLogLineFormats(t *testing.T) {
	buf := capture(t, DEBUG)

	Infof("hello %d", 42)
	ErrorPrinterf("printer123", "broken: %s", "offline")
	WarningAccountf("alice@example.com", "skipping")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "I [") || !strings.HasSuffix(lines[0], "] hello 42") {
		t.Errorf("unexpected info line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "E [") || !strings.Contains(lines[1], "[Printer printer123] broken: offline") {
		t.Errorf("unexpected printer line %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "W [") || !strings.Contains(lines[2], "[Account alice@example.com] skipping") {
		t.Errorf("unexpected account line %q", lines[2])
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := capture(t, WARNING)

	Debugf("too quiet")
	InfoAccountf("alice@example.com", "also too quiet")
	ErrorAccountf("alice@example.com", "loud enough")

	if strings.Contains(buf.String(), "quiet") {
		t.Errorf("lines below the level were logged: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[Account alice@example.com] loud enough") {
		t.Errorf("error line missing: %q", buf.String())
	}
}

func TestLevelFromString(t *testing.T) {
	if level, ok := LevelFromString("DEBUG"); !ok || level != DEBUG {
		t.Errorf("expected DEBUG, got %v %v", level, ok)
	}
	if _, ok := LevelFromString("verbose"); ok {
		t.Error("expected an unknown level name to be rejected")
	}
}
