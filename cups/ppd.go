/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package cups

import (
	"bufio"
	"io"
	"strings"
)

// ParseDefaultAttributes extracts the Default* statements from a PPD,
// in file order. These are the driver's current selections, e.g.
//
//	*DefaultPaperSize: A4
//
// becomes {Name: "DefaultPaperSize", Value: "A4"}. Everything else in
// the PPD is ignored; the capability merger only needs the defaults.
func ParseDefaultAttributes(r io.Reader) ([]Attribute, error) {
	var attrs []Attribute

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "*Default") {
			continue
		}
		key, value, found := strings.Cut(line[1:], ":")
		if !found {
			continue
		}
		// Keys never carry translations, but strip an option suffix
		// ("*DefaultResolution/dpi: 600dpi") just in case.
		key, _, _ = strings.Cut(key, "/")
		attrs = append(attrs, Attribute{
			Name:  strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return attrs, nil
}
