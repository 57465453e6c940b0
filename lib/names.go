/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package lib

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

// PPD keywords that a capability name must never shadow. A GCP capability
// named "Duplex" would otherwise collide with the Duplex main keyword and
// corrupt the generated PPD.
var reservedCapabilityWords = map[string]struct{}{
	"Duplex": {}, "Resolution": {}, "Attribute": {}, "Choice": {},
	"ColorDevice": {}, "ColorModel": {}, "ColorProfile": {}, "Copyright": {},
	"CustomMedia": {}, "Cutter": {}, "Darkness": {}, "DriverType": {},
	"FileName": {}, "Filter": {}, "Finishing": {}, "Font": {}, "Group": {},
	"HWMargins": {}, "InputSlot": {}, "Installable": {}, "LocAttribute": {},
	"ManualCopies": {}, "Manufacturer": {}, "MaxSize": {}, "MediaSize": {},
	"MediaType": {}, "MinSize": {}, "ModelName": {}, "ModelNumber": {},
	"Option": {}, "PCFileName": {}, "SimpleColorProfile": {}, "Throughput": {},
	"UIConstraints": {}, "VariablePaperSize": {}, "Version": {}, "Color": {},
	"Background": {}, "Stamp": {}, "DestinationColorProfile": {},
}

// PPD main keywords are limited to 40 characters; stay well under so that
// a "Default" prefix and a collision suffix still fit.
const internalNameMaxLength = 30

var rNotAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// GetInternalCapabilityName derives a PPD-safe keyword from a GCP
// capability name. The result never matches a reserved PPD keyword.
//
// There is no reverse table anywhere: callers recover the original name by
// re-deriving over the live capability list and comparing. The derivation
// is therefore a pure function of its input and must stay that way.
func GetInternalCapabilityName(name string) string {
	internal := sanitizeName(name)
	if internal == "" {
		return hashName("", name)
	}
	if _, reserved := reservedCapabilityWords[internal]; reserved {
		return hashName("", name)
	}
	return internal
}

// GetInternalOptionName derives a PPD-safe choice name for one option of
// the named capability, distinct from every name in used. Callers encoding
// a whole option list must pass the names produced so far, in order;
// repeated runs over the same list then reproduce the same assignment.
func GetInternalOptionName(name, capability string, used []string) string {
	base := sanitizeName(name)
	if base == "" {
		base = hashName(capability, name)
	}
	internal := base
	for suffix := 2; containsString(used, internal); suffix++ {
		internal = base + strconv.Itoa(suffix)
	}
	return internal
}

func sanitizeName(name string) string {
	s := rNotAlphanumeric.ReplaceAllString(name, "")
	if len(s) > internalNameMaxLength {
		s = s[:internalNameMaxLength]
	}
	return s
}

// hashName names the unnameable: empty after sanitization, or shadowing a
// reserved keyword. The GCP prefix keeps it out of the reserved set, which
// contains no words starting with GCP.
func hashName(capability, name string) string {
	sum := sha1.Sum([]byte(capability + ":" + name))
	return "GCP" + strings.ToUpper(hex.EncodeToString(sum[:4]))
}
