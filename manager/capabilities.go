/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

package manager

import (
	"strings"

	"github.com/akayami/cups-cloud-print/cdd"
	"github.com/akayami/cups-cloud-print/cups"
	"github.com/akayami/cups-cloud-print/lib"
)

// Job option keys that may not be overridden directly; Orientation is
// only settable through the landscape flags below.
var ignoredOverrides = map[string]struct{}{
	"Orientation": {},
}

// GetOverrideCapabilities parses a CUPS job option string into
// capability overrides. key=value tokens become overrides; the
// landscape and nolandscape flags both set Orientation to Landscape
// (historical behavior, preserved as-is; see the capabilities tests).
// Unrecognized tokens are ignored. Later tokens win.
func GetOverrideCapabilities(options string) map[string]string {
	overrides := map[string]string{}

	for _, token := range strings.Fields(options) {
		if strings.Contains(token, "=") {
			parts := strings.Split(token, "=")
			if _, ignored := ignoredOverrides[parts[0]]; ignored {
				continue
			}
			overrides[parts[0]] = parts[1]
		}

		if token == "landscape" || token == "nolandscape" {
			overrides["Orientation"] = "Landscape"
		}
	}

	return overrides
}

// GetCapabilityPayload reverses the name mangling that produced the PPD:
// every DefaultX attribute is matched back to the capability whose
// internal name is X, the attribute's value back to one of its options,
// and overrides replace the attribute-derived selection. Internal names
// are re-derived from the live capability list on every call; nothing is
// looked up in stored state. Attributes that match no capability, and
// values that match no option, are skipped silently.
func GetCapabilityPayload(attrs []cups.Attribute, capabilities []cdd.Capability, overrides map[string]string) *cdd.CapabilityPayload {
	payload := &cdd.CapabilityPayload{Capabilities: []cdd.CapabilityChoice{}}

	for _, attr := range attrs {
		if !strings.HasPrefix(attr.Name, "Default") {
			continue
		}
		hashName := strings.TrimPrefix(attr.Name, "Default")

		var gcpName, gcpOption string
		for _, capability := range capabilities {
			if hashName != lib.GetInternalCapabilityName(capability.Name) {
				continue
			}
			gcpName = capability.Name

			used := []string{}
			for _, option := range capability.Options {
				internal := lib.GetInternalOptionName(option.Name, gcpName, used)
				used = append(used, internal)
				if attr.Value == internal {
					gcpOption = option.Name
					break
				}
			}

			// An override for this capability beats the driver default.
			for override, selected := range overrides {
				if "Default"+override != attr.Name {
					continue
				}
				usedOptions := []string{}
				for _, option := range capability.Options {
					internal := lib.GetInternalOptionName(option.Name, gcpName, usedOptions)
					usedOptions = append(usedOptions, internal)
					if selected == internal {
						gcpOption = option.Name
						break
					}
				}
				break
			}
			break
		}

		if gcpName != "" && gcpOption != "" {
			payload.Capabilities = append(payload.Capabilities, cdd.CapabilityChoice{
				Type:    "Feature",
				Name:    gcpName,
				Options: []cdd.Option{{Name: gcpOption}},
			})
		}
	}

	return payload
}
