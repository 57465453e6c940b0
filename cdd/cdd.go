/*
Copyright 2015 the CUPS Cloud Print authors. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

// Package cdd models the printer and capability objects published by the
// Google Cloud Print interfaces, in the legacy PPD-style capability
// format that /search and /printer return.
package cdd

// Option is one selectable value of a capability. Its position among the
// sibling options matters: internal choice names are derived in list
// order (see lib.GetInternalOptionName).
type Option struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	IsDefault   bool   `json:"default,omitempty"`
}

// Capability is one named axis of printer configuration, e.g. "Duplex".
type Capability struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName,omitempty"`
	Type        string   `json:"type,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// Printer describes a cloud printer. /search returns it without
// Capabilities; /printer fills everything in.
type Printer struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	DefaultDisplayName string       `json:"defaultDisplayName,omitempty"`
	DisplayName        string       `json:"displayName,omitempty"`
	Description        string       `json:"description,omitempty"`
	Status             string       `json:"status,omitempty"`
	CapsFormat         string       `json:"capsFormat,omitempty"`
	Capabilities       []Capability `json:"capabilities,omitempty"`
}

// CapabilityPayload is the capability selection submitted with a print
// job, built by merging job options with the printer's published
// capabilities.
type CapabilityPayload struct {
	Capabilities []CapabilityChoice `json:"capabilities"`
}

type CapabilityChoice struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}
