// Package main is the loadable partner_sdcc_asm_bitmap plugin: a thin
// ABI adapter over internal/export/asmbitmap.
package main

import (
	"github.com/tstih/snatch/internal/export/asmbitmap"
	"github.com/tstih/snatch/internal/pluginapi"
)

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "partner_sdcc_asm_bitmap",
		Description: "Exports Partner-style bitmap assembly with per-row binary bytes (.db 0bxxxxxxxx)",
		Author:      "snatch project",
		Format:      "asm",
		Standard:    "partner-sdcc-asm-bitmap",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExporter,
		Export:      asmbitmap.Export,
	}, nil
}
