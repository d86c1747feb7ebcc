// Package main is the loadable partner_sdcc_asm_tiny plugin: a thin ABI
// adapter over internal/export/asmtiny.
package main

import (
	"github.com/tstih/snatch/internal/export/asmtiny"
	"github.com/tstih/snatch/internal/pluginapi"
)

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "partner_sdcc_asm_tiny",
		Description: "Exports Partner Tiny-vector font assembly (.db/.dw); requires partner_tiny_transform",
		Author:      "snatch project",
		Format:      "asm",
		Standard:    "partner-sdcc-asm-tiny",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExporter,
		Export:      asmtiny.Export,
	}, nil
}
