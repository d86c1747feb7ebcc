// Package main is the loadable raw_c plugin: a thin ABI adapter over
// internal/export/rawc.
package main

import (
	"github.com/tstih/snatch/internal/export/rawc"
	"github.com/tstih/snatch/internal/pluginapi"
)

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "raw_c",
		Description: "Exports raw bytes as a C uint8_t array (raw bitmap or transformer-provided stream)",
		Author:      "snatch project",
		Format:      "c",
		Standard:    "raw-1bpp",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExporter,
		Export:      rawc.Export,
	}, nil
}
