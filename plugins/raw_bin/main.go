// Package main is the loadable raw_bin plugin: a thin ABI adapter over
// internal/export/rawbin.
package main

import (
	"github.com/tstih/snatch/internal/export/rawbin"
	"github.com/tstih/snatch/internal/pluginapi"
)

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "raw_bin",
		Description: "Exports continuous raw glyph bitmap bytes (.bin)",
		Author:      "snatch project",
		Format:      "bin",
		Standard:    "raw-1bpp",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExporter,
		Export:      rawbin.Export,
	}, nil
}
