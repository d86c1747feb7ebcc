// Package main is the loadable png_grid plugin: a thin ABI adapter over
// internal/export/pnggrid.
package main

import (
	"github.com/tstih/snatch/internal/export/pnggrid"
	"github.com/tstih/snatch/internal/pluginapi"
)

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "png_grid",
		Description: "Exports bitmap glyphs into a PNG grid",
		Author:      "snatch project",
		Format:      "png",
		Standard:    "png-grid",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExporter,
		Export:      pnggrid.Export,
	}, nil
}
