// Package main is the loadable dummy plugin: a thin ABI adapter over
// internal/export/dummy, useful for exercising the pipeline end to end
// without a real output format.
package main

import (
	"github.com/tstih/snatch/internal/export/dummy"
	"github.com/tstih/snatch/internal/pluginapi"
)

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "dummy",
		Description: "Debug/testing exporter plugin that writes diagnostic text",
		Author:      "snatch project",
		Format:      "txt",
		Standard:    "diagnostic",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExporter,
		Export:      dummy.Export,
	}, nil
}
