// Package main is the loadable partner_tiny_bin_extractor plugin: it
// loads a previously-serialized Partner Tiny stream file back into
// Font.UserData for a later raster transform, without interpreting any
// of the bytes itself.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tstih/snatch/internal/codec/partnertinybin"
	"github.com/tstih/snatch/internal/pluginapi"
)

func extractTinyBin(inputPath string, _ pluginapi.Options) (*pluginapi.Font, error) {
	if inputPath == "" {
		return nil, pluginapi.NewStageError(10, "partner_tiny_bin_extractor: input path is empty")
	}

	bytes, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, pluginapi.NewStageError(12, "partner_tiny_bin_extractor: cannot open input file: %v", err)
	}
	if len(bytes) == 0 {
		return nil, pluginapi.NewStageError(13, "partner_tiny_bin_extractor: input file is empty")
	}

	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if name == "" {
		name = "partner_tiny_bin"
	}

	return &pluginapi.Font{
		Name: name,
		UserData: &partnertinybin.Data{
			Magic:   partnertinybin.Magic,
			Version: partnertinybin.Version,
			Bytes:   bytes,
		},
	}, nil
}

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "partner_tiny_bin_extractor",
		Description: "Loads Partner Tiny binary stream into user_data for raster transform",
		Author:      "snatch project",
		Format:      "bin",
		Standard:    "partner-tiny",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExtractor,
		Extract:     extractTinyBin,
	}, nil
}
