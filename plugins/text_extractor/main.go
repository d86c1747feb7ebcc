// Package main is the loadable text_extractor plugin: a thin ABI
// adapter over internal/textart, reading a text-art font dump ("<rune>
// [pixels]" rows per glyph, adapted from the teacher's own fontgen text
// format) into a pipeline Font value. No exporter in this tree currently
// writes that row format back out, so this is a read-only adapter for
// hand-authored or externally produced dumps, not a round-trip pair.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tstih/snatch/internal/pluginapi"
	"github.com/tstih/snatch/internal/textart"
)

func extractText(inputPath string, _ pluginapi.Options) (*pluginapi.Font, error) {
	if inputPath == "" {
		return nil, pluginapi.NewStageError(10, "text_extractor: input path is empty")
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, pluginapi.NewStageError(12, "text_extractor: cannot read input file: %v", err)
	}
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return textart.ExtractFont(data, name)
}

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "text_extractor",
		Description: "Extracts bitmap glyphs from a plain-text ASCII-art font dump",
		Author:      "snatch project",
		Format:      "txt",
		Standard:    "extractor",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExtractor,
		Extract:     extractText,
	}, nil
}
