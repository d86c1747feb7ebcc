// Package main is the loadable ttf_extractor plugin: a thin ABI adapter
// over internal/rasterfont.
package main

import (
	"fmt"
	"os"

	"github.com/tstih/snatch/internal/pluginapi"
	"github.com/tstih/snatch/internal/rasterfont"
)

func parseIntOpt(opts pluginapi.Options, key string, fallback int) (int, error) {
	raw, ok := opts.Get(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	return pluginapi.ParseInt(raw)
}

func parseProportional(opts pluginapi.Options, fallback bool) (bool, error) {
	if mode, ok := opts.Get("font_mode"); ok && mode != "" {
		switch mode {
		case "fixed":
			return false, nil
		case "proportional":
			return true, nil
		default:
			return false, fmt.Errorf("ttf_extractor: font_mode must be fixed|proportional")
		}
	}
	return pluginapi.ParseBool(opts.GetDefault("proportional", ""), fallback), nil
}

func extractTTF(inputPath string, opts pluginapi.Options) (*pluginapi.Font, error) {
	if inputPath == "" {
		return nil, pluginapi.NewStageError(10, "ttf_extractor: input path is empty")
	}

	var err error
	opt := rasterfont.Options{First: -1, Last: -1}
	if opt.First, err = parseIntOpt(opts, "first_ascii", opt.First); err != nil {
		return nil, pluginapi.NewStageError(12, "ttf_extractor: invalid first_ascii: %v", err)
	}
	if opt.Last, err = parseIntOpt(opts, "last_ascii", opt.Last); err != nil {
		return nil, pluginapi.NewStageError(12, "ttf_extractor: invalid last_ascii: %v", err)
	}
	if opt.PixelSize, err = parseIntOpt(opts, "font_size", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "ttf_extractor: invalid font_size: %v", err)
	}
	if opt.Proportional, err = parseProportional(opts, false); err != nil {
		return nil, pluginapi.NewStageError(12, "%v", err)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, pluginapi.NewStageError(13, "ttf_extractor: cannot read input file: %v", err)
	}

	font, err := rasterfont.ExtractFont(data, opt)
	if err != nil {
		return nil, pluginapi.NewStageError(13, "%v", err)
	}
	return font, nil
}

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "ttf_extractor",
		Description: "Extracts bitmap glyphs from TTF input",
		Author:      "snatch project",
		Format:      "ttf",
		Standard:    "extractor",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExtractor,
		Extract:     extractTTF,
	}, nil
}
