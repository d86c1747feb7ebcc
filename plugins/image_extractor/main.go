// Package main is the loadable image_extractor plugin: a thin ABI
// adapter over internal/sheetimage, flattening its Options struct into
// the flat key/value option surface every plugin parses the same way.
package main

import (
	"fmt"

	"github.com/tstih/snatch/internal/pluginapi"
	"github.com/tstih/snatch/internal/sheetimage"
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
			return false, fmt.Errorf("image_extractor: font_mode must be fixed|proportional")
		}
	}
	return pluginapi.ParseBool(opts.GetDefault("proportional", ""), fallback), nil
}

func parseColorOpt(opts pluginapi.Options, key string, fallback sheetimage.Color) (sheetimage.Color, error) {
	raw, ok := opts.Get(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	r, g, b, err := pluginapi.ParseHexRGB(raw)
	if err != nil {
		return fallback, fmt.Errorf("image_extractor: invalid %s; expected #RRGGBB", key)
	}
	return sheetimage.Color{R: r, G: g, B: b}, nil
}

func extractImage(inputPath string, opts pluginapi.Options) (*pluginapi.Font, error) {
	if inputPath == "" {
		return nil, pluginapi.NewStageError(10, "image_extractor: input path is empty")
	}

	var err error
	opt := sheetimage.Options{
		First:     -1,
		Last:      -1,
		ForeColor: sheetimage.Color{R: 0, G: 0, B: 0},
		BackColor: sheetimage.Color{R: 255, G: 255, B: 255},
	}

	if opt.Columns, err = parseIntOpt(opts, "columns", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid columns: %v", err)
	}
	if opt.Rows, err = parseIntOpt(opts, "rows", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid rows: %v", err)
	}
	if opt.First, err = parseIntOpt(opts, "first_ascii", opt.First); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid first_ascii: %v", err)
	}
	if opt.Last, err = parseIntOpt(opts, "last_ascii", opt.Last); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid last_ascii: %v", err)
	}

	if opt.Margins.Left, err = parseIntOpt(opts, "margins_left", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid margins_left: %v", err)
	}
	if opt.Margins.Top, err = parseIntOpt(opts, "margins_top", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid margins_top: %v", err)
	}
	if opt.Margins.Right, err = parseIntOpt(opts, "margins_right", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid margins_right: %v", err)
	}
	if opt.Margins.Bottom, err = parseIntOpt(opts, "margins_bottom", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid margins_bottom: %v", err)
	}

	if opt.Padding.Left, err = parseIntOpt(opts, "padding_left", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid padding_left: %v", err)
	}
	if opt.Padding.Top, err = parseIntOpt(opts, "padding_top", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid padding_top: %v", err)
	}
	if opt.Padding.Right, err = parseIntOpt(opts, "padding_right", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid padding_right: %v", err)
	}
	if opt.Padding.Bottom, err = parseIntOpt(opts, "padding_bottom", 0); err != nil {
		return nil, pluginapi.NewStageError(12, "image_extractor: invalid padding_bottom: %v", err)
	}

	opt.Inverse = pluginapi.ParseBool(opts.GetDefault("inverse", ""), false)
	if opt.Proportional, err = parseProportional(opts, false); err != nil {
		return nil, pluginapi.NewStageError(12, "%v", err)
	}

	if opt.ForeColor, err = parseColorOpt(opts, "fore_color", opt.ForeColor); err != nil {
		return nil, pluginapi.NewStageError(13, "%v", err)
	}
	if opt.BackColor, err = parseColorOpt(opts, "back_color", opt.BackColor); err != nil {
		return nil, pluginapi.NewStageError(14, "%v", err)
	}
	if raw, ok := opts.Get("transparent_color"); ok && raw != "" {
		if opt.TransparentColor, err = parseColorOpt(opts, "transparent_color", opt.TransparentColor); err != nil {
			return nil, pluginapi.NewStageError(15, "%v", err)
		}
		opt.HasTransparent = true
	}

	font, err := sheetimage.ExtractFontFromFile(inputPath, opt)
	if err != nil {
		return nil, pluginapi.NewStageError(16, "image_extractor: %v", err)
	}
	return font, nil
}

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "image_extractor",
		Description: "Extracts bitmap glyphs from image sheets",
		Author:      "snatch project",
		Format:      "image",
		Standard:    "extractor",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExtractor,
		Extract:     extractImage,
	}, nil
}
