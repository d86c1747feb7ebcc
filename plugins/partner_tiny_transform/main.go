// Package main is the loadable partner_tiny_transform plugin: a thin
// ABI adapter over internal/codec/partnertiny's encoder.
package main

import (
	"github.com/tstih/snatch/internal/codec/partnertiny"
	"github.com/tstih/snatch/internal/pluginapi"
)

func transform(font *pluginapi.Font, opts pluginapi.Options) error {
	if font == nil || font.Bitmaps == nil {
		return pluginapi.NewStageError(30, "partner_tiny_transform: bitmap font data missing")
	}
	optimize := pluginapi.ParseBool(opts.GetDefault("optimize", ""), true)

	maxW, maxH := font.Bitmaps.MaxDimensions()
	data, err := partnertiny.EncodeFont(font.Bitmaps, font.First, font.Last, maxW, maxH, optimize)
	if err != nil {
		return err
	}
	font.UserData = data
	return nil
}

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "partner_tiny_transform",
		Description: "Vectorizes bitmap glyphs into Partner Tiny move streams (font->user_data)",
		Author:      "snatch project",
		Format:      "bitmap",
		Standard:    "partner-tiny",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindTransformer,
		Transform:   transform,
	}, nil
}
