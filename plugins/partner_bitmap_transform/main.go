// Package main is the loadable partner_bitmap_transform plugin: a thin
// ABI adapter over internal/codec/partnerbitmap.
package main

import (
	"github.com/tstih/snatch/internal/codec/partnerbitmap"
	"github.com/tstih/snatch/internal/pluginapi"
)

func transform(font *pluginapi.Font, opts pluginapi.Options) error {
	if font == nil || font.Bitmaps == nil {
		return pluginapi.NewStageError(30, "partner_bitmap_transform: bitmap font data missing")
	}
	data, err := partnerbitmap.Encode(font.Bitmaps, font.First, font.Last, opts)
	if err != nil {
		return err
	}
	font.UserData = data
	return nil
}

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "partner_bitmap_transform",
		Description: "Serializes bitmap glyphs to Partner binary stream in font->user_data",
		Author:      "snatch project",
		Format:      "bitmap",
		Standard:    "partner-b",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindTransformer,
		Transform:   transform,
	}, nil
}
