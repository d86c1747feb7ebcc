// Package main is the loadable partner_tiny_raster_transform plugin: a
// thin ABI adapter over internal/codec/partnertiny's decoder, consuming
// the raw bytes a partner_tiny_bin_extractor stage attached to
// Font.UserData and rebuilding Font.Bitmaps from them.
package main

import (
	"github.com/tstih/snatch/internal/codec/partnertinybin"
	"github.com/tstih/snatch/internal/codec/partnertiny"
	"github.com/tstih/snatch/internal/pluginapi"
)

func transform(font *pluginapi.Font, _ pluginapi.Options) error {
	if font == nil || font.UserData == nil {
		return pluginapi.NewStageError(30, "partner_tiny_raster_transform: missing input user_data")
	}
	bin, ok := font.UserData.(*partnertinybin.Data)
	if !ok || bin.Magic != partnertinybin.Magic || bin.Version != partnertinybin.Version || len(bin.Bytes) < 5 {
		return pluginapi.NewStageError(31, "partner_tiny_raster_transform: invalid partner tiny bin payload")
	}

	bf, err := partnertiny.DecodeFont(bin.Bytes)
	if err != nil {
		return err
	}

	font.Bitmaps = bf
	font.First = bf.First
	font.Last = bf.Last
	font.PixelSize = 0
	return nil
}

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "partner_tiny_raster_transform",
		Description: "Interprets Partner Tiny binary stream and rebuilds bitmap glyphs",
		Author:      "snatch project",
		Format:      "bin",
		Standard:    "partner-tiny-raster",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindTransformer,
		Transform:   transform,
	}, nil
}
