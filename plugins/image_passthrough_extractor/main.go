// Package main is the loadable image_passthrough_extractor plugin: it
// loads a whole image as an 8-bit grayscale buffer with no glyph
// chopping, tagging the result in Font.UserData for a later transform
// (such as dithering) to turn into real glyph bitmaps.
package main

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/tstih/snatch/internal/codec/imagepassthrough"
	"github.com/tstih/snatch/internal/pluginapi"
)

func extractImagePassthrough(inputPath string, _ pluginapi.Options) (*pluginapi.Font, error) {
	if inputPath == "" {
		return nil, pluginapi.NewStageError(10, "image_passthrough_extractor: input path is empty")
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, pluginapi.NewStageError(12, "image_passthrough_extractor: failed to load image: %v", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, pluginapi.NewStageError(12, "image_passthrough_extractor: failed to load image: %v", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			gray := (299*int(r>>8) + 587*int(g>>8) + 114*int(b>>8)) / 1000
			pixels[y*width+x] = byte(gray)
		}
	}

	return &pluginapi.Font{
		Name:      "image-passthrough",
		PixelSize: 0,
		First:     0,
		Last:      0,
		Bitmaps:   nil,
		UserData: &imagepassthrough.Data{
			Magic:   imagepassthrough.Magic,
			Version: imagepassthrough.Version,
			Width:   width,
			Height:  height,
			Stride:  width,
			Pixels:  pixels,
		},
	}, nil
}

// SnatchPluginGet is the plugin's entry point symbol.
func SnatchPluginGet() (*pluginapi.Metadata, error) {
	return &pluginapi.Metadata{
		Name:        "image_passthrough_extractor",
		Description: "Loads image as grayscale passthrough data in user_data",
		Author:      "snatch project",
		Format:      "image",
		Standard:    "passthrough-gray8",
		ABIVersion:  pluginapi.ABIVersion,
		Kind:        pluginapi.KindExtractor,
		Extract:     extractImagePassthrough,
	}, nil
}
