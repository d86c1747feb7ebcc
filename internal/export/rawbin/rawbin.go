// Package rawbin implements the raw byte exporter (C8): a recognized
// Partner stream is written verbatim, otherwise every glyph's raw rows
// in the codepoint range are concatenated.
package rawbin

import (
	"os"

	"github.com/tstih/snatch/internal/export"
	"github.com/tstih/snatch/internal/pluginapi"
)

const (
	ErrMissingOutput  = 11
	ErrMissingBitmaps = 10
	ErrInvalidRange   = 12
	ErrCannotOpen     = 13
	ErrWriteFailed    = 14
)

// Export writes font's byte source (a recognized transformer stream, or
// raw glyph rows) to outputPath.
func Export(font *pluginapi.Font, outputPath string, opts pluginapi.Options) error {
	if outputPath == "" {
		return pluginapi.NewStageError(ErrMissingOutput, "raw_bin: output path is empty")
	}

	packed := export.RecognizedStream(font)
	if packed == nil {
		if font == nil || font.Bitmaps == nil || font.Bitmaps.Glyphs == nil {
			return pluginapi.NewStageError(ErrMissingBitmaps, "raw_bin: bitmap font data missing")
		}
		if font.First < 0 || font.Last < font.First || font.Last > 0x10FFFF {
			return pluginapi.NewStageError(ErrInvalidRange, "raw_bin: invalid codepoint range")
		}
		packed = export.PackRawRows(font.Bitmaps, font.First, font.Last)
	}

	if err := os.WriteFile(outputPath, packed, 0o644); err != nil {
		return pluginapi.NewStageError(ErrCannotOpen, "raw_bin: cannot open output file: %v", err)
	}
	return nil
}
