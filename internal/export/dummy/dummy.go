// Package dummy implements a minimal diagnostic exporter that writes a
// flat key=value text file describing the font value and its options,
// useful for exercising the pipeline without a real output format.
package dummy

import (
	"fmt"
	"os"
	"strings"

	"github.com/tstih/snatch/internal/pluginapi"
)

const (
	ErrMissingFont   = 10
	ErrMissingOutput = 11
	ErrCannotOpen    = 12
)

// Export writes a diagnostic dump of font to outputPath.
func Export(font *pluginapi.Font, outputPath string, opts pluginapi.Options) error {
	if font == nil {
		return pluginapi.NewStageError(ErrMissingFont, "dummy: font is null")
	}
	if outputPath == "" {
		return pluginapi.NewStageError(ErrMissingOutput, "dummy: output path is empty")
	}

	var sb strings.Builder
	fmt.Fprintln(&sb, "plugin=dummy")
	name := font.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&sb, "name=%s\n", name)
	maxW, maxH := 0, 0
	if font.Bitmaps != nil {
		maxW, maxH = font.Bitmaps.MaxDimensions()
	}
	fmt.Fprintf(&sb, "glyph_width=%d\n", maxW)
	fmt.Fprintf(&sb, "glyph_height=%d\n", maxH)
	fmt.Fprintf(&sb, "options_count=%d\n", len(opts))
	for i, kv := range opts {
		fmt.Fprintf(&sb, "option[%d]=%s:%s\n", i, kv.Key, kv.Value)
	}

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o644); err != nil {
		return pluginapi.NewStageError(ErrCannotOpen, "dummy: cannot open output file: %v", err)
	}
	return nil
}
