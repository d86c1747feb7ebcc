// Package rawc implements the C-array exporter (C8): the same byte
// source as rawbin, wrapped in a `const uint8_t sym[] = { ... };`
// declaration.
package rawc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tstih/snatch/internal/export"
	"github.com/tstih/snatch/internal/pluginapi"
)

const (
	ErrMissingBitmaps  = 10
	ErrMissingOutput   = 11
	ErrInvalidRowBytes = 12
	ErrInvalidRows     = 13
	ErrInvalidLineLen  = 14
	ErrInvalidRange    = 15
	ErrCannotOpen      = 16
	ErrWriteFailed     = 17
)

func sanitizeIdent(value string) string {
	if value == "" {
		return "font"
	}
	b := []byte(value)
	for i, c := range b {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			b[i] = '_'
		}
	}
	first := b[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z' || first == '_') {
		b = append([]byte{'_'}, b...)
	}
	return string(b)
}

func parsePositiveInt(opts pluginapi.Options, key string, fallback, max int) (int, error) {
	raw, ok := opts.Get(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := pluginapi.ParseInt(raw)
	if err != nil || v <= 0 || v > max {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

// Export writes font's byte source to outputPath as a C array declaration.
func Export(font *pluginapi.Font, outputPath string, opts pluginapi.Options) error {
	if outputPath == "" {
		return pluginapi.NewStageError(ErrMissingOutput, "raw_c: output path is empty")
	}

	bytesPerLine, err := parsePositiveInt(opts, "bytes_per_line", 8, 1024)
	if err != nil {
		return pluginapi.NewStageError(ErrInvalidLineLen, "raw_c: bytes_per_line must be in range 1..1024")
	}

	packed := export.RecognizedStream(font)
	if packed == nil {
		if font == nil || font.Bitmaps == nil || font.Bitmaps.Glyphs == nil {
			return pluginapi.NewStageError(ErrMissingBitmaps, "raw_c: bitmap font data missing")
		}

		defaultRowBytes := 1
		defaultRows := 1
		if maxW, maxH := font.Bitmaps.MaxDimensions(); maxW > 0 || maxH > 0 {
			if maxW > 0 {
				defaultRowBytes = (maxW + 7) / 8
			}
			if maxH > 0 {
				defaultRows = maxH
			}
		}
		bytesPerRow, err := parsePositiveInt(opts, "bytes_per_row", defaultRowBytes, 1024)
		if err != nil {
			return pluginapi.NewStageError(ErrInvalidRowBytes, "raw_c: bytes_per_row must be in range 1..1024")
		}
		rows, err := parsePositiveInt(opts, "rows", defaultRows, 1024)
		if err != nil {
			return pluginapi.NewStageError(ErrInvalidRows, "raw_c: rows must be in range 1..1024")
		}
		if font.First < 0 || font.Last < font.First || font.Last > 0x10FFFF {
			return pluginapi.NewStageError(ErrInvalidRange, "raw_c: invalid codepoint range")
		}

		glyphCount := font.Last - font.First + 1
		glyphBytes := bytesPerRow * rows
		packed = make([]byte, glyphCount*glyphBytes)
		maxWidthBits := bytesPerRow * 8

		for cp := font.First; cp <= font.Last; cp++ {
			glyphIndex := cp - font.First
			glyphBase := glyphIndex * glyphBytes
			g, ok := font.Bitmaps.Glyphs[rune(cp)]
			if !ok || g.Data == nil || g.Stride <= 0 {
				continue
			}
			rowsToCopy := rows
			if g.Height < rowsToCopy {
				rowsToCopy = g.Height
			}
			colsToCopy := maxWidthBits
			if g.Width < colsToCopy {
				colsToCopy = g.Width
			}
			for y := 0; y < rowsToCopy; y++ {
				srcRow := g.Data[y*g.Stride:]
				dstRow := packed[glyphBase+y*bytesPerRow:]
				for x := 0; x < colsToCopy; x++ {
					byteIndex := x / 8
					bitIndex := 7 - (x % 8)
					if srcRow[byteIndex]&(1<<uint(bitIndex)) == 0 {
						continue
					}
					dstRow[byteIndex] |= 1 << uint(bitIndex)
				}
			}
		}
	}

	stem := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	symbol := sanitizeIdent(stem)
	if v, ok := opts.Get("symbol"); ok && v != "" {
		symbol = sanitizeIdent(v)
	}

	includeStdint := pluginapi.ParseBool(opts.GetDefault("include_stdint", ""), true)
	hexPrefix := pluginapi.ParseBool(opts.GetDefault("hex_prefix", ""), true)
	uppercaseHex := pluginapi.ParseBool(opts.GetDefault("uppercase_hex", ""), false)

	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s\n", filepath.Base(outputPath))
	sb.WriteString("// .bin raw binary rendered as C array.\n//\n")
	fmt.Fprintf(&sb, "// Format is .bin, size (in bytes) is %d.\n", len(packed))
	if includeStdint {
		sb.WriteString("#include <stdint.h>\n\n")
	}
	fmt.Fprintf(&sb, "const uint8_t %s[] = {\n", symbol)

	for i, b := range packed {
		if i%bytesPerLine == 0 {
			sb.WriteString("    ")
		}
		if hexPrefix {
			sb.WriteString("0x")
		}
		hex := strconv.FormatUint(uint64(b), 16)
		if len(hex) < 2 {
			hex = "0" + hex
		}
		if uppercaseHex {
			hex = strings.ToUpper(hex)
		}
		sb.WriteString(hex)
		if i+1 < len(packed) {
			sb.WriteString(", ")
		}
		if (i+1)%bytesPerLine == 0 {
			sb.WriteString("\n")
		}
	}
	if len(packed)%bytesPerLine != 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("};\n")

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o644); err != nil {
		return pluginapi.NewStageError(ErrCannotOpen, "raw_c: cannot open output file: %v", err)
	}
	return nil
}
