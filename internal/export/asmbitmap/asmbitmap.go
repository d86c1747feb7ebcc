// Package asmbitmap implements the Partner Bitmap SDCC assembly exporter:
// it renders a bitmap font's baseline-aligned glyph cells as per-row
// binary .db directives instead of a packed binary blob.
package asmbitmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tstih/snatch/internal/pluginapi"
)

const glyphClassBitmap = 0

const (
	ErrMissingBitmapFont  = 10
	ErrMissingOutput      = 11
	ErrInvalidRange       = 12
	ErrBadLetterSpacing   = 13
	ErrTooLarge           = 14
	ErrCannotOpen         = 15
	ErrWriteFailed        = 16
	ErrGlyphTooLarge      = 17
	ErrBadSpaceWidth      = 18
	ErrSpaceWidthRequired = 19
)

type glyphBlob struct {
	codepoint     int
	width, height byte
	bytesPerRow   int
	payload       []byte
}

func bitIsSet(row []byte, x int) bool {
	byteIndex := x / 8
	bitIndex := 7 - (x % 8)
	return row[byteIndex]&(1<<uint(bitIndex)) != 0
}

func sanitizeSymbol(value string) string {
	if value == "" {
		return "snatch_font"
	}
	runes := []rune(value)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			runes[i] = '_'
		}
	}
	if !unicode.IsLetter(runes[0]) && runes[0] != '_' {
		runes = append([]rune{'_'}, runes...)
	}
	return string(runes)
}

func defaultSymbolFromOutput(outputPath string) string {
	stem := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	if stem == "" {
		stem = "snatch_font"
	}
	return sanitizeSymbol(stem)
}

func glyphLabelForComment(codepoint int) string {
	switch {
	case codepoint == 127:
		return "<non standard>"
	case codepoint == 39:
		return "'''"
	case codepoint >= 32 && codepoint <= 126:
		return fmt.Sprintf("'%c'", rune(codepoint))
	default:
		return "'?'"
	}
}

func toBin8(b byte) string {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		if b&(1<<uint(7-i)) != 0 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

func writeDbValue(sb *strings.Builder, value byte, comment string) {
	fmt.Fprintf(sb, "        .db %-20d; %s\n", value, comment)
}

func writeDwLine(sb *strings.Builder, values []uint16) {
	sb.WriteString("        .dw ")
	for i, v := range values {
		if i != 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "0x%04X", v)
	}
	sb.WriteByte('\n')
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func packGlyphRows(g *pluginapi.GlyphBitmap, codepoint, cellWidth, cellHeight, maxBearingY int) glyphBlob {
	out := glyphBlob{codepoint: codepoint, width: clampByte(cellWidth), height: clampByte(cellHeight)}
	out.bytesPerRow = (cellWidth + 7) / 8
	if out.bytesPerRow <= 0 || cellHeight <= 0 {
		return out
	}
	out.payload = make([]byte, out.bytesPerRow*cellHeight)

	if g == nil || g.Data == nil || g.Width <= 0 || g.Height <= 0 || g.Stride <= 0 {
		return out
	}

	yOffset := maxBearingY - g.BearingY
	for y := 0; y < g.Height; y++ {
		dstY := y + yOffset
		if dstY < 0 || dstY >= cellHeight {
			continue
		}
		srcRow := g.Data[y*g.Stride:]
		for x := 0; x < g.Width && x < cellWidth; x++ {
			if !bitIsSet(srcRow, x) {
				continue
			}
			byteIndex := x / 8
			bitIndex := 7 - (x % 8)
			dstIdx := dstY*out.bytesPerRow + byteIndex
			out.payload[dstIdx] |= 1 << uint(bitIndex)
		}
	}
	return out
}

// Export renders font's baseline-aligned bitmap glyph cells as an SDCC
// assembly module with binary literal row bytes.
func Export(font *pluginapi.Font, outputPath string, opts pluginapi.Options) error {
	if font == nil || font.Bitmaps == nil || font.Bitmaps.Glyphs == nil {
		return pluginapi.NewStageError(ErrMissingBitmapFont, "partner_sdcc_asm_bitmap: bitmap font data missing")
	}
	if outputPath == "" {
		return pluginapi.NewStageError(ErrMissingOutput, "partner_sdcc_asm_bitmap: output path is empty")
	}
	if font.First < 0 || font.Last < font.First || font.Last > 255 {
		return pluginapi.NewStageError(ErrInvalidRange, "partner_sdcc_asm_bitmap: invalid codepoint range")
	}

	letterSpacing := 0
	if raw, present := opts.Get("letter_spacing"); present && raw != "" {
		v, err := pluginapi.ParseIntRange(raw, 0, 15)
		if err != nil {
			return pluginapi.NewStageError(ErrBadLetterSpacing, "partner_sdcc_asm_bitmap: letter_spacing must be 0..15")
		}
		letterSpacing = v
	} else if raw, present := opts.Get("spacing_hint"); present && raw != "" {
		v, err := pluginapi.ParseIntRange(raw, 0, 15)
		if err != nil {
			return pluginapi.NewStageError(ErrBadLetterSpacing, "partner_sdcc_asm_bitmap: spacing_hint must be 0..15")
		}
		letterSpacing = v
	}

	proportional := false
	if mode, present := opts.Get("font_mode"); present {
		switch mode {
		case "proportional":
			proportional = true
		case "fixed":
			proportional = false
		}
	}
	proportionalRaw, _ := opts.Get("proportional")
	proportional = pluginapi.ParseBool(proportionalRaw, proportional)

	hasSpaceWidth := false
	spaceWidth := 0
	if raw, present := opts.Get("space_width"); present && raw != "" {
		v, err := pluginapi.ParseIntRange(raw, 0, 7)
		if err != nil {
			return pluginapi.NewStageError(ErrBadSpaceWidth, "partner_sdcc_asm_bitmap: space_width must be 0..7")
		}
		hasSpaceWidth = true
		spaceWidth = v
	}
	if proportional && !hasSpaceWidth {
		return pluginapi.NewStageError(ErrSpaceWidthRequired, "partner_sdcc_asm_bitmap: space_width is required when proportional=true")
	}

	module := defaultSymbolFromOutput(outputPath)
	if v, present := opts.Get("module"); present && v != "" {
		module = sanitizeSymbol(v)
	}
	symbol := module
	if v, present := opts.Get("symbol"); present && v != "" {
		symbol = sanitizeSymbol(v)
	}

	flags := byte(0)
	if proportional {
		flags |= 0x80
	}
	flags |= byte(spaceWidth&0x07) << 4
	flags |= byte(letterSpacing & 0x0F)

	maxW, maxBearingY, minDescender := 0, 0, 0
	glyphPtrs := make([]*pluginapi.GlyphBitmap, 0, font.Last-font.First+1)
	for cp := font.First; cp <= font.Last; cp++ {
		if g, ok := font.Bitmaps.Glyphs[rune(cp)]; ok {
			gg := g
			glyphPtrs = append(glyphPtrs, &gg)
			if gg.Width > maxW {
				maxW = gg.Width
			}
			if gg.BearingY > maxBearingY {
				maxBearingY = gg.BearingY
			}
			if d := gg.BearingY - gg.Height; d < minDescender {
				minDescender = d
			}
		} else {
			glyphPtrs = append(glyphPtrs, nil)
		}
	}
	maxH := maxBearingY - minDescender
	if maxH < 1 {
		maxH = 1
	}
	fixedCellWidth := maxW
	if fixedCellWidth < 1 {
		fixedCellWidth = 1
	}

	glyphs := make([]glyphBlob, 0, len(glyphPtrs))
	for i, g := range glyphPtrs {
		cp := font.First + i
		cellWidth := fixedCellWidth
		if proportional {
			cellWidth = 0
			if g != nil {
				cellWidth = g.Width
			}
		}
		blob := packGlyphRows(g, cp, cellWidth, maxH, maxBearingY)
		if len(blob.payload) > 255 {
			return pluginapi.NewStageError(ErrGlyphTooLarge, "partner_sdcc_asm_bitmap: glyph payload too large for 1-byte length")
		}
		glyphs = append(glyphs, blob)
	}

	offsets := make([]uint16, len(glyphs))
	offset := uint32(5 + len(glyphs)*2)
	for i, g := range glyphs {
		if offset > 0xFFFF {
			return pluginapi.NewStageError(ErrTooLarge, "partner_sdcc_asm_bitmap: font too large (>64KiB)")
		}
		offsets[i] = uint16(offset)
		offset += 4 + uint32(len(g.payload))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "        ;;  %s.s\n", module)
	sb.WriteString("        ;;  \n")
	fmt.Fprintf(&sb, "        ;;  %s\n", module)
	sb.WriteString("        ;; \n")
	sb.WriteString("        ;;  notes: see font.h for format details\n")
	sb.WriteString("        ;;  \n")
	sb.WriteString("        ;;  generated by snatch\n")
	fmt.Fprintf(&sb, "        .module %s\n\n", module)
	fmt.Fprintf(&sb, "        .globl _%s\n\n", symbol)
	fmt.Fprintf(&sb, "        .area _CODE\n_%s::\n", symbol)

	sb.WriteString("        ;; font header\n")
	writeDbValue(&sb, flags, "font flags (bit7 prop, bits4-6 space width, bits0-3 letter spacing)")
	writeDbValue(&sb, clampByte(maxW), "width (max width for proportional)")
	writeDbValue(&sb, clampByte(maxH), "height")
	writeDbValue(&sb, byte(font.First), "first ascii")
	writeDbValue(&sb, byte(font.Last), "last ascii")
	sb.WriteByte('\n')

	sb.WriteString("        ;; glpyh offsets\n")
	for i := 0; i < len(offsets); i += 8 {
		n := i + 8
		if n > len(offsets) {
			n = len(offsets)
		}
		writeDwLine(&sb, offsets[i:n])
	}
	sb.WriteByte('\n')

	for _, g := range glyphs {
		fmt.Fprintf(&sb, "        ;; ascii %d: %s\n", g.codepoint, glyphLabelForComment(g.codepoint))
		writeDbValue(&sb, byte(glyphClassBitmap<<5), "class(bits 5-7)")
		writeDbValue(&sb, g.width, "width")
		writeDbValue(&sb, g.height, "height")
		payloadLen := len(g.payload)
		if payloadLen > 255 {
			payloadLen = 255
		}
		writeDbValue(&sb, byte(payloadLen), "# bytes")

		if len(g.payload) == 0 || g.bytesPerRow <= 0 || g.height == 0 {
			continue
		}
		for y := 0; y < int(g.height); y++ {
			sb.WriteString("        .db ")
			for b := 0; b < g.bytesPerRow; b++ {
				if b != 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "0b%s", toBin8(g.payload[y*g.bytesPerRow+b]))
			}
			fmt.Fprintf(&sb, " ; row %d\n", y)
		}
	}

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o644); err != nil {
		return pluginapi.NewStageError(ErrCannotOpen, "partner_sdcc_asm_bitmap: cannot open output file: %v", err)
	}
	return nil
}
