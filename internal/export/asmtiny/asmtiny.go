// Package asmtiny implements the Partner Tiny SDCC assembly exporter: it
// re-emits a Partner Tiny transform's move stream as commented .db/.dw
// directives instead of a raw binary blob.
package asmtiny

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tstih/snatch/internal/codec/partnertiny"
	"github.com/tstih/snatch/internal/pluginapi"
)

const glyphClassTiny = 1

const (
	ErrMissingFont        = 10
	ErrMissingOutput      = 11
	ErrInvalidRange       = 12
	ErrMissingUserData    = 13
	ErrIncompatibleData   = 14
	ErrGlyphCountMismatch = 15
	ErrBadLetterSpacing   = 16
	ErrTooLarge           = 17
	ErrCannotOpen         = 18
	ErrWriteFailed        = 19
	ErrMalformedGlyph     = 20
	ErrBadSpaceWidth      = 21
	ErrSpaceWidthRequired = 22
)

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

func writeDbValue(sb *strings.Builder, value byte, comment string) {
	fmt.Fprintf(sb, "        .db %-20d; %s\n", value, comment)
}

func decodeMoveComment(mv byte) string {
	adx := int((mv >> 5) & 0x3)
	ady := int((mv >> 3) & 0x3)
	sx := (mv >> 1) & 0x1
	sy := (mv >> 2) & 0x1
	co0 := mv & 0x1
	co1 := (mv >> 7) & 0x1

	dx, dy := adx, ady
	if sx == 1 {
		dx = -dx
	}
	if sy == 1 {
		dy = -dy
	}
	color := (co1 << 1) | co0

	var colorLabel string
	switch color {
	case 0:
		colorLabel = "none (move only!)"
	case 2:
		colorLabel = "fore (set)"
	case 1:
		colorLabel = "back (clear)"
	default:
		colorLabel = "xor (toggle)"
	}
	return fmt.Sprintf("move dx=%d, dy=%d, color=%s", dx, dy, colorLabel)
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

func readU16LE(b []byte) int {
	return int(b[0]) | int(b[1])<<8
}

// Export re-serializes a Partner Tiny move stream carried in
// font.UserData as an SDCC assembly module.
func Export(font *pluginapi.Font, outputPath string, opts pluginapi.Options) error {
	if font == nil {
		return pluginapi.NewStageError(ErrMissingFont, "partner_sdcc_asm_tiny: font is null")
	}
	if outputPath == "" {
		return pluginapi.NewStageError(ErrMissingOutput, "partner_sdcc_asm_tiny: output path is empty")
	}
	if font.First < 0 || font.Last < font.First || font.Last > 255 {
		return pluginapi.NewStageError(ErrInvalidRange, "partner_sdcc_asm_tiny: invalid codepoint range")
	}
	if font.UserData == nil {
		return pluginapi.NewStageError(ErrMissingUserData, "partner_sdcc_asm_tiny: missing transformed data; use --transformer partner_tiny_transform")
	}
	data, ok := font.UserData.(*partnertiny.Data)
	if !ok || data.Magic != partnertiny.Magic || data.Version != partnertiny.Version {
		return pluginapi.NewStageError(ErrIncompatibleData, "partner_sdcc_asm_tiny: incompatible user_data; expected partner_tiny_transform output")
	}

	stream := data.Bytes
	if len(stream) < 5 {
		return pluginapi.NewStageError(ErrMalformedGlyph, "partner_sdcc_asm_tiny: transformed stream too short")
	}
	first, last := int(stream[3]), int(stream[4])
	expectedCount := font.Last - font.First + 1
	glyphCount := last - first + 1
	if glyphCount != expectedCount || len(stream) < 5+glyphCount*2 {
		return pluginapi.NewStageError(ErrGlyphCountMismatch, "partner_sdcc_asm_tiny: transformed glyph table does not match ascii range")
	}

	letterSpacing := 0
	if raw, present := opts.Get("letter_spacing"); present && raw != "" {
		v, err := pluginapi.ParseIntRange(raw, 0, 15)
		if err != nil {
			return pluginapi.NewStageError(ErrBadLetterSpacing, "partner_sdcc_asm_tiny: letter_spacing must be 0..15")
		}
		letterSpacing = v
	} else if raw, present := opts.Get("spacing_hint"); present && raw != "" {
		v, err := pluginapi.ParseIntRange(raw, 0, 15)
		if err != nil {
			return pluginapi.NewStageError(ErrBadLetterSpacing, "partner_sdcc_asm_tiny: spacing_hint must be 0..15")
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
			return pluginapi.NewStageError(ErrBadSpaceWidth, "partner_sdcc_asm_tiny: space_width must be 0..7")
		}
		hasSpaceWidth = true
		spaceWidth = v
	}
	if proportional && !hasSpaceWidth {
		return pluginapi.NewStageError(ErrSpaceWidthRequired, "partner_sdcc_asm_tiny: space_width is required when proportional=true")
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

	type glyphRecord struct {
		widthMinusOne, heightMinusOne byte
		moveCount                     byte
		xOrigin, yOrigin              byte
		moves                         []byte
	}
	glyphs := make([]glyphRecord, glyphCount)
	for i := 0; i < glyphCount; i++ {
		off := readU16LE(stream[5+i*2:])
		if off+4 > len(stream) {
			return pluginapi.NewStageError(ErrMalformedGlyph, "partner_sdcc_asm_tiny: invalid glyph offset")
		}
		widthMinusOne, heightMinusOne := stream[off+1], stream[off+2]
		moveCount := int(stream[off+3])
		g := glyphRecord{widthMinusOne: widthMinusOne, heightMinusOne: heightMinusOne, moveCount: byte(moveCount)}
		if moveCount > 0 {
			cursor := off + 4
			if cursor+2+moveCount > len(stream) {
				return pluginapi.NewStageError(ErrMalformedGlyph, "partner_sdcc_asm_tiny: malformed glyph data (origin missing)")
			}
			g.xOrigin, g.yOrigin = stream[cursor], stream[cursor+1]
			g.moves = stream[cursor+2 : cursor+2+moveCount]
		}
		glyphs[i] = g
	}

	offsets := make([]uint16, glyphCount)
	offset := uint32(5 + glyphCount*2)
	for i, g := range glyphs {
		if offset > 0xFFFF {
			return pluginapi.NewStageError(ErrTooLarge, "partner_sdcc_asm_tiny: font too large (>64KiB)")
		}
		offsets[i] = uint16(offset)
		dataSize := uint32(0)
		if g.moveCount > 0 {
			dataSize = uint32(2 + len(g.moves))
		}
		offset += 4 + dataSize
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
	writeDbValue(&sb, stream[1], "width (max width for proportional)")
	writeDbValue(&sb, stream[2], "height")
	writeDbValue(&sb, byte(first), "first ascii")
	writeDbValue(&sb, byte(last), "last ascii")
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

	for i, g := range glyphs {
		codepoint := first + i
		fmt.Fprintf(&sb, "        ;; ascii %d: %s\n", codepoint, glyphLabelForComment(codepoint))
		writeDbValue(&sb, byte(glyphClassTiny<<5), "class(bits 5-7)")
		writeDbValue(&sb, g.widthMinusOne, "width")
		writeDbValue(&sb, g.heightMinusOne, "height")
		if g.moveCount == 0 {
			writeDbValue(&sb, 0, "# moves")
			continue
		}
		writeDbValue(&sb, g.moveCount, "# moves")
		writeDbValue(&sb, g.xOrigin, "x origin")
		writeDbValue(&sb, g.yOrigin, "y origin")
		for _, mv := range g.moves {
			writeDbValue(&sb, mv, decodeMoveComment(mv))
		}
	}

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o644); err != nil {
		return pluginapi.NewStageError(ErrCannotOpen, "partner_sdcc_asm_tiny: cannot open output file: %v", err)
	}
	return nil
}
