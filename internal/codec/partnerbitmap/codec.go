// Package partnerbitmap implements the Partner Bitmap binary wire format:
// a deterministic, baseline-aligned serialization of a bitmap font with
// proportional or fixed cell widths.
package partnerbitmap

import (
	"github.com/tstih/snatch/internal/pluginapi"
)

// Magic and version tag the payload published in Font.UserData so
// downstream exporters can recognize a Partner Bitmap stream without
// re-deriving it.
const (
	Magic   = "PBTM"
	Version = 1
)

// Data is the magic-tagged record a transformer attaches to Font.UserData.
type Data struct {
	Magic   string
	Version int
	Bytes   []byte
}

// Options accepted, mirroring the transformer's key/value surface.
const (
	optLetterSpacing = "letter_spacing"
	optSpacingHint   = "spacing_hint"
	optFontMode      = "font_mode"
	optProportional  = "proportional"
	optSpaceWidth    = "space_width"
)

// Error codes, matching the spec's distinct-code-per-failure requirement.
const (
	ErrMissingBitmapFont  = 30
	ErrInvalidRange       = 31
	ErrBadLetterSpacing   = 32
	ErrBadSpaceWidth      = 33
	ErrSpaceWidthRequired = 34
	ErrGlyphTooLarge      = 35
	ErrStreamTooLarge     = 36
)

type glyphBlob struct {
	width, height uint8
	payload       []byte
}

func packGlyphRows(g *pluginapi.GlyphBitmap, cellWidth, cellHeight, maxBearingY int) glyphBlob {
	out := glyphBlob{width: clampByte(cellWidth), height: clampByte(cellHeight)}

	bytesPerRow := (cellWidth + 7) / 8
	if bytesPerRow <= 0 || cellHeight <= 0 {
		return out
	}
	out.payload = make([]byte, bytesPerRow*cellHeight)

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
			byteIndex := x / 8
			bitIndex := 7 - (x % 8)
			if srcRow[byteIndex]&(1<<uint(bitIndex)) == 0 {
				continue
			}
			dstIdx := dstY*bytesPerRow + byteIndex
			out.payload[dstIdx] |= 1 << uint(bitIndex)
		}
	}
	return out
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Encode serializes font's glyphs in [first, last] to the
// Partner Bitmap binary stream, applying the given options.
func Encode(font *pluginapi.BitmapFont, first, last int, opts pluginapi.Options) (*Data, error) {
	if font == nil || font.Glyphs == nil {
		return nil, pluginapi.NewStageError(ErrMissingBitmapFont, "partner_bitmap_transform: bitmap font data missing")
	}
	if first < 0 || last < first || last > 255 {
		return nil, pluginapi.NewStageError(ErrInvalidRange, "partner_bitmap_transform: invalid codepoint range")
	}

	letterSpacing := 0
	if raw, ok := opts.Get(optLetterSpacing); ok && raw != "" {
		v, err := pluginapi.ParseIntRange(raw, 0, 15)
		if err != nil {
			return nil, pluginapi.NewStageError(ErrBadLetterSpacing, "partner_bitmap_transform: letter_spacing must be 0..15")
		}
		letterSpacing = v
	} else if raw, ok := opts.Get(optSpacingHint); ok && raw != "" {
		v, err := pluginapi.ParseIntRange(raw, 0, 15)
		if err != nil {
			return nil, pluginapi.NewStageError(ErrBadLetterSpacing, "partner_bitmap_transform: spacing_hint must be 0..15")
		}
		letterSpacing = v
	}

	proportional := false
	if mode, ok := opts.Get(optFontMode); ok && mode != "" {
		switch mode {
		case "proportional":
			proportional = true
		case "fixed":
			proportional = false
		}
	}
	if raw, ok := opts.Get(optProportional); ok {
		proportional = pluginapi.ParseBool(raw, proportional)
	}

	spaceWidth := 0
	hasSpaceWidth := false
	if raw, ok := opts.Get(optSpaceWidth); ok && raw != "" {
		v, err := pluginapi.ParseIntRange(raw, 0, 7)
		if err != nil {
			return nil, pluginapi.NewStageError(ErrBadSpaceWidth, "partner_bitmap_transform: space_width must be 0..7")
		}
		spaceWidth = v
		hasSpaceWidth = true
	}
	if proportional && !hasSpaceWidth {
		return nil, pluginapi.NewStageError(ErrSpaceWidthRequired, "partner_bitmap_transform: space_width is required when proportional=true")
	}

	flags := byte(letterSpacing & 0x0F)
	if proportional {
		flags |= 0x80
	}
	flags |= byte((spaceWidth & 0x07) << 4)

	glyphPtrs := make([]*pluginapi.GlyphBitmap, 0, last-first+1)
	maxW, maxBearingY, minDescender := 0, 0, 0
	for cp := first; cp <= last; cp++ {
		if g, ok := font.Glyphs[rune(cp)]; ok {
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
	for _, g := range glyphPtrs {
		cellWidth := fixedCellWidth
		if proportional {
			cellWidth = 0
			if g != nil && g.Width > 0 {
				cellWidth = g.Width
			}
		}
		blob := packGlyphRows(g, cellWidth, maxH, maxBearingY)
		if len(blob.payload) > 255 {
			return nil, pluginapi.NewStageError(ErrGlyphTooLarge, "partner_bitmap_transform: glyph payload too large for Partner format")
		}
		glyphs = append(glyphs, blob)
	}

	offsets := make([]uint16, 0, len(glyphs))
	offset := 5 + uint32(len(glyphs)*2)
	for _, g := range glyphs {
		if offset > 0xFFFF {
			return nil, pluginapi.NewStageError(ErrStreamTooLarge, "partner_bitmap_transform: serialized font too large (>64KiB)")
		}
		offsets = append(offsets, uint16(offset))
		offset += 4 + uint32(len(g.payload))
	}

	out := make([]byte, 0, offset)
	out = append(out, flags, clampByte(maxW), clampByte(maxH), byte(first), byte(last))
	for _, off := range offsets {
		out = append(out, byte(off&0xFF), byte((off>>8)&0xFF))
	}
	for _, g := range glyphs {
		out = append(out, 0, g.width, g.height, byte(len(g.payload)))
		out = append(out, g.payload...)
	}

	return &Data{Magic: Magic, Version: Version, Bytes: out}, nil
}
