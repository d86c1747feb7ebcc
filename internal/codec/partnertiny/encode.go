// Package partnertiny implements the Partner Tiny vector codec: encoding
// a 1bpp glyph bitmap as a 2-opt-optimized sequence of packed "tiny move"
// bytes, and decoding that sequence back into a raster.
package partnertiny

import (
	"github.com/tstih/snatch/internal/glyph"
	"github.com/tstih/snatch/internal/pluginapi"
)

// Color codes carried by bit 7 and bit 0 of a move (packed differently
// than a plain 0..3, see encodeMove).
const (
	ColorNone = 0
	ColorFore = 2
)

// Magic and version tag the flat serialized stream.
const (
	Magic   = "PTNY"
	Version = 1
)

// Data is the magic-tagged record a transformer attaches to Font.UserData.
type Data struct {
	Magic   string
	Version int
	Bytes   []byte
}

// Error codes.
const (
	ErrMissingBitmapFont = 30
	ErrInvalidRange      = 31
	ErrGlyphTooManyMoves = 32
	ErrStreamTooLarge    = 33
)

type move struct {
	dx, dy int
	color  uint8
}

func u8Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp3(v int) int {
	if v > 3 {
		return 3
	}
	if v < -3 {
		return -3
	}
	return v
}

// encodeMove packs one move into its single-byte wire form: bit7 = co1,
// bits6..5 = |dx|, bits4..3 = |dy|, bit2 = sy, bit1 = sx, bit0 = co0,
// where (co1<<1)|co0 is the two-bit color code.
func encodeMove(m move) byte {
	dx := clamp3(m.dx)
	dy := clamp3(m.dy)
	adx := abs(dx)
	ady := abs(dy)

	var sx, sy byte
	if dx < 0 {
		sx = 1
	}
	if dy < 0 {
		sy = 1
	}
	co0 := m.color & 1
	co1 := (m.color >> 1) & 1

	out := byte(co1) << 7
	out |= byte(adx) << 5
	out |= byte(ady) << 3
	out |= sy << 2
	out |= sx << 1
	out |= co0
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// appendTravelSteps greedily walks (dx, dy) to zero using pure travel
// (color = none) moves, clamping each step's magnitude to 3.
func appendTravelSteps(out []move, dx, dy int) []move {
	remX, remY := dx, dy
	for remX != 0 || remY != 0 {
		var sx, sy int
		if remX > 0 {
			sx = min3(remX, 3)
		} else if remX < 0 {
			sx = max3(remX, -3)
		}
		if remY > 0 {
			sy = min3(remY, 3)
		} else if remY < 0 {
			sy = max3(remY, -3)
		}
		out = append(out, move{sx, sy, ColorNone})
		remX -= sx
		remY -= sy
	}
	return out
}

func min3(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max3(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// vectorizeGlyph enumerates a glyph's foreground pixels, optionally
// 2-opt-optimizes their order, and emits the move sequence to draw them:
// an initial paint dot at the origin, then for each subsequent point
// either a single combined travel+paint move (when the delta fits in
// [-1, 1] on both axes) or a run of pure travel moves followed by a
// zero-delta paint move. It also returns the route's first point, the
// origin the moves are relative to.
func vectorizeGlyph(b glyph.Bitmap, optimizeRoute bool) ([]move, glyph.Pixel) {
	points := glyph.ForegroundPixels(b, 1)
	if len(points) == 0 {
		return nil, glyph.Pixel{}
	}
	if optimizeRoute && len(points) >= 4 {
		opt := glyph.NewOptimizer(glyph.DefaultCostModel())
		points = opt.TSP2Opt(points)
	}

	moves := make([]move, 0, len(points)+1)
	moves = append(moves, move{0, 0, ColorFore})

	cx, cy := points[0].X, points[0].Y
	for i := 1; i < len(points); i++ {
		tx, ty := points[i].X, points[i].Y
		dx, dy := tx-cx, ty-cy
		if abs(dx) <= 1 && abs(dy) <= 1 {
			moves = append(moves, move{dx, dy, ColorFore})
		} else {
			moves = appendTravelSteps(moves, dx, dy)
			moves = append(moves, move{0, 0, ColorFore})
		}
		cx, cy = tx, ty
	}
	return moves, points[0]
}

// EncodeFont serializes every glyph in [first, last] into the flat
// Partner Tiny stream: a 5-byte header, a little-endian offset table,
// then one record per glyph.
func EncodeFont(font *pluginapi.BitmapFont, first, last, glyphWidthHint, glyphHeightHint int, optimizeRoute bool) (*Data, error) {
	if font == nil || font.Glyphs == nil {
		return nil, pluginapi.NewStageError(ErrMissingBitmapFont, "partner_tiny_transform: bitmap font data missing")
	}
	if first < 0 || last < first || last > 255 {
		return nil, pluginapi.NewStageError(ErrInvalidRange, "partner_tiny_transform: invalid codepoint range")
	}
	if glyphWidthHint < 1 {
		glyphWidthHint = 1
	}
	if glyphHeightHint < 1 {
		glyphHeightHint = 1
	}

	type record struct {
		width, height int
		xOrigin       uint8
		yOrigin       uint8
		moveBytes     []byte
	}

	maxWidth, maxHeight := glyphWidthHint, glyphHeightHint
	records := make([]record, 0, last-first+1)

	for cp := first; cp <= last; cp++ {
		gw, gh := glyphWidthHint, glyphHeightHint
		var bm glyph.Bitmap
		var hasGlyph bool
		if g, ok := font.Glyphs[rune(cp)]; ok {
			gw, gh = g.Width, g.Height
			if gw < 1 {
				gw = 1
			}
			if gh < 1 {
				gh = 1
			}
			bm = glyph.Bitmap{Width: g.Width, Height: g.Height, Stride: g.Stride, Data: g.Data}
			hasGlyph = g.Data != nil && g.Width > 0 && g.Height > 0
		}
		if gw > maxWidth {
			maxWidth = gw
		}
		if gh > maxHeight {
			maxHeight = gh
		}

		rec := record{width: gw, height: gh}
		if hasGlyph {
			points := glyph.ForegroundPixels(bm, 1)
			if len(points) > 0 {
				moves, origin := vectorizeGlyph(bm, optimizeRoute)
				if len(moves) > 255 {
					return nil, pluginapi.NewStageError(ErrGlyphTooManyMoves, "partner_tiny_transform: glyph payload too large")
				}
				rec.xOrigin = u8Clamp(origin.X)
				rec.yOrigin = u8Clamp(origin.Y)
				rec.moveBytes = make([]byte, len(moves))
				for i, m := range moves {
					rec.moveBytes[i] = encodeMove(m)
				}
			}
		}
		records = append(records, rec)
	}

	offsets := make([]uint16, 0, len(records))
	offset := 5 + uint32(len(records))*2
	for _, r := range records {
		if offset > 0xFFFF {
			return nil, pluginapi.NewStageError(ErrStreamTooLarge, "partner_tiny_transform: serialized font too large")
		}
		offsets = append(offsets, uint16(offset))
		offset += 6 + uint32(len(r.moveBytes))
	}

	out := make([]byte, 0, offset)
	out = append(out, 0, u8Clamp(maxWidth-1), u8Clamp(maxHeight-1), byte(first), byte(last))
	for _, off := range offsets {
		out = append(out, byte(off&0xFF), byte((off>>8)&0xFF))
	}
	for _, r := range records {
		out = append(out, 0, u8Clamp(r.width-1), u8Clamp(r.height-1), byte(len(r.moveBytes)), r.xOrigin, r.yOrigin)
		out = append(out, r.moveBytes...)
	}

	return &Data{Magic: Magic, Version: Version, Bytes: out}, nil
}
