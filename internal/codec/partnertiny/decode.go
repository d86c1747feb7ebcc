package partnertiny

import (
	"github.com/tstih/snatch/internal/pluginapi"
)

// Decode error codes.
const (
	ErrBadHeader          = 40
	ErrInvalidStreamRange = 41
	ErrTruncatedOffsets   = 42
	ErrInvalidOffset      = 43
	ErrInvalidDimensions  = 44
	ErrTruncatedMoves     = 45
)

func readU16LE(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

type point struct{ x, y int }

func inBounds(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}

func writePixel(data []byte, stride, w, h, x, y int, color uint8) {
	if !inBounds(x, y, w, h) {
		return
	}
	byteIndex := x / 8
	bitIndex := 7 - (x % 8)
	idx := y*stride + byteIndex
	mask := byte(1 << uint(bitIndex))
	switch color {
	case 1:
		data[idx] |= mask
	case 2:
		data[idx] &^= mask
	case 3:
		data[idx] ^= mask
	}
}

// drawLine draws a Bresenham line from start to end into data, applying
// color (1 = set, 2 = clear, 3 = toggle) to every touched in-bounds pixel.
func drawLine(data []byte, stride, w, h int, start, end point, color uint8) {
	steep := abs(end.y-start.y) > abs(end.x-start.x)
	if steep {
		start.x, start.y = start.y, start.x
		end.x, end.y = end.y, end.x
	}
	if start.x > end.x {
		start, end = end, start
	}

	dx := end.x - start.x
	dy := abs(end.y - start.y)
	errAcc := dx / 2
	ystep := 1
	if start.y > end.y {
		ystep = -1
	}
	y := start.y
	for x := start.x; x <= end.x; x++ {
		if steep {
			writePixel(data, stride, w, h, y, x, color)
		} else {
			writePixel(data, stride, w, h, x, y, color)
		}
		errAcc -= dy
		if errAcc < 0 {
			y += ystep
			errAcc += dx
		}
	}
}

// decodeMove unpacks a single move byte into its delta and color code.
func decodeMove(mv byte) (dx, dy int, color uint8) {
	udx := int((mv >> 5) & 0x03)
	udy := int((mv >> 3) & 0x03)
	sx := 1
	if (mv>>1)&0x01 == 1 {
		sx = -1
	}
	sy := 1
	if (mv>>2)&0x01 == 1 {
		sy = -1
	}
	color = ((mv >> 7) & 0x01) | ((mv << 1) & 0x02)
	return sx * udx, sy * udy, color
}

// DecodeFont parses a flat Partner Tiny stream (5-byte header, offset
// table, then per-glyph records) and reconstructs a BitmapFont by
// rasterizing each glyph's move sequence.
func DecodeFont(stream []byte) (*pluginapi.BitmapFont, error) {
	if len(stream) < 5 {
		return nil, pluginapi.NewStageError(ErrBadHeader, "partner_tiny_raster_transform: stream too short for header")
	}
	first := int(stream[3])
	last := int(stream[4])
	if last < first {
		return nil, pluginapi.NewStageError(ErrInvalidStreamRange, "partner_tiny_raster_transform: invalid codepoint range in tiny bin")
	}
	glyphCount := last - first + 1
	offsetsBytes := glyphCount * 2
	if len(stream) < 5+offsetsBytes {
		return nil, pluginapi.NewStageError(ErrTruncatedOffsets, "partner_tiny_raster_transform: truncated tiny bin offset table")
	}

	glyphs := make(map[rune]pluginapi.GlyphBitmap, glyphCount)

	for i := 0; i < glyphCount; i++ {
		offPos := 5 + i*2
		off := int(readU16LE(stream[offPos:]))
		if off+4 > len(stream) {
			return nil, pluginapi.NewStageError(ErrInvalidOffset, "partner_tiny_raster_transform: invalid glyph offset")
		}

		widthMinusOne := stream[off+1]
		heightMinusOne := stream[off+2]
		movesCount := int(stream[off+3])
		gw := int(widthMinusOne) + 1
		gh := int(heightMinusOne) + 1
		if gw <= 0 || gh <= 0 {
			return nil, pluginapi.NewStageError(ErrInvalidDimensions, "partner_tiny_raster_transform: invalid glyph dimensions")
		}

		stride := (gw + 7) / 8
		data := make([]byte, stride*gh)

		cursorPos := off + 4
		cursor := point{}
		if movesCount > 0 {
			if cursorPos+2+movesCount > len(stream) {
				return nil, pluginapi.NewStageError(ErrTruncatedMoves, "partner_tiny_raster_transform: truncated glyph move data")
			}
			cursor.x = int(stream[cursorPos])
			cursor.y = int(stream[cursorPos+1])
			cursorPos += 2

			for m := 0; m < movesCount; m++ {
				mv := stream[cursorPos+m]
				dx, dy, color := decodeMove(mv)
				end := point{cursor.x + dx, cursor.y + dy}
				if color == 1 || color == 2 || color == 3 {
					drawLine(data, stride, gw, gh, cursor, end, color)
				}
				cursor = end
			}
		}

		glyphs[rune(first+i)] = pluginapi.GlyphBitmap{
			Codepoint: rune(first + i),
			Width:     gw,
			Height:    gh,
			BearingX:  0,
			BearingY:  gh,
			Advance:   gw,
			Stride:    stride,
			Data:      data,
		}
	}

	return &pluginapi.BitmapFont{First: first, Last: last, Glyphs: glyphs}, nil
}
