// Package textart extracts glyph bitmaps from a plain-text ASCII-art
// font dump: each row is "<rune>  [<pixels>]", pixels being a run of
// space/X characters, one rune's rows stacked consecutively. No exporter
// in this tree writes that format, so it only reads hand-authored or
// externally produced dumps, packing rows into the shared
// pluginapi.GlyphBitmap packed-bit convention instead of a
// single-purpose uint32 row encoding.
package textart

import (
	"bufio"
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/tstih/snatch/internal/pluginapi"
)

func setBit(row []byte, x int) {
	byteIndex := x / 8
	bitIndex := 7 - (x % 8)
	row[byteIndex] |= 1 << uint(bitIndex)
}

func strideForBits(width int) int { return (width + 7) / 8 }

// parseRow splits a "<rune>  [<pixels>]" line into its codepoint and the
// raw pixel run between the brackets.
func parseRow(line string) (rune, string, error) {
	c, runeLen := utf8.DecodeRuneInString(line)
	if c == utf8.RuneError {
		return 0, "", fmt.Errorf("textart: malformed row (bad rune): %q", line)
	}
	start := runeLen + 3 // "<rune>" + "  ["
	if start > len(line) || line[start-1] != '[' || len(line) == 0 || line[len(line)-1] != ']' {
		return 0, "", fmt.Errorf("textart: malformed row (expected \"<rune>  [pixels]\"): %q", line)
	}
	return c, line[start : len(line)-1], nil
}

// ExtractFont parses a text-art font dump into a Font. name is used
// as-is for Font.Name.
func ExtractFont(data []byte, name string) (*pluginapi.Font, error) {
	type rowSet struct {
		rows []string
	}
	glyphRows := make(map[rune]*rowSet)
	order := make([]rune, 0)
	maxWidth := 0

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		c, pixels, err := parseRow(line)
		if err != nil {
			return nil, pluginapi.NewStageError(11, "%v", err)
		}
		if len(pixels) > maxWidth {
			maxWidth = len(pixels)
		}
		rs, ok := glyphRows[c]
		if !ok {
			rs = &rowSet{}
			glyphRows[c] = rs
			order = append(order, c)
		}
		rs.rows = append(rs.rows, pixels)
	}
	if err := scanner.Err(); err != nil {
		return nil, pluginapi.NewStageError(12, "textart: failed to read input: %v", err)
	}
	if len(order) == 0 {
		return nil, pluginapi.NewStageError(10, "textart: no glyph rows found")
	}

	first, last := int(order[0]), int(order[0])
	glyphs := make(map[rune]pluginapi.GlyphBitmap, len(order))
	maxH := 0
	for _, cp := range order {
		if int(cp) < first {
			first = int(cp)
		}
		if int(cp) > last {
			last = int(cp)
		}
		rows := glyphRows[cp].rows
		width := 0
		for _, r := range rows {
			if len(r) > width {
				width = len(r)
			}
		}
		height := len(rows)
		if height > maxH {
			maxH = height
		}
		stride := strideForBits(width)
		bits := make([]byte, stride*height)
		for y, r := range rows {
			for x := 0; x < len(r); x++ {
				if r[x] == 'X' {
					setBit(bits[y*stride:], x)
				}
			}
		}
		glyphs[cp] = pluginapi.GlyphBitmap{
			Codepoint: cp,
			Width:     width,
			Height:    height,
			BearingX:  0,
			BearingY:  height,
			Advance:   width,
			Stride:    stride,
			Data:      bits,
		}
	}

	return &pluginapi.Font{
		Name:    name,
		First:   first,
		Last:    last,
		Bitmaps: &pluginapi.BitmapFont{First: first, Last: last, Glyphs: glyphs},
	}, nil
}
