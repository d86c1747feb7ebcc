// Package pnggrid implements the PNG grid exporter (C8): every glyph is
// rendered onto a white grid, baseline-aligned, with an automatically
// inferred column/row count when the caller omits one or both.
package pnggrid

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/tstih/snatch/internal/pluginapi"
)

const (
	ErrMissingBitmaps = 10
	ErrMissingOutput  = 11
	ErrNoGlyphs       = 12
	ErrBadDimensions  = 13
	ErrCannotOpen     = 14
)

func parsePositive(opts pluginapi.Options, key string) int {
	raw, ok := opts.Get(key)
	if !ok || raw == "" {
		return 0
	}
	v, err := pluginapi.ParseInt(raw)
	if err != nil || v <= 0 || v > 1_000_000 {
		return 0
	}
	return v
}

func bitSet(row []byte, x int) bool {
	byteIndex := x / 8
	bitIndex := 7 - (x % 8)
	return row[byteIndex]&(1<<uint(bitIndex)) != 0
}

func drawGlyph(img *image.Gray, dstX, dstY int, g pluginapi.GlyphBitmap) {
	if g.Data == nil || g.Width <= 0 || g.Height <= 0 || g.Stride <= 0 {
		return
	}
	bounds := img.Bounds()
	for y := 0; y < g.Height; y++ {
		row := g.Data[y*g.Stride:]
		yy := dstY + y
		if yy < bounds.Min.Y || yy >= bounds.Max.Y {
			continue
		}
		for x := 0; x < g.Width; x++ {
			xx := dstX + x
			if xx < bounds.Min.X || xx >= bounds.Max.X {
				continue
			}
			if bitSet(row, x) {
				img.SetGray(xx, yy, color.Gray{Y: 0})
			}
		}
	}
}

func drawGridLines(img *image.RGBA, cols, rows, drawW, drawH, thickness int, gridColor color.Color) {
	if thickness <= 0 {
		return
	}
	bounds := img.Bounds()
	for c := 0; c <= cols; c++ {
		x := c * drawW
		for t := 0; t < thickness; t++ {
			xx := x + t
			if xx >= bounds.Max.X {
				continue
			}
			for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
				img.Set(xx, y, gridColor)
			}
		}
	}
	for r := 0; r <= rows; r++ {
		y := r * drawH
		for t := 0; t < thickness; t++ {
			yy := y + t
			if yy >= bounds.Max.Y {
				continue
			}
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				img.Set(x, yy, gridColor)
			}
		}
	}
}

// Export renders font's glyph table onto a PNG grid and writes it to
// outputPath.
func Export(font *pluginapi.Font, outputPath string, opts pluginapi.Options) error {
	if font == nil || font.Bitmaps == nil || font.Bitmaps.Glyphs == nil {
		return pluginapi.NewStageError(ErrMissingBitmaps, "png: bitmap font data missing")
	}
	if outputPath == "" {
		return pluginapi.NewStageError(ErrMissingOutput, "png: output path is empty")
	}

	codepoints := make([]int, 0, len(font.Bitmaps.Glyphs))
	for cp := font.First; cp <= font.Last; cp++ {
		if _, ok := font.Bitmaps.Glyphs[rune(cp)]; ok {
			codepoints = append(codepoints, cp)
		}
	}
	glyphCount := len(codepoints)
	if glyphCount <= 0 {
		return pluginapi.NewStageError(ErrNoGlyphs, "png: no glyphs to export")
	}

	cols := parsePositive(opts, "columns")
	rows := parsePositive(opts, "rows")
	padding := parsePositive(opts, "padding")
	switch {
	case cols <= 0 && rows <= 0:
		cols = int(math.Ceil(math.Sqrt(float64(glyphCount))))
		rows = int(math.Ceil(float64(glyphCount) / float64(cols)))
	case cols <= 0:
		cols = int(math.Ceil(float64(glyphCount) / float64(rows)))
	case rows <= 0:
		rows = int(math.Ceil(float64(glyphCount) / float64(cols)))
	}

	maxBearingY, minDescender := 0, 0
	cellW := 1
	for _, cp := range codepoints {
		g := font.Bitmaps.Glyphs[rune(cp)]
		if g.Width > cellW {
			cellW = g.Width
		}
		if g.BearingY > maxBearingY {
			maxBearingY = g.BearingY
		}
		if d := g.BearingY - g.Height; d < minDescender {
			minDescender = d
		}
	}
	cellH := maxBearingY - minDescender
	if cellH < 1 {
		cellH = 1
	}

	drawW := cellW + padding*2
	drawH := cellH + padding*2
	imageW := cols * drawW
	imageH := rows * drawH
	if imageW <= 0 || imageH <= 0 {
		return pluginapi.NewStageError(ErrBadDimensions, "png: invalid image dimensions")
	}

	gray := image.NewGray(image.Rect(0, 0, imageW, imageH))
	for i := range gray.Pix {
		gray.Pix[i] = 255
	}

	for i, cp := range codepoints {
		g := font.Bitmaps.Glyphs[rune(cp)]
		gx := (i%cols)*drawW + padding
		gy := (i/cols)*drawH + padding
		baselineY := gy + maxBearingY
		drawGlyph(gray, gx, baselineY-g.BearingY, g)
	}

	var out image.Image = gray
	thickness := parsePositive(opts, "grid_thickness")
	if thickness > 0 {
		rgba := image.NewRGBA(gray.Bounds())
		for y := 0; y < imageH; y++ {
			for x := 0; x < imageW; x++ {
				rgba.Set(x, y, gray.GrayAt(x, y))
			}
		}
		r, g, b := uint8(0), uint8(0), uint8(0)
		if hex, ok := opts.Get("grid_color"); ok && hex != "" {
			if pr, pg, pb, err := pluginapi.ParseHexRGB(hex); err == nil {
				r, g, b = pr, pg, pb
			}
		}
		drawGridLines(rgba, cols, rows, drawW, drawH, thickness, color.RGBA{R: r, G: g, B: b, A: 255})
		out = rgba
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return pluginapi.NewStageError(ErrCannotOpen, "png: cannot open output file: %v", err)
	}
	defer f.Close()
	return png.Encode(f, out)
}
