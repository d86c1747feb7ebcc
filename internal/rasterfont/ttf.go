// Package rasterfont extracts packed 1bpp glyph bitmaps from a scalable
// TTF/OTF font by rasterizing outlines with golang.org/x/image's pure-Go
// font stack, the collaborator the pipeline calls its "external
// rasterizer".
package rasterfont

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/tstih/snatch/internal/glyph"
	"github.com/tstih/snatch/internal/pluginapi"
)

// ForegroundThreshold is the alpha-coverage cutoff (out of 255) above
// which a rasterized pixel is treated as foreground. x/image/vector
// yields antialiased coverage rather than a hinter's native monochrome
// output, so this threshold is a faithful-in-spirit rather than
// bit-exact stand-in for FT_LOAD_TARGET_MONO.
const ForegroundThreshold = 0x80

// Options controls extraction from a parsed font.
type Options struct {
	First, Last  int
	PixelSize    int // 0 means "choose automatically"
	Proportional bool
}

var sampleChars = []rune{'H', 'n', 'm', '0', '8', 'A', 'a'}

func glyphIndexAndBounds(f *sfnt.Font, buf *sfnt.Buffer, r rune, ppem fixed.Int26_6) (sfnt.GlyphIndex, fixed.Rectangle26_6, bool) {
	gid, err := f.GlyphIndex(buf, r)
	if err != nil || gid == 0 {
		return 0, fixed.Rectangle26_6{}, false
	}
	segs, err := f.LoadGlyph(buf, gid, ppem, nil)
	if err != nil || len(segs) == 0 {
		return gid, fixed.Rectangle26_6{}, false
	}
	rect := segmentBounds(segs)
	return gid, rect, true
}

func segmentBounds(segs []sfnt.Segment) fixed.Rectangle26_6 {
	rect := fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: fixed.Int26_6(math.MaxInt32), Y: fixed.Int26_6(math.MaxInt32)},
		Max: fixed.Point26_6{X: fixed.Int26_6(math.MinInt32), Y: fixed.Int26_6(math.MinInt32)},
	}
	touch := func(p fixed.Point26_6) {
		if p.X < rect.Min.X {
			rect.Min.X = p.X
		}
		if p.X > rect.Max.X {
			rect.Max.X = p.X
		}
		if p.Y < rect.Min.Y {
			rect.Min.Y = p.Y
		}
		if p.Y > rect.Max.Y {
			rect.Max.Y = p.Y
		}
	}
	for _, seg := range segs {
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for i := 0; i < n; i++ {
			touch(seg.Args[i])
		}
	}
	return rect
}

// rasterizeGlyph renders a single glyph's outline into a packed 1bpp
// bitmap sized to its own tight bounding box, in the BearingX/BearingY
// convention shared with the Partner codecs (BearingY is the distance
// from the baseline up to the top of the glyph).
func rasterizeGlyph(f *sfnt.Font, buf *sfnt.Buffer, r rune, ppem fixed.Int26_6, proportional bool) (pluginapi.GlyphBitmap, error) {
	gid, rect, ok := glyphIndexAndBounds(f, buf, r, ppem)
	if !ok || rect.Min.X > rect.Max.X || rect.Min.Y > rect.Max.Y {
		adv, _ := f.GlyphAdvance(buf, gid, ppem, font.HintingNone)
		return pluginapi.GlyphBitmap{
			Codepoint: r,
			Advance:   int(adv.Round()),
		}, nil
	}

	segs, err := f.LoadGlyph(buf, gid, ppem, nil)
	if err != nil {
		return pluginapi.GlyphBitmap{}, fmt.Errorf("ttf_extractor: failed to load glyph for codepoint %d: %w", r, err)
	}

	minX := floorF26_6(rect.Min.X)
	maxX := ceilF26_6(rect.Max.X)
	minY := floorF26_6(rect.Min.Y)
	maxY := ceilF26_6(rect.Max.Y)

	width := int(maxX - minX)
	height := int(maxY - minY)
	if width <= 0 || height <= 0 {
		adv, _ := f.GlyphAdvance(buf, gid, ppem, font.HintingNone)
		return pluginapi.GlyphBitmap{Codepoint: r, Advance: int(adv.Round())}, nil
	}

	rz := vector.NewRasterizer(width, height)
	toPix := func(p fixed.Point26_6) (float32, float32) {
		x := float32(p.X)/64 - minX
		y := maxY - float32(p.Y)/64
		return x, y
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := toPix(seg.Args[0])
			rz.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := toPix(seg.Args[0])
			rz.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := toPix(seg.Args[0])
			x, y := toPix(seg.Args[1])
			rz.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c0x, c0y := toPix(seg.Args[0])
			c1x, c1y := toPix(seg.Args[1])
			x, y := toPix(seg.Args[2])
			rz.CubeTo(c0x, c0y, c1x, c1y, x, y)
		}
	}
	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	rz.Draw(dst, image.Rect(0, 0, width, height), image.Opaque, image.Point{})

	stride := (width + 7) / 8
	data := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if dst.AlphaAt(x, y).A < ForegroundThreshold {
				continue
			}
			byteIndex := x / 8
			bitIndex := 7 - (x % 8)
			data[y*stride+byteIndex] |= 1 << uint(bitIndex)
		}
	}

	adv, _ := f.GlyphAdvance(buf, gid, ppem, font.HintingNone)
	g := pluginapi.GlyphBitmap{
		Codepoint: r,
		Width:     width,
		Height:    height,
		BearingX:  int(minX),
		BearingY:  int(maxY),
		Advance:   int(adv.Round()),
		Stride:    stride,
		Data:      data,
	}

	if proportional {
		rightmost := glyph.RightmostSetBit(glyph.Bitmap{Width: g.Width, Height: g.Height, Stride: g.Stride, Data: g.Data})
		if rightmost >= 0 {
			g.Width = rightmost + 1
		} else {
			g.Width = 0
		}
	}
	return g, nil
}

func floorF26_6(v fixed.Int26_6) float32 { return float32(math.Floor(float64(v) / 64)) }
func ceilF26_6(v fixed.Int26_6) float32  { return float32(math.Ceil(float64(v) / 64)) }

// chooseNaturalSize samples a handful of representative glyphs across a
// size range and scores each candidate against a readable target height
// and width, mirroring the heuristic used when no explicit font_size is
// given.
func chooseNaturalSize(f *sfnt.Font, buf *sfnt.Buffer) int {
	const (
		targetH = 14.0
		targetW = 8.0
	)
	bestSize := 16
	bestScore := math.Inf(-1)

	for size := 8; size <= 32; size++ {
		ppem := fixed.I(size)
		nonEmpty, totalH, totalW := 0, 0, 0
		for _, c := range sampleChars {
			g, err := rasterizeGlyph(f, buf, c, ppem, false)
			if err != nil || g.Width <= 0 || g.Height <= 0 {
				continue
			}
			nonEmpty++
			totalH += g.Height
			totalW += g.Width
		}
		if nonEmpty == 0 {
			continue
		}
		avgH := float64(totalH) / float64(nonEmpty)
		avgW := float64(totalW) / float64(nonEmpty)
		score := float64(nonEmpty)*100 - math.Abs(avgH-targetH)*12 - math.Abs(avgW-targetW)*6
		if score > bestScore {
			bestScore = score
			bestSize = size
		}
	}
	return bestSize
}

// ExtractFont rasterizes every codepoint in [opts.First, opts.Last] from
// the TTF/OTF bytes in data.
func ExtractFont(data []byte, opts Options) (*pluginapi.Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("ttf_extractor: failed to parse font: %w", err)
	}
	var buf sfnt.Buffer

	first, last := opts.First, opts.Last
	if first < 0 {
		first = 32
	}
	if last < 0 {
		last = 126
	}
	if first > last {
		return nil, fmt.Errorf("ttf_extractor: invalid codepoint range")
	}

	size := opts.PixelSize
	if size <= 0 {
		size = chooseNaturalSize(f, &buf)
	}
	ppem := fixed.I(size)

	nameBuf, _ := f.Name(&buf, sfnt.NameIDFamily)
	name := nameBuf
	if name == "" {
		name = "unknown"
	}
	if style, _ := f.Name(&buf, sfnt.NameIDSubfamily); style != "" && style != "Regular" {
		name = name + " " + style
	}

	glyphs := make(map[rune]pluginapi.GlyphBitmap, last-first+1)
	maxW, maxH := 0, 0
	for cp := first; cp <= last; cp++ {
		g, err := rasterizeGlyph(f, &buf, rune(cp), ppem, opts.Proportional)
		if err != nil {
			return nil, err
		}
		if g.Width > maxW {
			maxW = g.Width
		}
		if g.Height > maxH {
			maxH = g.Height
		}
		glyphs[rune(cp)] = g
	}

	return &pluginapi.Font{
		Name:      name,
		PixelSize: size,
		First:     first,
		Last:      last,
		Bitmaps:   &pluginapi.BitmapFont{First: first, Last: last, Glyphs: glyphs},
	}, nil
}
