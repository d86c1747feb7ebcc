// Package sheetimage extracts a grid of bitmap glyphs from a raster image
// sheet, the "external image loader" collaborator the pipeline delegates
// decoding to. It registers every format the pack's decoders cover: the
// stdlib trio (image/png, image/gif, image/jpeg) plus
// golang.org/x/image's bmp and webp.
package sheetimage

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/tstih/snatch/internal/glyph"
	"github.com/tstih/snatch/internal/pluginapi"
)

// colorThreshold is the squared-distance-under-threshold used to decide
// whether a sampled pixel is "near" a reference color.
const colorThreshold = 48

// Margins and Padding mirror the C++ image_extract_options' rectangular
// insets, one per side.
type Insets struct{ Left, Top, Right, Bottom int }

// Color is a plain 8-bit RGB reference color.
type Color struct{ R, G, B uint8 }

// Options controls how a sheet image is chopped into a glyph grid.
type Options struct {
	First, Last      int
	Columns, Rows    int
	Margins          Insets
	Padding          Insets
	ForeColor        Color
	BackColor        Color
	HasTransparent   bool
	TransparentColor Color
	Inverse          bool
	Proportional     bool
}

func colorDistanceSq(r, g, b int, ref Color) int {
	dr := r - int(ref.R)
	dg := g - int(ref.G)
	db := b - int(ref.B)
	return dr*dr + dg*dg + db*db
}

func isNearColor(r, g, b int, ref Color, threshold int) bool {
	return colorDistanceSq(r, g, b, ref) <= threshold*threshold
}

func pixelIsForeground(r, g, b, a int, opt Options) bool {
	if a == 0 {
		return false
	}
	if opt.HasTransparent && isNearColor(r, g, b, opt.TransparentColor, colorThreshold) {
		return false
	}
	dFore := colorDistanceSq(r, g, b, opt.ForeColor)
	dBack := colorDistanceSq(r, g, b, opt.BackColor)
	on := dFore <= dBack
	if opt.Inverse {
		on = !on
	}
	return on
}

func strideForBits(width int) int { return (width + 7) / 8 }

func setBit(row []byte, x int) {
	byteIndex := x / 8
	bitIndex := 7 - (x % 8)
	row[byteIndex] |= 1 << uint(bitIndex)
}

// ExtractFont chops sheet according to opt into one glyph per codepoint
// in [opt.First, opt.Last], laid out row-major across an opt.Columns x
// rows grid.
func ExtractFont(sheet image.Image, name string, opt Options) (*pluginapi.Font, error) {
	first, last := opt.First, opt.Last
	if first < 0 {
		first = 32
	}
	if last < 0 {
		last = 126
	}
	if first > last {
		return nil, fmt.Errorf("image_extractor: invalid codepoint range")
	}
	if opt.Columns <= 0 {
		return nil, fmt.Errorf("image_extractor: image extraction requires columns (>0)")
	}

	glyphCount := last - first + 1
	rows := opt.Rows
	if rows <= 0 {
		rows = autoRows(glyphCount, opt.Columns)
	}
	if rows <= 0 {
		return nil, fmt.Errorf("image_extractor: invalid row count for image extraction")
	}
	if opt.Columns*rows < glyphCount {
		return nil, fmt.Errorf("image_extractor: grid too small for requested ascii range (columns*rows < glyph count)")
	}

	bounds := sheet.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()
	usableW := imgW - opt.Margins.Left - opt.Margins.Right
	usableH := imgH - opt.Margins.Top - opt.Margins.Bottom
	if usableW <= 0 || usableH <= 0 {
		return nil, fmt.Errorf("image_extractor: invalid margins: no drawable area remains")
	}

	cellW := usableW / opt.Columns
	cellH := usableH / rows
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("image_extractor: grid cell size became zero; check margins/rows/columns")
	}

	drawW := cellW - opt.Padding.Left - opt.Padding.Right
	drawH := cellH - opt.Padding.Top - opt.Padding.Bottom
	if drawW <= 0 || drawH <= 0 {
		return nil, fmt.Errorf("image_extractor: invalid padding: no drawable area remains inside glyph cell")
	}

	fullStride := strideForBits(drawW)
	glyphs := make(map[rune]pluginapi.GlyphBitmap, glyphCount)
	maxW, maxH := 0, 0

	for i := 0; i < glyphCount; i++ {
		codepoint := first + i
		row := i / opt.Columns
		col := i % opt.Columns
		cellX := opt.Margins.Left + col*cellW
		cellY := opt.Margins.Top + row*cellH
		startX := cellX + opt.Padding.Left
		startY := cellY + opt.Padding.Top

		data := make([]byte, fullStride*drawH)
		for y := 0; y < drawH; y++ {
			bitsRow := data[y*fullStride:]
			sy := startY + y + bounds.Min.Y
			for x := 0; x < drawW; x++ {
				sx := startX + x + bounds.Min.X
				if sx < bounds.Min.X || sx >= bounds.Max.X || sy < bounds.Min.Y || sy >= bounds.Max.Y {
					continue
				}
				r32, g32, b32, a32 := sheet.At(sx, sy).RGBA()
				r, g, b, a := int(r32>>8), int(g32>>8), int(b32>>8), int(a32>>8)
				if pixelIsForeground(r, g, b, a, opt) {
					setBit(bitsRow, x)
				}
			}
		}

		width, height, stride := drawW, drawH, fullStride
		if opt.Proportional {
			rightmost := glyph.RightmostSetBit(glyph.Bitmap{Width: drawW, Height: drawH, Stride: fullStride, Data: data})
			width = 0
			if rightmost >= 0 {
				width = rightmost + 1
			}
			newStride := strideForBits(width)
			if newStride != fullStride {
				packed := make([]byte, newStride*drawH)
				for y := 0; y < drawH; y++ {
					src := data[y*fullStride:]
					dst := packed[y*newStride:]
					for x := 0; x < width; x++ {
						srcByte, srcBit := x/8, 7-(x%8)
						if src[srcByte]&(1<<uint(srcBit)) != 0 {
							setBit(dst, x)
						}
					}
				}
				data = packed
				stride = newStride
			}
		}

		if width > maxW {
			maxW = width
		}
		if height > maxH {
			maxH = height
		}
		glyphs[rune(codepoint)] = pluginapi.GlyphBitmap{
			Codepoint: rune(codepoint),
			Width:     width,
			Height:    height,
			BearingX:  0,
			BearingY:  drawH,
			Advance:   width,
			Stride:    stride,
			Data:      data,
		}
	}

	return &pluginapi.Font{
		Name:    name,
		First:   first,
		Last:    last,
		Bitmaps: &pluginapi.BitmapFont{First: first, Last: last, Glyphs: glyphs},
	}, nil
}

// ExtractFontFromFile opens inputPath, decodes it with the registered
// image codecs, and extracts a glyph grid per opt.
func ExtractFontFromFile(inputPath string, opt Options) (*pluginapi.Font, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("image_extractor: failed to open image file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image_extractor: failed to decode image file: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return ExtractFont(img, stem, opt)
}

// autoRows mirrors the ceil(N/columns) rule used when Options.Rows is
// left at its zero value.
func autoRows(glyphCount, columns int) int {
	if columns <= 0 {
		return 0
	}
	return int(math.Ceil(float64(glyphCount) / float64(columns)))
}
