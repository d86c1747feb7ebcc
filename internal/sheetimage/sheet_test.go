package sheetimage

import (
	"image"
	"image/color"
	"testing"
)

func checkerSheet(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/2+y/2)%2 == 0 {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func defaultOpts() Options {
	return Options{
		First: 65, Last: 65,
		Columns:   1,
		Rows:      1,
		ForeColor: Color{0, 0, 0},
		BackColor: Color{255, 255, 255},
	}
}

func TestExtractFontSingleGlyph(t *testing.T) {
	sheet := checkerSheet(12, 16)
	font, err := ExtractFont(sheet, "test", defaultOpts())
	if err != nil {
		t.Fatalf("ExtractFont failed: %v", err)
	}
	g, ok := font.Bitmaps.Glyphs[65]
	if !ok {
		t.Fatal("expected glyph for codepoint 65")
	}
	if g.Height <= 0 || g.Width <= 0 {
		t.Fatalf("expected non-empty glyph, got %+v", g)
	}
}

func TestExtractFontRequiresColumns(t *testing.T) {
	opt := defaultOpts()
	opt.Columns = 0
	if _, err := ExtractFont(checkerSheet(12, 16), "test", opt); err == nil {
		t.Fatal("expected error when columns is 0")
	}
}

func TestExtractFontRejectsInvertedRange(t *testing.T) {
	opt := defaultOpts()
	opt.First, opt.Last = 70, 65
	if _, err := ExtractFont(checkerSheet(12, 16), "test", opt); err == nil {
		t.Fatal("expected error for inverted codepoint range")
	}
}

func TestExtractFontGridTooSmall(t *testing.T) {
	opt := defaultOpts()
	opt.First, opt.Last = 65, 67
	opt.Columns, opt.Rows = 1, 1
	if _, err := ExtractFont(checkerSheet(12, 16), "test", opt); err == nil {
		t.Fatal("expected error when grid is too small for range")
	}
}

func TestExtractFontProportionalNarrowsWidth(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	for y := 0; y < 8; y++ {
		img.Set(1, y, color.RGBA{0, 0, 0, 255})
	}
	opt := defaultOpts()
	opt.Proportional = true
	font, err := ExtractFont(img, "test", opt)
	if err != nil {
		t.Fatalf("ExtractFont failed: %v", err)
	}
	g := font.Bitmaps.Glyphs[65]
	if g.Width != 2 {
		t.Fatalf("expected proportional width 2, got %d", g.Width)
	}
}
