package pnggrid

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/tstih/snatch/internal/pluginapi"
)

func TestExportProducesNonEmptyPNG(t *testing.T) {
	font := &pluginapi.Font{
		First: 65, Last: 65,
		Bitmaps: &pluginapi.BitmapFont{Glyphs: map[rune]pluginapi.GlyphBitmap{
			65: {Width: 4, Height: 4, Stride: 1, BearingY: 4, Data: []byte{0xF0, 0x90, 0x90, 0xF0}},
		}},
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	if err := Export(font, out, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		t.Fatal("expected non-empty image bounds")
	}
}

func TestExportNoGlyphs(t *testing.T) {
	font := &pluginapi.Font{First: 65, Last: 65, Bitmaps: &pluginapi.BitmapFont{Glyphs: map[rune]pluginapi.GlyphBitmap{}}}
	if err := Export(font, filepath.Join(t.TempDir(), "out.png"), nil); err == nil {
		t.Fatal("expected error for no glyphs")
	}
}
