package rawbin

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/tstih/snatch/internal/pluginapi"
)

func TestExportRawRows(t *testing.T) {
	font := &pluginapi.Font{
		First: 65, Last: 66,
		Bitmaps: &pluginapi.BitmapFont{Glyphs: map[rune]pluginapi.GlyphBitmap{
			65: {Width: 8, Height: 2, Stride: 1, Data: []byte{0xFF, 0x00}},
			66: {Width: 8, Height: 1, Stride: 1, Data: []byte{0x0F}},
		}},
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.bin")
	if err := Export(font, out, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFF, 0x00, 0x0F}
	if !bytes.Equal(content, want) {
		t.Fatalf("content = %v, want %v", content, want)
	}
}

func TestExportMissingBitmapFont(t *testing.T) {
	font := &pluginapi.Font{First: 65, Last: 65}
	if err := Export(font, filepath.Join(t.TempDir(), "out.bin"), nil); err == nil {
		t.Fatal("expected error for missing bitmap font")
	}
}

func TestExportRejectsEmptyOutput(t *testing.T) {
	font := &pluginapi.Font{Bitmaps: &pluginapi.BitmapFont{Glyphs: map[rune]pluginapi.GlyphBitmap{}}}
	if err := Export(font, "", nil); err == nil {
		t.Fatal("expected error for empty output path")
	}
}
