package asmbitmap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tstih/snatch/internal/pluginapi"
)

func sampleFont() *pluginapi.Font {
	return &pluginapi.Font{
		First: 65, Last: 65,
		Bitmaps: &pluginapi.BitmapFont{Glyphs: map[rune]pluginapi.GlyphBitmap{
			65: {Width: 4, Height: 2, Stride: 1, BearingY: 2, Data: []byte{0xF0, 0x90}},
		}},
	}
}

func TestExportProducesBinaryRowBytes(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "myfont.s")
	if err := Export(sampleFont(), out, pluginapi.ParseOptions("symbol=myfont")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{".module myfont", ".globl _myfont", "0b", "; row 0", "; row 1"} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("missing %q in output:\n%s", want, content)
		}
	}
}

func TestExportMissingBitmapFont(t *testing.T) {
	font := &pluginapi.Font{First: 65, Last: 65}
	if err := Export(font, filepath.Join(t.TempDir(), "out.s"), nil); err == nil {
		t.Fatal("expected error for missing bitmap font")
	}
}

func TestExportProportionalRequiresSpaceWidth(t *testing.T) {
	err := Export(sampleFont(), filepath.Join(t.TempDir(), "out.s"), pluginapi.ParseOptions("proportional=true"))
	if err == nil {
		t.Fatal("expected error when proportional without space_width")
	}
}

func TestExportRejectsBadSpaceWidth(t *testing.T) {
	err := Export(sampleFont(), filepath.Join(t.TempDir(), "out.s"), pluginapi.ParseOptions("space_width=9"))
	if err == nil {
		t.Fatal("expected error for out-of-range space_width")
	}
}
