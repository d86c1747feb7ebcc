package asmtiny

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tstih/snatch/internal/codec/partnertiny"
	"github.com/tstih/snatch/internal/pluginapi"
)

func buildTinyStream(t *testing.T) []byte {
	t.Helper()
	font := &pluginapi.Font{
		First: 65, Last: 65,
		Bitmaps: &pluginapi.BitmapFont{Glyphs: map[rune]pluginapi.GlyphBitmap{
			65: {Width: 2, Height: 2, Stride: 1, BearingY: 2, Data: []byte{0x80, 0x80}},
		}},
	}
	data, err := partnertiny.EncodeFont(font.Bitmaps, 65, 65, 0, 0, false)
	if err != nil {
		t.Fatalf("EncodeFont failed: %v", err)
	}
	return data.Bytes
}

func TestExportProducesAssemblyModule(t *testing.T) {
	stream := buildTinyStream(t)
	font := &pluginapi.Font{
		First: 65, Last: 65,
		UserData: &partnertiny.Data{Magic: partnertiny.Magic, Version: partnertiny.Version, Bytes: stream},
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "myfont.s")
	if err := Export(font, out, pluginapi.ParseOptions("symbol=myfont")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{".module myfont", ".globl _myfont", "; font flags", "; class(bits 5-7)"} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("missing %q in output:\n%s", want, content)
		}
	}
}

func TestExportRequiresTransformedData(t *testing.T) {
	font := &pluginapi.Font{First: 65, Last: 65}
	if err := Export(font, filepath.Join(t.TempDir(), "out.s"), nil); err == nil {
		t.Fatal("expected error for missing user data")
	}
}

func TestExportRejectsIncompatibleUserData(t *testing.T) {
	font := &pluginapi.Font{First: 65, Last: 65, UserData: "not a tiny stream"}
	if err := Export(font, filepath.Join(t.TempDir(), "out.s"), nil); err == nil {
		t.Fatal("expected error for incompatible user data")
	}
}

func TestExportProportionalRequiresSpaceWidth(t *testing.T) {
	stream := buildTinyStream(t)
	font := &pluginapi.Font{
		First: 65, Last: 65,
		UserData: &partnertiny.Data{Magic: partnertiny.Magic, Version: partnertiny.Version, Bytes: stream},
	}
	err := Export(font, filepath.Join(t.TempDir(), "out.s"), pluginapi.ParseOptions("proportional=true"))
	if err == nil {
		t.Fatal("expected error when proportional without space_width")
	}
}
