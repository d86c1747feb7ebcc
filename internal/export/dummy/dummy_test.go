package dummy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tstih/snatch/internal/pluginapi"
)

func TestExportWritesDiagnosticFields(t *testing.T) {
	font := &pluginapi.Font{
		Name: "testfont",
		Bitmaps: &pluginapi.BitmapFont{Glyphs: map[rune]pluginapi.GlyphBitmap{
			65: {Width: 5, Height: 7},
		}},
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	if err := Export(font, out, pluginapi.ParseOptions("foo=bar")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"plugin=dummy", "name=testfont", "glyph_width=5", "glyph_height=7", "options_count=1", "option[0]=foo:bar"} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("missing %q in output:\n%s", want, content)
		}
	}
}

func TestExportUnnamedFont(t *testing.T) {
	font := &pluginapi.Font{}
	out := filepath.Join(t.TempDir(), "out.txt")
	if err := Export(font, out, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "name=(unnamed)") {
		t.Fatalf("expected unnamed placeholder, got:\n%s", content)
	}
}

func TestExportMissingFont(t *testing.T) {
	if err := Export(nil, filepath.Join(t.TempDir(), "out.txt"), nil); err == nil {
		t.Fatal("expected error for nil font")
	}
}

func TestExportRejectsEmptyOutput(t *testing.T) {
	if err := Export(&pluginapi.Font{}, "", nil); err == nil {
		t.Fatal("expected error for empty output path")
	}
}
