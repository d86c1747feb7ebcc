package textart

import "testing"

func sampleDump() []byte {
	return []byte("A  [X X]\nA  [XXX]\nA  [X X]\n" + "B  [XX ]\nB  [XX ]\n")
}

func TestExtractFontParsesRows(t *testing.T) {
	font, err := ExtractFont(sampleDump(), "test")
	if err != nil {
		t.Fatalf("ExtractFont failed: %v", err)
	}
	a, ok := font.Bitmaps.Glyphs['A']
	if !ok {
		t.Fatal("expected glyph for 'A'")
	}
	if a.Width != 3 || a.Height != 3 {
		t.Fatalf("got width=%d height=%d, want 3x3", a.Width, a.Height)
	}
	b, ok := font.Bitmaps.Glyphs['B']
	if !ok || b.Height != 2 {
		t.Fatalf("expected 2-row glyph for 'B', got %+v ok=%v", b, ok)
	}
}

func TestExtractFontRejectsMalformedRow(t *testing.T) {
	if _, err := ExtractFont([]byte("not a valid row\n"), "test"); err == nil {
		t.Fatal("expected error for malformed row")
	}
}

func TestExtractFontRejectsEmptyInput(t *testing.T) {
	if _, err := ExtractFont([]byte(""), "test"); err == nil {
		t.Fatal("expected error for empty input")
	}
}
