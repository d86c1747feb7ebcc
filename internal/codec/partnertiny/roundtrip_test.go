package partnertiny

import (
	"sort"
	"testing"

	"github.com/tstih/snatch/internal/pluginapi"
)

func glyphFromRows(rows ...string) pluginapi.GlyphBitmap {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	stride := (width + 7) / 8
	data := make([]byte, stride*len(rows))
	for y, r := range rows {
		for x, c := range r {
			if c == 'X' {
				data[y*stride+x/8] |= 1 << uint(7-x%8)
			}
		}
	}
	return pluginapi.GlyphBitmap{Width: width, Height: len(rows), Stride: stride, Data: data}
}

func foregroundSet(g pluginapi.GlyphBitmap) map[[2]int]bool {
	out := make(map[[2]int]bool)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			byteIndex := x / 8
			bitIndex := 7 - (x % 8)
			if g.Data[y*g.Stride+byteIndex]&(1<<uint(bitIndex)) != 0 {
				out[[2]int{x, y}] = true
			}
		}
	}
	return out
}

func keys(m map[[2]int]bool) [][2]int {
	out := make([][2]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	return out
}

func TestTinyRoundTripSingleGlyph(t *testing.T) {
	g := glyphFromRows(
		"X X X",
		" X X ",
		"X X X",
	)
	font := &pluginapi.BitmapFont{First: 65, Last: 65, Glyphs: map[rune]pluginapi.GlyphBitmap{65: g}}

	data, err := EncodeFont(font, 65, 65, g.Width, g.Height, true)
	if err != nil {
		t.Fatalf("EncodeFont failed: %v", err)
	}

	decoded, err := DecodeFont(data.Bytes)
	if err != nil {
		t.Fatalf("DecodeFont failed: %v", err)
	}
	got := decoded.Glyphs[65]
	want := foregroundSet(g)
	gotSet := foregroundSet(got)
	if len(want) != len(gotSet) {
		t.Fatalf("foreground pixel count mismatch: got %d, want %d\ngot=%v\nwant=%v", len(gotSet), len(want), keys(gotSet), keys(want))
	}
	for k := range want {
		if !gotSet[k] {
			t.Fatalf("missing pixel %v after round trip; got=%v want=%v", k, keys(gotSet), keys(want))
		}
	}
}

func TestTinyRoundTripFont(t *testing.T) {
	glyphs := map[rune]pluginapi.GlyphBitmap{
		65: glyphFromRows("X X", " X ", "X X"),
		66: glyphFromRows("XX", "X ", "XX"),
		67: glyphFromRows(" X", "X ", " X"),
	}
	font := &pluginapi.BitmapFont{First: 65, Last: 67, Glyphs: glyphs}

	data, err := EncodeFont(font, 65, 67, 3, 3, true)
	if err != nil {
		t.Fatalf("EncodeFont failed: %v", err)
	}
	decoded, err := DecodeFont(data.Bytes)
	if err != nil {
		t.Fatalf("DecodeFont failed: %v", err)
	}
	for cp, g := range glyphs {
		got, ok := decoded.Glyphs[cp]
		if !ok {
			t.Fatalf("missing glyph %d after round trip", cp)
		}
		want := foregroundSet(g)
		gotSet := foregroundSet(got)
		if len(want) != len(gotSet) {
			t.Fatalf("codepoint %d: pixel count mismatch got %d want %d", cp, len(gotSet), len(want))
		}
		for k := range want {
			if !gotSet[k] {
				t.Fatalf("codepoint %d: missing pixel %v", cp, k)
			}
		}
	}
}

func TestDecodeFontTruncatedHeader(t *testing.T) {
	if _, err := DecodeFont([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for stream shorter than header")
	}
}

func TestDecodeFontInvalidRange(t *testing.T) {
	stream := []byte{0, 0, 0, 10, 5}
	if _, err := DecodeFont(stream); err == nil {
		t.Fatal("expected error for last < first")
	}
}

func TestEncodeFontRejectsBadRange(t *testing.T) {
	font := &pluginapi.BitmapFont{Glyphs: map[rune]pluginapi.GlyphBitmap{}}
	if _, err := EncodeFont(font, 10, 5, 1, 1, true); err == nil {
		t.Fatal("expected error for last < first")
	}
}
