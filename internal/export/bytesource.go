// Package export collects the stable serializers consuming a pipeline
// Font value: raw byte dump, C-array, PNG grid, assembly text, and a
// diagnostic dumper. Subpackages implement one exporter each; this file
// holds the byte-source selection shared by the raw and C-array
// exporters.
package export

import (
	"github.com/tstih/snatch/internal/codec/partnerbitmap"
	"github.com/tstih/snatch/internal/codec/partnertiny"
	"github.com/tstih/snatch/internal/pluginapi"
)

// RecognizedStream returns the raw bytes of a magic-tagged Partner
// Bitmap or Partner Tiny payload attached to font.UserData, or nil if
// UserData holds neither (or nothing).
func RecognizedStream(font *pluginapi.Font) []byte {
	if font == nil || font.UserData == nil {
		return nil
	}
	switch data := font.UserData.(type) {
	case *partnerbitmap.Data:
		if data.Magic == partnerbitmap.Magic && data.Version == partnerbitmap.Version && len(data.Bytes) > 0 {
			return data.Bytes
		}
	case *partnertiny.Data:
		if data.Magic == partnertiny.Magic && data.Version == partnertiny.Version && len(data.Bytes) > 0 {
			return data.Bytes
		}
	}
	return nil
}

// PackRawRows concatenates, for every codepoint in [first, last], the raw
// height*stride bytes of that glyph's bitmap; missing glyphs contribute
// nothing.
func PackRawRows(bf *pluginapi.BitmapFont, first, last int) []byte {
	var out []byte
	for cp := first; cp <= last; cp++ {
		g, ok := bf.Glyphs[rune(cp)]
		if !ok || g.Data == nil || g.Stride <= 0 {
			continue
		}
		rows := g.Height
		if rows < 0 {
			rows = 0
		}
		out = append(out, g.Data[:rows*g.Stride]...)
	}
	return out
}
