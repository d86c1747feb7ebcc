// Package partnertinybin defines the intermediate payload the
// partner_tiny_bin_extractor plugin attaches to Font.UserData: the raw
// bytes of a previously-serialized Partner Tiny stream, read back off
// disk so a later transform stage can decode it into a raster font. It
// is distinct from codec/partnertiny.Data (tag "PTNY"), which is the
// payload a transform stage produces by encoding glyph bitmaps; this
// package's tag ("PTNB") marks bytes that came straight from a file and
// have not yet been interpreted.
package partnertinybin

// Magic and version tag the payload.
const (
	Magic   = "PTNB"
	Version = 1
)

// Data wraps a Partner Tiny stream's raw bytes as loaded from disk.
type Data struct {
	Magic   string
	Version int
	Bytes   []byte
}
