// Package pluginapi defines the stable value types that cross the plugin
// host/plugin boundary: the glyph bitmap and font value model, key/value
// options, and plugin metadata/kind. Every loadable plugin in plugins/
// and every stage invocation in internal/pipeline speaks this vocabulary.
package pluginapi

import "fmt"

// GlyphBitmap is a single codepoint's packed 1bpp image plus its metrics.
// Pixel (x, y) is foreground iff Data[y*Stride + x/8] has bit (7 - x%8)
// set (MSB-first, row-major). An empty glyph has Width or Height 0 and a
// nil Data run.
type GlyphBitmap struct {
	Codepoint rune
	Width     int
	Height    int
	BearingX  int
	BearingY  int
	Advance   int
	Stride    int
	Data      []byte
}

// BitmapFont is an ordered glyph table over an inclusive codepoint range.
// A codepoint inside [First, Last] that has no entry in Glyphs is treated
// as empty.
type BitmapFont struct {
	First, Last int
	Glyphs      map[rune]GlyphBitmap
}

// MaxDimensions returns the maximum glyph width and height across the
// font's glyph table.
func (f *BitmapFont) MaxDimensions() (maxWidth, maxHeight int) {
	for _, g := range f.Glyphs {
		if g.Width > maxWidth {
			maxWidth = g.Width
		}
		if g.Height > maxHeight {
			maxHeight = g.Height
		}
	}
	return
}

// Font is the pipeline's cross-stage value. The extractor populates it;
// an optional transformer may replace Bitmaps and/or attach UserData; the
// exporter consumes whichever of the two it understands.
type Font struct {
	Name               string
	PixelSize          int
	First, Last        int
	Bitmaps            *BitmapFont
	UserData           interface{}
}

// PluginKind identifies which of the three pipeline stages a plugin fills.
type PluginKind int

const (
	KindExtractor PluginKind = iota
	KindTransformer
	KindExporter
)

func (k PluginKind) String() string {
	switch k {
	case KindExtractor:
		return "extractor"
	case KindTransformer:
		return "transformer"
	case KindExporter:
		return "exporter"
	default:
		return "unknown"
	}
}

// ExtractFunc populates a fresh Font from inputPath.
type ExtractFunc func(inputPath string, opts Options) (*Font, error)

// TransformFunc mutates font in place: it may replace Bitmaps and/or
// attach a payload in UserData.
type TransformFunc func(font *Font, opts Options) error

// ExportFunc consumes font (and any UserData) and writes outputPath.
type ExportFunc func(font *Font, outputPath string, opts Options) error

// Metadata is the static block a plugin's entry point returns. Exactly
// one of Extract, Transform, Export is populated, matching Kind.
type Metadata struct {
	Name        string
	Description string
	Author      string
	Format      string
	Standard    string
	ABIVersion  int
	Kind        PluginKind

	Extract   ExtractFunc
	Transform TransformFunc
	Export    ExportFunc
}

// ABIVersion is the integer constant shared by the host and every plugin;
// it is the sole gate on load-time compatibility.
const ABIVersion = 1

// StageError carries a distinct integer error code alongside a message,
// matching the spec's per-component error taxonomy (configuration,
// plugin, stage, data, and I/O errors all surface through this type).
type StageError struct {
	Code    int
	Message string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("snatch: error %d: %s", e.Code, e.Message)
}

// NewStageError builds a StageError.
func NewStageError(code int, format string, args ...interface{}) *StageError {
	return &StageError{Code: code, Message: fmt.Sprintf(format, args...)}
}
