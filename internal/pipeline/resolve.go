package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tstih/snatch/internal/pluginapi"
)

// scalableFontExtractor and imageSheetExtractor are the concrete plugin
// names inferred from an input file's extension when the caller does not
// name an extractor explicitly.
const (
	scalableFontExtractor = "ttf_extractor"
	imageSheetExtractor   = "image_extractor"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true,
	".gif": true, ".tga": true, ".webp": true,
}

var scalableFontExtensions = map[string]bool{
	".ttf": true, ".otf": true,
}

// ResolveExtractor returns the concrete extractor plugin name: explicit if
// the caller named one, otherwise inferred from the input path's
// extension found in rawParams.
func ResolveExtractor(explicit string, rawParams string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	inputPath, _ := pluginapi.ParseOptions(rawParams).Get("input")
	ext := strings.ToLower(filepath.Ext(inputPath))
	switch {
	case scalableFontExtensions[ext]:
		return scalableFontExtractor, nil
	case imageExtensions[ext]:
		return imageSheetExtractor, nil
	default:
		return "", fmt.Errorf("snatch: cannot infer extractor for input extension %q", ext)
	}
}

// exporterAliases maps case-insensitive shorthand tokens to concrete
// exporter plugin names. "asm" is deliberately absent: two exporters
// (partner_sdcc_asm_tiny, partner_sdcc_asm_bitmap) both register the
// format tag "asm", so the bare token is ambiguous and must be rejected
// rather than silently picking one.
var exporterAliases = map[string]string{
	"bin": "raw_bin",
	"c":   "raw_c",
}

// ResolveExporter maps token to a concrete exporter plugin name via the
// shorthand alias table, rejecting the ambiguous bare "asm" token and
// passing any other token through unchanged as a concrete plugin name.
func ResolveExporter(token string) (string, error) {
	lower := strings.ToLower(token)
	if lower == "asm" {
		return "", fmt.Errorf("snatch: exporter alias %q is ambiguous; name a concrete plugin (e.g. partner_sdcc_asm_tiny, partner_sdcc_asm_bitmap)", token)
	}
	if name, ok := exporterAliases[lower]; ok {
		return name, nil
	}
	return token, nil
}
