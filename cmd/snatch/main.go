// snatch runs the extract/transform/export pipeline against a set of
// loadable plugins: an extractor turns an input file into a font value,
// an optional transformer rewrites it in place, and an exporter writes
// the result to disk.
//
//	./snatch -extractor ttf_extractor -extractor-parameters "input=font.ttf,font_size=16" \
//	         -exporter raw_bin -exporter-parameters "output=font.bin"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tstih/snatch/internal/pipeline"
)

var (
	pluginDir         = flag.String("plugin-dir", "", "additional directory to search for plugins, tried before every other search path entry")
	extractor         = flag.String("extractor", "", "extractor plugin name; if omitted, inferred from the input file's extension")
	extractorParams   = flag.String("extractor-parameters", "", "comma-separated key=value options for the extractor, must include input=<path>")
	transformer       = flag.String("transformer", "", "transformer plugin name; omit to skip the transform stage")
	transformerParams = flag.String("transformer-parameters", "", "comma-separated key=value options for the transformer")
	exporter          = flag.String("exporter", "", "exporter plugin name or alias (bin, c); the bare token \"asm\" is rejected as ambiguous")
	exporterParams    = flag.String("exporter-parameters", "", "comma-separated key=value options for the exporter, must include output=<path>")
)

func main() {
	flag.Parse()

	if *exporter == "" {
		fmt.Fprintln(os.Stderr, "snatch: -exporter is required")
		flag.Usage()
		os.Exit(pipeline.ExitCLIError)
	}

	debugFlag := os.Getenv("SNATCH_DEBUG_PLUGINS")
	debug := debugFlag != "" && debugFlag != "0"
	logger := log.New(os.Stderr, "snatch: ", 0)

	cfg := pipeline.Config{
		PluginDir:         *pluginDir,
		Extractor:         *extractor,
		ExtractorParams:   *extractorParams,
		Transformer:       *transformer,
		TransformerParams: *transformerParams,
		Exporter:          *exporter,
		ExporterParams:    *exporterParams,
	}

	result, err := pipeline.Run(cfg, logger, debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(result.ExitCode)
}
