// Package pipeline implements the extract → (transform) → export
// orchestrator: stage resolution, plugin search path assembly, parameter
// routing, and exit-code mapping.
package pipeline

import (
	"fmt"
	"io"
	"log"

	"github.com/tstih/snatch/internal/pluginapi"
	"github.com/tstih/snatch/internal/pluginhost"
)

// Process exit codes.
const (
	ExitSuccess            = 0
	ExitCLIError           = 1
	ExitOrchestrationError = 3
	ExitExtractError       = 4
	ExitStageError         = 5
)

// Config carries everything the CLI layer collected from flags and the
// environment, before any plugin has been resolved.
type Config struct {
	PluginDir string

	Extractor         string
	ExtractorParams   string
	Transformer       string
	TransformerParams string
	Exporter          string
	ExporterParams    string
}

// Result reports the outcome of a Run, including the font value that was
// in flight when it stopped, useful for tests.
type Result struct {
	ExitCode int
	Font     *pluginapi.Font
}

// pluginLoader is the subset of *pluginhost.Host that Run depends on.
// Tests substitute a fake through newHost to drive orchestration without
// building real -buildmode=plugin shared objects.
type pluginLoader interface {
	LoadNamedFromDirsInOrder(dirs []string, names []string) error
	FindByNameAndKind(name string, kind pluginapi.PluginKind) (*pluginhost.Record, bool)
	Close() error
}

// newHost constructs the pluginLoader Run uses; overridden in tests.
var newHost = func(logger *log.Logger, debug bool) pluginLoader {
	return pluginhost.New(logger, debug)
}

// Run resolves stages, loads the plugins that satisfy them from the
// search path, and drives one extract → transform → export invocation.
func Run(cfg Config, logger *log.Logger, debug bool) (Result, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	extractorName, err := ResolveExtractor(cfg.Extractor, cfg.ExtractorParams)
	if err != nil {
		return Result{ExitCode: ExitOrchestrationError}, err
	}
	exporterName, err := ResolveExporter(cfg.Exporter)
	if err != nil {
		return Result{ExitCode: ExitOrchestrationError}, err
	}
	transformerName := cfg.Transformer

	names := []string{extractorName, exporterName}
	if transformerName != "" {
		names = append(names, transformerName)
	}

	dirs := SearchDirs(cfg.PluginDir)
	host := newHost(logger, debug)
	if err := host.LoadNamedFromDirsInOrder(dirs, names); err != nil {
		return Result{ExitCode: ExitOrchestrationError}, fmt.Errorf("snatch: %w", err)
	}

	extractorRec, ok := host.FindByNameAndKind(extractorName, pluginapi.KindExtractor)
	if !ok {
		return Result{ExitCode: ExitOrchestrationError}, fmt.Errorf("snatch: extractor %q not found", extractorName)
	}
	exporterRec, ok := host.FindByNameAndKind(exporterName, pluginapi.KindExporter)
	if !ok {
		return Result{ExitCode: ExitOrchestrationError}, fmt.Errorf("snatch: exporter %q not found", exporterName)
	}
	var transformerRec *pluginhost.Record
	if transformerName != "" {
		rec, ok := host.FindByNameAndKind(transformerName, pluginapi.KindTransformer)
		if !ok {
			return Result{ExitCode: ExitOrchestrationError}, fmt.Errorf("snatch: transformer %q not found", transformerName)
		}
		transformerRec = rec
	}

	extractOpts, inputPath, hasInput := pluginapi.ParseOptions(cfg.ExtractorParams).Without("input")
	if !hasInput || inputPath == "" {
		return Result{ExitCode: ExitOrchestrationError}, fmt.Errorf("snatch: extractor input path is required")
	}

	font, err := extractorRec.Metadata.Extract(inputPath, extractOpts)
	if err != nil {
		return Result{ExitCode: ExitExtractError}, fmt.Errorf("snatch: extract failed: %w", err)
	}

	if transformerRec != nil {
		transformOpts, _, _ := pluginapi.ParseOptions(cfg.TransformerParams).Without("input")
		if err := transformerRec.Metadata.Transform(font, transformOpts); err != nil {
			return Result{ExitCode: ExitStageError, Font: font}, fmt.Errorf("snatch: transform failed: %w", err)
		}
	}

	exportOpts, outputPath, hasOutput := pluginapi.ParseOptions(cfg.ExporterParams).Without("output")
	if !hasOutput || outputPath == "" {
		return Result{ExitCode: ExitOrchestrationError, Font: font}, fmt.Errorf("snatch: exporter output path is required")
	}
	if err := exporterRec.Metadata.Export(font, outputPath, exportOpts); err != nil {
		return Result{ExitCode: ExitStageError, Font: font}, fmt.Errorf("snatch: export failed: %w", err)
	}

	_ = host.Close()
	return Result{ExitCode: ExitSuccess, Font: font}, nil
}
