package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tstih/snatch/internal/pluginapi"
	"github.com/tstih/snatch/internal/pluginhost"
)

// fakeLoader stands in for *pluginhost.Host: it never touches a real
// shared object, it just hands back the Records it was seeded with.
type fakeLoader struct {
	records map[string]*pluginhost.Record
	loadErr error
	closed  bool
}

func (f *fakeLoader) LoadNamedFromDirsInOrder(dirs []string, names []string) error {
	return f.loadErr
}

func (f *fakeLoader) FindByNameAndKind(name string, kind pluginapi.PluginKind) (*pluginhost.Record, bool) {
	rec, ok := f.records[name]
	if !ok || rec.Metadata.Kind != kind {
		return nil, false
	}
	return rec, true
}

func (f *fakeLoader) Close() error {
	f.closed = true
	return nil
}

func withFakeHost(t *testing.T, f *fakeLoader) {
	t.Helper()
	prev := newHost
	newHost = func(logger *log.Logger, debug bool) pluginLoader { return f }
	t.Cleanup(func() { newHost = prev })
}

func fakeExtractor(name string, fn func(string, pluginapi.Options) (*pluginapi.Font, error)) (string, *pluginhost.Record) {
	return name, &pluginhost.Record{Metadata: &pluginapi.Metadata{
		Name: name, Kind: pluginapi.KindExtractor, ABIVersion: pluginapi.ABIVersion, Extract: fn,
	}}
}

func fakeTransformer(name string, fn func(*pluginapi.Font, pluginapi.Options) error) (string, *pluginhost.Record) {
	return name, &pluginhost.Record{Metadata: &pluginapi.Metadata{
		Name: name, Kind: pluginapi.KindTransformer, ABIVersion: pluginapi.ABIVersion, Transform: fn,
	}}
}

func fakeExporter(name string, fn func(*pluginapi.Font, string, pluginapi.Options) error) (string, *pluginhost.Record) {
	return name, &pluginhost.Record{Metadata: &pluginapi.Metadata{
		Name: name, Kind: pluginapi.KindExporter, Format: "bin", Standard: "fake", ABIVersion: pluginapi.ABIVersion, Export: fn,
	}}
}

// TestRunExtractExportSucceeds mirrors S2: a valid extractor + exporter
// pair with no transformer produces exit 0 and a non-empty output file.
func TestRunExtractExportSucceeds(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.bin")

	extractName, extractRec := fakeExtractor("fake_extract", func(input string, opts pluginapi.Options) (*pluginapi.Font, error) {
		if input != "X" {
			t.Fatalf("extractor got input %q, want X", input)
		}
		return &pluginapi.Font{Name: "f", First: 65, Last: 67}, nil
	})
	exportName, exportRec := fakeExporter("fake_export", func(font *pluginapi.Font, output string, opts pluginapi.Options) error {
		return os.WriteFile(output, []byte("data"), 0o644)
	})

	withFakeHost(t, &fakeLoader{records: map[string]*pluginhost.Record{
		extractName: extractRec,
		exportName:  exportRec,
	}})

	cfg := Config{
		Extractor:       extractName,
		ExtractorParams: "input=X,first_ascii=65,last_ascii=67",
		Exporter:        exportName,
		ExporterParams:  "output=" + outPath,
	}
	result, err := Run(cfg, nil, false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.ExitCode != ExitSuccess {
		t.Fatalf("ExitCode = %d, want %d", result.ExitCode, ExitSuccess)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty output file")
	}
}

// TestRunMissingInputIsOrchestrationError mirrors S3: omitting input=
// yields exit 3 and the exact message substring the spec names.
func TestRunMissingInputIsOrchestrationError(t *testing.T) {
	extractName, extractRec := fakeExtractor("fake_extract", func(string, pluginapi.Options) (*pluginapi.Font, error) {
		t.Fatal("extractor should not run when input is missing")
		return nil, nil
	})
	exportName, exportRec := fakeExporter("fake_export", func(*pluginapi.Font, string, pluginapi.Options) error {
		t.Fatal("exporter should not run when input is missing")
		return nil
	})

	withFakeHost(t, &fakeLoader{records: map[string]*pluginhost.Record{
		extractName: extractRec,
		exportName:  exportRec,
	}})

	cfg := Config{
		Extractor:       extractName,
		ExtractorParams: "first_ascii=65,last_ascii=67,font_size=16",
		Exporter:        exportName,
		ExporterParams:  "output=out.bin",
	}
	result, err := Run(cfg, nil, false)
	if result.ExitCode != ExitOrchestrationError {
		t.Fatalf("ExitCode = %d, want %d", result.ExitCode, ExitOrchestrationError)
	}
	if err == nil || !strings.Contains(err.Error(), "extractor input path is required") {
		t.Fatalf("err = %v, want it to contain %q", err, "extractor input path is required")
	}
}

// TestRunWithTransformerSucceeds mirrors S4: a transform stage runs
// between extract and export and can observe/mutate the font in flight.
func TestRunWithTransformerSucceeds(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.c")

	extractName, extractRec := fakeExtractor("fake_extract", func(string, pluginapi.Options) (*pluginapi.Font, error) {
		return &pluginapi.Font{Name: "f", First: 65, Last: 67}, nil
	})
	transformName, transformRec := fakeTransformer("fake_transform", func(font *pluginapi.Font, opts pluginapi.Options) error {
		mode, _ := opts.Get("font_mode")
		if mode != "proportional" {
			t.Fatalf("transform got font_mode=%q, want proportional", mode)
		}
		font.Name = "test_font"
		return nil
	})
	exportName, exportRec := fakeExporter("fake_export", func(font *pluginapi.Font, output string, opts pluginapi.Options) error {
		symbol, _ := opts.Get("symbol")
		content := fmt.Sprintf("const uint8_t %s[] = {};\n", symbol)
		if font.Name != "test_font" {
			t.Fatalf("exporter saw font.Name=%q, want transform's mutation to have applied", font.Name)
		}
		return os.WriteFile(output, []byte(content), 0o644)
	})

	withFakeHost(t, &fakeLoader{records: map[string]*pluginhost.Record{
		extractName:   extractRec,
		transformName: transformRec,
		exportName:    exportRec,
	}})

	cfg := Config{
		Extractor:         extractName,
		ExtractorParams:   "input=X,first_ascii=65,last_ascii=67,font_size=16",
		Transformer:       transformName,
		TransformerParams: "font_mode=proportional,space_width=3,letter_spacing=2",
		Exporter:          exportName,
		ExporterParams:    "output=" + outPath + ",symbol=test_font",
	}
	result, err := Run(cfg, nil, false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.ExitCode != ExitSuccess {
		t.Fatalf("ExitCode = %d, want %d", result.ExitCode, ExitSuccess)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.Contains(string(data), "const uint8_t test_font[]") {
		t.Fatalf("output = %q, want it to contain %q", data, "const uint8_t test_font[]")
	}
}

// TestRunExporterRejectsBadOption mirrors S7: an exporter stage error
// (e.g. a rejected option value) surfaces as ExitStageError with the
// plugin's own message intact.
func TestRunExporterRejectsBadOption(t *testing.T) {
	extractName, extractRec := fakeExtractor("fake_extract", func(string, pluginapi.Options) (*pluginapi.Font, error) {
		return &pluginapi.Font{Name: "f"}, nil
	})
	exportName, exportRec := fakeExporter("fake_export", func(*pluginapi.Font, string, pluginapi.Options) error {
		return pluginapi.NewStageError(20, "space_width must be 0..7")
	})

	withFakeHost(t, &fakeLoader{records: map[string]*pluginhost.Record{
		extractName: extractRec,
		exportName:  exportRec,
	}})

	cfg := Config{
		Extractor:       extractName,
		ExtractorParams: "input=X",
		Exporter:        exportName,
		ExporterParams:  "output=out.bin,space_width=9",
	}
	result, err := Run(cfg, nil, false)
	if result.ExitCode != ExitStageError {
		t.Fatalf("ExitCode = %d, want %d", result.ExitCode, ExitStageError)
	}
	if err == nil || !strings.Contains(err.Error(), "space_width must be 0..7") {
		t.Fatalf("err = %v, want it to contain %q", err, "space_width must be 0..7")
	}
}

// TestRunUnresolvableExtractorIsOrchestrationError covers stage
// resolution failing before any plugin is even loaded.
func TestRunUnresolvableExtractorIsOrchestrationError(t *testing.T) {
	withFakeHost(t, &fakeLoader{records: map[string]*pluginhost.Record{}})

	cfg := Config{
		ExtractorParams: "input=weird.xyz",
		Exporter:        "bin",
		ExporterParams:  "output=out.bin",
	}
	result, err := Run(cfg, nil, false)
	if result.ExitCode != ExitOrchestrationError {
		t.Fatalf("ExitCode = %d, want %d", result.ExitCode, ExitOrchestrationError)
	}
	if err == nil {
		t.Fatal("expected an error for an unresolvable extractor extension")
	}
}

// TestRunLoggerDefaultsToDiscard exercises the nil-logger fallback so a
// caller that doesn't care about diagnostics doesn't have to build one.
func TestRunLoggerDefaultsToDiscard(t *testing.T) {
	extractName, extractRec := fakeExtractor("fake_extract", func(string, pluginapi.Options) (*pluginapi.Font, error) {
		return &pluginapi.Font{Name: "f"}, nil
	})
	exportName, exportRec := fakeExporter("fake_export", func(*pluginapi.Font, string, pluginapi.Options) error {
		return nil
	})
	loader := &fakeLoader{records: map[string]*pluginhost.Record{
		extractName: extractRec,
		exportName:  exportRec,
	}}
	withFakeHost(t, loader)

	cfg := Config{
		Extractor:       extractName,
		ExtractorParams: "input=X",
		Exporter:        exportName,
		ExporterParams:  "output=out.bin",
	}
	if _, err := Run(cfg, nil, false); err != nil {
		t.Fatalf("Run with nil logger returned error: %v", err)
	}
	if !loader.closed {
		t.Fatal("expected host.Close to be called on success")
	}
}
