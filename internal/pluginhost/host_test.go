package pluginhost

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/tstih/snatch/internal/pluginapi"
)

func TestValidMetadata(t *testing.T) {
	cases := []struct {
		name string
		meta pluginapi.Metadata
		want bool
	}{
		{
			"good extractor",
			pluginapi.Metadata{ABIVersion: pluginapi.ABIVersion, Kind: pluginapi.KindExtractor, Extract: func(string, pluginapi.Options) (*pluginapi.Font, error) { return nil, nil }},
			true,
		},
		{
			"bad abi version",
			pluginapi.Metadata{ABIVersion: 99, Kind: pluginapi.KindExtractor, Extract: func(string, pluginapi.Options) (*pluginapi.Font, error) { return nil, nil }},
			false,
		},
		{
			"extractor missing fn",
			pluginapi.Metadata{ABIVersion: pluginapi.ABIVersion, Kind: pluginapi.KindExtractor},
			false,
		},
		{
			"exporter missing format",
			pluginapi.Metadata{ABIVersion: pluginapi.ABIVersion, Kind: pluginapi.KindExporter, Export: func(*pluginapi.Font, string, pluginapi.Options) error { return nil }, Standard: "x"},
			false,
		},
		{
			"exporter complete",
			pluginapi.Metadata{ABIVersion: pluginapi.ABIVersion, Kind: pluginapi.KindExporter, Export: func(*pluginapi.Font, string, pluginapi.Options) error { return nil }, Format: "f", Standard: "x"},
			true,
		},
	}
	for _, c := range cases {
		if got := validMetadata(&c.meta); got != c.want {
			t.Errorf("%s: validMetadata = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLoadFromDirMissingIsNotFatal(t *testing.T) {
	var buf bytes.Buffer
	h := New(log.New(&buf, "", 0), false)
	if err := h.LoadFromDir(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Fatalf("LoadFromDir on missing dir returned error: %v", err)
	}
	if len(h.Plugins()) != 0 {
		t.Fatalf("expected no plugins loaded, got %d", len(h.Plugins()))
	}
}

func TestLoadFromDirIgnoresNonSharedObjects(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	h := New(log.New(&buf, "", 0), false)
	if err := h.LoadFromDir(dir); err != nil {
		t.Fatalf("LoadFromDir returned error: %v", err)
	}
	if len(h.Plugins()) != 0 {
		t.Fatalf("expected no plugins loaded from non-.so files, got %d", len(h.Plugins()))
	}
}

func TestFindHelpers(t *testing.T) {
	h := &Host{plugins: []Record{
		{Metadata: &pluginapi.Metadata{Name: "raw_bin", Kind: pluginapi.KindExporter}},
		{Metadata: &pluginapi.Metadata{Name: "ttf_extractor", Kind: pluginapi.KindExtractor}},
	}}
	if _, ok := h.FindByName("raw_bin"); !ok {
		t.Fatal("expected to find raw_bin")
	}
	if _, ok := h.FindByNameAndKind("raw_bin", pluginapi.KindExtractor); ok {
		t.Fatal("expected no extractor named raw_bin")
	}
	if _, ok := h.FindFirstByKind(pluginapi.KindExtractor); !ok {
		t.Fatal("expected to find an extractor")
	}
}

func TestCloseIsNoopButClearsRecords(t *testing.T) {
	h := &Host{plugins: []Record{{Metadata: &pluginapi.Metadata{Name: "x"}}}}
	if err := h.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if len(h.Plugins()) != 0 {
		t.Fatalf("expected plugins cleared after Close, got %d", len(h.Plugins()))
	}
}
