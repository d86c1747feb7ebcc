// Package pluginhost discovers, validates, loads, and retains snatch
// plugins built as Go shared objects (-buildmode=plugin). It is the Go
// analogue of a dlopen/dlsym-based plugin manager: plugin.Open corresponds
// to dlopen, plugin.Lookup to dlsym.
package pluginhost

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"plugin"

	"github.com/tstih/snatch/internal/pluginapi"
)

// EntryPointSymbol is the single discovery symbol every plugin exports.
const EntryPointSymbol = "SnatchPluginGet"

// SharedObjectExt is the extension load_from_dir scans for.
const SharedObjectExt = ".so"

// Record is a loaded plugin's metadata plus the path it was loaded from.
type Record struct {
	Metadata *pluginapi.Metadata
	Path     string
}

// Host owns every shared-object handle opened during its lifetime.
type Host struct {
	plugins []Record
	logger  *log.Logger
	debug   bool
}

// New builds a Host that logs loader diagnostics to logger. When debug is
// true, every attempted load (success or failure) is traced; otherwise
// only failures are logged.
func New(logger *log.Logger, debug bool) *Host {
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	return &Host{logger: logger, debug: debug}
}

// Plugins returns every currently loaded plugin record.
func (h *Host) Plugins() []Record {
	return h.plugins
}

// LoadFromDir enumerates regular files in dir with the shared-library
// extension and attempts to load each; invalid plugins are skipped with
// a logged diagnostic rather than aborting the scan.
func (h *Host) LoadFromDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != SharedObjectExt {
			continue
		}
		h.tryLoad(filepath.Join(dir, e.Name()))
	}
	return nil
}

// LoadNamedFromDir attempts to load dir/name+SharedObjectExt for each
// name in names, returning the number successfully loaded.
func (h *Host) LoadNamedFromDir(dir string, names []string) int {
	loaded := 0
	for _, name := range names {
		path := filepath.Join(dir, name+SharedObjectExt)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		before := len(h.plugins)
		h.tryLoad(path)
		if len(h.plugins) > before {
			loaded++
		}
	}
	return loaded
}

// LoadFromDirsInOrder iterates dirs in order and stops at the first
// directory that contributes at least one valid plugin.
func (h *Host) LoadFromDirsInOrder(dirs []string) error {
	for _, dir := range dirs {
		before := len(h.plugins)
		if err := h.LoadFromDir(dir); err != nil {
			return err
		}
		if len(h.plugins) > before {
			return nil
		}
	}
	return nil
}

// LoadNamedFromDirsInOrder iterates dirs and stops at the first directory
// in which every requested name resolves.
func (h *Host) LoadNamedFromDirsInOrder(dirs []string, names []string) error {
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if h.LoadNamedFromDir(dir, names) == len(names) {
			return nil
		}
	}
	return fmt.Errorf("snatch: no plugin directory satisfied all of %v", names)
}

func (h *Host) tryLoad(path string) {
	if h.debug {
		h.logger.Printf("plugin: opening %s", path)
	}
	p, err := plugin.Open(path)
	if err != nil {
		h.logger.Printf("plugin: open failed: %v (%s)", err, path)
		return
	}
	sym, err := p.Lookup(EntryPointSymbol)
	if err != nil {
		h.logger.Printf("plugin: missing entry point %s: %v (%s)", EntryPointSymbol, err, path)
		return
	}
	getFn, ok := sym.(func() (*pluginapi.Metadata, error))
	if !ok {
		h.logger.Printf("plugin: entry point has wrong signature (%s)", path)
		return
	}
	meta, err := getFn()
	if err != nil || meta == nil {
		h.logger.Printf("plugin: get() failed: %v (%s)", err, path)
		return
	}
	if !validMetadata(meta) {
		h.logger.Printf("plugin: ABI/kind/function mismatch (%s)", path)
		return
	}
	h.plugins = append(h.plugins, Record{Metadata: meta, Path: path})
	if h.debug {
		h.logger.Printf("plugin: loaded %s (%s) from %s", meta.Name, meta.Kind, path)
	}
}

func validMetadata(m *pluginapi.Metadata) bool {
	if m.ABIVersion != pluginapi.ABIVersion {
		return false
	}
	switch m.Kind {
	case pluginapi.KindExtractor:
		if m.Extract == nil {
			return false
		}
	case pluginapi.KindTransformer:
		if m.Transform == nil {
			return false
		}
	case pluginapi.KindExporter:
		if m.Export == nil || m.Format == "" || m.Standard == "" {
			return false
		}
	default:
		return false
	}
	return true
}

// FindByName returns the first loaded plugin whose metadata name matches.
func (h *Host) FindByName(name string) (*Record, bool) {
	for i := range h.plugins {
		if h.plugins[i].Metadata.Name == name {
			return &h.plugins[i], true
		}
	}
	return nil, false
}

// FindByNameAndKind restricts FindByName to a specific kind.
func (h *Host) FindByNameAndKind(name string, kind pluginapi.PluginKind) (*Record, bool) {
	for i := range h.plugins {
		if h.plugins[i].Metadata.Name == name && h.plugins[i].Metadata.Kind == kind {
			return &h.plugins[i], true
		}
	}
	return nil, false
}

// FindFirstByKind returns the first loaded plugin of the given kind.
func (h *Host) FindFirstByKind(kind pluginapi.PluginKind) (*Record, bool) {
	for i := range h.plugins {
		if h.plugins[i].Metadata.Kind == kind {
			return &h.plugins[i], true
		}
	}
	return nil, false
}

// Close releases the host's plugin handles. Go's plugin package has no
// unload primitive once plugin.Open has succeeded, so this exists only
// to give callers a symmetric release point matching the spec's
// "released strictly after the last pipeline invocation" lifetime rule;
// it does not actually unmap any shared object and only clears the
// host's list of loaded records.
func (h *Host) Close() error {
	h.plugins = nil
	return nil
}
