package pluginapi

import "strings"

// Options is an ordered collection of (key, value) string pairs produced
// by parsing a stage's -parameters value. Lookup is last-wins: later
// duplicates of a key override earlier ones.
type Options []KV

// KV is a single parsed key/value pair.
type KV struct {
	Key, Value string
}

// ParseOptions parses a comma-separated list of key=value pairs. Leading
// and trailing whitespace around each key and value is trimmed; a bare
// key with no "=" yields (key, "").
func ParseOptions(s string) Options {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(Options, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i := strings.IndexByte(p, '='); i >= 0 {
			key := strings.TrimSpace(p[:i])
			value := strings.TrimSpace(p[i+1:])
			out = append(out, KV{Key: key, Value: value})
		} else {
			out = append(out, KV{Key: p, Value: ""})
		}
	}
	return out
}

// Get returns the value of the last occurrence of key, and whether key
// was present at all.
func (o Options) Get(key string) (string, bool) {
	value, ok := "", false
	for _, kv := range o {
		if kv.Key == key {
			value, ok = kv.Value, true
		}
	}
	return value, ok
}

// GetDefault returns the last occurrence's value, or def if key is absent.
func (o Options) GetDefault(key, def string) string {
	if v, ok := o.Get(key); ok {
		return v
	}
	return def
}

// Without returns a copy of o with every occurrence of key removed,
// alongside the last value seen for key (if any). Used by the pipeline
// orchestrator to pull out the "input"/"output" path keys before
// forwarding the remaining pairs to a stage.
func (o Options) Without(key string) (rest Options, value string, ok bool) {
	rest = make(Options, 0, len(o))
	for _, kv := range o {
		if kv.Key == key {
			value, ok = kv.Value, true
			continue
		}
		rest = append(rest, kv)
	}
	return
}
