package ingest

import (
	"fmt"
	"sort"
	"sync"
)

// ColumnSpec describes one column of a catalog file. Key is the
// normalized header form incoming headers must resolve to; Label is the
// human form used in templates and exports.
type ColumnSpec struct {
	Key      string
	Label    string
	Required bool
}

// Definition describes one importable catalog kind.
type Definition struct {
	// Key identifies the catalog in URLs and registry lookups.
	Key string

	// Label is the display name.
	Label string

	// Description explains what the file should contain.
	Description string

	// Columns lists the recognized columns in template order.
	Columns []ColumnSpec

	// Example is one sample data row, aligned with Columns, included in
	// the downloadable template.
	Example []string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Definition)
)

// Register adds a catalog definition. It panics on an empty key or a
// duplicate registration; both are wiring mistakes that should fail at
// startup, not at request time.
func Register(def Definition) {
	if def.Key == "" {
		panic("ingest: definition with empty key")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("ingest: duplicate definition %q", def.Key))
	}
	registry[def.Key] = def
}

// Lookup returns the definition for a catalog key.
func Lookup(key string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, ok := registry[key]
	return def, ok
}

// All returns every registered definition sorted by key.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()
	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Key < defs[j].Key })
	return defs
}
