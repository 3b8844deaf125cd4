package source

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/sahilm/fuzzy"

	"github.com/pders01/vodfall/internal/config"
)

//go:embed catalog.toml
var catalogTOML []byte

type catalogFile struct {
	Sources map[string]config.CatalogEntry `toml:"sources"`
}

// Catalog is the static id → source table for built-in sources.
type Catalog struct {
	entries map[string]config.CatalogEntry
}

// NewCatalog parses the embedded catalog and overlays the configured entries.
func NewCatalog(overrides map[string]config.CatalogEntry) (*Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(catalogTOML, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog.toml: %w", err)
	}

	entries := make(map[string]config.CatalogEntry, len(file.Sources)+len(overrides))
	for id, entry := range file.Sources {
		entries[id] = entry
	}
	for id, entry := range overrides {
		entries[id] = entry
	}
	return &Catalog{entries: entries}, nil
}

// NewCatalogFromEntries builds a catalog without the embedded defaults.
func NewCatalogFromEntries(entries map[string]config.CatalogEntry) *Catalog {
	copied := make(map[string]config.CatalogEntry, len(entries))
	for id, entry := range entries {
		copied[id] = entry
	}
	return &Catalog{entries: copied}
}

func (c *Catalog) Lookup(id string) (config.CatalogEntry, bool) {
	if c == nil {
		return config.CatalogEntry{}, false
	}
	entry, ok := c.entries[id]
	if !ok || entry.API == "" {
		return config.CatalogEntry{}, false
	}
	return entry, true
}

// IDs returns the catalog ids in sorted order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Suggest returns up to limit catalog ids that fuzzy-match id, best first.
func (c *Catalog) Suggest(id string, limit int) []string {
	ids := c.IDs()
	matches := fuzzy.Find(id, ids)
	out := make([]string, 0, limit)
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
