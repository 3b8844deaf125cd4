package source

import (
	"strconv"
	"strings"

	"github.com/pders01/vodfall/internal/storage"
)

// Source is one resolved content provider. It does not change for the
// lifetime of an aggregation session.
type Source struct {
	Name     string
	API      string
	Detail   string
	IsCustom bool
	Code     string
}

// HasDetail reports whether the source exposes a separate detail endpoint.
func (s Source) HasDetail() bool { return s.Detail != "" }

// Prefs is the subset of the preferences store the registry reads.
type Prefs interface {
	SelectedAPIs() []string
	CustomAPIs() []storage.CustomAPI
}

// Registry resolves the user's selection against the catalog and the
// custom source list.
type Registry struct {
	prefs   Prefs
	catalog *Catalog
}

func NewRegistry(prefs Prefs, catalog *Catalog) *Registry {
	return &Registry{prefs: prefs, catalog: catalog}
}

func (r *Registry) Catalog() *Catalog { return r.catalog }

// Resolve returns the selected sources in selection order. Ids that do not
// resolve are dropped without error.
func (r *Registry) Resolve() []Source {
	if r.prefs == nil {
		return []Source{}
	}

	selected := r.prefs.SelectedAPIs()
	custom := r.prefs.CustomAPIs()

	sources := make([]Source, 0, len(selected))
	for _, id := range selected {
		if strings.HasPrefix(id, storage.CustomPrefix) {
			suffix := strings.TrimPrefix(id, storage.CustomPrefix)
			idx, err := strconv.Atoi(suffix)
			if err != nil || strconv.Itoa(idx) != suffix || idx < 0 || idx >= len(custom) {
				continue
			}
			api := custom[idx]
			sources = append(sources, Source{
				Name:     api.Name,
				API:      api.URL,
				Detail:   api.Detail,
				IsCustom: true,
				Code:     id,
			})
			continue
		}

		entry, ok := r.catalog.Lookup(id)
		if !ok {
			continue
		}
		sources = append(sources, Source{
			Name:     entry.Name,
			API:      entry.API,
			Detail:   entry.Detail,
			IsCustom: false,
			Code:     id,
		})
	}
	return sources
}
