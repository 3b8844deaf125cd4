package plugins

import (
	"context"
	"net/http"
	"time"
)

// SourceInfo is what a plugin learned about a URL the user wants to add as
// a custom source.
type SourceInfo struct {
	// Original URL that was given
	OriginalURL string
	// APIURL is the search API base the fetcher appends its query to
	APIURL string
	// DetailURL is the source's detail site, empty when unknown
	DetailURL string
	// Name suggested for the source
	Name string
	// Additional metadata that plugins can provide
	Metadata map[string]string
}

// Plugin turns a site URL into a usable source definition.
type Plugin interface {
	// Name returns the plugin name for identification
	Name() string

	// CanHandle returns true if this plugin can handle the given URL
	CanHandle(url string) bool

	// Resolve inspects url and returns the source definition. This may
	// involve HTTP requests to probe the site.
	Resolve(ctx context.Context, url string, client *http.Client) (*SourceInfo, error)

	// Priority returns the priority of this plugin (higher = higher priority)
	Priority() int
}

// Registry manages all registered plugins
type Registry struct {
	plugins []Plugin
	client  *http.Client
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		plugins: make([]Plugin, 0),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewDefaultRegistry returns a registry with the built-in plugins.
func NewDefaultRegistry(timeout time.Duration) *Registry {
	r := NewRegistry(timeout)
	r.Register(NewMacCMSPlugin())
	return r
}

func (r *Registry) Register(plugin Plugin) {
	r.plugins = append(r.plugins, plugin)
}

// FindPlugin returns the plugin with highest priority that can handle url.
func (r *Registry) FindPlugin(url string) Plugin {
	var bestPlugin Plugin
	highestPriority := -1

	for _, plugin := range r.plugins {
		if plugin.CanHandle(url) && plugin.Priority() > highestPriority {
			bestPlugin = plugin
			highestPriority = plugin.Priority()
		}
	}

	return bestPlugin
}

// Resolve runs the best plugin for url. Without one, url is taken as the
// API base as-is.
func (r *Registry) Resolve(ctx context.Context, url string) (*SourceInfo, error) {
	plugin := r.FindPlugin(url)
	if plugin == nil {
		return &SourceInfo{
			OriginalURL: url,
			APIURL:      url,
			Metadata:    make(map[string]string),
		}, nil
	}

	return plugin.Resolve(ctx, url, r.client)
}

// ListPlugins returns all registered plugins
func (r *Registry) ListPlugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}
