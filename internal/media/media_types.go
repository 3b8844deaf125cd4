package media

import (
	_ "embed"
	"net/url"
	"path"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

// Kind is what a URL points at, as far as choosing a program goes.
type Kind int

const (
	KindVideo Kind = iota
	KindWeb
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindWeb:
		return "web"
	default:
		return "unknown"
	}
}

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type TypesConfig struct {
	Video     TypeConfig                `toml:"video"`
	Web       TypeConfig                `toml:"web"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var config TypesConfig
	if _, err := toml.Decode(string(mediaTypesTOML), &config); err != nil {
		return nil, err
	}
	return &TypeDetector{config: &config}, nil
}

func (d *TypeDetector) DetectType(rawURL string) Kind {
	lower := strings.ToLower(rawURL)

	ext := extension(lower)
	if ext != "" {
		if contains(d.config.Video.Extensions, ext) {
			return KindVideo
		}
		if contains(d.config.Web.Extensions, ext) {
			return KindWeb
		}
	}

	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return KindUnknown
	}
	if matchesPattern(lower, d.config.Video.URLPatterns) {
		return KindVideo
	}
	if matchesPattern(lower, d.config.Web.URLPatterns) {
		return KindWeb
	}
	return KindWeb
}

func (d *TypeDetector) GetDefaultOpener() string {
	if platformConfig, ok := d.config.Platforms[runtime.GOOS]; ok {
		return platformConfig.DefaultOpener
	}
	if fallback, ok := d.config.Platforms["fallback"]; ok {
		return fallback.DefaultOpener
	}
	return "open"
}

// extension returns the lowercase extension of the URL's path, ignoring
// query and fragment.
func extension(lower string) string {
	p := lower
	if u, err := url.Parse(lower); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := path.Ext(p)
	return strings.TrimPrefix(ext, ".")
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func matchesPattern(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}
	return false
}
