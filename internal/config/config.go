package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig          `mapstructure:"database" toml:"database"`
	Proxy    ProxyConfig             `mapstructure:"proxy" toml:"proxy"`
	Search   SearchConfig            `mapstructure:"search" toml:"search"`
	Catalog  map[string]CatalogEntry `mapstructure:"catalog" toml:"catalog"`
	UI       UIConfig                `mapstructure:"ui" toml:"ui"`
	Scroll   ScrollConfig            `mapstructure:"scroll" toml:"scroll"`
	Media    MediaConfig             `mapstructure:"media" toml:"media"`
	Keys     KeyConfig               `mapstructure:"keys" toml:"keys"`
	Log      LogConfig               `mapstructure:"log" toml:"log"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path" toml:"path"`
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout"`
}

// ProxyConfig describes how outbound search requests are routed. The target
// URL is query-escaped and appended to URL.
type ProxyConfig struct {
	URL         string            `mapstructure:"url" toml:"url"`
	HTTPTimeout time.Duration     `mapstructure:"http_timeout" toml:"http_timeout"`
	RateLimit   float64           `mapstructure:"rate_limit" toml:"rate_limit"`
	Headers     map[string]string `mapstructure:"headers" toml:"headers"`
}

type SearchConfig struct {
	Path  string `mapstructure:"path" toml:"path"`
	Query string `mapstructure:"query" toml:"query"`
}

// CatalogEntry is a built-in source definition keyed by id.
type CatalogEntry struct {
	Name   string `mapstructure:"name" toml:"name"`
	API    string `mapstructure:"api" toml:"api"`
	Detail string `mapstructure:"detail" toml:"detail"`
}

type UIConfig struct {
	Colors     UIColors `mapstructure:"colors" toml:"colors"`
	Columns    int      `mapstructure:"columns" toml:"columns"`
	CardWidth  int      `mapstructure:"card_width" toml:"card_width"`
	DetailView bool     `mapstructure:"detail_view" toml:"detail_view"`
	WatchPage  string   `mapstructure:"watch_page" toml:"watch_page"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary" toml:"primary"`
	Secondary  string `mapstructure:"secondary" toml:"secondary"`
	Accent     string `mapstructure:"accent" toml:"accent"`
	Background string `mapstructure:"background" toml:"background"`
	Surface    string `mapstructure:"surface" toml:"surface"`
	Text       string `mapstructure:"text" toml:"text"`
	Muted      string `mapstructure:"muted" toml:"muted"`
	Error      string `mapstructure:"error" toml:"error"`
	Success    string `mapstructure:"success" toml:"success"`
}

type ScrollConfig struct {
	Debounce  time.Duration `mapstructure:"debounce" toml:"debounce"`
	Threshold int           `mapstructure:"threshold" toml:"threshold"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin" toml:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux" toml:"linux"`
	Windows       MediaPlayers `mapstructure:"windows" toml:"windows"`
	DefaultOpener string       `mapstructure:"default_opener" toml:"default_opener"`
}

type MediaPlayers struct {
	Video []string `mapstructure:"video" toml:"video"`
	Web   []string `mapstructure:"web" toml:"web"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier" toml:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings" toml:"bindings"`
}

type KeyBindings struct {
	Quit    string `mapstructure:"quit" toml:"quit"`
	Find    string `mapstructure:"find" toml:"find"`
	Reload  string `mapstructure:"reload" toml:"reload"`
	Open    string `mapstructure:"open" toml:"open"`
	More    string `mapstructure:"more" toml:"more"`
	Back    string `mapstructure:"back" toml:"back"`
	Help    string `mapstructure:"help" toml:"help"`
	Details string `mapstructure:"details" toml:"details"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Path:    filepath.Join(homeDir, ".vodfall.db"),
			Timeout: 1 * time.Second,
		},
		Proxy: ProxyConfig{
			URL:         "http://localhost:8080/proxy/",
			HTTPTimeout: 0,
			RateLimit:   0,
			Headers: map[string]string{
				"user-agent": "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36",
				"accept":     "application/json",
			},
		},
		Search: SearchConfig{
			Path:  "?ac=videolist&wd=",
			Query: "",
		},
		Catalog: map[string]CatalogEntry{},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#111111",
				Surface:    "#222222",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Columns:    0,
			CardWidth:  32,
			DetailView: true,
			WatchPage:  "http://localhost:8080/watch.html",
		},
		Scroll: ScrollConfig{
			Debounce:  200 * time.Millisecond,
			Threshold: 10,
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Video: []string{"iina", "mpv", "vlc"},
				Web:   []string{"open"},
			},
			Linux: MediaPlayers{
				Video: []string{"mpv", "vlc", "mplayer"},
				Web:   []string{"xdg-open"},
			},
			Windows: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Web:   []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:    "q",
				Find:    "f",
				Reload:  "r",
				Open:    "o",
				More:    "n",
				Back:    "esc",
				Help:    "?",
				Details: "enter",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  "",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("database", cfg.Database)
	v.SetDefault("proxy", cfg.Proxy)
	v.SetDefault("search", cfg.Search)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("scroll", cfg.Scroll)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "vodfall")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VODFALL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if config.Catalog == nil {
		config.Catalog = map[string]CatalogEntry{}
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings so the TOML stays readable
	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	proxyCfg := map[string]interface{}{
		"url":          config.Proxy.URL,
		"http_timeout": config.Proxy.HTTPTimeout.String(),
		"rate_limit":   config.Proxy.RateLimit,
		"headers":      config.Proxy.Headers,
	}

	scrollCfg := map[string]interface{}{
		"debounce":  config.Scroll.Debounce.String(),
		"threshold": config.Scroll.Threshold,
	}

	v.Set("database", dbCfg)
	v.Set("proxy", proxyCfg)
	v.Set("search", config.Search)
	v.Set("scroll", scrollCfg)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)
	if len(config.Catalog) > 0 {
		v.Set("catalog", config.Catalog)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// DefaultPath is where Load looks for config.toml when no path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vodfall", "config.toml")
}
