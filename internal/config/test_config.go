package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Proxy: ProxyConfig{
			URL:         "",
			HTTPTimeout: 5 * time.Second,
			Headers:     map[string]string{"user-agent": "vodfall-test/1.0"},
		},
		Search: defaultConfig().Search,
		Catalog: map[string]CatalogEntry{
			"alpha": {Name: "Alpha", API: "http://alpha.test/api.php/provide/vod/"},
			"beta":  {Name: "Beta", API: "http://beta.test/api.php/provide/vod/", Detail: "http://beta.test"},
		},
		UI:     defaultConfig().UI,
		Scroll: defaultConfig().Scroll,
		Media:  defaultConfig().Media,
		Keys:   defaultConfig().Keys,
		Log:    LogConfig{Level: "off"},
	}
}
