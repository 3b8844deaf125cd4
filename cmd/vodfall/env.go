package main

import (
	"fmt"

	"github.com/pders01/vodfall/internal/config"
	"github.com/pders01/vodfall/internal/debuglog"
	"github.com/pders01/vodfall/internal/source"
	"github.com/pders01/vodfall/internal/storage"
	"github.com/pders01/vodfall/internal/validation"
)

// env is what every command needs: config, the preferences store and the
// source registry built on top of both.
type env struct {
	cfg      *config.Config
	store    *storage.Store
	catalog  *source.Catalog
	registry *source.Registry
}

func setup(opts *options) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	paths := validation.NewSecurePathHandler()

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if level := debuglog.ParseLogLevel(cfg.Log.Level); level != debuglog.LevelOff {
		logPath, err := paths.GetSecureLogPath(cfg.Log.File)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		if err := debuglog.Setup(level, logPath); err != nil {
			return nil, err
		}
	}

	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	dbPath, err := paths.GetSecureDBPath(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	cfg.Database.Path = dbPath

	catalog, err := source.NewCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStoreWithTimeout(dbPath, cfg.Database.Timeout)
	if err != nil {
		return nil, err
	}
	debuglog.Infof("opened preferences at %s", dbPath)

	return &env{
		cfg:      cfg,
		store:    store,
		catalog:  catalog,
		registry: source.NewRegistry(store, catalog),
	}, nil
}

// checkProxy validates the proxy base before any request is built from it.
func (e *env) checkProxy() error {
	proxy, err := validation.NewProxyURLValidator().ValidateAndNormalize(e.cfg.Proxy.URL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL %q: %w", e.cfg.Proxy.URL, err)
	}
	e.cfg.Proxy.URL = proxy
	return nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		debuglog.Warnf("closing store: %v", err)
	}
	_ = debuglog.Close()
}
