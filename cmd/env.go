package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/config"
	"github.com/wheninja/wheninja/internal/logging"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/store"
)

// deps holds what every command needs: configuration, a logger and the
// open database.
type deps struct {
	cfg      config.Config
	logger   *zap.Logger
	db       *store.Store
	progress *progress.Store

	closers []func() error
}

// setup loads configuration, starts logging and opens the database. The
// caller must Close the result. console is where --verbose mirrors logs.
func setup(cmd *cobra.Command, console io.Writer) (*deps, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	opts := logging.Options{Path: logPath, Level: cfg.Level()}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts.Console = console
	}
	logger, stopLogging, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("start logging: %w", err)
	}
	rt := &deps{cfg: cfg, logger: logger}
	rt.closers = append(rt.closers, func() error { stopLogging(); return nil })

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.closers = append(rt.closers, db.Close)
	rt.db = db
	rt.progress = progress.NewStore(db.KV(), cfg.DefaultSettings(), logger)

	logger.Debug("runtime ready",
		zap.String("command", cmd.Name()),
		zap.String("db", dbPath),
		zap.String("log", logPath))
	return rt, nil
}

// Close releases resources in reverse order of acquisition.
func (rt *deps) Close() error {
	var err error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, rt.closers[i]())
	}
	rt.closers = nil
	return err
}

// catalog loads the quiz dataset from --catalog, WHENINJA_CATALOG, or the
// built-in copy.
func (rt *deps) catalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = rt.cfg.CatalogPath
	}
	if path == "" {
		return catalog.Builtin()
	}
	rt.logger.Info("loading catalog", zap.String("path", path))
	return catalog.LoadFile(path)
}

// resolveDBPath returns the database path using the --db flag (highest
// priority), then the configured WHENINJA_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
