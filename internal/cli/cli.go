package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitview/pkg/buildinfo"
	"github.com/matzehuels/circuitview/pkg/cache"
	"github.com/matzehuels/circuitview/pkg/config"
	"github.com/matzehuels/circuitview/pkg/observability"
	"github.com/matzehuels/circuitview/pkg/pipeline"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "circuitview"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug level also reports
// pipeline, cache, and HTTP events through the observability hooks.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLoggingHooks(c.Logger)
	} else {
		observability.Reset()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "circuitview draws quantum classifier circuits",
		Long:         `circuitview fetches the feature-map circuit of a quantum classifier (or generates one locally when the backend is unavailable), lays it out as a wire diagram, and renders it as SVG, PNG, PDF, JSON, or a gate-dependency graph. It can also explore circuits interactively in the terminal or serve them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/circuitview/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.experimentsCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts are the per-command overrides of the config file.
type runnerOpts struct {
	noCache bool
	offline bool
	noStore bool
}

// newRunner creates a pipeline runner for CLI use. Cache and store
// backends that cannot be reached are replaced by their null versions with
// a warning, so a missing Redis or MongoDB never blocks rendering.
func (c *CLI) newRunner(ctx context.Context, opts runnerOpts) (*pipeline.Runner, error) {
	loader, err := c.newLoader(opts.offline)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(loader, c.newCache(ctx, opts.noCache), c.newKeyer(), c.Logger)
	if !opts.noStore {
		runner.Store = c.openStore(ctx)
	}
	return runner, nil
}

// newLoader builds the backend-with-fallback loader. Offline mode skips the
// backend entirely.
func (c *CLI) newLoader(offline bool) (*source.Fallback, error) {
	if offline || c.Config.API.Offline {
		return source.NewFallback(nil, c.Logger), nil
	}
	client, err := source.NewClient(c.Config.API.BaseURL, c.Config.API.Timeout.Duration)
	if err != nil {
		return nil, err
	}
	return source.NewFallback(client, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache()
	}
	if cfg.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// newKeyer namespaces keys when they live in a shared Redis.
func (c *CLI) newKeyer() cache.Keyer {
	if c.Config.Cache.Backend == config.CacheRedis {
		return cache.NewScopedKeyer(nil, appName+":v1:")
	}
	return cache.NewDefaultKeyer()
}

// openStore connects the experiment log. An empty URI disables it.
func (c *CLI) openStore(ctx context.Context) store.Store {
	cfg := c.Config.Store
	if cfg.MongoURI == "" {
		return store.NewNullStore()
	}
	ms, err := store.OpenMongo(ctx, store.MongoOptions{URI: cfg.MongoURI, Database: cfg.Database})
	if err != nil {
		c.Logger.Warn("experiment store unavailable, not logging", "err", err)
		return store.NewNullStore()
	}
	return ms
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/circuitview/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
