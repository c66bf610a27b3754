package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/visionspec/visionspec/internal/config"
	"github.com/visionspec/visionspec/pkg/buildinfo"
	"github.com/visionspec/visionspec/pkg/cache"
	"github.com/visionspec/visionspec/pkg/catalog"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/report"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "visionspec"
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

	configPath  string
	catalogPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "VisionSpec recommends TV sizes and draws elevation reports",
		Long:         `VisionSpec computes the minimum TV size for a viewing distance under the 4H, 6H and 8H regimes and produces white-label technical reports with a wall elevation diagram per recommendation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "config file (default $XDG_CONFIG_HOME/visionspec/config.toml)")
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", c.catalogPath, "size catalog file (overrides config and "+catalog.EnvFile+")")

	// Register all subcommands
	root.AddCommand(c.recommendCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Engine
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.LoadFile(c.configPath)
	}
	return config.Load()
}

// catalogFile resolves the catalog path: --catalog, then config, then
// catalog.Resolve.
func (c *CLI) catalogFile(cfg config.Config) (string, error) {
	if c.catalogPath != "" {
		return c.catalogPath, nil
	}
	if cfg.Catalog != "" {
		return cfg.Catalog, nil
	}
	return catalog.Resolve()
}

// newEngine loads the catalog and builds a recommendation engine.
func (c *CLI) newEngine(cfg config.Config) (*recommend.Engine, error) {
	path, err := c.catalogFile(cfg)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("catalog loaded", "path", path, "sizes", cat.Len())
	return recommend.New(cat)
}

// reportOptions maps the render section of cfg onto report options.
func (c *CLI) reportOptions(cfg config.Config) report.Options {
	return report.Options{
		SlotsPerPage: cfg.Render.SlotsPerPage,
		Scale:        cfg.Render.Scale,
		Logger:       c.Logger,
	}
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/visionspec/).
func cacheDir() (string, error) {
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
		return []string{report.FormatPDF}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
