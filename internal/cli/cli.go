// Package cli implements the diaglot command-line interface.
//
// This package provides commands for parsing diagram descriptions in
// several dialects, computing layouts, rendering SVG output, and
// managing the pipeline cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - parse: Tokenize and parse a diagram, print the document as JSON
//   - layout: Compute positions and print the layout as JSON
//   - render: Generate SVG, JSON, or DOT artifacts
//   - inspect: Browse tokens and parse results interactively
//   - cache: Manage the pipeline cache
//   - serve: Run the render HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/diaglot/diaglot/pkg/buildinfo"
	"github.com/diaglot/diaglot/pkg/cache"
	"github.com/diaglot/diaglot/pkg/config"
	"github.com/diaglot/diaglot/pkg/layout"
	"github.com/diaglot/diaglot/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "diaglot"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the given
// file config.
func New(w io.Writer, level log.Level, cfg config.Config) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Diaglot compiles diagram descriptions into pictures",
		Long:         `Diaglot is a CLI tool that parses diagram descriptions written in its native syntax, PlantUML or Mermaid, figures out what kind of diagram they describe, and lays them out for rendering.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are
// scoped by release so entries written by one version are never read
// by another (layout geometry changes between releases).
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(c.newCache(noCache), keyer, c.Logger)
}

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache()
	}
	if addr := c.Config.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     addr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
		})
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", addr, "err", err)
	}
	dir, err := cacheDir(c.Config)
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// measurer picks the text measurer from config: real font metrics by
// default, the estimator when fonts are unavailable or disabled.
func (c *CLI) measurer() layout.Measurer {
	if c.Config.Fonts.Estimate {
		return layout.NewEstimator()
	}
	return layout.DefaultMeasurer()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/diaglot/).
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
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
// Input Helpers
// =============================================================================

// readSource reads diagram source from a file path, or stdin when the
// path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// outputPath derives an artifact filename from the input path and
// format, e.g. arch.diag + svg -> arch.svg. Stdin input falls back to
// "diagram".
func outputPath(input, format string) string {
	base := filepath.Base(input)
	if input == "-" || base == "." {
		base = "diagram"
	}
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "." + format
}
