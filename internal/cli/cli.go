// Package cli implements the graphgen command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphgen/internal/config"
	"github.com/matzehuels/graphgen/pkg/buildinfo"
	"github.com/matzehuels/graphgen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "graphgen"

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
	Config config.Config

	logOut  io.Writer
	logFile io.Closer

	// Persistent flags
	configPath string
	logPath    string
	mongoURI   string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		logOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logFile != nil {
		return c.logFile.Close()
	}
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "graphgen builds random layered graphs",
		Long: `graphgen builds random layered graphs: a random tree grown by a pool of
workers, decorated with self-loops (green), same-depth edges (blue),
one-level-down edges (yellow) and two-level-down edges (red).`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup() },
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default ~/.config/graphgen/config.toml)")
	pf.StringVar(&c.logPath, "log-file", "", "also write logs to this rotating file")
	pf.StringVar(&c.mongoURI, "archive", "", "MongoDB URI of the run archive")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the run cache")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies persistent flags.
func (c *CLI) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logPath != "" {
		cfg.Log.File = c.logPath
	}
	if c.mongoURI != "" {
		cfg.Archive.MongoURI = c.mongoURI
	}
	c.Config = cfg

	if w := cfg.Log.Writer(); w != nil && c.logFile == nil {
		c.Logger.SetOutput(io.MultiWriter(c.logOut, w))
		c.logFile = w
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the configuration.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.Config.OpenCache(ctx, c.noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a, err := c.Config.OpenArchive(ctx)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return pipeline.NewRunner(ch, c.Config.Keyer(), a, c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the directory of the file cache: the configured one or
// the XDG default (~/.cache/graphgen/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}
