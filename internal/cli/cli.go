package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargodead/pkg/buildinfo"
	"github.com/matzehuels/cargodead/pkg/cache"
	"github.com/matzehuels/cargodead/pkg/pipeline"
	"github.com/matzehuels/cargodead/pkg/refs/rust"
	"github.com/matzehuels/cargodead/pkg/usage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cargo-dead"

	// SubcommandName is the argument cargo passes first when the binary is
	// run as `cargo dead`.
	SubcommandName = "dead"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Find and remove unused dependencies in Cargo workspaces",
		Long: `cargo-dead reports dependencies declared in Cargo.toml that the package's
own Rust sources never reference, and can remove them from the manifest.

Every workspace member is analyzed on its own: src/, tests/ and build.rs are
scanned for paths, and each [dependencies], [dev-dependencies] and
[build-dependencies] entry without a matching reference is reported.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.fixCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// StripSubcommand removes the leading "dead" argument cargo inserts when
// the binary runs as `cargo dead ...`.
func StripSubcommand(args []string) []string {
	if len(args) > 0 && args[0] == SubcommandName {
		return args[1:]
	}
	return args
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	agg := usage.NewAggregator(rust.New(), rust.Ext, cache, c.Logger)
	return pipeline.NewRunner(agg, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cargo-dead/).
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
