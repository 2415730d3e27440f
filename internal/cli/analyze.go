package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargodead/pkg/deps"
	"github.com/matzehuels/cargodead/pkg/deps/rust"
	"github.com/matzehuels/cargodead/pkg/errors"
	"github.com/matzehuels/cargodead/pkg/pipeline"
)

// analyzeFlags holds the flags shared by check and fix.
type analyzeFlags struct {
	manifestPath    string
	onlyRegular     bool
	onlyDev         bool
	onlyBuild       bool
	offlineMetadata bool
	exactNames      bool
	noCache         bool
}

func (f analyzeFlags) options(mode pipeline.Mode) pipeline.Options {
	return pipeline.Options{
		Mode: mode,
		Filter: deps.Filter{
			OnlyRegular: f.onlyRegular,
			OnlyDev:     f.onlyDev,
			OnlyBuild:   f.onlyBuild,
		},
		ExactNames: f.exactNames,
	}
}

// checkCommand creates the "check" command.
func (c *CLI) checkCommand() *cobra.Command {
	return c.analyzeCommand(pipeline.ModeCheck,
		"Report unused dependencies",
		`Report dependencies that no source file of the declaring package references.

Nothing is modified. Each workspace member is listed with its unused
dependencies, grouped by kind.`)
}

// fixCommand creates the "fix" command.
func (c *CLI) fixCommand() *cobra.Command {
	return c.analyzeCommand(pipeline.ModeFix,
		"Remove unused dependencies from Cargo.toml",
		`Report unused dependencies and remove them from each member's Cargo.toml.

Only the unused entries are removed; comments, formatting and every other
table are kept as they are. A manifest is written only when something was
removed.`)
}

func (c *CLI) analyzeCommand(mode pipeline.Mode, short, long string) *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   mode.String(),
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runAnalyze(ctx, cmd.OutOrStdout(), mode, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.manifestPath, "manifest-path", "", "path to Cargo.toml (default: discovered from the working directory)")
	f.BoolVar(&flags.onlyRegular, "only-regular", false, "only analyze [dependencies]")
	f.BoolVar(&flags.onlyDev, "only-dev", false, "only analyze [dev-dependencies]")
	f.BoolVar(&flags.onlyBuild, "only-build", false, "only analyze [build-dependencies]")
	f.BoolVar(&flags.offlineMetadata, "offline-metadata", false, "read manifests directly instead of running cargo metadata")
	f.BoolVar(&flags.exactNames, "exact-names", false, "match dependency names exactly instead of folding '-' to '_'")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the per-file reference cache")
	cmd.MarkFlagsMutuallyExclusive("only-regular", "only-dev", "only-build")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, w io.Writer, mode pipeline.Mode, flags analyzeFlags) error {
	if err := errors.ValidateManifestPath(flags.manifestPath); err != nil {
		return err
	}
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}

	provider := selectProvider(logger, flags, exec.LookPath)
	if logger.GetLevel() > log.DebugLevel && isTerminal(os.Stderr) {
		provider = &spinnerProvider{Provider: provider, w: os.Stderr}
	}
	logger.Debug("using workspace provider", "provider", provider.Name())

	p := newPrinter(w)
	prog := newProgress(logger)
	result, err := runner.Run(ctx, provider, flags.options(mode), p.packageResult)
	if err != nil {
		return err
	}
	p.summary(result, mode)
	prog.done(fmt.Sprintf("Analyzed %s", plural(len(result.Packages), "package")),
		"mode", mode, "unused", result.Unused())
	return nil
}

// selectProvider picks `cargo metadata` when cargo can be found and the
// direct manifest reader otherwise.
func selectProvider(logger *log.Logger, flags analyzeFlags, lookPath func(string) (string, error)) deps.Provider {
	if flags.offlineMetadata {
		return &rust.Workspace{ManifestPath: flags.manifestPath}
	}
	cargo := os.Getenv("CARGO")
	if cargo == "" {
		cargo = "cargo"
	}
	path, err := lookPath(cargo)
	if err != nil {
		logger.Warn("cargo not found, reading manifests directly", "err", err)
		return &rust.Workspace{ManifestPath: flags.manifestPath}
	}
	return &rust.CargoMetadata{ManifestPath: flags.manifestPath, Cargo: path}
}
