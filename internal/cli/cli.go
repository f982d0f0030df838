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

	"github.com/matzehuels/layerview/pkg/buildinfo"
	"github.com/matzehuels/layerview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "layerview"

	// configEnv names a config file when --config is not given.
	configEnv = "LAYERVIEW_CONFIG"
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

	configPath string
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
		Use:   appName,
		Short: "Layerview draws dependency graphs in layers",
		Long: `Layerview lays out dependency graphs in layers: every item sits to the right
of its prerequisites, layers have a bounded width and edge crossings are kept
low. Layouts can be exported as JSON or YAML, or rendered to SVG and DOT.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $"+configEnv+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the config file named by --config or $LAYERVIEW_CONFIG.
func (c *CLI) loadConfig() (pipeline.Config, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return pipeline.Config{}, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg pipeline.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Backend = pipeline.BackendNone
	}
	dir, err := cacheDir()
	if err != nil && needsCacheDir(cfg.Cache) {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		cfg.Cache.Backend = pipeline.BackendNone
	}
	return pipeline.NewRunnerFromConfig(ctx, cfg, dir, c.Logger)
}

// needsCacheDir reports whether the backend keeps its data in the local
// cache directory.
func needsCacheDir(c pipeline.CacheConfig) bool {
	switch c.Backend {
	case "", pipeline.BackendFile:
		return true
	case pipeline.BackendSQLite:
		return c.URL == ""
	default:
		return false
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/layerview/).
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

// basePath derives the base output path from the output and input paths.
// If output is empty, the input's extensions are stripped. A known format
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags binds the engine flags to opts. Flags left unset keep the
// config file's values.
func layoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVarP(&opts.MaxWidth, "max-width", "w", 0, "most slots per layer, relays included (default 10)")
	cmd.Flags().IntVar(&opts.MaxRounds, "max-rounds", 0, "crossing minimizer rounds (default 20)")
	cmd.Flags().IntVar(&opts.TransposeAfter, "transpose-after", 0, "first round that transposes neighbours (default 4)")
	cmd.Flags().Float64Var(&opts.LayerSpacing, "layer-spacing", 0, "distance between layers (default 1)")
	cmd.Flags().Float64Var(&opts.VertexSpacing, "vertex-spacing", 0, "distance between slots in a layer (default 1)")
}

// mergeOptions overlays flags that were set on the config's options.
func mergeOptions(cmd *cobra.Command, base, flags pipeline.Options) pipeline.Options {
	set := cmd.Flags().Changed
	if set("max-width") {
		base.MaxWidth = flags.MaxWidth
	}
	if set("max-rounds") {
		base.MaxRounds = flags.MaxRounds
	}
	if set("transpose-after") {
		base.TransposeAfter = flags.TransposeAfter
	}
	if set("layer-spacing") {
		base.LayerSpacing = flags.LayerSpacing
	}
	if set("vertex-spacing") {
		base.VertexSpacing = flags.VertexSpacing
	}
	if set("detailed") {
		base.Detailed = flags.Detailed
	}
	if set("hide-relays") {
		base.HideRelays = flags.HideRelays
	}
	if set("format") {
		base.Formats = flags.Formats
	}
	base.Refresh = flags.Refresh
	return base
}

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

// writeArtifacts writes one file per format next to base and lists them.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) error {
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
