package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layerview/pkg/graph"
	"github.com/matzehuels/layerview/pkg/layout"
	"github.com/matzehuels/layerview/pkg/pipeline"
)

// layoutFlagSet holds the flags of the layout command.
type layoutFlagSet struct {
	output      string
	inputFormat string
	noCache     bool
	showTable   bool
	browse      bool
}

// layoutCommand creates the layout command for computing layered layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags layoutFlagSet
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [items-file|-]",
		Short: "Compute a layered layout from an item file",
		Long: `Compute a layered layout from an item file.

The item file lists items with their prerequisites as JSON, YAML or TOML.
The format is inferred from the extension; use --input-format when reading
from stdin ("-").

The output is a layout file (<input>.layout.json by default, YAML when -o
ends in .yaml) that the 'visualize' command renders. Reading from stdin
without -o writes the layout to stdout.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeItemFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runLayout(cmd, args[0], cfg, mergeOptions(cmd, cfg.Options(), opts), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	inputFormatFlag(cmd, &flags.inputFormat)
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached layout exists")
	cmd.Flags().BoolVar(&flags.showTable, "table", false, "print the layers as a table")
	cmd.Flags().BoolVar(&flags.browse, "browse", false, "browse the layers interactively")
	layoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the items, computes the layout and writes it.
func (c *CLI) runLayout(cmd *cobra.Command, input string, cfg pipeline.Config, opts pipeline.Options, flags layoutFlagSet) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	items, err := pipeline.Load(input, flags.inputFormat, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("load items %s: %w", input, err)
	}
	logger.Debug("loaded items", "count", len(items), "input", input)

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var (
		res *layout.Result
		hit bool
	)
	prog := newProgress(logger)
	err = withSpinner(ctx, "Computing layout...", func(ctx context.Context) error {
		var err error
		res, hit, err = runner.LayoutWithCacheInfo(ctx, items, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done("laid out", "items", len(items), "layers", res.LayerCount, "relays", res.DummyCount, "cached", hit)
	l := res.Export()

	if input == "-" && flags.output == "" {
		return graph.WriteLayout(l, cmd.OutOrStdout())
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := writeLayout(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(l, hit)
	if flags.showTable {
		fmt.Println(layerTable(l))
	}

	if flags.browse {
		if _, err := tea.NewProgram(NewLayerBrowserModel(l), tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("browse layers: %w", err)
		}
		return nil
	}

	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)
	return nil
}

// writeLayout writes l as YAML when path ends in .yaml or .yml and as JSON
// otherwise.
func writeLayout(l graph.Layout, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := graph.WriteLayoutYAML(l, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return graph.WriteLayoutFile(l, path)
	}
}
