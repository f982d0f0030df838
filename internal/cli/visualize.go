package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerview/pkg/graph"
	"github.com/matzehuels/layerview/pkg/pipeline"
)

// renderFlags binds the output flags shared by visualize and render.
func renderFlags(cmd *cobra.Command, opts *pipeline.Options, formats, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", "", "output base path (default: input path without extensions)")
	cmd.Flags().StringVarP(formats, "format", "f", "", "output format(s): svg (default), dot, json, yaml (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label slots with their layer and coordinates")
	cmd.Flags().BoolVar(&opts.HideRelays, "hide-relays", false, "draw relay chains as single edges")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}

// visualizeCommand creates the visualize command for rendering a layout file.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formats string
		output  string
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout-file]",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The visualize command takes a layout file (produced by 'layout') and renders
it to SVG through Graphviz, to DOT source, or re-encodes it as JSON or YAML.
The layout holds every position, so this step never recomputes it.

Use 'render' as a shortcut to go directly from an item file to output.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLayoutFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], cfg, mergeOptions(cmd, cfg.Options(), opts), output, noCache)
		},
	}

	renderFlags(cmd, &opts, &formats, &output)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, cfg pipeline.Config, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.SetRenderDefaults()
	var (
		artifacts map[string][]byte
		hit       bool
	)
	prog := newProgress(loggerFromContext(ctx))
	err = withSpinner(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...", func(ctx context.Context) error {
		var err error
		artifacts, hit, err = runner.RenderWithCacheInfo(ctx, l, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}
	prog.done("rendered", "formats", strings.Join(opts.Formats, ","), "cached", hit)

	printSuccess("Rendered %d file(s)", len(opts.Formats))
	if err := writeArtifacts(artifacts, opts.Formats, basePath(output, input)); err != nil {
		return err
	}
	printStats(l, hit)
	return nil
}
