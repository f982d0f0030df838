package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerview/pkg/pipeline"
)

// renderCommand creates the render command, which lays out an item file and
// renders the result in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats     string
		output      string
		inputFormat string
		noCache     bool
		opts        pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [items-file|-]",
		Short: "Lay out an item file and render it",
		Long: `Lay out an item file and render it.

This is 'layout' followed by 'visualize' without the intermediate layout
file. Layouts and rendered outputs are both cached.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeItemFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			input := args[0]
			if input == "-" && output == "" {
				output = "layout"
			}
			return c.runRender(cmd, input, inputFormat, cfg, mergeOptions(cmd, cfg.Options(), opts), basePath(output, input), noCache)
		},
	}

	renderFlags(cmd, &opts, &formats, &output)
	inputFormatFlag(cmd, &inputFormat)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached layout exists")
	layoutFlags(cmd, &opts)

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(cmd *cobra.Command, input, inputFormat string, cfg pipeline.Config, opts pipeline.Options, base string, noCache bool) error {
	ctx := cmd.Context()

	items, err := pipeline.Load(input, inputFormat, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("load items %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.SetRenderDefaults()
	var res *pipeline.Result
	err = withSpinner(ctx, "Rendering...", func(ctx context.Context) error {
		var err error
		res, err = runner.Execute(ctx, items, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	printSuccess("Rendered %d file(s)", len(opts.Formats))
	if err := writeArtifacts(res.Artifacts, opts.Formats, base); err != nil {
		return err
	}
	printStats(res.Layout.Export(), res.CacheInfo.LayoutHit)
	printDetail("layout %s, render %s", res.Stats.LayoutTime.Round(time.Millisecond), res.Stats.RenderTime.Round(time.Millisecond))
	return nil
}
