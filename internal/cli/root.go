package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the layerview CLI with os.Args and returns an error if any
// command fails.
//
// Logging goes to stderr at info level, or at $LAYERVIEW_LOG_LEVEL;
// --verbose (-v) switches to debug.
func Execute(ctx context.Context) error {
	return execute(ctx, New(os.Stderr, LogInfo), os.Args[1:])
}

func execute(ctx context.Context, c *CLI, args []string) error {
	var verbose bool

	root := c.RootCommand()
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRun
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level, err := logLevel(verbose, os.Getenv(logLevelEnv))
		c.SetLogLevel(level)
		if err != nil {
			c.Logger.Warn("ignoring log level", "error", err)
		}
		if preRun != nil {
			preRun(cmd, args)
		}
	}

	return root.ExecuteContext(ctx)
}
