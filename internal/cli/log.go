// Package cli implements the layerview command-line interface.
//
// The CLI lays out item files, renders layouts, serves the HTTP API and
// manages the layout cache. It is built on cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout from an item file (JSON, YAML or TOML)
//   - visualize: Render a computed layout to SVG, DOT, JSON or YAML
//   - render: Shortcut for layout followed by visualize
//   - serve: Run the HTTP API
//   - cache: Inspect, clear and invalidate the layout cache
//
// # Configuration
//
// Defaults come from a TOML file named by --config or $LAYERVIEW_CONFIG.
// Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it the
// level comes from $LAYERVIEW_LOG_LEVEL (debug, info, warn or error) and
// defaults to info. Loggers are passed through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/layerview/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logLevelEnv selects the log level when --verbose is not given.
const logLevelEnv = "LAYERVIEW_LOG_LEVEL"

// newLogger returns a logger writing to w with "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel resolves the level of a run. --verbose wins over env; an
// unparsable env value falls back to info and is returned as an error so
// the caller can warn about it.
func logLevel(verbose bool, env string) (log.Level, error) {
	if verbose {
		return log.DebugLevel, nil
	}
	if env == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(env)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("%s=%q: %w", logLevelEnv, env, err)
	}
	return level, nil
}

// progress logs how long a stage took, together with the stage's figures.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and an "elapsed" field rounded
// to the millisecond, e.g. "laid out items=42 layers=7 cached=false elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside a command run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
