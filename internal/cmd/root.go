package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/laneplan/internal/log"
)

var (
	rootLogLevel  string
	rootLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "laneplan",
	Short: "Dependency-aware task graph planner",
	Long: `laneplan turns a Markdown task list into an execution plan.
It resolves task dependencies into a DAG, computes the critical path,
deals independent tasks into parallel execution lanes, and groups work
into reviewable batches.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := log.DefaultConfig()
		cfg.Level = log.ParseLevel(rootLogLevel)
		cfg.Format = log.ParseFormat(rootLogFormat)
		log.SetDefaultLogger(log.New(cfg))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context, so commands can
// observe signal-driven cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "text", "log format (text, json)")
}
