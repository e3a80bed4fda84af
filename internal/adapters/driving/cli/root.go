// Package cli provides the chartmix command tree.
//
// Commands talk only to driving ports. The entry point wires concrete
// services with SetServices before calling Execute.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chartmix/internal/core/ports/driving"
	"github.com/custodia-labs/chartmix/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var verbose bool

// Services wired by the entry point.
var (
	newPipeline     PipelineFactory
	statsService    driving.StatsService
	entryService    driving.EntryService
	settingsService driving.SettingsService
)

// RunOptions carries per-invocation overrides for a pipeline run.
type RunOptions struct {
	// Limit overrides pipeline.limit when positive.
	Limit int

	// Out receives the rendered aggregate tables.
	Out io.Writer
}

// PipelineFactory builds a pipeline on demand, so commands that never
// touch the network do not need catalog credentials.
type PipelineFactory func(opts RunOptions) (driving.Pipeline, error)

// Services groups the driving ports the commands depend on.
type Services struct {
	NewPipeline PipelineFactory
	Stats       driving.StatsService
	Entries     driving.EntryService
	Settings    driving.SettingsService
}

var rootCmd = &cobra.Command{
	Use:   "chartmix",
	Short: "Reconcile chart rankings with catalog audio features",
	Long: `chartmix scrapes the current chart, resolves every entry against the
music catalog, stores entries and audio features in a local database and
reports tempo and danceability trends across runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// SetServices wires the driving ports used by the commands.
func SetServices(s Services) {
	newPipeline = s.NewPipeline
	statsService = s.Stats
	entryService = s.Entries
	settingsService = s.Settings
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
