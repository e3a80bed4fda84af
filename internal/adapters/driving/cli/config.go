package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
	Long: `Settings live in a TOML file as dot-notation keys, e.g.

  chartmix config set pipeline.limit 25

Catalog credentials are never stored; set CLIENT_ID and CLIENT_SECRET.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		cmd.Println(settingsService.Path())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Persist a single setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		if err := settingsService.Set(args[0], args[1]); err != nil {
			return err
		}
		cmd.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println(renderTable([]string{"Key", "Value"}, settingRows(s),
		[]columnAlignment{alignLeft, alignLeft}))
	cmd.Printf("Config file: %s\n", settingsService.Path())
	return nil
}

func settingRows(s *domain.AppSettings) [][]string {
	dataDir := s.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	credentials := "not set"
	if s.Catalog.HasCredentials() {
		credentials = "set"
	}

	return [][]string{
		{"chart.url", s.Chart.URL},
		{"chart.user_agent", s.Chart.UserAgent},
		{"catalog.token_url", s.Catalog.TokenURL},
		{"catalog.api_url", s.Catalog.APIURL},
		{"catalog.requests_per_second", strconv.FormatFloat(s.Catalog.RequestsPerSecond, 'f', -1, 64)},
		{"catalog credentials", credentials},
		{"pipeline.limit", strconv.Itoa(s.Pipeline.Limit)},
		{"pipeline.workers", strconv.Itoa(s.Pipeline.Workers)},
		{"pipeline.request_timeout_seconds", strconv.Itoa(int(s.Pipeline.RequestTimeout.Seconds()))},
		{"storage.data_dir", dataDir},
		{"report.stats_file", s.Report.StatsFile},
		{"report.top_artists", strconv.Itoa(s.Report.TopArtists)},
	}
}
