package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

var runLimit int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape the chart and reconcile it with the catalog",
	Long: `Runs one pipeline pass: acquires a catalog token, scrapes the chart,
stores new entries, resolves each entry's audio features, attaches them and
reports averages and the top artists.

Catalog credentials are read from CLIENT_ID and CLIENT_SECRET
(or CHARTMIX_CLIENT_ID and CHARTMIX_CLIENT_SECRET).`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().IntVarP(&runLimit, "limit", "n", 0, "maximum candidates to process (default from pipeline.limit)")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	if newPipeline == nil {
		return errors.New("pipeline not configured")
	}
	if runLimit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", domain.ErrInvalidInput)
	}

	p, err := newPipeline(RunOptions{Limit: runLimit, Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.Println("Running chart pipeline...")
	report, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printRunReport(cmd, report)
	return nil
}

func printRunReport(cmd *cobra.Command, r *domain.RunReport) {
	cmd.Println()
	cmd.Printf("Run %s finished in %s\n", r.RunID, r.Duration().Round(time.Millisecond))
	if r.FetchErr != nil {
		cmd.Printf("  Chart fetch failed: %v\n", r.FetchErr)
	} else if r.Scraped == 0 {
		cmd.Println("  Chart yielded no candidates; the page structure may have changed.")
	}

	rows := [][]string{
		{"Candidates scraped", fmt.Sprint(r.Scraped)},
		{"Candidates processed", fmt.Sprint(r.Processed)},
		{"Entries inserted", fmt.Sprint(r.Upsert.Inserted)},
		{"Duplicate entries", fmt.Sprint(r.Upsert.Duplicates)},
		{"Resolved", fmt.Sprint(r.Resolve.Resolved)},
		{"No catalog match", fmt.Sprint(r.Resolve.Missed)},
		{"Resolution errors", fmt.Sprint(r.Resolve.Failed)},
		{"Features attached", fmt.Sprint(r.Attach.Attached)},
		{"Features replaced", fmt.Sprint(r.Attach.Replaced)},
		{"Attach misses", fmt.Sprint(r.Attach.Missed)},
		{"Skipped rows", fmt.Sprint(r.Upsert.Skipped + r.Attach.Skipped)},
		{"Average tempo", formatAverage(r.Averages, r.Averages.Tempo)},
		{"Average danceability", formatAverage(r.Averages, r.Averages.Danceability)},
		{"Feature vectors stored", fmt.Sprint(r.TotalPoints)},
	}
	cmd.Println(renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func formatAverage(avg domain.Averages, v float64) string {
	if !avg.HasData() {
		return "no data"
	}
	return fmt.Sprintf("%.2f", v)
}
