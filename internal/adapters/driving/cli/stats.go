package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

var (
	statsTop    int
	statsPoints bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregates over every stored run",
	Long: `Prints the average tempo and danceability across all stored feature
vectors and the artists with the most chart entries.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", domain.DefaultTopArtists, "number of artists to rank")
	statsCmd.Flags().BoolVar(&statsPoints, "points", false, "also list every tempo/danceability pair")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	ctx := context.Background()

	avg, err := statsService.AverageFeatures(ctx)
	switch {
	case errors.Is(err, domain.ErrNoData):
		cmd.Println("Average Tempo: no data")
		cmd.Println("Average Danceability: no data")
	case err != nil:
		return fmt.Errorf("failed to compute averages: %w", err)
	default:
		cmd.Printf("Average Tempo: %.2f\n", avg.Tempo)
		cmd.Printf("Average Danceability: %.2f\n", avg.Danceability)
		cmd.Printf("Samples: %d\n", avg.Samples)
	}

	top, err := statsService.TopArtists(ctx, statsTop)
	if err != nil {
		return fmt.Errorf("failed to rank artists: %w", err)
	}

	cmd.Println()
	if len(top) == 0 {
		cmd.Println("No chart entries stored.")
	} else {
		rows := make([][]string, 0, len(top))
		for i, a := range top {
			rows = append(rows, []string{strconv.Itoa(i + 1), a.Artist, strconv.Itoa(a.Count)})
		}
		cmd.Println(renderTable([]string{"#", "Artist", "Songs"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignRight}))
	}

	if !statsPoints {
		return nil
	}

	points, err := statsService.FeaturePoints(ctx)
	if err != nil {
		return fmt.Errorf("failed to load feature points: %w", err)
	}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{fmt.Sprintf("%.2f", p.Tempo), fmt.Sprintf("%.3f", p.Danceability)})
	}
	cmd.Println(renderTable([]string{"Tempo", "Danceability"}, rows,
		[]columnAlignment{alignRight, alignRight}))
	return nil
}
