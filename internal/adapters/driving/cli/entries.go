package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

var entriesJSON bool

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage stored chart entries",
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored chart entries",
	RunE:  runEntriesList,
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete a chart entry and its feature vectors",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntriesDelete,
}

func init() {
	entriesListCmd.Flags().BoolVar(&entriesJSON, "json", false, "output entries as JSON")
	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesDeleteCmd)
	rootCmd.AddCommand(entriesCmd)
}

type entryJSON struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

func runEntriesList(cmd *cobra.Command, _ []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	entries, err := entryService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if entriesJSON {
		out := make([]entryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, entryJSON{ID: e.ID, Title: e.Title, Artist: e.Artist})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No chart entries stored.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.Title, e.Artist})
	}
	cmd.Println(renderTable([]string{"ID", "Title", "Artist"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft}))
	cmd.Printf("%d entries\n", len(entries))
	return nil
}

func runEntriesDelete(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: entry id must be a number", domain.ErrInvalidInput)
	}

	if err := entryService.Delete(context.Background(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("entry %d not found", id)
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	cmd.Printf("Deleted entry %d.\n", id)
	return nil
}
