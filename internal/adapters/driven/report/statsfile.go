package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
)

// Ensure StatsFile implements the StatsWriter interface.
var _ driven.StatsWriter = (*StatsFile)(nil)

// NoData replaces each mean when no feature vectors are stored.
const NoData = "no data"

// StatsFile writes the averages report to a text file, replacing it on
// every run.
type StatsFile struct {
	path string
}

// NewStatsFile creates a stats writer for path.
func NewStatsFile(path string) *StatsFile {
	return &StatsFile{path: path}
}

// Path returns the output file path.
func (s *StatsFile) Path() string {
	return s.path
}

// WriteAverages writes both means with two decimals.
func (s *StatsFile) WriteAverages(avg domain.Averages) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating stats directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(FormatAverages(avg)), 0600); err != nil {
		return fmt.Errorf("writing stats file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing stats file: %w", err)
	}
	return nil
}

// FormatAverages renders the two report lines.
func FormatAverages(avg domain.Averages) string {
	tempo, dance := NoData, NoData
	if avg.HasData() {
		tempo = fmt.Sprintf("%.2f", avg.Tempo)
		dance = fmt.Sprintf("%.2f", avg.Danceability)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Average Tempo: %s\n", tempo)
	fmt.Fprintf(&b, "Average Danceability: %s\n", dance)
	return b.String()
}
