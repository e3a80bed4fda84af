package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
)

// Ensure TableRenderer implements the ChartRenderer interface.
var _ driven.ChartRenderer = (*TableRenderer)(nil)

// barWidth is the widest top-artist bar, in cells.
const barWidth = 30

// TableRenderer draws the aggregates as terminal tables.
type TableRenderer struct {
	w io.Writer
}

// NewTableRenderer creates a renderer writing to w.
func NewTableRenderer(w io.Writer) *TableRenderer {
	return &TableRenderer{w: w}
}

// RenderFeaturePoints prints every tempo/danceability pair.
func (r *TableRenderer) RenderFeaturePoints(points []domain.FeaturePoint) error {
	rows := make([][]string, 0, len(points))
	for i, p := range points {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.2f", p.Tempo),
			fmt.Sprintf("%.3f", p.Danceability),
		})
	}
	return r.render("Danceability vs Tempo",
		[]string{"#", "Tempo", "Danceability"},
		rows,
		[]text.Align{text.AlignRight, text.AlignRight, text.AlignRight})
}

// RenderTopArtists prints the ranking with a proportional bar per artist.
func (r *TableRenderer) RenderTopArtists(artists []domain.ArtistCount) error {
	peak := 0
	for _, a := range artists {
		peak = max(peak, a.Count)
	}

	rows := make([][]string, 0, len(artists))
	for i, a := range artists {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			a.Artist,
			strconv.Itoa(a.Count),
			bar(a.Count, peak),
		})
	}
	return r.render(fmt.Sprintf("Top %d Artists by Number of Songs", len(artists)),
		[]string{"#", "Artist", "Songs", ""},
		rows,
		[]text.Align{text.AlignRight, text.AlignLeft, text.AlignRight, text.AlignLeft})
}

func (r *TableRenderer) render(title string, headers []string, rows [][]string, aligns []text.Align) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				tr[i] = row[i]
			}
		}
		tw.AppendRow(tr)
	}
	if len(rows) == 0 {
		tw.AppendFooter(table.Row{NoData})
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i, align := range aligns {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	_, err := fmt.Fprintln(r.w, tw.Render())
	return err
}

func bar(count, peak int) string {
	if peak <= 0 || count <= 0 {
		return ""
	}
	n := max(1, count*barWidth/peak)
	return strings.Repeat("█", n)
}
