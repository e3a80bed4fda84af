package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

func TestFormatAverages(t *testing.T) {
	got := FormatAverages(domain.Averages{Tempo: 110, Danceability: 0.6, Samples: 2})
	assert.Equal(t, "Average Tempo: 110.00\nAverage Danceability: 0.60\n", got)
}

func TestFormatAverages_NoData(t *testing.T) {
	got := FormatAverages(domain.Averages{})
	assert.Equal(t, "Average Tempo: no data\nAverage Danceability: no data\n", got)
}

func TestStatsFile_WritesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "calculated_data.txt")
	s := NewStatsFile(path)
	assert.Equal(t, path, s.Path())

	require.NoError(t, s.WriteAverages(domain.Averages{Tempo: 95.456, Danceability: 0.5, Samples: 1}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Average Tempo: 95.46\nAverage Danceability: 0.50\n", string(data))

	require.NoError(t, s.WriteAverages(domain.Averages{}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), NoData)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestTableRenderer_FeaturePoints(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableRenderer(&buf)

	require.NoError(t, r.RenderFeaturePoints([]domain.FeaturePoint{
		{Tempo: 100, Danceability: 0.5},
		{Tempo: 120, Danceability: 0.7},
	}))

	out := buf.String()
	assert.Contains(t, out, "Danceability vs Tempo")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "0.700")
}

func TestTableRenderer_TopArtists(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableRenderer(&buf)

	require.NoError(t, r.RenderTopArtists([]domain.ArtistCount{
		{Artist: "Taylor Swift", Count: 4},
		{Artist: "Drake", Count: 2},
	}))

	out := buf.String()
	assert.Contains(t, out, "Top 2 Artists")
	assert.Contains(t, out, "Taylor Swift")
	assert.Contains(t, out, strings.Repeat("█", barWidth))
	assert.Contains(t, out, strings.Repeat("█", barWidth/2))
}

func TestTableRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableRenderer(&buf)

	require.NoError(t, r.RenderTopArtists(nil))
	assert.Contains(t, strings.ToLower(buf.String()), NoData)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 5))
	assert.Equal(t, "", bar(3, 0))
	assert.Equal(t, 1, strings.Count(bar(1, 1000), "█"))
	assert.Equal(t, barWidth, strings.Count(bar(5, 5), "█"))
}
