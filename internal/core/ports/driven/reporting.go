package driven

import "github.com/custodia-labs/chartmix/internal/core/domain"

// StatsWriter writes the averages report.
type StatsWriter interface {
	// WriteAverages writes both means with two-decimal formatting, or a
	// "no data" marker when avg has no samples.
	WriteAverages(avg domain.Averages) error
}

// ChartRenderer renders the aggregate collaborators.
type ChartRenderer interface {
	// RenderFeaturePoints renders tempo against danceability.
	RenderFeaturePoints(points []domain.FeaturePoint) error

	// RenderTopArtists renders the artist ranking.
	RenderTopArtists(artists []domain.ArtistCount) error
}
