package domain

import "time"

// UpsertResult counts the outcome of one UpsertChartEntries batch.
type UpsertResult struct {
	Inserted   int
	Duplicates int
	Skipped    int
}

// AttachResult counts the outcome of one AttachFeatures batch.
type AttachResult struct {
	Attached int
	Replaced int
	Missed   int
	Skipped  int
}

// Averages holds mean feature values over all stored feature vectors.
// Samples is zero when there is no data, in which case the means are
// meaningless.
type Averages struct {
	Tempo        float64
	Danceability float64
	Samples      int
}

// HasData returns true if at least one feature vector contributed.
func (a Averages) HasData() bool {
	return a.Samples > 0
}

// ArtistCount is one row of the top-artists ranking.
type ArtistCount struct {
	Artist string
	Count  int
}

// FeaturePoint is one (tempo, danceability) pair for scatter rendering.
type FeaturePoint struct {
	Tempo        float64
	Danceability float64
}

// ResolveSummary counts the outcome of resolving a candidate batch.
type ResolveSummary struct {
	Resolved int
	Missed   int
	Failed   int
}

// RunReport summarises one pipeline run.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	// Scraped is the number of candidates the chart yielded before the
	// per-run limit was applied; Processed is the number kept.
	Scraped   int
	Processed int
	FetchErr  error

	Upsert  UpsertResult
	Resolve ResolveSummary
	Attach  AttachResult

	Averages    Averages
	TopArtists  []ArtistCount
	TotalPoints int
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
