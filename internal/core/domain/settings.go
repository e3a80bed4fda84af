package domain

import (
	"fmt"
	"time"
)

// Default settings values.
const (
	DefaultChartURL          = "https://www.billboard.com/charts/hot-100/"
	DefaultUserAgent         = "chartmix/1.0 (+https://github.com/custodia-labs/chartmix)"
	DefaultTokenURL          = "https://accounts.spotify.com/api/token"
	DefaultAPIURL            = "https://api.spotify.com"
	DefaultRequestsPerSecond = 5.0
	DefaultLimit             = 50
	DefaultWorkers           = 4
	DefaultRequestTimeout    = 15 * time.Second
	DefaultStatsFile         = "calculated_data.txt"
	DefaultTopArtists        = 10
)

// ChartSettings configures the chart scraper.
type ChartSettings struct {
	// URL is the chart page to scrape.
	URL string

	// UserAgent is sent with the page request.
	UserAgent string
}

// CatalogSettings configures the music catalog client.
type CatalogSettings struct {
	// TokenURL is the client-credentials token endpoint.
	TokenURL string

	// APIURL is the catalog API base URL.
	APIURL string

	// ClientID and ClientSecret are the service-account credentials.
	// They are read from the environment, never from the config file.
	ClientID     string
	ClientSecret string

	// RequestsPerSecond throttles catalog calls.
	RequestsPerSecond float64
}

// HasCredentials returns true if both credential halves are present.
func (c CatalogSettings) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// PipelineSettings configures a pipeline run.
type PipelineSettings struct {
	// Limit caps the candidates processed per run. Zero means no cap.
	Limit int

	// Workers bounds concurrent catalog resolutions.
	Workers int

	// RequestTimeout bounds every network call.
	RequestTimeout time.Duration
}

// StorageSettings configures the relational store.
type StorageSettings struct {
	// DataDir holds the database file. Empty means ~/.chartmix/data.
	DataDir string
}

// ReportSettings configures the reporting collaborators.
type ReportSettings struct {
	// StatsFile is where averages are written. Relative paths resolve
	// against the data directory.
	StatsFile string

	// TopArtists is the ranking size.
	TopArtists int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chart    ChartSettings
	Catalog  CatalogSettings
	Pipeline PipelineSettings
	Storage  StorageSettings
	Report   ReportSettings
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chart: ChartSettings{
			URL:       DefaultChartURL,
			UserAgent: DefaultUserAgent,
		},
		Catalog: CatalogSettings{
			TokenURL:          DefaultTokenURL,
			APIURL:            DefaultAPIURL,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Pipeline: PipelineSettings{
			Limit:          DefaultLimit,
			Workers:        DefaultWorkers,
			RequestTimeout: DefaultRequestTimeout,
		},
		Report: ReportSettings{
			StatsFile:  DefaultStatsFile,
			TopArtists: DefaultTopArtists,
		},
	}
}

// Validate checks the settings are usable for a pipeline run.
// All failures wrap ErrConfiguration.
func (s AppSettings) Validate() error {
	if !s.Catalog.HasCredentials() {
		return fmt.Errorf("%w: CLIENT_ID and CLIENT_SECRET must be set", ErrConfiguration)
	}
	if s.Chart.URL == "" {
		return fmt.Errorf("%w: chart.url is empty", ErrConfiguration)
	}
	if s.Catalog.TokenURL == "" || s.Catalog.APIURL == "" {
		return fmt.Errorf("%w: catalog endpoints are empty", ErrConfiguration)
	}
	if s.Pipeline.Limit < 0 {
		return fmt.Errorf("%w: pipeline.limit must not be negative", ErrConfiguration)
	}
	if s.Pipeline.Workers < 1 {
		return fmt.Errorf("%w: pipeline.workers must be at least 1", ErrConfiguration)
	}
	if s.Pipeline.RequestTimeout <= 0 {
		return fmt.Errorf("%w: pipeline.request_timeout_seconds must be positive", ErrConfiguration)
	}
	return nil
}
