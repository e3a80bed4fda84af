package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyChartURL         = "chart.url"
	keyChartUserAgent   = "chart.user_agent"
	keyCatalogTokenURL  = "catalog.token_url"
	keyCatalogAPIURL    = "catalog.api_url"
	keyCatalogRPS       = "catalog.requests_per_second"
	keyPipelineLimit    = "pipeline.limit"
	keyPipelineWorkers  = "pipeline.workers"
	keyPipelineTimeout  = "pipeline.request_timeout_seconds"
	keyStorageDataDir   = "storage.data_dir"
	keyReportStatsFile  = "report.stats_file"
	keyReportTopArtists = "report.top_artists"
)

// Environment variables holding catalog credentials. The prefixed names
// take precedence.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvClientID             = "CLIENT_ID"
	EnvClientSecret         = "CLIENT_SECRET"
	EnvPrefixedClientID     = "CHARTMIX_CLIENT_ID"
	EnvPrefixedClientSecret = "CHARTMIX_CLIENT_SECRET"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
)

var settingKinds = map[string]settingKind{
	keyChartURL:         kindString,
	keyChartUserAgent:   kindString,
	keyCatalogTokenURL:  kindString,
	keyCatalogAPIURL:    kindString,
	keyCatalogRPS:       kindFloat,
	keyPipelineLimit:    kindInt,
	keyPipelineWorkers:  kindInt,
	keyPipelineTimeout:  kindInt,
	keyStorageDataDir:   kindString,
	keyReportStatsFile:  kindString,
	keyReportTopArtists: kindInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// getenv looks up credentials; if nil, os.Getenv is used.
func NewSettingsService(configStore driven.ConfigStore, getenv func(string) string) *SettingsService {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &SettingsService{
		configStore: configStore,
		getenv:      getenv,
	}
}

// Get retrieves current application settings merged over the defaults.
// Credentials are read from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	settings.Chart.URL = s.getString(keyChartURL, settings.Chart.URL)
	settings.Chart.UserAgent = s.getString(keyChartUserAgent, settings.Chart.UserAgent)

	settings.Catalog.TokenURL = s.getString(keyCatalogTokenURL, settings.Catalog.TokenURL)
	settings.Catalog.APIURL = s.getString(keyCatalogAPIURL, settings.Catalog.APIURL)
	settings.Catalog.RequestsPerSecond = s.getFloat(keyCatalogRPS, settings.Catalog.RequestsPerSecond)
	settings.Catalog.ClientID = s.env(EnvPrefixedClientID, EnvClientID)
	settings.Catalog.ClientSecret = s.env(EnvPrefixedClientSecret, EnvClientSecret)

	settings.Pipeline.Limit = s.getInt(keyPipelineLimit, settings.Pipeline.Limit)
	settings.Pipeline.Workers = s.getInt(keyPipelineWorkers, settings.Pipeline.Workers)
	if secs := s.getInt(keyPipelineTimeout, 0); secs != 0 {
		settings.Pipeline.RequestTimeout = time.Duration(secs) * time.Second
	}

	settings.Storage.DataDir = s.getString(keyStorageDataDir, settings.Storage.DataDir)

	settings.Report.StatsFile = s.getString(keyReportStatsFile, settings.Report.StatsFile)
	settings.Report.TopArtists = s.getInt(keyReportTopArtists, settings.Report.TopArtists)

	return &settings, nil
}

// Set parses raw according to the key's type and persists it.
// Credentials cannot be set here; they come from the environment.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	raw = strings.TrimSpace(raw)
	var value any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer", domain.ErrInvalidInput, key)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number", domain.ErrInvalidInput, key)
		}
		value = f
	default:
		value = raw
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// SettingKeys returns the recognised setting keys.
func SettingKeys() []string {
	return []string{
		keyChartURL, keyChartUserAgent,
		keyCatalogTokenURL, keyCatalogAPIURL, keyCatalogRPS,
		keyPipelineLimit, keyPipelineWorkers, keyPipelineTimeout,
		keyStorageDataDir,
		keyReportStatsFile, keyReportTopArtists,
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// env returns the first non-empty variable among names.
func (s *SettingsService) env(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(s.getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
