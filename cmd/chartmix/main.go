// Command chartmix reconciles chart rankings with catalog audio features.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/custodia-labs/chartmix/internal/adapters/driven/catalog/spotify"
	"github.com/custodia-labs/chartmix/internal/adapters/driven/chart/billboard"
	"github.com/custodia-labs/chartmix/internal/adapters/driven/config/file"
	"github.com/custodia-labs/chartmix/internal/adapters/driven/oauth"
	"github.com/custodia-labs/chartmix/internal/adapters/driven/report"
	"github.com/custodia-labs/chartmix/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/chartmix/internal/adapters/driving/cli"
	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driving"
	"github.com/custodia-labs/chartmix/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, nil)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		NewPipeline: func(opts cli.RunOptions) (driving.Pipeline, error) {
			return newPipeline(settings, store, opts)
		},
		Stats:    services.NewStatsService(store),
		Entries:  services.NewEntryService(store),
		Settings: settingsService,
	})

	return cli.Execute()
}

// newPipeline validates settings and wires the network adapters. Nothing
// here touches the network; a bad configuration fails before any request.
func newPipeline(settings *domain.AppSettings, store *sqlite.Store, opts cli.RunOptions) (driving.Pipeline, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: settings.Pipeline.RequestTimeout}

	tokens, err := oauth.NewClientCredentialsProvider(oauth.Config{
		ClientID:     settings.Catalog.ClientID,
		ClientSecret: settings.Catalog.ClientSecret,
		TokenURL:     settings.Catalog.TokenURL,
		HTTPClient:   httpClient,
	})
	if err != nil {
		return nil, err
	}

	catalog, err := spotify.NewClient(tokens, spotify.Config{
		BaseURL:           settings.Catalog.APIURL,
		RequestsPerSecond: settings.Catalog.RequestsPerSecond,
		HTTPClient:        httpClient,
	})
	if err != nil {
		return nil, err
	}

	source, err := billboard.NewScraper(billboard.Config{
		URL:        settings.Chart.URL,
		UserAgent:  settings.Chart.UserAgent,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}

	statsPath := settings.Report.StatsFile
	if !filepath.IsAbs(statsPath) {
		statsPath = filepath.Join(filepath.Dir(store.Path()), statsPath)
	}

	limit := settings.Pipeline.Limit
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	return services.NewPipeline(
		source,
		tokens,
		services.NewResolver(catalog, settings.Pipeline.Workers, settings.Pipeline.RequestTimeout),
		store,
		report.NewStatsFile(statsPath),
		report.NewTableRenderer(out),
		services.PipelineOptions{
			Limit:      limit,
			TopArtists: settings.Report.TopArtists,
		},
	), nil
}
