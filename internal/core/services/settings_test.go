package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chartmix/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chartmix/internal/core/domain"
)

func envMap(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), envMap(nil))

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, *settings)
	assert.False(t, settings.Catalog.HasCredentials())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("chart.url", "https://charts.example.com/")
	_ = store.Set("pipeline.limit", int64(10))
	_ = store.Set("pipeline.workers", int64(8))
	_ = store.Set("pipeline.request_timeout_seconds", int64(3))
	_ = store.Set("catalog.requests_per_second", int64(2))
	_ = store.Set("report.top_artists", int64(5))

	settings, err := NewSettingsService(store, envMap(nil)).Get()
	require.NoError(t, err)

	assert.Equal(t, "https://charts.example.com/", settings.Chart.URL)
	assert.Equal(t, 10, settings.Pipeline.Limit)
	assert.Equal(t, 8, settings.Pipeline.Workers)
	assert.Equal(t, 3*time.Second, settings.Pipeline.RequestTimeout)
	assert.InDelta(t, 2.0, settings.Catalog.RequestsPerSecond, 1e-9)
	assert.Equal(t, 5, settings.Report.TopArtists)
	assert.Equal(t, domain.DefaultAPIURL, settings.Catalog.APIURL)
}

func TestSettingsService_Get_CredentialsFromEnv(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), envMap(map[string]string{
		EnvClientID:     "plain-id",
		EnvClientSecret: " plain-secret ",
	}))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "plain-id", settings.Catalog.ClientID)
	assert.Equal(t, "plain-secret", settings.Catalog.ClientSecret)
	assert.True(t, settings.Catalog.HasCredentials())
}

func TestSettingsService_Get_PrefixedEnvWins(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), envMap(map[string]string{
		EnvClientID:             "plain-id",
		EnvPrefixedClientID:     "prefixed-id",
		EnvClientSecret:         "plain-secret",
		EnvPrefixedClientSecret: "prefixed-secret",
	}))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-id", settings.Catalog.ClientID)
	assert.Equal(t, "prefixed-secret", settings.Catalog.ClientSecret)
}

func TestSettingsService_Set_ParsesByKind(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, envMap(nil))

	require.NoError(t, service.Set("pipeline.limit", " 25 "))
	require.NoError(t, service.Set("catalog.requests_per_second", "2.5"))
	require.NoError(t, service.Set("report.stats_file", "/tmp/out.txt"))

	assert.Equal(t, 25, store.GetInt("pipeline.limit"))
	assert.InDelta(t, 2.5, store.GetFloat("catalog.requests_per_second"), 1e-9)
	assert.Equal(t, "/tmp/out.txt", store.GetString("report.stats_file"))
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), envMap(nil))

	assert.ErrorIs(t, service.Set("no.such.key", "1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("pipeline.limit", "many"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("catalog.requests_per_second", "fast"), domain.ErrInvalidInput)
}

func TestSettingKeys_AreSettable(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), envMap(nil))
	for _, key := range SettingKeys() {
		_, known := settingKinds[key]
		assert.True(t, known, key)
	}
	assert.Len(t, SettingKeys(), len(settingKinds))
	assert.Equal(t, "", service.Path())
}
