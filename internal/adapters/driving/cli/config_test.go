package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chartmix/internal/core/domain"
)

func TestConfigPath(t *testing.T) {
	setupServices(t, Services{Settings: &mockSettingsService{}})

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/chartmix/config.toml")
}

func TestConfigShow_HidesCredentials(t *testing.T) {
	s := domain.DefaultAppSettings()
	s.Catalog.ClientID = "my-client-id"
	s.Catalog.ClientSecret = "my-secret"
	setupServices(t, Services{Settings: &mockSettingsService{settings: s}})

	out, err := execute(t, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, domain.DefaultChartURL)
	assert.Contains(t, out, "pipeline.limit")
	assert.NotContains(t, out, "my-client-id")
	assert.NotContains(t, out, "my-secret")
}

func TestConfigSet(t *testing.T) {
	svc := &mockSettingsService{}
	setupServices(t, Services{Settings: svc})

	out, err := execute(t, "config", "set", "pipeline.limit", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "Set pipeline.limit = 25")
	assert.Equal(t, "25", svc.set["pipeline.limit"])
}

func TestConfigSet_Invalid(t *testing.T) {
	setupServices(t, Services{Settings: &mockSettingsService{}})

	_, err := execute(t, "config", "set", "bogus", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingRows_DefaultDataDir(t *testing.T) {
	s := domain.DefaultAppSettings()
	rows := settingRows(&s)

	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r[0]] = r[1]
	}
	assert.Equal(t, "(default)", values["storage.data_dir"])
	assert.Equal(t, "not set", values["catalog credentials"])
	assert.Equal(t, "15", values["pipeline.request_timeout_seconds"])
}
