package driving

import "github.com/custodia-labs/chartmix/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, merged over defaults.
	Get() (*domain.AppSettings, error)

	// Set parses raw for the key's type and persists it.
	// Unknown keys return domain.ErrInvalidInput.
	Set(key, raw string) error

	// Path returns the configuration file path.
	Path() string
}
