package driven

import "github.com/notedmd/notedmd-cli/internal/core/domain"

// ConfigStore provides access to the persisted application configuration.
// Implementations handle persistence (e.g., TOML files) and atomicity.
type ConfigStore interface {
	// Load reads the configuration from storage.
	// Returns domain.ErrConfigMissing when no configuration exists yet,
	// and domain.ErrConfigInvalid when it cannot be parsed.
	Load() (*domain.Config, error)

	// Save persists the configuration. A failed write must not corrupt
	// a previously valid file.
	Save(cfg *domain.Config) error

	// Exists reports whether a configuration file is present.
	Exists() bool

	// Path returns the configuration file path.
	Path() string
}
