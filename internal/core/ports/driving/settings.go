package driving

import (
	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// Setting is one configuration key with its effective value rendered for
// display.
type Setting struct {
	Key   string
	Value string
}

// SettingsService reads and writes the tunable pipeline configuration.
type SettingsService interface {
	// Get returns the effective pipeline settings: stored values overlaid
	// onto the defaults, DOCENT_* environment variables taking precedence.
	Get() (domain.PipelineSettings, error)

	// Snapshot returns every known setting with its effective value, in
	// display order. Secrets are not included.
	Snapshot() ([]Setting, error)

	// Set parses and stores a single value under its configuration key.
	// Returns ErrInvalidInput for unknown keys or malformed values.
	Set(key, value string) error

	// SetSecret stores a sensitive value (API keys for the external
	// collaborators) under one of the reserved secret keys.
	SetSecret(key, value string) error

	// Secret returns a stored sensitive value, empty when unset.
	Secret(key string) string

	// SecretKeys returns the keys reserved for sensitive values.
	SecretKeys() []string

	// Validate returns an error describing configuration problems, nil when
	// the effective settings are usable.
	Validate() error

	// DataDir returns the directory holding the shared JSON collections.
	DataDir() string

	// Path returns the backing configuration file path.
	Path() string
}
