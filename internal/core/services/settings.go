package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for pipeline settings storage.
const (
	keyChunkSize    = "pipeline.chunk_size"
	keyChunkOverlap = "pipeline.chunk_overlap"
	keyTopK         = "retrieval.top_k"
	keyMaxContext   = "retrieval.max_context_length"
	keyRelevance    = "retrieval.relevance_threshold"
	keyWebWeight    = "retrieval.web_content_weight"
	keyMemoryLimit  = "conversation.memory_limit"
	keyMinContent   = "scraper.min_content_length"
	keyMaxContent   = "scraper.max_content_length"
	keyScrapeDelay  = "scraper.delay"
	keyMaxPages     = "scraper.max_pages_per_site"
	keyUserAgent    = "scraper.user_agent"
	keyDataDir      = "data.dir"
)

// Secret keys hold API keys for the external collaborators. They are set
// through no-echo entry, never listed in snapshots, and rendered masked.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyScraperAPIKey = "scraper.api_key"
	keyLLMAPIKey     = "llm.api_key"
)

// settingKind is how a stored value is typed.
type settingKind int

const (
	kindInt settingKind = iota
	kindFloat
	kindString
)

// settingSpec describes one tunable key.
type settingSpec struct {
	key  string
	kind settingKind
}

// settingSpecs lists the tunable keys in display order.
var settingSpecs = []settingSpec{
	{keyChunkSize, kindInt},
	{keyChunkOverlap, kindInt},
	{keyTopK, kindInt},
	{keyMaxContext, kindInt},
	{keyRelevance, kindFloat},
	{keyWebWeight, kindFloat},
	{keyMemoryLimit, kindInt},
	{keyMinContent, kindInt},
	{keyMaxContent, kindInt},
	{keyScrapeDelay, kindFloat},
	{keyMaxPages, kindInt},
	{keyUserAgent, kindString},
	{keyDataDir, kindString},
}

// EnvKey converts a configuration key into its environment override name:
// pipeline.chunk_size becomes DOCENT_PIPELINE_CHUNK_SIZE.
func EnvKey(key string) string {
	return "DOCENT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsService reads and writes the tunable pipeline configuration.
// Values resolve in precedence order: DOCENT_* environment variable, stored
// config value, built-in default.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the effective pipeline settings.
func (s *SettingsService) Get() (domain.PipelineSettings, error) {
	defaults := domain.DefaultPipelineSettings()
	if s.configStore == nil {
		return defaults, domain.ErrNotImplemented
	}

	settings := domain.PipelineSettings{
		ChunkSize:          s.getInt(keyChunkSize, defaults.ChunkSize),
		ChunkOverlap:       s.getInt(keyChunkOverlap, defaults.ChunkOverlap),
		TopK:               s.getInt(keyTopK, defaults.TopK),
		MaxContextLength:   s.getInt(keyMaxContext, defaults.MaxContextLength),
		MemoryLimit:        s.getInt(keyMemoryLimit, defaults.MemoryLimit),
		RelevanceThreshold: s.getFloat(keyRelevance, defaults.RelevanceThreshold),
		WebContentWeight:   s.getFloat(keyWebWeight, defaults.WebContentWeight),
		MinContentLength:   s.getInt(keyMinContent, defaults.MinContentLength),
		MaxContentLength:   s.getInt(keyMaxContent, defaults.MaxContentLength),
		ScrapeDelay:        s.getFloat(keyScrapeDelay, defaults.ScrapeDelay),
		MaxPagesPerSite:    s.getInt(keyMaxPages, defaults.MaxPagesPerSite),
		UserAgent:          s.getString(keyUserAgent, defaults.UserAgent),
	}
	return settings, nil
}

// Snapshot returns every known setting with its effective value rendered for
// display, in display order.
func (s *SettingsService) Snapshot() ([]driving.Setting, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}

	snapshot := make([]driving.Setting, 0, len(settingSpecs))
	for _, spec := range settingSpecs {
		snapshot = append(snapshot, driving.Setting{
			Key:   spec.key,
			Value: s.render(spec),
		})
	}
	return snapshot, nil
}

// render resolves one setting to its display string.
func (s *SettingsService) render(spec settingSpec) string {
	if spec.key == keyDataDir {
		return s.DataDir()
	}

	defaults := defaultValues()
	switch spec.kind {
	case kindInt:
		return strconv.Itoa(s.getInt(spec.key, defaults.ints[spec.key]))
	case kindFloat:
		return strconv.FormatFloat(s.getFloat(spec.key, defaults.floats[spec.key]), 'f', -1, 64)
	default:
		return s.getString(spec.key, defaults.strings[spec.key])
	}
}

// defaultTable indexes the stock configuration by key.
type defaultTable struct {
	ints    map[string]int
	floats  map[string]float64
	strings map[string]string
}

func defaultValues() defaultTable {
	d := domain.DefaultPipelineSettings()
	return defaultTable{
		ints: map[string]int{
			keyChunkSize:    d.ChunkSize,
			keyChunkOverlap: d.ChunkOverlap,
			keyTopK:         d.TopK,
			keyMaxContext:   d.MaxContextLength,
			keyMemoryLimit:  d.MemoryLimit,
			keyMinContent:   d.MinContentLength,
			keyMaxContent:   d.MaxContentLength,
			keyMaxPages:     d.MaxPagesPerSite,
		},
		floats: map[string]float64{
			keyRelevance:   d.RelevanceThreshold,
			keyWebWeight:   d.WebContentWeight,
			keyScrapeDelay: d.ScrapeDelay,
		},
		strings: map[string]string{
			keyUserAgent: d.UserAgent,
		},
	}
}

// Set parses and stores a single value under its configuration key.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	spec, ok := findSpec(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch spec.kind {
	case kindInt:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		return s.configStore.Set(key, parsed)
	case kindFloat:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
		}
		return s.configStore.Set(key, parsed)
	default:
		return s.configStore.Set(key, value)
	}
}

func findSpec(key string) (settingSpec, bool) {
	for _, spec := range settingSpecs {
		if spec.key == key {
			return spec, true
		}
	}
	return settingSpec{}, false
}

// SetSecret stores a sensitive value under one of the reserved secret keys.
func (s *SettingsService) SetSecret(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if !isSecretKey(key) {
		return fmt.Errorf("%w: %q is not a secret key", domain.ErrInvalidInput, key)
	}
	if value == "" {
		return fmt.Errorf("%w: secret value is empty", domain.ErrInvalidInput)
	}
	return s.configStore.Set(key, value)
}

// Secret returns a stored sensitive value, empty when unset.
func (s *SettingsService) Secret(key string) string {
	if s.configStore == nil || !isSecretKey(key) {
		return ""
	}
	return s.getString(key, "")
}

// SecretKeys returns the keys reserved for sensitive values.
func (s *SettingsService) SecretKeys() []string {
	return []string{keyScraperAPIKey, keyLLMAPIKey}
}

func isSecretKey(key string) bool {
	return key == keyScraperAPIKey || key == keyLLMAPIKey
}

// Validate returns an error describing configuration problems.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if problems := settings.Validate(); len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// DataDir returns the directory holding the shared JSON collections.
// Defaults to ~/.docent/data.
func (s *SettingsService) DataDir() string {
	if dir := s.getString(keyDataDir, ""); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".docent", "data")
}

// Path returns the backing configuration file path.
func (s *SettingsService) Path() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}

// Helper methods for reading config with env overrides and defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if raw, ok := os.LookupEnv(EnvKey(key)); ok {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	if s.configStore == nil {
		return defaultVal
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if raw, ok := os.LookupEnv(EnvKey(key)); ok {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			return parsed
		}
	}
	if s.configStore == nil {
		return defaultVal
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if raw, ok := os.LookupEnv(EnvKey(key)); ok && raw != "" {
		return raw
	}
	if s.configStore == nil {
		return defaultVal
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}
