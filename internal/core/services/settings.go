package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEndpoint         = "enrichment.endpoint"
	KeyBucket           = "enrichment.bucket"
	KeyTimeoutSeconds   = "enrichment.timeout_seconds"
	KeyAPIToken         = "enrichment.api_token"
	KeyOutputSuffix     = "output.suffix"
	KeyOutputDir        = "output.dir"
	KeyProgressInterval = "progress.interval_ms"
	KeyWatchPerMinute   = "watch.per_minute"
)

var settingKeys = []string{
	KeyEndpoint,
	KeyBucket,
	KeyTimeoutSeconds,
	KeyAPIToken,
	KeyOutputSuffix,
	KeyOutputDir,
	KeyProgressInterval,
	KeyWatchPerMinute,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Enrichment: domain.EnrichmentSettings{
			Endpoint: s.getString(KeyEndpoint, defaults.Enrichment.Endpoint),
			Bucket:   s.getString(KeyBucket, defaults.Enrichment.Bucket),
			Timeout:  time.Duration(s.getInt(KeyTimeoutSeconds, int(defaults.Enrichment.Timeout/time.Second))) * time.Second,
			APIToken: s.configStore.GetString(KeyAPIToken),
		},
		Output: domain.OutputSettings{
			Suffix: s.getString(KeyOutputSuffix, defaults.Output.Suffix),
			Dir:    s.configStore.GetString(KeyOutputDir), // No default - empty means next to the input
		},
		Progress: domain.ProgressSettings{
			Interval: s.getMillis(KeyProgressInterval, defaults.Progress.Interval),
		},
		Watch: domain.WatchSettings{
			PerMinute: s.getInt(KeyWatchPerMinute, defaults.Watch.PerMinute),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(KeyEndpoint, settings.Enrichment.Endpoint); err != nil {
		return fmt.Errorf("save endpoint: %w", err)
	}
	if err := s.configStore.Set(KeyBucket, settings.Enrichment.Bucket); err != nil {
		return fmt.Errorf("save bucket: %w", err)
	}
	if err := s.configStore.Set(KeyTimeoutSeconds, int(settings.Enrichment.Timeout/time.Second)); err != nil {
		return fmt.Errorf("save timeout: %w", err)
	}
	if settings.Enrichment.APIToken != "" {
		if err := s.configStore.Set(KeyAPIToken, settings.Enrichment.APIToken); err != nil {
			return fmt.Errorf("save api_token: %w", err)
		}
	}

	if err := s.configStore.Set(KeyOutputSuffix, settings.Output.Suffix); err != nil {
		return fmt.Errorf("save output suffix: %w", err)
	}
	if err := s.configStore.Set(KeyOutputDir, settings.Output.Dir); err != nil {
		return fmt.Errorf("save output dir: %w", err)
	}

	if err := s.configStore.Set(KeyProgressInterval, int(settings.Progress.Interval/time.Millisecond)); err != nil {
		return fmt.Errorf("save progress interval: %w", err)
	}
	if err := s.configStore.Set(KeyWatchPerMinute, settings.Watch.PerMinute); err != nil {
		return fmt.Errorf("save watch rate: %w", err)
	}

	return nil
}

// Set updates a single setting by key.
//
//nolint:gocyclo // One case per key
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyEndpoint:
		candidate := settings.Enrichment
		candidate.Endpoint = value
		if err := candidate.Validate(); err != nil {
			return err
		}
		settings.Enrichment.Endpoint = value
	case KeyBucket:
		settings.Enrichment.Bucket = value
	case KeyTimeoutSeconds:
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		settings.Enrichment.Timeout = time.Duration(n) * time.Second
	case KeyAPIToken:
		if value == "" {
			return s.configStore.Unset(KeyAPIToken)
		}
		return s.configStore.Set(KeyAPIToken, value)
	case KeyOutputSuffix:
		if value == "" {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, key)
		}
		settings.Output.Suffix = value
	case KeyOutputDir:
		settings.Output.Dir = value
	case KeyProgressInterval:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		settings.Progress.Interval = time.Duration(n) * time.Millisecond
	case KeyWatchPerMinute:
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		settings.Watch.PerMinute = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Enrichment.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getMillis treats a stored 0 as a real value, unlike getInt.
func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Millisecond
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}
