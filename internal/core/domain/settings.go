package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Default configuration values.
const (
	// DefaultEndpoint is the enrichment service URL.
	DefaultEndpoint = "https://7cjevxjkw6bxtgwareutls6ymy0zuhqu.lambda-url.ap-southeast-2.on.aws/"

	// DefaultBucket is the storage bucket used when none is configured.
	DefaultBucket = "holiday-interest-test-bucket"

	// DefaultTimeout bounds the processing call. AI batch jobs take minutes.
	DefaultTimeout = 300 * time.Second

	// DefaultSuffix is inserted before the extension of the enhanced file.
	DefaultSuffix = "_enhanced"

	// DefaultProgressInterval is how long each simulated progress step is shown.
	DefaultProgressInterval = time.Second

	// DefaultWatchPerMinute caps how many files watch mode submits per minute.
	DefaultWatchPerMinute = 6
)

// EnrichmentSettings configures the remote processing service.
type EnrichmentSettings struct {
	// Endpoint is the processing endpoint URL.
	Endpoint string

	// Bucket is the target storage bucket.
	Bucket string

	// Timeout is the upper bound on the processing call.
	Timeout time.Duration

	// APIToken is an optional bearer token sent with requests.
	APIToken string
}

// Validate checks the endpoint and timeout.
func (e EnrichmentSettings) Validate() error {
	u, err := url.Parse(e.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: endpoint must be an absolute http(s) URL: %q", ErrInvalidInput, e.Endpoint)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidInput)
	}
	return nil
}

// ResolveBucket returns the bucket to use for a submission.
// An explicit non-empty bucket wins; an empty string counts as unset
// and falls back to the configured bucket, then DefaultBucket.
func (e EnrichmentSettings) ResolveBucket(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if e.Bucket != "" {
		return e.Bucket
	}
	return DefaultBucket
}

// OutputSettings controls where enhanced files are written.
type OutputSettings struct {
	// Suffix is inserted before the file extension.
	Suffix string

	// Dir is the output directory. Empty means next to the input file.
	Dir string
}

// ProgressSettings controls the simulated progress display.
type ProgressSettings struct {
	// Interval is how long each step is held.
	Interval time.Duration
}

// WatchSettings controls watch mode.
type WatchSettings struct {
	// PerMinute is the maximum number of submissions per minute.
	PerMinute int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Enrichment EnrichmentSettings
	Output     OutputSettings
	Progress   ProgressSettings
	Watch      WatchSettings
}

// DefaultAppSettings returns settings with all defaults applied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Enrichment: EnrichmentSettings{
			Endpoint: DefaultEndpoint,
			Bucket:   DefaultBucket,
			Timeout:  DefaultTimeout,
		},
		Output: OutputSettings{
			Suffix: DefaultSuffix,
		},
		Progress: ProgressSettings{
			Interval: DefaultProgressInterval,
		},
		Watch: WatchSettings{
			PerMinute: DefaultWatchPerMinute,
		},
	}
}
