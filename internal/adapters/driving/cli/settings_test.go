package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "tk-1234567890abcdef",
			expected: "tk-1...cdef",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	setupTestServices(t, nil)
	settingsService = nil

	_, err := execute(t, "settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsShow_Defaults(t *testing.T) {
	setupTestServices(t, nil)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Endpoint: "+domain.DefaultEndpoint)
	assert.Contains(t, out, "Bucket: "+domain.DefaultBucket)
	assert.Contains(t, out, "Timeout: 5m0s")
	assert.Contains(t, out, "API Token: (not set)")
	assert.Contains(t, out, "Suffix: _enhanced")
	assert.Contains(t, out, "Directory: (next to input file)")
	assert.Contains(t, out, "Rate: 6 per minute")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_MasksToken(t *testing.T) {
	ts := setupTestServices(t, nil)
	require.NoError(t, ts.configStore.Set(services.KeyAPIToken, "tk-1234567890abcdef"))

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "API Token: tk-1...cdef")
	assert.NotContains(t, out, "tk-1234567890abcdef")
}

func TestSettingsShow_InvalidEndpointWarns(t *testing.T) {
	ts := setupTestServices(t, nil)
	require.NoError(t, ts.configStore.Set(services.KeyEndpoint, "not a url"))

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "tagger settings wizard")
}

func TestSettingsSet(t *testing.T) {
	setupTestServices(t, nil)

	out, err := execute(t, "settings", "set", services.KeyBucket, "my-bucket")

	require.NoError(t, err)
	assert.Contains(t, out, "enrichment.bucket set to my-bucket")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", settings.Enrichment.Bucket)
}

func TestSettingsSet_Timeout(t *testing.T) {
	setupTestServices(t, nil)

	_, err := execute(t, "settings", "set", services.KeyTimeoutSeconds, "120")
	require.NoError(t, err)

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, settings.Enrichment.Timeout)
}

func TestSettingsSet_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"nope", "x"}},
		{"bad endpoint", []string{services.KeyEndpoint, "ftp://example.com"}},
		{"zero timeout", []string{services.KeyTimeoutSeconds, "0"}},
		{"missing value", []string{services.KeyBucket}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t, nil)

			_, err := execute(t, append([]string{"settings", "set"}, tt.args...)...)

			assert.Error(t, err)
		})
	}
}

func TestSettingsSet_APITokenMasked(t *testing.T) {
	setupTestServices(t, nil)

	out, err := execute(t, "settings", "set", services.KeyAPIToken, "tk-1234567890abcdef")

	require.NoError(t, err)
	assert.Contains(t, out, "tk-1...cdef")
	assert.NotContains(t, out, "tk-1234567890abcdef")
}

func TestSettingsSet_APITokenPrompt(t *testing.T) {
	setupTestServices(t, nil)
	rootCmd.SetIn(strings.NewReader("prompted-token-1234\n"))

	out, err := execute(t, "settings", "set", services.KeyAPIToken)

	require.NoError(t, err)
	assert.Contains(t, out, "Enter API token:")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "prompted-token-1234", settings.Enrichment.APIToken)
}

func TestSettingsSet_APITokenRemoved(t *testing.T) {
	ts := setupTestServices(t, nil)
	require.NoError(t, ts.configStore.Set(services.KeyAPIToken, "tk-1234567890abcdef"))

	out, err := execute(t, "settings", "set", services.KeyAPIToken, "")

	require.NoError(t, err)
	assert.Contains(t, out, "enrichment.api_token removed")
	_, exists := ts.configStore.Get(services.KeyAPIToken)
	assert.False(t, exists)
}

func TestSettingsWizard(t *testing.T) {
	setupTestServices(t, nil)
	input := strings.Join([]string{
		"https://enrich.example.com/process",
		"wizard-bucket",
		"",
		"",
		"wizard-token-5678",
	}, "\n") + "\n"
	rootCmd.SetIn(strings.NewReader(input))

	out, err := execute(t, "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "All settings are valid and saved.")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://enrich.example.com/process", settings.Enrichment.Endpoint)
	assert.Equal(t, "wizard-bucket", settings.Enrichment.Bucket)
	assert.Equal(t, domain.DefaultTimeout, settings.Enrichment.Timeout)
	assert.Empty(t, settings.Output.Dir)
	assert.Equal(t, "wizard-token-5678", settings.Enrichment.APIToken)
}

func TestSettingsWizard_InvalidEndpoint(t *testing.T) {
	setupTestServices(t, nil)
	rootCmd.SetIn(strings.NewReader("not-a-url\n"))

	_, err := execute(t, "settings", "wizard")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsWizard_EOFKeepsValues(t *testing.T) {
	setupTestServices(t, nil)
	rootCmd.SetIn(strings.NewReader(""))

	_, err := execute(t, "settings", "wizard")

	require.NoError(t, err)
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultEndpoint, settings.Enrichment.Endpoint)
}
