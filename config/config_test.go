package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(map[string]string{"DISCORD_TOKEN": "token"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 5, cfg.CutoffDay)
	assert.Equal(t, "FR", cfg.DomesticCountryCode)
	assert.Equal(t, "FRANCE", cfg.DomesticCountryName)
	assert.Equal(t, 20*time.Second, cfg.ExternalCallTimeout)
	assert.False(t, cfg.SmartFilterEnabled())
	assert.Equal(t, "", cfg.GetDatabaseURL())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"DISCORD_TOKEN":                   "token",
		"TIMEZONE":                        "Europe/Paris",
		"CUTOFF_DAY":                      "10",
		"DOMESTIC_COUNTRY_CODE":           "be",
		"DOMESTIC_COUNTRY_NAME":           "Belgique",
		"TEST_ACCOUNT_PATTERNS":           "(?i)qa;(?i)@internal\\.fr$",
		"CANCELLATION_EXCLUSION_PATTERNS": "(?i)fraude",
		"EXTERNAL_CALL_TIMEOUT":           "5s",
		"DATABASE_URL":                    "postgres://u:p@db:5432",
		"DATABASE_NAME":                   "desk",
		"GENAI_API_KEY":                   "key",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Paris", cfg.Location.String())
	assert.Equal(t, 10, cfg.CutoffDay)
	assert.Equal(t, "BE", cfg.RouteOptions().DomesticCode)
	assert.Equal(t, "BELGIQUE", cfg.RouteOptions().DomesticName)
	assert.Equal(t, []string{"(?i)qa", "(?i)@internal\\.fr$"}, cfg.TestAccountPatterns)
	assert.Equal(t, 5*time.Second, cfg.ExternalCallTimeout)
	assert.Equal(t, "postgres://u:p@db:5432/desk?sslmode=disable", cfg.GetDatabaseURL())
	assert.True(t, cfg.SmartFilterEnabled())

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Len(t, policy.TestAccountPatterns, 2)
	assert.Len(t, policy.CancellationExclusionPatterns, 1)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad timezone", map[string]string{"DISCORD_TOKEN": "t", "TIMEZONE": "Mars/Olympus"}},
		{"bad cutoff day", map[string]string{"DISCORD_TOKEN": "t", "CUTOFF_DAY": "31"}},
		{"bad timeout", map[string]string{"DISCORD_TOKEN": "t", "EXTERNAL_CALL_TIMEOUT": "-1s"}},
		{"bad pattern", map[string]string{"DISCORD_TOKEN": "t", "TEST_ACCOUNT_PATTERNS": "("}},
		{"bad log level", map[string]string{"DISCORD_TOKEN": "t", "LOG_LEVEL": "loud"}},
		{"database name without url", map[string]string{"DISCORD_TOKEN": "t", "DATABASE_NAME": "desk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(env(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestValidateBot(t *testing.T) {
	cfg, err := load(env(map[string]string{}))
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateBot())

	cfg, err = load(env(map[string]string{"ENVIRONMENT": "test"}))
	require.NoError(t, err)
	assert.Empty(t, cfg.DiscordToken)
	assert.NoError(t, cfg.ValidateBot())

	cfg, err = load(env(map[string]string{"DISCORD_TOKEN": "t"}))
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateBot())
}

func TestNewTestConfig(t *testing.T) {
	cfg := NewTestConfig()
	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.True(t, policy.ExcludeLateCreated)
	assert.Equal(t, "test", cfg.Environment)
}
