package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"subsdesk/classify"
	"subsdesk/database"
	"subsdesk/route"
)

// Config holds all application configuration. It is built once by Load and
// handed to the components that need it.
type Config struct {
	// Discord configuration
	DiscordToken   string
	GuildID        string
	AuditChannelID string // Channel receiving run summaries, optional

	// External subscriber list, both optional
	DatabaseURL     string
	DatabaseName    string
	MongoURL        string
	MongoDatabase   string
	MongoCollection string

	// Smart filter
	GenAIAPIKey string
	GenAIModel  string

	// Pipeline
	Location                      *time.Location
	CutoffDay                     int
	DomesticCountryCode           string
	DomesticCountryName           string
	TestAccountPatterns           []string
	CancellationExclusionPatterns []string
	ExternalCallTimeout           time.Duration

	LogLevel    string
	Environment string // "development", "production" or "test"
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	config := &Config{
		DiscordToken:   getenv("DISCORD_TOKEN"),
		GuildID:        getenv("GUILD_ID"),
		AuditChannelID: getenv("AUDIT_CHANNEL_ID"),

		DatabaseURL:     getenv("DATABASE_URL"),
		DatabaseName:    getenv("DATABASE_NAME"),
		MongoURL:        getenv("MONGO_URL"),
		MongoDatabase:   withDefault(getenv("MONGO_DATABASE"), "subsdesk"),
		MongoCollection: withDefault(getenv("MONGO_COLLECTION"), "external_subscribers"),

		GenAIAPIKey: getenv("GENAI_API_KEY"),
		GenAIModel:  getenv("GENAI_MODEL"),

		CutoffDay:                     classify.DefaultCutoffDay,
		DomesticCountryCode:           withDefault(getenv("DOMESTIC_COUNTRY_CODE"), route.DefaultOptions().DomesticCode),
		DomesticCountryName:           withDefault(getenv("DOMESTIC_COUNTRY_NAME"), route.DefaultOptions().DomesticName),
		TestAccountPatterns:           classify.DefaultTestAccountPatterns,
		CancellationExclusionPatterns: classify.DefaultCancellationExclusionPatterns,
		ExternalCallTimeout:           20 * time.Second,

		LogLevel:    withDefault(getenv("LOG_LEVEL"), "info"),
		Environment: withDefault(getenv("ENVIRONMENT"), "development"),
	}

	loc, err := time.LoadLocation(withDefault(getenv("TIMEZONE"), "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	config.Location = loc

	if day := getenv("CUTOFF_DAY"); day != "" {
		parsed, err := strconv.Atoi(day)
		if err != nil || parsed < 1 || parsed > 28 {
			return nil, fmt.Errorf("CUTOFF_DAY must be a day between 1 and 28, got %q", day)
		}
		config.CutoffDay = parsed
	}

	if timeout := getenv("EXTERNAL_CALL_TIMEOUT"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("EXTERNAL_CALL_TIMEOUT must be a positive duration, got %q", timeout)
		}
		config.ExternalCallTimeout = parsed
	}

	if patterns := getenv("TEST_ACCOUNT_PATTERNS"); patterns != "" {
		config.TestAccountPatterns = splitPatterns(patterns)
	}
	if patterns := getenv("CANCELLATION_EXCLUSION_PATTERNS"); patterns != "" {
		config.CancellationExclusionPatterns = splitPatterns(patterns)
	}

	config.DomesticCountryCode = strings.ToUpper(strings.TrimSpace(config.DomesticCountryCode))
	config.DomesticCountryName = strings.ToUpper(strings.TrimSpace(config.DomesticCountryName))

	if _, err := log.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if _, err := config.Policy(); err != nil {
		return nil, err
	}

	if config.DatabaseName != "" && config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when DATABASE_NAME is set")
	}

	return config, nil
}

// ValidateBot checks the settings the Discord bot needs. The command line
// tools run without them.
func (c *Config) ValidateBot() error {
	if c.Environment != "test" && c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	return nil
}

// GetDatabaseURL combines the base URL and the database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Policy compiles the classification policy
func (c *Config) Policy() (classify.Policy, error) {
	testPatterns, err := classify.Compile(c.TestAccountPatterns)
	if err != nil {
		return classify.Policy{}, fmt.Errorf("invalid TEST_ACCOUNT_PATTERNS: %w", err)
	}
	exclusionPatterns, err := classify.Compile(c.CancellationExclusionPatterns)
	if err != nil {
		return classify.Policy{}, fmt.Errorf("invalid CANCELLATION_EXCLUSION_PATTERNS: %w", err)
	}
	return classify.Policy{
		CutoffDay:                     c.CutoffDay,
		TestAccountPatterns:           testPatterns,
		CancellationExclusionPatterns: exclusionPatterns,
		ExcludeLateCreated:            true,
	}, nil
}

// RouteOptions returns the home market used for routing
func (c *Config) RouteOptions() route.Options {
	return route.Options{DomesticCode: c.DomesticCountryCode, DomesticName: c.DomesticCountryName}
}

// SmartFilterEnabled reports whether a GenAI key is configured
func (c *Config) SmartFilterEnabled() bool {
	return c.GenAIAPIKey != ""
}

// splitPatterns splits a semicolon separated list of regular expressions
func splitPatterns(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func withDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:                   "test",
		Location:                      time.UTC,
		CutoffDay:                     classify.DefaultCutoffDay,
		DomesticCountryCode:           "FR",
		DomesticCountryName:           "FRANCE",
		TestAccountPatterns:           classify.DefaultTestAccountPatterns,
		CancellationExclusionPatterns: classify.DefaultCancellationExclusionPatterns,
		ExternalCallTimeout:           time.Second,
		LogLevel:                      "debug",
	}
}
