package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the crawler
type Config struct {
	// Graph API application credentials and account identity
	App AppConfig `yaml:"app" json:"app"`

	// Graph API endpoint settings
	Graph GraphConfig `yaml:"graph" json:"graph"`

	// Paginated fetch and retry behavior
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Per-media-type insight metric sets and request pacing
	Insights InsightsConfig `yaml:"insights" json:"insights"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// HTTP service settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// AppConfig holds OAuth app credentials and the business account identity
type AppConfig struct {
	ClientID        string `yaml:"client_id" json:"client_id"`
	ClientSecret    string `yaml:"client_secret" json:"client_secret"`
	RedirectURI     string `yaml:"redirect_uri" json:"redirect_uri"`
	BusinessID      string `yaml:"business_id" json:"business_id"`
	ShortLivedToken string `yaml:"short_lived_token" json:"short_lived_token"`
	AccessToken     string `yaml:"access_token" json:"access_token"`
}

// GraphConfig holds Graph API endpoint settings
type GraphConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	DialogBaseURL  string        `yaml:"dialog_base_url" json:"dialog_base_url"`
	Fields         string        `yaml:"fields" json:"fields"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// FetchConfig holds pagination and retry configuration
type FetchConfig struct {
	PageLimit                   int           `yaml:"page_limit" json:"page_limit"`
	MaxAttempts                 int           `yaml:"max_attempts" json:"max_attempts"`
	BackoffBase                 time.Duration `yaml:"backoff_base" json:"backoff_base"`
	RateLimitWait               time.Duration `yaml:"rate_limit_wait" json:"rate_limit_wait"`
	RateLimitCountsTowardBudget bool          `yaml:"rate_limit_counts_toward_budget" json:"rate_limit_counts_toward_budget"`
}

// InsightsConfig holds per-media-type metric lists and pacing
type InsightsConfig struct {
	Metrics      string        `yaml:"metrics" json:"metrics"`
	StoryMetrics string        `yaml:"story_metrics" json:"story_metrics"`
	ReelsMetrics string        `yaml:"reels_metrics" json:"reels_metrics"`
	VideoMetrics string        `yaml:"video_metrics" json:"video_metrics"`
	PacingDelay  time.Duration `yaml:"pacing_delay" json:"pacing_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// ServerConfig holds HTTP service configuration
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			BaseURL:        "https://graph.facebook.com/v23.0",
			DialogBaseURL:  "https://www.facebook.com/v23.0",
			Fields:         "id,caption,permalink,media_type,media_product_type,timestamp,username,like_count,comments_count",
			RequestTimeout: 10 * time.Second,
		},
		Fetch: FetchConfig{
			PageLimit:     25,
			MaxAttempts:   3,
			BackoffBase:   1 * time.Second,
			RateLimitWait: 60 * time.Second,
		},
		Insights: InsightsConfig{
			Metrics:      "reach,total_interactions,likes,comments,saved,shares",
			StoryMetrics: "reach,replies,total_interactions",
			ReelsMetrics: "reach,total_interactions,likes,comments,saved,shares",
			VideoMetrics: "reach,total_interactions,likes,comments,saved,shares",
			PacingDelay:  300 * time.Millisecond,
		},
		Output: OutputConfig{
			Directory: "./output",
		},
		Server: ServerConfig{
			ListenAddr: ":8000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// a .env file if present, and environment variable overrides.
func Load(path string) (*Config, error) {
	// .env is optional, matching local development setups
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}
	cfg.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // no config file is not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// findConfigFile looks for a config file in default locations
func (c *Config) findConfigFile() string {
	candidates := []string{
		"igcrawler.yaml",
		"igcrawler.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			home+"/.config/igcrawler/config.yaml",
			home+"/.igcrawler.yaml",
		)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	setString(&c.App.ClientID, "IG_CLIENT_ID")
	setString(&c.App.ClientSecret, "IG_CLIENT_SECRET")
	setString(&c.App.RedirectURI, "IG_REDIRECT_URI")
	setString(&c.App.BusinessID, "IG_USER_ID")
	setString(&c.App.ShortLivedToken, "IG_SHORT_TOKEN")
	setString(&c.App.AccessToken, "ACCESS_TOKEN")

	setString(&c.Graph.BaseURL, "IG_GRAPH_BASE_URL")
	setString(&c.Graph.Fields, "FIELD_PARAMS")

	setString(&c.Insights.Metrics, "INSIGHT_METRICS")
	setString(&c.Insights.StoryMetrics, "INSIGHT_METRICS_STORY")
	setString(&c.Insights.ReelsMetrics, "INSIGHT_METRICS_REELS")
	setString(&c.Insights.VideoMetrics, "INSIGHT_METRICS_VIDEO")

	setString(&c.Output.Directory, "OUTPUT_DIR")
	setString(&c.Server.ListenAddr, "IGCRAWLER_LISTEN_ADDR")
	setString(&c.Logging.Level, "IGCRAWLER_LOG_LEVEL")
	setString(&c.Logging.File, "IGCRAWLER_LOG_FILE")

	if v := os.Getenv("IGCRAWLER_PAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Fetch.PageLimit = n
		}
	}
	if v := os.Getenv("IGCRAWLER_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Fetch.MaxAttempts = n
		}
	}
	if v := os.Getenv("IGCRAWLER_RATE_LIMIT_COUNTS"); v != "" {
		c.Fetch.RateLimitCountsTowardBudget = strings.ToLower(v) == "true"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the configuration for invalid values. Missing settings
// required by a specific command are checked by that command before any
// request is made.
func (c *Config) Validate() error {
	if c.Graph.BaseURL == "" {
		return errors.New("graph base URL must not be empty")
	}
	if c.Graph.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.Fetch.MaxAttempts < 1 {
		return errors.New("max attempts must be at least 1")
	}
	if c.Fetch.PageLimit < 1 {
		return errors.New("page limit must be at least 1")
	}
	if c.Fetch.RateLimitWait < 0 {
		return errors.New("rate limit wait must not be negative")
	}
	if c.Insights.PacingDelay < 0 {
		return errors.New("insight pacing delay must not be negative")
	}
	if c.Output.Directory == "" {
		return errors.New("output directory must not be empty")
	}
	if _, err := parseLevelName(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

func parseLevelName(level string) (string, error) {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "warning", "error", "fatal":
		return strings.ToLower(level), nil
	default:
		return "", fmt.Errorf("unknown log level %q", level)
	}
}

// RequireAccount fails when the business account id is not configured.
func (c *Config) RequireAccount() error {
	if c.App.BusinessID == "" {
		return errors.New("business account id is required (set IG_USER_ID)")
	}
	return nil
}

// RequireOAuthApp fails when the OAuth app credentials are not configured.
func (c *Config) RequireOAuthApp() error {
	if c.App.ClientID == "" || c.App.ClientSecret == "" {
		return errors.New("OAuth client id and secret are required (set IG_CLIENT_ID and IG_CLIENT_SECRET)")
	}
	if c.App.RedirectURI == "" {
		return errors.New("OAuth redirect URI is required (set IG_REDIRECT_URI)")
	}
	return nil
}
