package config

import (
	"fmt"
	"os"
	"time"

	"creator-stack/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI            AIConfig            `yaml:"ai"`
	Email         EmailConfig         `yaml:"email"`
	Logging       LoggingConfig       `yaml:"logging"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Studio        StudioConfig        `yaml:"studio"`
	ContentDigest ContentDigestConfig `yaml:"content_digest"`
	VideoCoach    VideoCoachConfig    `yaml:"video_coach"`
}

// AIConfig configures the completion endpoint shared by every entrypoint.
type AIConfig struct {
	Provider     string `yaml:"provider"` // "openai" or "gemini"
	OpenAIAPIKey string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`

	// Temperatures are pointers so an explicit 0 survives defaulting.
	ContentTemperature *float32 `yaml:"content_temperature"`
	ContentMaxTokens   int      `yaml:"content_max_tokens"`
	VideoTemperature   *float32 `yaml:"video_temperature"`
	VideoMaxTokens     int      `yaml:"video_max_tokens"`

	TimeoutSeconds      int `yaml:"timeout_seconds"`
	MaxAttempts         int `yaml:"max_attempts"`
	InitialBackoffMs    int `yaml:"initial_backoff_ms"`
	BreakerFailureLimit int `yaml:"breaker_failure_limit"`
}

// Timeout is the per-attempt bound on one completion call.
func (a AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func (a AIConfig) InitialBackoff() time.Duration {
	return time.Duration(a.InitialBackoffMs) * time.Millisecond
}

// ContentTemp is the sampling temperature for content generation.
func (a AIConfig) ContentTemp() float32 {
	return temperatureOr(a.ContentTemperature, DefaultContentTemperature)
}

// VideoTemp is the sampling temperature for video analysis.
func (a AIConfig) VideoTemp() float32 {
	return temperatureOr(a.VideoTemperature, DefaultVideoTemperature)
}

func temperatureOr(t *float32, def float32) float32 {
	if t == nil {
		return def
	}
	return *t
}

// APIKey returns the credential for the selected provider.
func (a AIConfig) APIKey() string {
	if a.Provider == ProviderGemini {
		return a.GeminiAPIKey
	}
	return a.OpenAIAPIKey
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultContentTemperature float32 = 0.8
	DefaultVideoTemperature   float32 = 0.7
)

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

type StudioConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// ContentDigestConfig drives the scheduled content digest agent.
type ContentDigestConfig struct {
	Schedule          string                     `yaml:"schedule"`
	Topics            []models.GenerationRequest `yaml:"topics"`
	Concurrency       int                        `yaml:"concurrency"`
	DedupeWindowHours int                        `yaml:"dedupe_window_hours"`
	DataDir           string                     `yaml:"data_dir"`
}

func (c ContentDigestConfig) DedupeWindow() time.Duration {
	return time.Duration(c.DedupeWindowHours) * time.Hour
}

type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
	CacheSize    int    `yaml:"cache_size"`
}

// UsesOAuth reports whether the creator's own (possibly unlisted) videos are read with OAuth.
func (y YouTubeConfig) UsesOAuth() bool {
	return y.APIKey == "" && y.ClientID != "" && y.ClientSecret != ""
}

type Comparison struct {
	UserVideoID  string `yaml:"user_video_id"`
	ViralVideoID string `yaml:"viral_video_id"`
}

// VideoCoachConfig drives the scheduled video comparison agent.
type VideoCoachConfig struct {
	Schedule    string        `yaml:"schedule"`
	YouTube     YouTubeConfig `yaml:"youtube"`
	Comparisons []Comparison  `yaml:"comparisons"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}
	return cfg, nil
}

// LoadFromBytes parses YAML, applies environment fallbacks and defaults, and
// validates the settings every entrypoint needs.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if c.AI.OpenAIAPIKey == "" {
		c.AI.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.AI.GeminiAPIKey == "" {
		c.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Email.Username == "" {
		c.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if c.Email.Password == "" {
		c.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if c.VideoCoach.YouTube.APIKey == "" {
		c.VideoCoach.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.VideoCoach.YouTube.ClientID == "" {
		c.VideoCoach.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.VideoCoach.YouTube.ClientSecret == "" {
		c.VideoCoach.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
}

func (c *Config) applyDefaults() {
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderOpenAI
	}
	if c.AI.Model == "" {
		if c.AI.Provider == ProviderGemini {
			c.AI.Model = "gemini-2.5-flash"
		} else {
			c.AI.Model = "gpt-4"
		}
	}
	if c.AI.BaseURL == "" && c.AI.Provider == ProviderOpenAI {
		c.AI.BaseURL = "https://api.openai.com/v1"
	}
	if c.AI.ContentTemperature == nil {
		t := DefaultContentTemperature
		c.AI.ContentTemperature = &t
	}
	if c.AI.ContentMaxTokens == 0 {
		c.AI.ContentMaxTokens = 1500
	}
	if c.AI.VideoTemperature == nil {
		t := DefaultVideoTemperature
		c.AI.VideoTemperature = &t
	}
	if c.AI.VideoMaxTokens == 0 {
		c.AI.VideoMaxTokens = 2000
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 60
	}
	if c.AI.MaxAttempts == 0 {
		c.AI.MaxAttempts = 3
	}
	if c.AI.InitialBackoffMs == 0 {
		c.AI.InitialBackoffMs = 500
	}
	if c.AI.BreakerFailureLimit == 0 {
		c.AI.BreakerFailureLimit = 5
	}

	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Environment == "" {
		c.Logging.Environment = "production"
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Studio.ListenAddr == "" {
		c.Studio.ListenAddr = ":8090"
	}

	if c.ContentDigest.Schedule == "" {
		c.ContentDigest.Schedule = "0 0 8 * * *" // Daily at 8 AM
	}
	if c.ContentDigest.Concurrency == 0 {
		c.ContentDigest.Concurrency = 2
	}
	if c.ContentDigest.DedupeWindowHours == 0 {
		c.ContentDigest.DedupeWindowHours = 24
	}
	if c.ContentDigest.DataDir == "" {
		c.ContentDigest.DataDir = "data"
	}

	if c.VideoCoach.Schedule == "" {
		c.VideoCoach.Schedule = "0 0 18 * * 1" // Mondays at 6 PM
	}
	if c.VideoCoach.YouTube.TokenFile == "" {
		c.VideoCoach.YouTube.TokenFile = "youtube_token.json"
	}
	if c.VideoCoach.YouTube.CacheSize == 0 {
		c.VideoCoach.YouTube.CacheSize = 256
	}
}

// validate checks the settings every entrypoint depends on: the completion
// credential is read once here and its absence stops startup.
func (c *Config) validate() error {
	switch c.AI.Provider {
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			return fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY or ai.openai_api_key)")
		}
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
		}
	default:
		return fmt.Errorf("unsupported AI provider %q (use %q or %q)", c.AI.Provider, ProviderOpenAI, ProviderGemini)
	}
	if c.AI.ContentMaxTokens < 0 || c.AI.VideoMaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative (0 uses the default)")
	}
	if t := c.AI.ContentTemp(); t < 0 || t > 2 {
		return fmt.Errorf("ai.content_temperature must be between 0 and 2, got %v", t)
	}
	if t := c.AI.VideoTemp(); t < 0 || t > 2 {
		return fmt.Errorf("ai.video_temperature must be between 0 and 2, got %v", t)
	}
	if c.AI.MaxAttempts < 1 {
		return fmt.Errorf("ai.max_attempts must be at least 1")
	}
	return nil
}

func (c *Config) validateEmail() error {
	if c.Email.SMTPServer == "" {
		return fmt.Errorf("SMTP server is required (email.smtp_server)")
	}
	if c.Email.Username == "" {
		return fmt.Errorf("Email username is required (set EMAIL_USERNAME or email.username)")
	}
	if c.Email.Password == "" {
		return fmt.Errorf("Email password is required (set EMAIL_PASSWORD or email.password)")
	}
	if c.Email.ToEmail == "" {
		return fmt.Errorf("Email recipient is required (email.to_email)")
	}
	return nil
}

// ValidateContentDigest validates the content digest agent's configuration.
func (c *Config) ValidateContentDigest() error {
	if len(c.ContentDigest.Topics) == 0 {
		return fmt.Errorf("at least one content_digest.topics entry is required")
	}
	for i, topic := range c.ContentDigest.Topics {
		category, err := models.ParseCategory(string(topic.Category))
		if err != nil {
			return fmt.Errorf("content_digest.topics[%d]: %w", i, err)
		}
		if !category.IsContent() {
			return fmt.Errorf("content_digest.topics[%d]: category %q is not a content category", i, category)
		}
		if topic.Prompt == "" {
			return fmt.Errorf("content_digest.topics[%d]: prompt is required", i)
		}
		c.ContentDigest.Topics[i].Category = category
	}
	if c.ContentDigest.Concurrency < 1 {
		return fmt.Errorf("content_digest.concurrency must be at least 1")
	}
	return c.validateEmail()
}

// ValidateVideoCoach validates the video coach agent's configuration.
func (c *Config) ValidateVideoCoach() error {
	yt := c.VideoCoach.YouTube
	if yt.APIKey == "" && (yt.ClientID == "" || yt.ClientSecret == "") {
		return fmt.Errorf("YouTube credentials are required (set YOUTUBE_API_KEY, or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
	}
	if len(c.VideoCoach.Comparisons) == 0 {
		return fmt.Errorf("at least one video_coach.comparisons entry is required")
	}
	for i, cmp := range c.VideoCoach.Comparisons {
		if cmp.UserVideoID == "" || cmp.ViralVideoID == "" {
			return fmt.Errorf("video_coach.comparisons[%d]: user_video_id and viral_video_id are required", i)
		}
	}
	return c.validateEmail()
}

// ValidateStudio validates the studio API's configuration.
func (c *Config) ValidateStudio() error {
	if c.Studio.ListenAddr == "" {
		return fmt.Errorf("studio.listen_addr is required")
	}
	return nil
}
