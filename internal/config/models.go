package config

import (
	"time"
)

// GameConfig holds timing and scoring
type GameConfig struct {
	CountdownTicks  int
	TickInterval    time.Duration
	CompletionDelay time.Duration
	QuickfirePoints int
	InboxPoints     int
	LabPoints       int
	TopMissed       int
}

// DatasetConfig selects where training content is read from
type DatasetConfig struct {
	Type        string
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
}

// CacheConfig represents the verdict cache configuration
type CacheConfig struct {
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
}

// CoachConfig selects the LLM coach
type CoachConfig struct {
	Provider string
	Timeout  time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region        string
	ModelID       string
	MaxTokens     int
	Temperature   float32
	TopP          float32
	MaxPromptSize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey        string
	ModelName     string
	MaxTokens     int
	Temperature   float32
	TopP          float32
	MaxPromptSize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	ModelName     string
	MaxTokens     int
	Temperature   float32
	TopP          float32
	MaxPromptSize int
}

// DropboxConfig represents the SMTP drop box configuration
type DropboxConfig struct {
	ListenAddress           string
	Domain                  string
	RejectSuspicious        bool
	AllowedSubmitterDomains []string
	MaxSubmissions          int
	MaxMessageBytes         int64
}

// GetGame returns the game configuration
func (c *Config) GetGame() (GameConfig, error) {
	tick, err := c.GetPositiveDuration("game.tick_interval")
	if err != nil {
		return GameConfig{}, err
	}
	delay, err := c.GetPositiveDuration("game.completion_delay")
	if err != nil {
		return GameConfig{}, err
	}
	return GameConfig{
		CountdownTicks:  c.GetInt("game.countdown_ticks"),
		TickInterval:    tick,
		CompletionDelay: delay,
		QuickfirePoints: c.GetInt("game.points.quickfire"),
		InboxPoints:     c.GetInt("game.points.inbox"),
		LabPoints:       c.GetInt("game.points.lab"),
		TopMissed:       c.GetInt("scorecard.top_missed"),
	}, nil
}

// GetDataset returns the dataset configuration
func (c *Config) GetDataset() DatasetConfig {
	return DatasetConfig{
		Type:        c.GetString("dataset.type"),
		SQLitePath:  c.GetString("dataset.sqlite_path"),
		MySQLDSN:    c.GetString("dataset.mysql_dsn"),
		PostgresDSN: c.GetString("dataset.postgres_dsn"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetPositiveDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetPositiveDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
	}, nil
}

// GetCoach returns the coach configuration
func (c *Config) GetCoach() (CoachConfig, error) {
	timeout, err := c.GetDuration("coach.timeout")
	if err != nil {
		return CoachConfig{}, err
	}
	return CoachConfig{
		Provider: c.GetString("coach.provider"),
		Timeout:  timeout,
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:        c.GetString("bedrock.region"),
		ModelID:       c.GetString("bedrock.model_id"),
		MaxTokens:     c.GetInt("bedrock.max_tokens"),
		Temperature:   float32(c.GetFloat64("bedrock.temperature")),
		TopP:          float32(c.GetFloat64("bedrock.top_p")),
		MaxPromptSize: c.GetInt("bedrock.max_prompt_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:        c.GetString("gemini.api_key"),
		ModelName:     c.GetString("gemini.model_name"),
		MaxTokens:     c.GetInt("gemini.max_tokens"),
		Temperature:   float32(c.GetFloat64("gemini.temperature")),
		TopP:          float32(c.GetFloat64("gemini.top_p")),
		MaxPromptSize: c.GetInt("gemini.max_prompt_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:        c.GetString("openai.api_key"),
		BaseURL:       c.GetString("openai.base_url"),
		ModelName:     c.GetString("openai.model_name"),
		MaxTokens:     c.GetInt("openai.max_tokens"),
		Temperature:   float32(c.GetFloat64("openai.temperature")),
		TopP:          float32(c.GetFloat64("openai.top_p")),
		MaxPromptSize: c.GetInt("openai.max_prompt_size"),
	}
}

// GetDropbox returns the drop box configuration
func (c *Config) GetDropbox() DropboxConfig {
	return DropboxConfig{
		ListenAddress:           c.GetString("dropbox.listen_address"),
		Domain:                  c.GetString("dropbox.domain"),
		RejectSuspicious:        c.GetBool("dropbox.reject_suspicious"),
		AllowedSubmitterDomains: c.GetStringSlice("dropbox.allowed_submitter_domains"),
		MaxSubmissions:          c.GetInt("dropbox.max_submissions"),
		MaxMessageBytes:         c.v.GetInt64("dropbox.max_message_bytes"),
	}
}
