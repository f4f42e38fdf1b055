package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/notify"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Whisper  WhisperConfig  `mapstructure:"whisper"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Render   RenderConfig   `mapstructure:"render"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Notify   notify.Config  `mapstructure:"notify"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type WhisperConfig struct {
	// Provider: "local" (whisper.cpp) or "openai" (API)
	Provider string `mapstructure:"provider"`
	// Bin: path to the whisper.cpp binary (local provider only)
	Bin string `mapstructure:"bin"`
	// Model: for local = path to a ggml model file, for openai = "whisper-1"
	Model string `mapstructure:"model"`
	// APIKey: required if provider is "openai"
	APIKey string `mapstructure:"api_key"`
	// Language: source language hint (optional, "auto" for auto-detect)
	Language string `mapstructure:"language"`
}

type LLMConfig struct {
	// Provider: "gemini", "openai", "claude" or "custom"; requests may override
	Provider string `mapstructure:"provider"`
	// APIURL: endpoint override; empty = provider default
	APIURL string `mapstructure:"api_url"`
	// APIKey: API key for the provider
	APIKey string `mapstructure:"api_key"`

	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`

	// TimeoutSeconds bounds a single completion request (0 = 60s default)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RateLimitRPM: requests per minute (0 = no limit)
	RateLimitRPM int `mapstructure:"rate_limit_rpm"`
}

type RenderConfig struct {
	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`
	// FontFile is burned into every drawtext overlay the LLM produces
	FontFile string `mapstructure:"font_file"`
	// SFXDir holds the named sound-effect presets (<name>.mp3)
	SFXDir string `mapstructure:"sfx_dir"`
}

type PipelineConfig struct {
	// MaxWorkers caps concurrent stage workers across all jobs
	MaxWorkers int `mapstructure:"max_workers"`
}

// Folders returns hardcoded data paths (user mounts via Docker volumes).
func Folders() FoldersConfig {
	return FoldersConfig{
		Uploads:   "/data/uploads",   // Mount: raw uploaded videos
		Processed: "/data/processed", // Mount: per-job artifacts and renders
	}
}

type FoldersConfig struct {
	Uploads   string // Raw uploaded videos
	Processed string // Per-job artifact directories
}

// Load reads the YAML config at path with RENO_* env overrides.
func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("RENO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Whisper.Provider == "" {
		cfg.Whisper.Provider = "local"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 2000
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 60
	}
	if cfg.Pipeline.MaxWorkers == 0 {
		cfg.Pipeline.MaxWorkers = 4
	}
}
