package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Audio          AudioConfig      `yaml:"audio"`
	Chunking       ChunkingConfig   `yaml:"chunking"`
	Transcribe     TranscribeConfig `yaml:"transcribe"`
	Assistant      AssistantConfig  `yaml:"assistant"`
	Server         ServerConfig     `yaml:"server"`
	RecordingsDir  string           `yaml:"recordings_dir"`
	TranscriptsDir string           `yaml:"transcripts_dir"`
	LogLevel       string           `yaml:"log_level"`

	// OpenAIAPIKey comes from the environment, never from the config file.
	OpenAIAPIKey string `yaml:"-"`
}

// AudioConfig holds audio capture settings.
type AudioConfig struct {
	SampleRate uint32 `yaml:"sample_rate"`
	Channels   uint32 `yaml:"channels"`
}

// ChunkingConfig holds streaming chunk accumulation settings.
type ChunkingConfig struct {
	ChunkSeconds   int `yaml:"chunk_seconds"`
	OverlapSeconds int `yaml:"overlap_seconds"`
}

// TranscribeConfig holds speech-to-text settings.
type TranscribeConfig struct {
	Backend string `yaml:"backend"` // "openai"
	Model   string `yaml:"model"`
}

// AssistantConfig holds answer generation settings.
type AssistantConfig struct {
	Model string `yaml:"model"`
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "meetpilot")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate: 16000,
			Channels:   1,
		},
		Chunking: ChunkingConfig{
			ChunkSeconds:   10,
			OverlapSeconds: 2,
		},
		Transcribe: TranscribeConfig{
			Backend: "openai",
			Model:   "whisper-1",
		},
		Assistant: AssistantConfig{
			Model: "gpt-4o",
		},
		Server: ServerConfig{
			Addr: ":5000",
		},
		RecordingsDir:  "recordings",
		TranscriptsDir: "transcripts",
		LogLevel:       "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in directory paths is expanded to the user's
// home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.RecordingsDir = expandTilde(cfg.RecordingsDir)
	cfg.TranscriptsDir = expandTilde(cfg.TranscriptsDir)

	return cfg, nil
}

// LoadEnv loads environment variables, reading a .env file first if one
// exists, and fills in the API key fields.
func (c *Config) LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	return nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Audio.SampleRate == 0 {
		return fmt.Errorf("audio.sample_rate must be > 0")
	}

	if c.Audio.Channels == 0 {
		return fmt.Errorf("audio.channels must be > 0")
	}

	if c.Chunking.ChunkSeconds <= 0 {
		return fmt.Errorf("chunking.chunk_seconds must be > 0")
	}

	if c.Chunking.OverlapSeconds < 0 {
		return fmt.Errorf("chunking.overlap_seconds must be >= 0")
	}

	if c.Chunking.OverlapSeconds >= c.Chunking.ChunkSeconds {
		return fmt.Errorf("chunking.overlap_seconds (%d) must be less than chunking.chunk_seconds (%d)",
			c.Chunking.OverlapSeconds, c.Chunking.ChunkSeconds)
	}

	switch c.Transcribe.Backend {
	case "openai", "":
	default:
		return fmt.Errorf("transcribe.backend must be \"openai\", got %q", c.Transcribe.Backend)
	}

	if c.Assistant.Model == "" {
		return fmt.Errorf("assistant.model must not be empty")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	if c.RecordingsDir == "" {
		return fmt.Errorf("recordings_dir must not be empty")
	}

	if c.TranscriptsDir == "" {
		return fmt.Errorf("transcripts_dir must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
