package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultSystemPrompt   = "あなたは会議の議事録から要約を作成するプロのアシスタントです。"
	DefaultPromptTemplate = "以下の議事録をもとに、会議の要点をまとめた分かりやすい要約を日本語で作成してな。\n\n議事録内容:\n%s\n"
)

type Config struct {
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summary       SummaryConfig       `yaml:"summary"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Recording     RecordingConfig     `yaml:"recording"`
	Paths         PathsConfig         `yaml:"paths"`
	Splitter      SplitterConfig      `yaml:"splitter"`
	Archive       ArchiveConfig       `yaml:"archive"`
	Export        ExportConfig        `yaml:"export"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type TranscriptionConfig struct {
	Model       string  `yaml:"model"`
	Language    string  `yaml:"language"`
	Temperature float32 `yaml:"temperature"`
}

type SummaryConfig struct {
	Provider       string  `yaml:"provider"`
	Model          string   `yaml:"model"`
	Temperature    *float32 `yaml:"temperature"`
	MaxTokens      int      `yaml:"max_tokens"`
	SystemPrompt   string   `yaml:"system_prompt"`
	PromptTemplate string   `yaml:"prompt_template"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type RecordingConfig struct {
	SegmentSeconds  int    `yaml:"segment_seconds"`
	SampleRate      int    `yaml:"sample_rate"`
	Channels        int    `yaml:"channels"`
	BitDepth        int    `yaml:"bit_depth"`
	FramesPerBuffer int    `yaml:"frames_per_buffer"`
	TempFile        string `yaml:"temp_file"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Inbox  string `yaml:"inbox"`
}

type SplitterConfig struct {
	Boundaries string `yaml:"boundaries"`
}

type ArchiveConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load parses a yaml config file. Defaults are applied by Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadEnv reads the given dotenv files (".env" when none are given) and
// applies the process environment on top of cfg. Missing files are ignored.
func LoadEnv(cfg *Config, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load dotenv: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	return nil
}

// ApplyEnv overrides file values with OPENAI_API_KEY, TRANSCRIPT_OUTPUT_PATH,
// OPENAI_BASE_URL and GEMINI_API_KEYS when they are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := getenv("TRANSCRIPT_OUTPUT_PATH"); v != "" {
		c.Paths.Output = v
	}
	if v := getenv("GEMINI_API_KEYS"); v != "" {
		var keys []string
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		c.Gemini.APIKeys = keys
	}
}

// SetDefaults fills every unset field with its default.
func (c *Config) SetDefaults() {
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-1"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "ja"
	}
	if c.Summary.Provider == "" {
		c.Summary.Provider = ProviderOpenAI
	}
	if c.Summary.Model == "" {
		c.Summary.Model = "gpt-4o"
	}
	if c.Summary.Temperature == nil {
		t := float32(0.5)
		c.Summary.Temperature = &t
	}
	if c.Summary.MaxTokens == 0 {
		c.Summary.MaxTokens = 500
	}
	if c.Summary.SystemPrompt == "" {
		c.Summary.SystemPrompt = DefaultSystemPrompt
	}
	if c.Summary.PromptTemplate == "" {
		c.Summary.PromptTemplate = DefaultPromptTemplate
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Recording.SegmentSeconds == 0 {
		c.Recording.SegmentSeconds = 60
	}
	if c.Recording.SampleRate == 0 {
		c.Recording.SampleRate = 44100
	}
	if c.Recording.Channels == 0 {
		c.Recording.Channels = 1
	}
	if c.Recording.BitDepth == 0 {
		c.Recording.BitDepth = 16
	}
	if c.Recording.FramesPerBuffer == 0 {
		c.Recording.FramesPerBuffer = 4096
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "transcripts"
	}
	if c.Recording.TempFile == "" {
		c.Recording.TempFile = filepath.Join(c.Paths.Output, "audio_temp.wav")
	}
	if c.Splitter.Boundaries == "" {
		c.Splitter.Boundaries = "。"
	}
	if c.Archive.Path == "" {
		c.Archive.Path = filepath.Join(c.Paths.Output, "minutes.sqlite")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate applies defaults and rejects settings a recording cannot run with.
func (c *Config) Validate() error {
	c.SetDefaults()

	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required (set OPENAI_API_KEY)")
	}
	switch c.Summary.Provider {
	case ProviderOpenAI:
	case ProviderGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required when summary.provider is gemini")
		}
	default:
		return fmt.Errorf("summary.provider must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.Summary.Provider)
	}
	if t := *c.Summary.Temperature; t < 0 || t > 2 {
		return fmt.Errorf("summary.temperature must be between 0 and 2, got %v", t)
	}
	// a zero chat temperature is dropped from the request and the API applies its own default
	if c.Summary.Provider == ProviderOpenAI && *c.Summary.Temperature == 0 {
		return fmt.Errorf("summary.temperature 0 is not supported by the openai provider, use a small positive value")
	}
	if !strings.Contains(c.Summary.PromptTemplate, "%s") {
		return fmt.Errorf("summary.prompt_template must contain a %%s placeholder")
	}
	if c.Summary.MaxTokens < 0 {
		return fmt.Errorf("summary.max_tokens must be positive, got %d", c.Summary.MaxTokens)
	}
	if c.Recording.SegmentSeconds < 0 {
		return fmt.Errorf("recording.segment_seconds must be positive, got %d", c.Recording.SegmentSeconds)
	}
	if c.Recording.SampleRate < 0 {
		return fmt.Errorf("recording.sample_rate must be positive, got %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels < 1 || c.Recording.Channels > 2 {
		return fmt.Errorf("recording.channels must be 1 or 2, got %d", c.Recording.Channels)
	}
	if c.Recording.BitDepth != 16 {
		return fmt.Errorf("recording.bit_depth must be 16, got %d", c.Recording.BitDepth)
	}
	if c.Recording.FramesPerBuffer < 0 {
		return fmt.Errorf("recording.frames_per_buffer must be positive, got %d", c.Recording.FramesPerBuffer)
	}

	return nil
}
