package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Request  RequestConfig  `yaml:"request"`
	Geocode  GeocodeConfig  `yaml:"geocode"`
	LLM      LLMConfig      `yaml:"llm"`
	Assessor AssessorConfig `yaml:"assessor"`
	TTS      TTSConfig      `yaml:"tts"`
	Mail     MailConfig     `yaml:"mail"`
	Sidecar  SidecarConfig  `yaml:"sidecar"`
	Log      LogConfig      `yaml:"log"`
}

// RequestConfig holds network call settings.
type RequestConfig struct {
	Timeout Duration `yaml:"timeout"` // per provider call
}

// GeocodeConfig holds reverse-geocoding provider settings.
type GeocodeConfig struct {
	Key string `yaml:"key"` // Google Maps API key
}

// LLMConfig holds settings for the generation provider.
type LLMConfig struct {
	Model string `yaml:"model"` // e.g. "gemini-2.0-flash"
	Key   string `yaml:"key"`   // API key
}

// AssessorConfig selects the scene-assessment output contract.
type AssessorConfig struct {
	Variant string `yaml:"variant"` // "verdict" or "keywords"
}

// EdgeTTSConfig holds settings for the Edge TTS engine.
type EdgeTTSConfig struct {
	VoiceID            string `yaml:"voice"`
	BaseURL            string `yaml:"base_url"`
	Origin             string `yaml:"origin"`
	UserAgent          string `yaml:"user_agent"`
	TrustedClientToken string `yaml:"trusted_client_token"`
	GecVersion         string `yaml:"gec_version"`
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine   string        `yaml:"engine"`   // "gtrans" or "edge-tts"
	Language string        `yaml:"language"` // e.g. "en"
	Output   string        `yaml:"output"`   // fixed audio filename, overwritten per run
	EdgeTTS  EdgeTTSConfig `yaml:"edge_tts"`
}

// MailConfig holds SMTP transport settings.
type MailConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Sender    string `yaml:"sender"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"` // defaults to sender when empty
}

// SidecarConfig holds settings for the JSON sidecar output.
type SidecarConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
	LLM    LogSettings `yaml:"llm"` // prompt/response history
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Timeout: Duration(60 * time.Second),
		},
		LLM: LLMConfig{
			Model: "gemini-2.0-flash",
		},
		Assessor: AssessorConfig{
			Variant: "verdict",
		},
		TTS: TTSConfig{
			Engine:   "gtrans",
			Language: "en",
			Output:   "summary_audio.mp3",
			EdgeTTS: EdgeTTSConfig{
				VoiceID: "en-US-AvaMultilingualNeural",
			},
		},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Sidecar: SidecarConfig{
			Path: "output.json",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			LLM: LogSettings{
				Path:  "./logs/llm.log",
				Level: "INFO",
			},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it is created with default values.
// Missing secrets fall back to the environment so the file never has to
// contain credentials.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	applyEnvFallbacks(cfg)

	if !isValidLanguage(cfg.TTS.Language) {
		return nil, fmt.Errorf("invalid tts language %q: must be 'xx' or 'xx-YY' (e.g. 'en', 'en-US')", cfg.TTS.Language)
	}

	return cfg, nil
}

// applyEnvFallbacks fills empty secret fields from the environment.
// The variable names match the ones the deployment already exports.
func applyEnvFallbacks(cfg *Config) {
	if cfg.LLM.Key == "" {
		if key := os.Getenv("GENAI_API_KEY"); key != "" {
			cfg.LLM.Key = key
		} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.LLM.Key = key
		}
	}
	if cfg.Geocode.Key == "" {
		if key := os.Getenv("GMAPS_API_KEY"); key != "" {
			cfg.Geocode.Key = key
		}
	}
	if cfg.Mail.Sender == "" {
		if v := os.Getenv("EMAIL_SENDER"); v != "" {
			cfg.Mail.Sender = v
		}
	}
	if cfg.Mail.Password == "" {
		if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
			cfg.Mail.Password = v
		}
	}
	if cfg.Mail.Recipient == "" {
		cfg.Mail.Recipient = cfg.Mail.Sender
	}
}

func isValidLanguage(s string) bool {
	matched, _ := regexp.MatchString(`^[a-z]{2}(-[A-Z]{2})?$`, s)
	return matched
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# SafeScout Configuration
# ----------------------
# Secrets (llm.key, geocode.key, mail.sender, mail.password) may be left
# empty here and provided via GENAI_API_KEY, GMAPS_API_KEY, EMAIL_SENDER
# and EMAIL_PASSWORD instead (.env is honored).
# Duration units: ns, us, ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for enum fields.
	reEngine := regexp.MustCompile(`(?m)^(\s+)engine:`)
	data = reEngine.ReplaceAll(data, []byte("${1}# Options: gtrans, edge-tts\n${1}engine:"))

	reVariant := regexp.MustCompile(`(?m)^(\s+)variant:`)
	data = reVariant.ReplaceAll(data, []byte("${1}# Options: verdict, keywords\n${1}variant:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
