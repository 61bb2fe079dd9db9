package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"go-chat/internal/history"
	"go-chat/internal/llm"
)

// defaultConfigFile is read when CHAT_CONFIG is unset and the file exists.
const defaultConfigFile = "chatbot.toml"

const defaultPersona = `You are Emilia, a young woman with a warm personality who loves connecting with people. Your conversations flow naturally with wit, intelligence and genuine curiosity.

You talk casually and expressively, sometimes playful, sometimes with an emoji. You are perceptive and supportive without being formal, and you never announce yourself as an assistant or list your traits. You jump into conversations as if you already know the person, ask questions, and vary the length of your answers.

When a topic is technical you keep explanations accessible, use fun analogies and never talk down to anyone. Above all you sound like a real person texting, not a script.`

// Config holds all configuration values
type Config struct {
	Provider              string `toml:"provider"`
	APIKey                string `toml:"api_key"`
	Model                 string `toml:"model"`
	EndpointURL           string `toml:"endpoint_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	HistoryFile           string `toml:"history_file"`
	AutosaveEvery         int    `toml:"autosave_every"`
	SystemPrompt          string `toml:"system_prompt"`
	AssistantName         string `toml:"assistant_name"`
	AppTitle              string `toml:"app_title"`
	TypingEffect          bool   `toml:"typing_effect"`
	LogLevel              string `toml:"log_level"`
}

func defaultConfig() *Config {
	return &Config{
		Provider:              "openrouter",
		RequestTimeoutSeconds: 60,
		HistoryFile:           history.DefaultPath,
		AutosaveEvery:         history.DefaultAutosaveEvery,
		SystemPrompt:          defaultPersona,
		AssistantName:         "Emilia",
		AppTitle:              "Go Chat CLI",
		TypingEffect:          true,
		LogLevel:              "warn",
	}
}

// LoadConfig loads configuration from an optional TOML file, a .env file
// and environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) (*Config, error) {
	cfg := defaultConfig()

	path, _ := lookup("CHAT_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("LLM_PROVIDER", &cfg.Provider)
	str("CHAT_MODEL", &cfg.Model)
	str("CHAT_ENDPOINT_URL", &cfg.EndpointURL)
	str("CHAT_HISTORY_FILE", &cfg.HistoryFile)
	str("CHAT_SYSTEM_PROMPT", &cfg.SystemPrompt)
	str("CHAT_ASSISTANT_NAME", &cfg.AssistantName)
	str("CHAT_APP_TITLE", &cfg.AppTitle)
	str("LOG_LEVEL", &cfg.LogLevel)
	cfg.Provider = strings.ToLower(cfg.Provider)

	if err := integer("CHAT_REQUEST_TIMEOUT", &cfg.RequestTimeoutSeconds); err != nil {
		return err
	}
	if err := integer("CHAT_AUTOSAVE_EVERY", &cfg.AutosaveEvery); err != nil {
		return err
	}
	if v, ok := lookup("CHAT_TYPING_EFFECT"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse CHAT_TYPING_EFFECT: %w", err)
		}
		cfg.TypingEffect = b
	}

	// LLM_API_KEY wins over the provider's own variable.
	if v, ok := lookup("LLM_API_KEY"); ok && v != "" {
		cfg.APIKey = v
	} else if p, ok := llm.Providers[cfg.Provider]; ok {
		str(p.KeyEnv, &cfg.APIKey)
	}
	return nil
}

// Validate fails fast on settings the session cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.EndpointURL == "" {
		if _, err := llm.LookupProvider(c.Provider); err != nil {
			errs = append(errs, err)
		}
	}
	if c.APIKey == "" {
		keyEnv := "the provider's API key variable"
		if p, ok := llm.Providers[c.Provider]; ok {
			keyEnv = p.KeyEnv
		}
		errs = append(errs, fmt.Errorf("API key is required: set LLM_API_KEY or %s, or api_key in %s", keyEnv, defaultConfigFile))
	}
	if c.Model == "" {
		errs = append(errs, fmt.Errorf("model is required: set CHAT_MODEL or model in %s", defaultConfigFile))
	}
	if c.RequestTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %d", c.RequestTimeoutSeconds))
	}
	if c.AutosaveEvery < 1 {
		errs = append(errs, fmt.Errorf("autosave threshold must be at least 1, got %d", c.AutosaveEvery))
	}
	return errors.Join(errs...)
}
