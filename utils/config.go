package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/joho/godotenv"
)

const (
	EnvAPIKeyID     = "APCA_API_KEY_ID"
	EnvAPISecretKey = "APCA_API_SECRET_KEY"
	EnvAPIBaseURL   = "APCA_API_BASE_URL"
	EnvAPIDataURL   = "APCA_API_DATA_URL"

	DefaultPaperURL = "https://paper-api.alpaca.markets"
	DefaultLiveURL  = "https://api.alpaca.markets"
	DefaultDataURL  = "https://data.alpaca.markets"

	configFileName = ".alpaca.json"
)

// Source describes where the API key was resolved from.
type Source string

const (
	SourceEnv  Source = "environment variable"
	SourceFile Source = "config file"
	SourceNone Source = "none"
)

// Config holds the resolved CLI configuration. Resolution order is
// environment variable > config file (standard key > legacy key) > default.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
	DataURL   string
	PaperURL  string
	LiveURL   string
	Source    Source

	path string
}

// ConfigPath returns the fixed location of the credentials file.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

// LoadConfig reads ~/.alpaca.json and the environment. A .env file in the
// working directory is merged into the environment first, without overriding
// variables that are already set.
func LoadConfig() *Config {
	_ = godotenv.Load()

	path, err := ConfigPath()
	if err != nil {
		path = ""
	}
	return LoadConfigFile(path)
}

// LoadConfigFile resolves configuration against the given file path.
func LoadConfigFile(path string) *Config {
	c := &Config{
		PaperURL: DefaultPaperURL,
		LiveURL:  DefaultLiveURL,
		DataURL:  DefaultDataURL,
		Source:   SourceNone,
		path:     path,
	}

	var data []byte
	if path != "" {
		// A missing or unreadable file just means file-level values are absent.
		data, _ = os.ReadFile(path)
	}

	fileString := func(keys ...string) string {
		if len(data) == 0 {
			return ""
		}
		for _, k := range keys {
			if s, err := jsonparser.GetString(data, k); err == nil && s != "" {
				return s
			}
		}
		return ""
	}

	if s := fileString("paper_endpoint"); s != "" {
		c.PaperURL = s
	}
	if s := fileString("live_endpoint"); s != "" {
		c.LiveURL = s
	}

	if s := os.Getenv(EnvAPIKeyID); s != "" {
		c.APIKey = s
		c.Source = SourceEnv
	} else if s := fileString(EnvAPIKeyID, "key"); s != "" {
		c.APIKey = s
		c.Source = SourceFile
	}

	if s := os.Getenv(EnvAPISecretKey); s != "" {
		c.APISecret = s
	} else {
		c.APISecret = fileString(EnvAPISecretKey, "secret")
	}

	if s := os.Getenv(EnvAPIBaseURL); s != "" {
		c.BaseURL = s
	} else if s := fileString(EnvAPIBaseURL); s != "" {
		c.BaseURL = s
	} else {
		c.BaseURL = c.PaperURL
	}

	if s := os.Getenv(EnvAPIDataURL); s != "" {
		c.DataURL = s
	}

	return c
}

// Paper reports whether the resolved endpoint is the paper-trading API.
func (c *Config) Paper() bool {
	return strings.Contains(c.BaseURL, "paper")
}

// Validate returns an actionable error when credentials are missing.
func (c *Config) Validate() error {
	if c.APIKey != "" && c.APISecret != "" {
		return nil
	}
	return errors.New(`API credentials not found.

You can load credentials via:
1. Environment variables:
   export APCA_API_KEY_ID='your_key'
   export APCA_API_SECRET_KEY='your_secret'

2. Config file (~/.alpaca.json):
   {
       "key": "your_key",
       "secret": "your_secret",
       "paper_endpoint": "https://paper-api.alpaca.markets",
       "live_endpoint": "https://api.alpaca.markets"
   }`)
}

// Save persists a single key into the config file, preserving any other
// keys already present.
func (c *Config) Save(key, value string) error {
	if c.path == "" {
		return errors.New("config file path is not set")
	}

	entries := map[string]interface{}{}
	if data, err := os.ReadFile(c.path); err == nil {
		// Ignore a corrupt file and start a fresh one.
		_ = json.Unmarshal(data, &entries)
	}
	entries[key] = value

	out, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(c.path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	switch key {
	case EnvAPIKeyID:
		c.APIKey = value
	case EnvAPISecretKey:
		c.APISecret = value
	case EnvAPIBaseURL:
		c.BaseURL = value
	}
	return nil
}
