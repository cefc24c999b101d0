package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds the CLI defaults. The library itself takes everything
// through options; only the command-line shell reads config files.
type Config struct {
	ConnectTimeout  int               `json:"connectTimeout,omitempty"` // milliseconds
	ReadTimeout     int               `json:"readTimeout,omitempty"`    // milliseconds
	MaxRedirects    int               `json:"maxRedirects,omitempty"`
	FollowRedirects *bool             `json:"followRedirects,omitempty"`
	ValidateSSL     *bool             `json:"validateSSL,omitempty"`
	UserAgent       string            `json:"userAgent,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"` // default headers for all requests
	NoColor         *bool             `json:"noColor,omitempty"`
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true.
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true.
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetNoColor returns the no color setting, defaulting to false.
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names.
var ConfigFilenames = []string{
	".httpwire.config.json",
	"httpwire.config.json",
	".httpwirerc",
	".httpwirerc.json",
}

// LoadConfig loads configuration from the specified path or searches
// for config files in the current directory.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory,
// falling back to defaults when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}
