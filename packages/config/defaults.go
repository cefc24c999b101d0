package config

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		ConnectTimeout: 30000, // 30 seconds
		ReadTimeout:    30000, // 30 seconds
		MaxRedirects:   8,
	}
}
