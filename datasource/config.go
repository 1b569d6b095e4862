package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// Duration is a time.Duration that reads from JSON as a string like "15s"
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or a number of seconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration in its string form
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the application configuration
type Config struct {
	// API provider configurations
	OpenWeatherMap struct {
		APIKey  string `json:"apiKey"`
		BaseURL string `json:"baseURL"`
	} `json:"openWeatherMap"`

	Gemini struct {
		APIKey  string `json:"apiKey"`
		BaseURL string `json:"baseURL"`
		Model   string `json:"model"`
	} `json:"gemini"`

	// Route catalog
	DatabasePath  string   `json:"databasePath"`
	RouteCacheTTL Duration `json:"routeCacheTTL"`

	// Timeout applied to each outbound provider call
	RequestTimeout Duration `json:"requestTimeout"`

	// Inbound request limiting on the analysis endpoint
	RateLimit struct {
		Enabled bool    `json:"enabled"`
		RPS     float64 `json:"rps"`
		Burst   int     `json:"burst"`
	} `json:"rateLimit"`
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	return config, nil
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to DefaultConfig
// when the file does not exist. Environment overrides are applied in both cases.
func LoadConfigOrDefault(filename string) (*Config, error) {
	config, err := LoadConfig(filename)
	if errors.Is(err, fs.ErrNotExist) {
		config = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	config.ApplyEnv()
	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.OpenWeatherMap.BaseURL = "https://api.openweathermap.org/data/2.5"
	config.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	config.Gemini.Model = "gemini-2.0-flash"
	config.DatabasePath = "data/routes.db"
	config.RouteCacheTTL = Duration(5 * time.Minute)
	config.RequestTimeout = Duration(15 * time.Second)
	config.RateLimit.Enabled = false
	config.RateLimit.RPS = 2.0
	config.RateLimit.Burst = 5
	return config
}

// ApplyEnv overrides config values from the environment when set
func (c *Config) ApplyEnv() {
	c.OpenWeatherMap.APIKey = getEnv("OPENWEATHERMAP_API_KEY", c.OpenWeatherMap.APIKey)
	c.OpenWeatherMap.BaseURL = getEnv("OPENWEATHERMAP_BASE_URL", c.OpenWeatherMap.BaseURL)
	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.BaseURL = getEnv("GEMINI_BASE_URL", c.Gemini.BaseURL)
	c.Gemini.Model = getEnv("GEMINI_MODEL", c.Gemini.Model)
	c.DatabasePath = getEnv("SKIPPER_DB_PATH", c.DatabasePath)
	c.RequestTimeout = Duration(getEnvDuration("SKIPPER_REQUEST_TIMEOUT", time.Duration(c.RequestTimeout)))
	c.RateLimit.RPS = getEnvFloat("SKIPPER_RATE_LIMIT_RPS", c.RateLimit.RPS)
}

// WeatherAPIKey implements KeyProvider
func (c *Config) WeatherAPIKey() string {
	return c.OpenWeatherMap.APIKey
}

// TextAPIKey implements KeyProvider
func (c *Config) TextAPIKey() string {
	return c.Gemini.APIKey
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var _ KeyProvider = (*Config)(nil)
