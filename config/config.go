package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Geocode    GeocodeConfig    `mapstructure:"geocode"`
	Spots      SpotsConfig      `mapstructure:"spots"`
	Weather    WeatherConfig    `mapstructure:"weather"`
	Completion CompletionConfig `mapstructure:"completion"`
}

// JWTConfig holds token signing settings. SecretKey is expected to come from
// the environment, not the yml file.
type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
	RefreshTTL     time.Duration `mapstructure:"refreshTTL"`
}

// GeocodeConfig configures the Nominatim adapter.
type GeocodeConfig struct {
	BaseURL  string        `mapstructure:"baseURL"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

// SpotsConfig configures the Overpass aggregator. The fallback threshold and
// timeout scaling are configurable but the defaults are deliberate.
type SpotsConfig struct {
	OverpassURL       string `mapstructure:"overpassURL"`
	FallbackThreshold int    `mapstructure:"fallbackThreshold"`
	BaseTimeoutSec    int    `mapstructure:"baseTimeoutSec"`
	MaxTimeoutSec     int    `mapstructure:"maxTimeoutSec"`
}

// WeatherConfig configures the Open-Meteo forecast engine.
type WeatherConfig struct {
	BaseURL    string        `mapstructure:"baseURL"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"maxRetries"`
	RetryDelay time.Duration `mapstructure:"retryDelay"`
}

// CompletionConfig configures the key-rotated text-completion client. API
// keys are read from the environment (GEMINI_API_KEY, GEMINI_API_KEY_1, ...).
type CompletionConfig struct {
	Model            string        `mapstructure:"model"`
	Temperature      float32       `mapstructure:"temperature"`
	MaxTokens        int32         `mapstructure:"maxTokens"`
	MaxRetriesPerKey int           `mapstructure:"maxRetriesPerKey"`
	BaseBackoff      time.Duration `mapstructure:"baseBackoff"`
	MaxBackoff       time.Duration `mapstructure:"maxBackoff"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
