package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Log      LogConfig      `mapstructure:"log"`
	Trading  TradingConfig  `mapstructure:"trading"`
	Database DatabaseConfig `mapstructure:"database"`
}

// APIConfig contains the Mercado Bitcoin endpoint and credential settings
type APIConfig struct {
	PublicURL  string `mapstructure:"public_url"`
	PrivateURL string `mapstructure:"private_url"`
	TapiID     string `mapstructure:"tapi_id"`
	TapiSecret string `mapstructure:"tapi_secret"`
}

// HasCredentials reports whether the private TAPI credential pair is set.
func (a APIConfig) HasCredentials() bool {
	return a.TapiID != "" && a.TapiSecret != ""
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Output string `mapstructure:"output"` // console, file, both
}

// TradingConfig contains trading defaults
type TradingConfig struct {
	DefaultPair     string `mapstructure:"default_pair"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

// DatabaseConfig contains the optional order-log database settings
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Load loads configuration from file and environment variables.
// If configPath is empty, it will search in default locations (./configs, .)
func Load(configPath ...string) (*Config, error) {
	viper.SetConfigType("yaml")

	setDefaults()

	viper.SetEnvPrefix("MB")
	viper.AutomaticEnv()
	bindEnvVars()

	if len(configPath) > 0 && configPath[0] != "" {
		viper.SetConfigFile(configPath[0])
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	// The config file is optional; env vars alone are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Env vars take precedence over file values for the credentials
	if id := os.Getenv("MB_TAPI_ID"); id != "" {
		cfg.API.TapiID = id
	}
	if secret := os.Getenv("MB_TAPI_SECRET"); secret != "" {
		cfg.API.TapiSecret = secret
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("api.public_url", "https://www.mercadobitcoin.net/api")
	viper.SetDefault("api.private_url", "https://www.mercadobitcoin.net/tapi/v3/")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "console")
	viper.SetDefault("trading.default_pair", "BRLBTC")
	viper.SetDefault("trading.default_currency", "BTC")
	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
}

func bindEnvVars() {
	viper.BindEnv("api.public_url", "MB_PUBLIC_URL")
	viper.BindEnv("api.private_url", "MB_PRIVATE_URL")
	viper.BindEnv("api.tapi_id", "MB_TAPI_ID")
	viper.BindEnv("api.tapi_secret", "MB_TAPI_SECRET")
	viper.BindEnv("log.level", "LOG_LEVEL")
	viper.BindEnv("log.output", "LOG_OUTPUT")
	viper.BindEnv("trading.default_pair", "MB_DEFAULT_PAIR")
	viper.BindEnv("database.host", "MB_DB_HOST")
	viper.BindEnv("database.password", "MB_DB_PASSWORD")
}

func validate(cfg *Config) error {
	if cfg.API.PublicURL == "" && cfg.API.PrivateURL == "" {
		return fmt.Errorf("at least one of api.public_url and api.private_url is required")
	}

	// A credential pair must be complete or absent
	if (cfg.API.TapiID == "") != (cfg.API.TapiSecret == "") {
		return fmt.Errorf("MB_TAPI_ID and MB_TAPI_SECRET must be set together")
	}

	if cfg.Database.Enabled {
		if cfg.Database.User == "" || cfg.Database.DBName == "" {
			return fmt.Errorf("database.user and database.dbname are required when the order log is enabled")
		}
	}

	return nil
}
