// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Tables   TablesConfig   `mapstructure:"tables"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

// TablesConfig names the two DynamoDB tables the lookup capabilities read.
type TablesConfig struct {
	Users  string `mapstructure:"users"`
	Plants string `mapstructure:"plants"`
}

// EngineConfig holds the Bedrock advisory engine settings. MaxTurns caps the
// tool-use loop so a confused model cannot spin forever.
type EngineConfig struct {
	ModelID  string `mapstructure:"model_id"`
	MaxTurns int    `mapstructure:"max_turns"`
}

// ForecastConfig holds the Open-Meteo endpoint the http_request capability
// is pointed at. Timeout is in milliseconds.
type ForecastConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func validateConfig(cfg *Config) error {
	if cfg.AWS.Region == "" {
		return fmt.Errorf("aws.region must be set")
	}
	if cfg.Tables.Users == "" || cfg.Tables.Plants == "" {
		return fmt.Errorf("tables.users and tables.plants must be set")
	}
	if cfg.Engine.ModelID == "" {
		return fmt.Errorf("engine.model_id must be set")
	}
	if cfg.Engine.MaxTurns < 1 {
		return fmt.Errorf("engine.max_turns must be at least 1")
	}
	return nil
}
