// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config.yaml, layered under
// environment variables (AWS_REGION, TABLES_USERS, ENGINE_MODEL_ID, ...).
// In the Lambda runtime there is usually no config file at all and the
// environment plus defaults carry everything.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	// AutomaticEnv only resolves keys viper already knows about, so bind the
	// ones that may exist solely as environment variables.
	for _, key := range []string{
		"app.name", "app.version", "app.environment",
		"aws.region",
		"tables.users", "tables.plants",
		"engine.model_id", "engine.max_turns",
		"forecast.base_url", "forecast.timeout",
		"logging.level", "logging.format",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads a local .env when present. Useful when running the
// seeder or tests outside the Lambda runtime; silently skipped otherwise.
func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "plant-advisor")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("aws.region", "eu-west-2")
	v.SetDefault("tables.users", "plant_database_users")
	v.SetDefault("tables.plants", "garden_plants")
	v.SetDefault("engine.model_id", "amazon.nova-lite-v1:0")
	v.SetDefault("engine.max_turns", 8)
	v.SetDefault("forecast.base_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("forecast.timeout", 10000)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
