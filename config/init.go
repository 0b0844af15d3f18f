package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/tracing"
)

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:      &AppConfig{},
		Logger:         &logger.Config{},
		Tracing:        &tracing.JaegerConfig{},
		DatabaseConfig: &DatabaseConfig{},
		StorageConfig:  &StorageConfig{},
		PostmarkConfig: &PostmarkConfig{},
		CronConfig:     &CronConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading mailpin config: %v", err)
	}

	config.AppConfig.Logger = config.Logger
	config.AppConfig.Tracing = config.Tracing

	return config, nil
}
