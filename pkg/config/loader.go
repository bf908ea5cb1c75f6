package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load parses the environment into a new T.
//
// With no files, an optional ".env" in the working directory is loaded when it
// exists. Explicit files must exist.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	cfg, err := config.Load[Config]()
func Load[T any](files ...string) (T, error) {
	var cfg T

	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load()
		}
	} else if err := godotenv.Load(files...); err != nil {
		return cfg, errors.Join(ErrLoadingEnvFile, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Used for settings without which the process cannot start.
func MustLoad[T any](files ...string) T {
	cfg, err := Load[T](files...)
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}
