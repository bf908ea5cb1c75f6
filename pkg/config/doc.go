// Package config reads process configuration from the environment into typed
// structs tagged for github.com/caarlos0/env/v11.
//
// A .env file in the working directory (or the files passed to Load) is read
// first with github.com/joho/godotenv; values already present in the process
// environment win. Configuration is read once at startup and passed down as
// immutable values.
package config
