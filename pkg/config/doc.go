// Package config loads typed configuration structs from environment variables.
//
// It is a thin layer over github.com/caarlos0/env (struct tag parsing) and
// github.com/joho/godotenv (.env files). Each devicetrack package that needs
// settings exposes its own Config struct; the binary composes them:
//
//	var geoCfg geo.Config
//	config.MustLoad(&geoCfg)
//
// Errors wrap ErrParsingConfig or ErrLoadingEnvFile so callers can match
// them with errors.Is.
package config
