// Package config loads toolbox configuration with Viper.
//
// A YAML file is read first, a .env file is loaded into the environment with
// godotenv, and environment variables then override file values. Env names
// map onto nested keys by splitting on underscores, so
// TOOLBOX_PAGINATION_PER_PAGE sets pagination.per_page when the prefix is
// TOOLBOX.
//
// # Usage
//
//	cfg, err := config.Load("catalog", config.WithEnvPrefix("TOOLBOX"))
package config
