// Package config loads typed configuration from the environment.
//
// Load parses env struct tags with github.com/caarlos0/env/v11 and caches the
// result per type, so every component asking for the same config struct sees
// the same values. A .env file in the working directory is read once through
// github.com/joho/godotenv before the first parse; LoadEnv reads other files.
//
//	type Config struct {
//		HTTP  httpserver.Config
//		PG    pg.Config
//		Redis redis.Config
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// ResetCache exists for tests that change the environment between loads.
package config
