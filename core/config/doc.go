// Package config loads environment variables into typed structs using
// caarlos0/env. A .env file in the working directory is read once on first
// use, and each configuration type is parsed only once and cached.
//
//	type ServerConfig struct {
//		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// Parse reads from an explicit map instead, which keeps tests independent of
// the process environment and of the cache:
//
//	err := config.Parse(&cfg, map[string]string{"SERVER_ADDR": ":9090"})
package config
