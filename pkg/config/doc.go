// Package config loads application configuration from environment variables
// into tagged structs.
//
// It wraps github.com/caarlos0/env/v11 for parsing and
// github.com/joho/godotenv for optional .env bootstrap. Each struct type is
// parsed once per process and served from cache afterwards; Reset clears the
// cache between tests.
//
//	type ClientConfig struct {
//		BaseURL string        `env:"API_BASE_URL,required"`
//		Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
//	}
//
//	var cfg ClientConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package config
