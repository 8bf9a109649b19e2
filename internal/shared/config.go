package shared

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

// Config is populated from BIZDIR_-prefixed environment variables (a .env
// file is picked up automatically in dev).
type Config struct {
	AppEnv      string  `koanf:"app_env"`
	HTTPAddr    string  `koanf:"http_addr" validate:"required"`
	MetricsAddr string  `koanf:"metrics_addr"`
	MySQLDSN    string  `koanf:"mysql_dsn" validate:"required"`
	RedisAddr   string  `koanf:"redis_addr" validate:"required"`
	RedisDB     int     `koanf:"redis_db"`
	RedisPass   string  `koanf:"redis_password"`
	CacheTTLSec int     `koanf:"cache_ttl_seconds" validate:"min=1"`
	RateRPS     float64 `koanf:"rate_rps" validate:"min=1"`
	RateBurst   int     `koanf:"rate_burst" validate:"min=1"`
	SeedWorkers int     `koanf:"seed_workers" validate:"min=1"`
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

func Load() Config {
	c := Config{
		AppEnv:      "prod",
		HTTPAddr:    "127.0.0.1:7070",
		MySQLDSN:    "root:root@tcp(localhost:3306)/bizdir?parseTime=false&charset=utf8mb4,utf8&loc=UTC",
		RedisAddr:   "localhost:6379",
		CacheTTLSec: 900,
		RateRPS:     50,
		RateBurst:   100,
		SeedWorkers: 4,
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("BIZDIR_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "BIZDIR_"))
	}), nil); err != nil {
		log.Fatal().Err(err).Msg("load env config failed")
	}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal().Err(err).Msg("unmarshal config failed")
	}

	if err := validator.New().Struct(c); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	return c
}
