// Package config loads runtime settings from the environment. The JWT secret
// and database DSN are explicit fields handed to the components that need
// them; nothing reads ambient process state after startup.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string        `env:"PORT" envDefault:"4000"`
	DatabaseURL string        `env:"DATABASE_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`

	DBMaxOpen     int           `env:"DB_MAX_OPEN" envDefault:"25"`
	DBMaxIdle     int           `env:"DB_MAX_IDLE" envDefault:"25"`
	DBMaxLifetime time.Duration `env:"DB_MAX_LIFETIME" envDefault:"5m"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
