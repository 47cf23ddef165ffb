package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Addr          string
	DatabaseURL   string
	RedisAddr     string
	AdminKey      string
	SessionSecret string
	JWTSecret     string
}

// Load reads configuration from the environment, with an optional config.yaml
// alongside the binary. Environment variables win over file values.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("admin_key", "secret-key")
	v.SetDefault("session_secret", "storefront-session-secret")
	v.SetDefault("jwt_secret", "super-secret-key")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	return Config{
		Addr:          v.GetString("addr"),
		DatabaseURL:   v.GetString("database_url"),
		RedisAddr:     v.GetString("redis_addr"),
		AdminKey:      v.GetString("admin_key"),
		SessionSecret: v.GetString("session_secret"),
		JWTSecret:     v.GetString("jwt_secret"),
	}, nil
}
