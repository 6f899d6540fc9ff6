package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Instagram   InstagramConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Path string
}

type AuthConfig struct {
	// JWTSecret signs both login tokens and OAuth state tokens.
	JWTSecret string
}

type InstagramConfig struct {
	AppID       string
	AppSecret   string
	RedirectURI string
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("gramboard_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("gramboard_port", 4000)
	v.SetDefault("gramboard_db_path", "data/gramboard")
	v.SetDefault("gramboard_jwt_secret", "")
	v.SetDefault("meta_app_id", "")
	v.SetDefault("meta_app_secret", "")
	v.SetDefault("ig_redirect_uri", "")

	env := resolveEnvironment(v)
	port := v.GetInt("gramboard_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid GRAMBOARD_PORT: %d", port)
	}

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		Database: DatabaseConfig{
			Path: strings.TrimSpace(v.GetString("gramboard_db_path")),
		},
		Auth: AuthConfig{
			JWTSecret: strings.TrimSpace(v.GetString("gramboard_jwt_secret")),
		},
		Instagram: InstagramConfig{
			AppID:       strings.TrimSpace(v.GetString("meta_app_id")),
			AppSecret:   strings.TrimSpace(v.GetString("meta_app_secret")),
			RedirectURI: strings.TrimSpace(v.GetString("ig_redirect_uri")),
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/gramboard"
	}

	if cfg.IsLocalDevelopment() {
		if cfg.Auth.JWTSecret == "" {
			cfg.Auth.JWTSecret = "gramboard-local-dev"
		}
	} else {
		if cfg.Auth.JWTSecret == "" {
			return Config{}, fmt.Errorf("GRAMBOARD_JWT_SECRET is required outside local/dev environments")
		}
		if !cfg.Instagram.Enabled() {
			return Config{}, fmt.Errorf("META_APP_ID, META_APP_SECRET and IG_REDIRECT_URI are required outside local/dev environments")
		}
	}

	return cfg, nil
}

// Enabled reports whether the Instagram OAuth flow is fully configured.
// A half-configured app would only produce malformed authorization URLs.
func (c InstagramConfig) Enabled() bool {
	return c.AppID != "" && c.AppSecret != "" && c.RedirectURI != ""
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"gramboard_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
