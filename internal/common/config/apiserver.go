package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type (
	ServerConfig struct {
		Addr         string        `yaml:"addr"`          // listen address, default :5235
		PID          string        `yaml:"pid"`           // optional pid file
		ClientCookie string        `yaml:"client_cookie"` // cookie carrying the browser client id
		SecureCookie bool          `yaml:"secure_cookie"` // set the Secure flag, enable behind https
		AllowOrigins []string      `yaml:"allow_origins"` // CORS origins, empty means same-origin only
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	AuthConfig struct {
		// AdminCode unlocks the admin console for an already-admin session
		AdminCode string          `yaml:"admin_code"`
		JWT       JWTConfig       `yaml:"jwt"`
		RateLimit RateLimitConfig `yaml:"rate_limit"`
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// RateLimitConfig throttles login, signup and admin-code attempts per client
	RateLimitConfig struct {
		Enabled bool    `yaml:"enabled"`
		RPS     float64 `yaml:"rps"`
		Burst   int     `yaml:"burst"`
	}
)

func (a *AuthConfig) setDefaults() {
	if a.AdminCode == "" {
		a.AdminCode = "474001"
	}
	if a.JWT.Duration <= 0 {
		a.JWT.Duration = 12 * time.Hour
	}
	if a.RateLimit.RPS <= 0 {
		a.RateLimit.RPS = 1
	}
	if a.RateLimit.Burst <= 0 {
		a.RateLimit.Burst = 5
	}
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case "sqlite":
		if c.DBName == ":memory:" || filepath.Dir(c.DBName) == "." {
			return c.DBName
		}
		if err := os.MkdirAll(filepath.Dir(c.DBName), 0o755); err != nil {
			panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
		}
		return c.DBName
	default:
		return ""
	}
}
