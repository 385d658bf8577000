package config

import (
	"os"
	"regexp"
	"time"

	"github.com/eliteshop/storefront/pkg/helper"
	"github.com/eliteshop/storefront/pkg/trace"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// ShopConfig is the root configuration of the eliteshop binary
	ShopConfig struct {
		Server    ServerConfig    `yaml:"server"`
		Logger    LoggerConfig    `yaml:"logger"`
		Storage   StorageConfig   `yaml:"storage"`
		Bootstrap BootstrapConfig `yaml:"bootstrap"`
		Auth      AuthConfig      `yaml:"auth"`
		Pricing   PricingConfig   `yaml:"pricing"`
		Orders    OrdersConfig    `yaml:"orders"`
		Metrics   MetricsConfig   `yaml:"metrics"`
		Tracing   trace.Config    `yaml:"tracing"`
		I18n      I18nConfig      `yaml:"i18n"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone"`   // time zone for log timestamps, default is local
		TimeFormat string `yaml:"time_format"` // default is "2006-01-02 15:04:05"
	}

	// BootstrapConfig describes the main admin account guaranteed by the initializer
	BootstrapConfig struct {
		MainAdmin MainAdminConfig `yaml:"main_admin"`
	}

	MainAdminConfig struct {
		ID       string `yaml:"id"`
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"` // plaintext here, stored as a bcrypt hash
	}

	// PricingConfig bounds the quantities a quote accepts
	PricingConfig struct {
		TimeZone        string `yaml:"time_zone"` // zone used to parse event end dates
		RobuxMinAmount  int    `yaml:"robux_min_amount"`
		RobuxMaxAmount  int    `yaml:"robux_max_amount"`
		CardMinQuantity int    `yaml:"card_min_quantity"`
		CardMaxQuantity int    `yaml:"card_max_quantity"`
	}

	OrdersConfig struct {
		// StrictTransitions rejects status changes the lifecycle does not allow
		StrictTransitions bool `yaml:"strict_transitions"`
	}

	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Path      string    `yaml:"path"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		DefaultLanguage string `yaml:"default_language"` // en or bn
		Path            string `yaml:"path"`             // optional directory with extra toml files
	}
)

type Type interface {
	ShopConfig
}

// LoadConfig loads configuration from a YAML file with environment variable support
func LoadConfig[T Type](filename string) (*T, string, error) {
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	data = resolveEnv(data)
	var cfg T
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cfgPath, err
	}

	if shopCfg, ok := any(&cfg).(*ShopConfig); ok {
		shopCfg.SetDefaults()
	}

	return &cfg, cfgPath, nil
}

// SetDefaults fills every zero field that has a sensible default
func (c *ShopConfig) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5235"
	}
	if c.Server.ClientCookie == "" {
		c.Server.ClientCookie = "elite_client"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "disk"
	}
	if c.Storage.Disk.Path == "" {
		c.Storage.Disk.Path = "./data"
	}
	if c.Bootstrap.MainAdmin.ID == "" {
		c.Bootstrap.MainAdmin.ID = "ADMIN-CORE-001"
	}
	if c.Bootstrap.MainAdmin.Username == "" {
		c.Bootstrap.MainAdmin.Username = "samin080g"
	}
	if c.Bootstrap.MainAdmin.Email == "" {
		c.Bootstrap.MainAdmin.Email = "saminsingdho@gmail.com"
	}
	c.Auth.setDefaults()
	c.Pricing.SetDefaults()
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "eliteshop"
	}
	if c.I18n.DefaultLanguage == "" {
		c.I18n.DefaultLanguage = "en"
	}
}

// SetDefaults applies the storefront's quantity bounds
func (p *PricingConfig) SetDefaults() {
	if p.TimeZone == "" {
		p.TimeZone = "Local"
	}
	if p.RobuxMinAmount <= 0 {
		p.RobuxMinAmount = 1
	}
	if p.RobuxMaxAmount <= 0 {
		p.RobuxMaxAmount = 10000
	}
	if p.CardMinQuantity <= 0 {
		p.CardMinQuantity = 1
	}
	if p.CardMaxQuantity <= 0 {
		p.CardMaxQuantity = 10
	}
}

// Location resolves TimeZone, falling back to the local zone
func (p PricingConfig) Location() *time.Location {
	if p.TimeZone == "" || p.TimeZone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// resolveEnv replaces ${VAR} and ${VAR:default} placeholders in YAML content
func resolveEnv(content []byte) []byte {
	regex := regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

	return regex.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := regex.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}
