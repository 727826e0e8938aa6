// Package config loads the typed configuration surface from an optional
// YAML file plus REPAIRBAY_-prefixed environment variables, grounded on the
// teacher's viper-based loader.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/pedalworks/repairbay/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	Telegram   sharedConfig.TelegramConfig   `mapstructure:"telegram"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Casbin     sharedConfig.CasbinConfig     `mapstructure:"casbin"`
	XP         sharedConfig.XPConfig         `mapstructure:"xp"`
	Attendance sharedConfig.AttendanceConfig `mapstructure:"attendance"`
}

var (
	appConfig     *Config
	appConfigOnce sync.Once
	appConfigMu   sync.RWMutex
)

// Load reads ./configs/config.yaml (optional) and REPAIRBAY_-prefixed
// environment variables into a Config, applying defaults for anything
// unset. configPath, when non-empty, overrides the default search paths.
func Load(env string, configPath ...string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if len(configPath) > 0 && configPath[0] != "" {
		viper.SetConfigFile(configPath[0])
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("../configs")
		viper.AddConfigPath("../../configs")
	}

	viper.SetEnvPrefix("REPAIRBAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigOnce.Do(func() {})
	appConfigMu.Lock()
	appConfig = &cfg
	appConfigMu.Unlock()

	return &cfg, nil
}

func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.base_url", "")
	viper.SetDefault("server.allowed_origins", []string{})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "repairbay")
	viper.SetDefault("database.password", "repairbay")
	viper.SetDefault("database.database", "repairbay_dev")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.access_exp_seconds", 900)
	viper.SetDefault("auth.jwt.refresh_exp_seconds", 604800)

	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.mode", "polling")
	viper.SetDefault("telegram.webhook_base_url", "")
	viper.SetDefault("telegram.webhook_path", "/bot/webhook/")
	viper.SetDefault("telegram.webhook_secret", "")
	viper.SetDefault("telegram.tma_max_age_seconds", 600)
	viper.SetDefault("telegram.tma_replay_ttl_seconds", 3600)

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", false)

	viper.SetDefault("casbin.model_path", "configs/rbac_model.conf")

	viper.SetDefault("xp.punctuality_base_amount", 5)
	viper.SetDefault("xp.first_pass_bonus_amount", 10)

	viper.SetDefault("attendance.cutoff_hour", 9)
	viper.SetDefault("attendance.cutoff_minute", 0)
}
