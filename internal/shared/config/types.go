// Package config declares the typed configuration surface. Values are
// populated by internal/infrastructure/config via viper.
package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig models spec.md's DB_URL. URL, when set, takes precedence
// over the discrete fields (useful for platform-injected connection strings).
type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	AccessExpSeconds  int    `mapstructure:"access_exp_seconds"`
	RefreshExpSeconds int    `mapstructure:"refresh_exp_seconds"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

// TelegramConfig carries the BOT_* environment options from spec.md §6.
type TelegramConfig struct {
	BotToken           string `mapstructure:"bot_token"`
	Mode               string `mapstructure:"mode"` // "polling" | "webhook"
	WebhookBaseURL     string `mapstructure:"webhook_base_url"`
	WebhookPath        string `mapstructure:"webhook_path"`
	WebhookSecret      string `mapstructure:"webhook_secret"`
	TMAMaxAgeSeconds   int    `mapstructure:"tma_max_age_seconds"`
	TMAReplayTTLSeconds int   `mapstructure:"tma_replay_ttl_seconds"`
}

func (t *TelegramConfig) WebhookURL() string {
	return t.WebhookBaseURL + t.WebhookPath
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// Enabled selects the distributed replay-guard/rate-limit backend;
	// when false repairbay falls back to the in-process LRU guard, matching
	// the single-instance contract in spec.md §5.
	Enabled bool `mapstructure:"enabled"`
}

type CasbinConfig struct {
	ModelPath string `mapstructure:"model_path"`
}

// XPConfig carries the two XP emitter constants spec.md §4.7 names but
// leaves as shop-tunable values rather than literals: the attendance
// punctuality bonus and the QC first-pass bonus.
type XPConfig struct {
	PunctualityBaseAmount int `mapstructure:"punctuality_base_amount"`
	FirstPassBonusAmount  int `mapstructure:"first_pass_bonus_amount"`
}

// AttendanceConfig carries the local-time cutoff that decides whether a
// check-in counts as on time for the punctuality XP bonus.
type AttendanceConfig struct {
	CutoffHour   int `mapstructure:"cutoff_hour"`
	CutoffMinute int `mapstructure:"cutoff_minute"`
}
