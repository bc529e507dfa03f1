package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"gt=0,lte=65535"`
	Mode           string   `mapstructure:"mode"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// PortalRateLimit is requests per minute per IP on /portal; 0 disables it.
	PortalRateLimit int `mapstructure:"portal_rate_limit" validate:"gte=0"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=mysql postgres sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case "postgres":
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Database, sslMode)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DispatcherConfig controls outgoing provisioning commands.
type DispatcherConfig struct {
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"gt=0"`
	SigningSecret   string `mapstructure:"signing_secret" validate:"required"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes" validate:"gt=0"`
	Issuer          string `mapstructure:"issuer"`
}

func (d *DispatcherConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

func (d *DispatcherConfig) TokenTTL() time.Duration {
	return time.Duration(d.TokenTTLMinutes) * time.Minute
}

type ProvisioningConfig struct {
	BaseSaaSDomain         string `mapstructure:"base_saas_domain"`
	SelectionPolicy        string `mapstructure:"selection_policy" validate:"oneof=random sequence"`
	NotifyAdvanceDays      int    `mapstructure:"expiration_notify_in_advance" validate:"gte=0"`
	MaximumDBPage          string `mapstructure:"page_for_maximumdb"`
	MaximumTrialDBPage     string `mapstructure:"page_for_maximumtrialdb"`
	LockTTLSeconds         int    `mapstructure:"lock_ttl_seconds" validate:"gt=0"`
	LockWaitTimeoutSeconds int    `mapstructure:"lock_wait_timeout_seconds" validate:"gt=0"`
}

func (p *ProvisioningConfig) LockTTL() time.Duration {
	return time.Duration(p.LockTTLSeconds) * time.Second
}

func (p *ProvisioningConfig) LockWaitTimeout() time.Duration {
	return time.Duration(p.LockWaitTimeoutSeconds) * time.Second
}

type SchedulerConfig struct {
	ExpireIntervalMinutes  int `mapstructure:"expire_interval_minutes" validate:"gt=0"`
	NotifyIntervalMinutes  int `mapstructure:"notify_interval_minutes" validate:"gt=0"`
	StorageIntervalMinutes int `mapstructure:"storage_interval_minutes" validate:"gt=0"`
	RunTimeoutMinutes      int `mapstructure:"run_timeout_minutes" validate:"gt=0"`
}

type NotificationConfig struct {
	Transport   string   `mapstructure:"transport" validate:"oneof=redis nats kafka log"`
	Channel     string   `mapstructure:"channel"`
	NATSURL     string   `mapstructure:"nats_url"`
	KafkaBroker []string `mapstructure:"kafka_brokers"`
}
