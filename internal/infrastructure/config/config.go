package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/saasportal/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Dispatcher   sharedConfig.DispatcherConfig   `mapstructure:"dispatcher"`
	Provisioning sharedConfig.ProvisioningConfig `mapstructure:"provisioning"`
	Scheduler    sharedConfig.SchedulerConfig    `mapstructure:"scheduler"`
	Notification sharedConfig.NotificationConfig `mapstructure:"notification"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// An empty configPath searches ./configs, ../configs and ../../configs.
func Load(env string, configPath ...string) (*Config, error) {
	v := viper.New()

	if len(configPath) > 0 && configPath[0] != "" {
		v.SetConfigFile(configPath[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("SAASPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "UTC")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.portal_rate_limit", 30)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "saasportal_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("dispatcher.timeout_seconds", 30)
	v.SetDefault("dispatcher.signing_secret", "change-me-in-production")
	v.SetDefault("dispatcher.token_ttl_minutes", 10)
	v.SetDefault("dispatcher.issuer", "saasportal")

	v.SetDefault("provisioning.base_saas_domain", "")
	v.SetDefault("provisioning.selection_policy", "random")
	v.SetDefault("provisioning.expiration_notify_in_advance", 0)
	v.SetDefault("provisioning.page_for_maximumdb", "/")
	v.SetDefault("provisioning.page_for_maximumtrialdb", "/")
	v.SetDefault("provisioning.lock_ttl_seconds", 120)
	v.SetDefault("provisioning.lock_wait_timeout_seconds", 10)

	v.SetDefault("scheduler.expire_interval_minutes", 60)
	v.SetDefault("scheduler.notify_interval_minutes", 1440)
	v.SetDefault("scheduler.storage_interval_minutes", 60)
	v.SetDefault("scheduler.run_timeout_minutes", 30)

	v.SetDefault("notification.transport", "log")
	v.SetDefault("notification.channel", "saasportal:notification")
	v.SetDefault("notification.nats_url", "nats://127.0.0.1:4222")
	v.SetDefault("notification.kafka_brokers", []string{"localhost:9092"})
}
