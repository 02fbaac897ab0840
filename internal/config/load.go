package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ENV_PREFIX = "goxlr2mqtt"

// goxlr.host => GOXLR2MQTT_GOXLR_HOST
var envKeyReplacer = strings.NewReplacer(".", "_")

// Load reads the configuration from defaults, the file named by CONFIG_FILE
// and GOXLR2MQTT_* environment variables, in increasing precedence.
func Load() (*Config, error) {

	// alias PORT => GOXLR2MQTT_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("GOXLR2MQTT_PORT", port)
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			v.SetConfigFile(cfgFile)

			if err := v.ReadInConfig(); err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.LogLevel = ParseLogLevel(v.GetString("log_level"))

	baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	hadBaseTopic, err := CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	if err := cfg.check(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) check() error {
	if cfg.GoXLR.Host == "" {
		return errors.New("config param goxlr.host is required")
	}
	if cfg.GoXLR.Port == 0 || cfg.GoXLR.Port > 65535 {
		return fmt.Errorf("config param goxlr.port out of range: %d", cfg.GoXLR.Port)
	}
	if cfg.GoXLR.PollIntervalMillis < 500 {
		return errors.New("config param goxlr.poll_interval_millis should be >= 500")
	}
	if cfg.GoXLR.RequestTimeoutMillis < 100 {
		return errors.New("config param goxlr.request_timeout_millis should be >= 100")
	}
	if cfg.GoXLR.RequestTimeoutMillis >= cfg.GoXLR.PollIntervalMillis {
		return errors.New("config param goxlr.request_timeout_millis must be < goxlr.poll_interval_millis")
	}
	return nil
}

func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "trace", "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	}
	return zap.InfoLevel
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("goxlr.host", "localhost")
	v.SetDefault("goxlr.port", 14564)
	v.SetDefault("goxlr.serial", "")
	v.SetDefault("goxlr.poll_interval_millis", 2000)
	v.SetDefault("goxlr.request_timeout_millis", 1000)
	v.SetDefault("mqtt.host", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.ha_discovery_enable", false)
	v.SetDefault("mqtt.base_topic", "goxlr")
	v.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	v.SetDefault("port", 8080)
	v.SetDefault("http_log", false)
}
