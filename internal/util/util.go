package util

import (
	"github.com/berfenger/goxlr2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		GoXLR: config.GoXLRConfig{
			Host:                 "127.0.0.1",
			Port:                 14564,
			PollIntervalMillis:   500,
			RequestTimeoutMillis: 200,
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "goxlr",
			HADiscoveryTopic: "homeassistant",
		},
		Port: 8080,
	}
}
