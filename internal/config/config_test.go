package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {

	v := viper.New()
	SetDefaults(v)

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, zap.WarnLevel, cfg.LogLevel)
	assert.Equal(t, "localhost", cfg.GoXLR.Host)
	assert.Equal(t, uint(14564), cfg.GoXLR.Port)
	assert.Equal(t, uint32(2000), cfg.GoXLR.PollIntervalMillis)
	assert.Equal(t, "goxlr", cfg.MQTT.BaseTopic)
	assert.Equal(t, "homeassistant", cfg.MQTT.HADiscoveryTopic)
	assert.Equal(t, uint(8080), cfg.Port)
}

func TestBoundChecks(t *testing.T) {

	tests := []struct {
		key   string
		value any
	}{
		{"goxlr.host", ""},
		{"goxlr.port", 0},
		{"goxlr.poll_interval_millis", 100},
		{"goxlr.request_timeout_millis", 50},
		{"goxlr.request_timeout_millis", 5000},
		{"mqtt.base_topic", "goxlr/topic"},
		{"mqtt.ha_discovery_topic", "home assistant"},
	}

	for _, test := range tests {
		v := viper.New()
		SetDefaults(v)
		v.Set(test.key, test.value)
		_, err := FromViper(v)
		assert.Error(t, err, test.key)
	}
}

func TestTopicsAreLowercased(t *testing.T) {

	v := viper.New()
	SetDefaults(v)
	v.Set("mqtt.base_topic", "GoXLR_Studio")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "goxlr_studio", cfg.MQTT.BaseTopic)
}

func TestLoadFromFileAndEnv(t *testing.T) {

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
log_level: debug
goxlr:
  host: 192.168.1.20
  serial: S201200586CQK
mqtt:
  host: broker
  ha_discovery_enable: true
`), 0o600))

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("GOXLR2MQTT_GOXLR_POLL_INTERVAL_MILLIS", "1500")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, zap.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "192.168.1.20", cfg.GoXLR.Host)
	assert.Equal(t, "S201200586CQK", cfg.GoXLR.Serial)
	assert.Equal(t, uint32(1500), cfg.GoXLR.PollIntervalMillis)
	assert.Equal(t, "broker", cfg.MQTT.Host)
	assert.True(t, cfg.MQTT.HADiscoveryEnable)
	assert.Equal(t, uint(9090), cfg.Port)
}

func TestRedacted(t *testing.T) {

	cfg := Config{MQTT: MQTTConfig{Username: "user", Password: "secret"}}
	r := cfg.Redacted()
	assert.Equal(t, "*redacted*", r.MQTT.Password)
	assert.Equal(t, "secret", cfg.MQTT.Password)
}
