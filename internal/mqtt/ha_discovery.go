package mqtt

import (
	"fmt"

	"github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/core/events"
)

type HADiscoveryConfig struct {
	Device              HADiscoveryDevice `json:"device"`
	StateTopic          string            `json:"state_topic"`
	CommandTopic        string            `json:"command_topic,omitempty"`
	StateClass          string            `json:"state_class,omitempty"`
	DeviceClass         string            `json:"device_class,omitempty"`
	UnitOfMeasurement   string            `json:"unit_of_measurement,omitempty"`
	AvTopic             string            `json:"availability_topic,omitempty"`
	EntityCategory      string            `json:"entity_category,omitempty"`
	Name                string            `json:"name"`
	UniqueId            string            `json:"unique_id"`
	Platform            string            `json:"platform"`
	EnabledByDefault    *bool             `json:"enabled_by_default,omitempty"`
	PayloadOn           string            `json:"payload_on,omitempty"`
	PayloadOff          string            `json:"payload_off,omitempty"`
	Icon                string            `json:"icon,omitempty"`
	Schema              string            `json:"schema,omitempty"`
	SupportedColorModes []string          `json:"supported_color_modes,omitempty"`
}

type HADiscoveryDevice struct {
	Id               []string `json:"identifiers"`
	Manufacturer     string   `json:"manufacturer,omitempty"`
	Version          string   `json:"sw_version,omitempty"`
	HwVersion        string   `json:"hw_version,omitempty"`
	Model            string   `json:"model,omitempty"`
	Name             string   `json:"name,omitempty"`
	ConfigurationURL string   `json:"configuration_url,omitempty"`
	ViaDevice        string   `json:"via_device,omitempty"`
}

func (c *MQTTClient) HADiscoverySensorTopic(sensor domain.GenericSensor) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", c.discoveryTopic(), sensor.SensorType, sensor.Device.Id, sensor.Id)
}

func (c *MQTTClient) HADiscoveryLightTopic(light domain.GenericLight) string {
	return fmt.Sprintf("%s/light/%s/%s/config", c.discoveryTopic(), light.Device.Id, light.Id)
}

func GenericSensorToHADiscoveryMessage(client *MQTTClient, sensor domain.GenericSensor) HADiscoveryConfig {
	dev := device(sensor.Device)
	var topic string
	switch {
	case sensor.Id == events.SENSOR_ID_BRIDGE_STATE:
		topic = client.BridgeStateTopic()
	case sensor.SensorType == events.SENSOR_TYPE_SENSOR:
		topic = client.SensorStateTopic(sensor.Id)
	case sensor.SensorType == events.SENSOR_TYPE_BINARY:
		topic = client.BinarySensorStateTopic(sensor.Id)
	}
	disConfig := HADiscoveryConfig{
		Device:            dev,
		StateTopic:        topic,
		StateClass:        sensor.StateClass,
		DeviceClass:       sensor.DeviceClass,
		UnitOfMeasurement: sensor.UnitOfMeasurement,
		AvTopic:           client.BridgeStateTopic(),
		EntityCategory:    sensor.EntityCategory,
		Name:              sensor.Name,
		UniqueId:          sensor.UniqueId,
		Icon:              sensor.Icon,
		EnabledByDefault:  sensor.EnabledByDefault,
		Platform:          "mqtt",
	}
	if sensor.Id == events.SENSOR_ID_BRIDGE_STATE {
		disConfig.PayloadOn = MQTT_PAYLOAD_ONLINE
		disConfig.PayloadOff = MQTT_PAYLOAD_OFFLINE
	} else if sensor.SensorType == events.SENSOR_TYPE_BINARY {
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
	}
	return disConfig
}

func GenericLightToHADiscoveryMessage(client *MQTTClient, light domain.GenericLight) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:              device(light.Device),
		StateTopic:          client.LightStateTopic(light.Id),
		CommandTopic:        client.LightCommandTopic(light.Id),
		AvTopic:             client.BridgeStateTopic(),
		Name:                light.Name,
		UniqueId:            light.UniqueId,
		Icon:                light.Icon,
		Platform:            "mqtt",
		Schema:              "json",
		SupportedColorModes: []string{LIGHT_COLOR_RGB},
	}
}

func device(d domain.Device) HADiscoveryDevice {
	return HADiscoveryDevice{
		Id:               []string{d.Id},
		Manufacturer:     d.Manufacturer,
		Version:          d.Version,
		HwVersion:        d.HwVersion,
		Model:            d.Model,
		Name:             d.Name,
		ConfigurationURL: d.ConfigurationURL,
		ViaDevice:        d.ViaDevice,
	}
}
