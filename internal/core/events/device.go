package events

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"

	. "github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/core/entity"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE    = "bridge"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("goxlr2mqtt_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "goxlr2mqtt",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("goxlr2mqtt %s", md5HashShort(baseTopic)),
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: entity.ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	}}
}

// MixerDevice maps the registry metadata of an entity identity to a
// discovery device. The serial number is the only identifier.
func MixerDevice(info entity.DeviceInfo) Device {
	var id string
	if len(info.Identifiers) > 0 {
		id = info.Identifiers[0]
	}
	return Device{
		Id:               id,
		Name:             info.Name,
		HwVersion:        info.HardwareVersion,
		Model:            info.Model,
		Manufacturer:     info.Manufacturer,
		ConfigurationURL: info.ConfigurationURL,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

// MixerEntities builds the discovery components of every described item
// present on the mixer. Items whose identity cannot be derived are skipped
// and reported in the returned error.
func MixerEntities(m *goxlr.MixerStatus, conn entity.Connection, viaDevice string) ([]GenericSensor, []GenericLight, error) {

	var sensors []GenericSensor
	var lights []GenericLight
	var errs []error

	var device *Device
	deviceFor := func(id entity.Identity) Device {
		// full device record on the first entity only
		if device == nil {
			d := MixerDevice(id.Device)
			d.ViaDevice = viaDevice
			device = &d
			return d
		}
		return IdDevice(*device)
	}

	for _, d := range entity.SensorDescriptions() {
		if _, ok := d.Value(m); !ok {
			continue
		}
		id, err := entity.NewIdentity(m, conn, d.Key, d.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("sensor %s: %w", d.Key, err))
			continue
		}
		sensors = append(sensors, GenericSensor{
			Device:            deviceFor(id),
			Id:                id.UniqueId,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              id.Name,
			UniqueId:          id.UniqueId,
			UnitOfMeasurement: d.Unit,
			StateClass:        d.StateClass,
			DeviceClass:       d.DeviceClass,
			EntityCategory:    d.EntityCategory,
			EnabledByDefault:  d.EnabledByDefault,
			Icon:              d.Icon,
		})
	}

	for _, d := range entity.BinarySensorDescriptions() {
		if _, ok := d.State(m); !ok {
			continue
		}
		id, err := entity.NewIdentity(m, conn, d.Key, d.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("binary sensor %s: %w", d.Key, err))
			continue
		}
		sensors = append(sensors, GenericSensor{
			Device:           deviceFor(id),
			Id:               id.UniqueId,
			SensorType:       SENSOR_TYPE_BINARY,
			Name:             id.Name,
			UniqueId:         id.UniqueId,
			DeviceClass:      d.DeviceClass,
			EntityCategory:   d.EntityCategory,
			EnabledByDefault: d.EnabledByDefault,
			Icon:             d.Icon,
		})
	}

	for _, d := range entity.LightDescriptions() {
		if _, ok := d.Colour(m); !ok {
			continue
		}
		id, err := entity.NewIdentity(m, conn, d.Key, d.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("light %s: %w", d.Key, err))
			continue
		}
		lights = append(lights, GenericLight{
			Device:   deviceFor(id),
			Id:       id.UniqueId,
			Name:     id.Name,
			UniqueId: id.UniqueId,
			Icon:     d.Icon,
		})
	}

	return sensors, lights, errors.Join(errs...)
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
