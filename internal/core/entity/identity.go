package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"
)

var (
	ErrMissingSnapshot     = errors.New("entity: missing device snapshot")
	ErrMissingUsbDevice    = errors.New("entity: snapshot has no usb device")
	ErrMissingSerial       = errors.New("entity: snapshot has no serial number")
	ErrMissingManufacturer = errors.New("entity: snapshot has no manufacturer name")
	ErrMissingProduct      = errors.New("entity: snapshot has no product name")
	ErrMissingHost         = errors.New("entity: connection has no host")
	ErrMissingPort         = errors.New("entity: connection has no port")
)

// Connection holds the setup-time address of the GoXLR Utility.
type Connection struct {
	Host string
	Port uint
}

func (c Connection) ConfigurationURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

type DeviceInfo struct {
	Identifiers      []string
	Manufacturer     string
	Model            string
	Name             string
	HardwareVersion  string
	ConfigurationURL string
}

type Identity struct {
	UniqueId string
	Name     string
	Device   DeviceInfo
}

// NewIdentity derives the identity of the entity with the given key on the
// mixer described by snapshot. The unique id depends only on the
// manufacturer, product and key, so it is stable across polls.
func NewIdentity(snapshot *goxlr.MixerStatus, conn Connection, key, name string) (Identity, error) {
	if snapshot == nil || snapshot.Hardware == nil {
		return Identity{}, ErrMissingSnapshot
	}
	usb := snapshot.Hardware.UsbDevice
	switch {
	case usb == nil:
		return Identity{}, ErrMissingUsbDevice
	case snapshot.Hardware.SerialNumber == "":
		return Identity{}, ErrMissingSerial
	case usb.ManufacturerName == "":
		return Identity{}, ErrMissingManufacturer
	case usb.ProductName == "":
		return Identity{}, ErrMissingProduct
	case conn.Host == "":
		return Identity{}, ErrMissingHost
	case conn.Port == 0:
		return Identity{}, ErrMissingPort
	}

	keys := []string{usb.ManufacturerName, usb.ProductName}
	deviceName := strings.Join(keys, " ")

	entityName := deviceName
	if name != "" {
		entityName = fmt.Sprintf("%s %s", deviceName, name)
	}

	return Identity{
		UniqueId: fmt.Sprintf("%s_%s", strings.ToLower(strings.Join(keys, "_")), key),
		Name:     entityName,
		Device: DeviceInfo{
			Identifiers:      []string{snapshot.Hardware.SerialNumber},
			Manufacturer:     usb.ManufacturerName,
			Model:            usb.ProductName,
			Name:             deviceName,
			HardwareVersion:  HardwareVersion(usb.Version),
			ConfigurationURL: conn.ConfigurationURL(),
		},
	}, nil
}

// HardwareVersion joins the version tuple with dots, e.g. [1 2 0] => "1.2.0".
func HardwareVersion(version []int) string {
	parts := make([]string, len(version))
	for i, v := range version {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}
