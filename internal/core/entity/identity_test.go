package entity

import (
	"sync"
	"testing"

	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConnection = Connection{Host: "127.0.0.1", Port: 14564}

func TestIdentityScenario(t *testing.T) {

	require := require.New(t)

	id, err := NewIdentity(goxlr.TestMixerStatus(), testConnection, "fader_a", "Fader A")
	require.NoError(err)

	assert.Equal(t, "tc-helicon_goxlr_fader_a", id.UniqueId)
	assert.Equal(t, "TC-Helicon GoXLR Fader A", id.Name)
	assert.Equal(t, "http://127.0.0.1:14564", id.Device.ConfigurationURL)
	assert.Equal(t, "1.2.0", id.Device.HardwareVersion)
	assert.Equal(t, "TC-Helicon", id.Device.Manufacturer)
	assert.Equal(t, "GoXLR", id.Device.Model)
	assert.Equal(t, "TC-Helicon GoXLR", id.Device.Name)
}

func TestIdentityWithoutName(t *testing.T) {

	id, err := NewIdentity(goxlr.TestMixerStatus(), testConnection, "accent", "")
	require.NoError(t, err)
	assert.Equal(t, "TC-Helicon GoXLR", id.Name)
}

func TestIdentityIsDeterministic(t *testing.T) {

	first, err := NewIdentity(goxlr.TestMixerStatus(), testConnection, "fader_a_top", "Fader A top")
	require.NoError(t, err)

	// a later poll with different live values keeps the same identity
	snapshot := goxlr.TestMixerStatus()
	snapshot.ProfileName = "Streaming"
	snapshot.Levels.Volumes["Mic"] = 12
	second, err := NewIdentity(snapshot, testConnection, "fader_a_top", "Fader A top")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIdentityConcurrent(t *testing.T) {

	snapshot := goxlr.TestMixerStatus()
	want, err := NewIdentity(snapshot, testConnection, "bleep_button", "Bleep button")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := NewIdentity(snapshot, testConnection, "bleep_button", "Bleep button")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestIdentityDeviceIdentifierIsSerial(t *testing.T) {

	snapshot := goxlr.TestMixerStatus()
	snapshot.Hardware.SerialNumber = "S999ABC"

	id, err := NewIdentity(snapshot, testConnection, "accent", "Accent")
	require.NoError(t, err)
	assert.Equal(t, []string{"S999ABC"}, id.Device.Identifiers)
}

func TestIdentityConfigurationURL(t *testing.T) {

	id, err := NewIdentity(goxlr.TestMixerStatus(), Connection{Host: "goxlr.local", Port: 8080}, "accent", "")
	require.NoError(t, err)
	assert.Equal(t, "http://goxlr.local:8080", id.Device.ConfigurationURL)
}

func TestHardwareVersion(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("1.2.0", HardwareVersion([]int{1, 2, 0}))
	assert.Equal("1.0.5", HardwareVersion([]int{1, 0, 5}))
	assert.Equal("1.4.2.107", HardwareVersion([]int{1, 4, 2, 107}))
	assert.Equal("3", HardwareVersion([]int{3}))
	assert.Equal("", HardwareVersion(nil))
}

func TestIdentityFailsOnIncompleteSnapshot(t *testing.T) {

	cases := []struct {
		name   string
		mutate func(m *goxlr.MixerStatus, c *Connection)
		err    error
	}{
		{"missing serial", func(m *goxlr.MixerStatus, _ *Connection) { m.Hardware.SerialNumber = "" }, ErrMissingSerial},
		{"missing usb device", func(m *goxlr.MixerStatus, _ *Connection) { m.Hardware.UsbDevice = nil }, ErrMissingUsbDevice},
		{"missing hardware", func(m *goxlr.MixerStatus, _ *Connection) { m.Hardware = nil }, ErrMissingSnapshot},
		{"missing manufacturer", func(m *goxlr.MixerStatus, _ *Connection) { m.Hardware.UsbDevice.ManufacturerName = "" }, ErrMissingManufacturer},
		{"missing product", func(m *goxlr.MixerStatus, _ *Connection) { m.Hardware.UsbDevice.ProductName = "" }, ErrMissingProduct},
		{"missing host", func(_ *goxlr.MixerStatus, c *Connection) { c.Host = "" }, ErrMissingHost},
		{"missing port", func(_ *goxlr.MixerStatus, c *Connection) { c.Port = 0 }, ErrMissingPort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := goxlr.TestMixerStatus()
			conn := testConnection
			tc.mutate(snapshot, &conn)

			id, err := NewIdentity(snapshot, conn, "accent", "Accent")
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, Identity{}, id)
		})
	}

	_, err := NewIdentity(nil, testConnection, "accent", "")
	assert.ErrorIs(t, err, ErrMissingSnapshot)
}
