package events

import (
	"testing"

	. "github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/core/entity"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conn = entity.Connection{Host: "127.0.0.1", Port: 14564}

func TestMixerEntities(t *testing.T) {

	require := require.New(t)

	sensors, lights, err := MixerEntities(goxlr.TestMixerStatus(), conn, "bridge_id")
	require.NoError(err)
	require.NotEmpty(sensors)
	require.NotEmpty(lights)

	// first entity carries the full device record
	first := sensors[0]
	assert.Equal(t, goxlr.TEST_SERIAL, first.Device.Id)
	assert.Equal(t, "1.2.0", first.Device.HwVersion)
	assert.Equal(t, "http://127.0.0.1:14564", first.Device.ConfigurationURL)
	assert.Equal(t, "bridge_id", first.Device.ViaDevice)
	assert.Equal(t, "tc-helicon_goxlr_profile", first.UniqueId)
	assert.Equal(t, "TC-Helicon GoXLR Profile", first.Name)

	for _, s := range sensors[1:] {
		assert.Equal(t, goxlr.TEST_SERIAL, s.Device.Id)
		assert.Empty(t, s.Device.ConfigurationURL)
	}

	ids := map[string]GenericLight{}
	for _, l := range lights {
		ids[l.UniqueId] = l
	}
	assert.Contains(t, ids, "tc-helicon_goxlr_accent")
	assert.Contains(t, ids, "tc-helicon_goxlr_fader_a_top")
	assert.Contains(t, ids, "tc-helicon_goxlr_fader_d_bottom")
	// not lit on this mixer
	assert.NotContains(t, ids, "tc-helicon_goxlr_effect_robot_active")
}

func TestMixerEntitiesMissingSerial(t *testing.T) {

	m := goxlr.TestMixerStatus()
	m.Hardware.SerialNumber = ""

	sensors, lights, err := MixerEntities(m, conn, "")
	assert.ErrorIs(t, err, entity.ErrMissingSerial)
	assert.Empty(t, sensors)
	assert.Empty(t, lights)
}

func TestMixerStatusToUpdateEvents(t *testing.T) {

	evs := MixerStatusToUpdateEvents(goxlr.TestMixerStatus(), conn)
	byId := map[string]any{}
	for _, ev := range evs {
		byId[ev.(SensorUpdateEvent).SensorId()] = ev
	}

	assert.Equal(t, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: "tc-helicon_goxlr_profile"},
		Value:                  "Default",
	}, byId["tc-helicon_goxlr_profile"])

	assert.Equal(t, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: "tc-helicon_goxlr_volume_console"},
		Value:                  50,
	}, byId["tc-helicon_goxlr_volume_console"])

	assert.Equal(t, BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: "tc-helicon_goxlr_fader_2_mute_button"},
		Value:                  true,
	}, byId["tc-helicon_goxlr_fader_2_mute_button"])

	assert.Equal(t, LightUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: "tc-helicon_goxlr_fader_a_bottom"},
		On:                     true,
		Red:                    255,
		Green:                  0,
		Blue:                   255,
	}, byId["tc-helicon_goxlr_fader_a_bottom"])

	off := byId["tc-helicon_goxlr_fader_b_bottom"].(LightUpdateEvent)
	assert.False(t, off.On)
}

func TestMixerStatusToUpdateEventsMissingSerial(t *testing.T) {

	m := goxlr.TestMixerStatus()
	m.Hardware.SerialNumber = ""
	assert.Empty(t, MixerStatusToUpdateEvents(m, conn))
}

func TestLightForUniqueId(t *testing.T) {

	d, ok := LightForUniqueId(goxlr.TestMixerStatus(), conn, "tc-helicon_goxlr_bleep_inactive")
	require.True(t, ok)
	assert.Equal(t, entity.ITEM_TYPE_BUTTON_INACTIVE, d.ItemType)
	assert.Equal(t, "Bleep", d.ItemKey)

	_, ok = LightForUniqueId(goxlr.TestMixerStatus(), conn, "tc-helicon_goxlr_profile")
	assert.False(t, ok)
}

func TestBridgeDevice(t *testing.T) {

	d := BridgeDevice("goxlr")
	assert.Equal(t, d.Id, BridgeDevice("goxlr").Id)
	assert.NotEqual(t, d.Id, BridgeDevice("other").Id)

	sensors := BridgeSensors(d)
	require.Len(t, sensors, 1)
	assert.Equal(t, SENSOR_ID_BRIDGE_STATE, sensors[0].Id)
	assert.Equal(t, SENSOR_TYPE_BINARY, sensors[0].SensorType)
}
