package entity

import (
	"testing"

	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptionKeysAreUnique(t *testing.T) {

	seen := map[string]bool{}
	check := func(key string) {
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
	for _, d := range SensorDescriptions() {
		check(d.Key)
		assert.NotNil(t, d.Value, d.Key)
	}
	for _, d := range BinarySensorDescriptions() {
		check(d.Key)
		assert.NotNil(t, d.Value, d.Key)
		assert.NotEmpty(t, d.ItemKey, d.Key)
	}
	for _, d := range LightDescriptions() {
		check(d.Key)
		assert.NotNil(t, d.Hex, d.Key)
		assert.NotEmpty(t, d.ItemKey, d.Key)
		_, err := ParseItemType(string(d.ItemType))
		assert.NoError(t, err, d.Key)
	}
}

func TestSensorValues(t *testing.T) {

	m := goxlr.TestMixerStatus()
	values := map[string]any{}
	for _, d := range SensorDescriptions() {
		if v, ok := d.Value(m); ok {
			values[d.Key] = v
		}
	}

	assert.Equal(t, "Default", values["profile"])
	assert.Equal(t, "DEFAULT", values["mic_profile"])
	assert.Equal(t, 100.0, values["volume_mic"])
	assert.Equal(t, 0.0, values["volume_line_in"])
	assert.Equal(t, 50.0, values["volume_console"])
	assert.Equal(t, 20.0, values["volume_music"])
	assert.Equal(t, "Music", values["fader_b_channel"])
}

func TestSensorValueAbsent(t *testing.T) {

	m := goxlr.TestMixerStatus()
	delete(m.Levels.Volumes, "Mic")
	m.ProfileName = ""

	for _, d := range SensorDescriptions() {
		if d.Key == "volume_mic" || d.Key == "profile" {
			_, ok := d.Value(m)
			assert.False(t, ok, d.Key)
		}
	}
}

func TestBinarySensorState(t *testing.T) {

	m := goxlr.TestMixerStatus()
	states := map[string]bool{}
	for _, d := range BinarySensorDescriptions() {
		if v, ok := d.State(m); ok {
			states[d.Key] = v
		}
	}

	assert.True(t, states["fader_2_mute_button"])
	assert.False(t, states["fader_1_mute_button"])
	assert.True(t, states["effect_fx_button"])
	_, present := states["effect_robot_button"]
	assert.False(t, present)
}

func TestLightColours(t *testing.T) {

	m := goxlr.TestMixerStatus()

	cases := map[string]string{
		"accent":                "00FFFF",
		"fader_1_mute_active":   "00FFFF",
		"fader_1_mute_inactive": "003333",
		"fader_a_top":           "00FFFF",
		"fader_a_bottom":        "FF00FF",
		"cough_inactive":        "221100",
	}
	for key, want := range cases {
		d, ok := LightByKey(key)
		require.True(t, ok, key)
		got, ok := d.Colour(m)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	d, ok := LightByKey("effect_robot_active")
	require.True(t, ok)
	_, ok = d.Colour(m)
	assert.False(t, ok)

	_, ok = LightByKey("nope")
	assert.False(t, ok)
}

func TestLightCommands(t *testing.T) {

	m := goxlr.TestMixerStatus()

	cases := map[string]goxlr.Command{
		"accent":              goxlr.SetSimpleColour("Accent", "FF0000"),
		"bleep_active":        goxlr.SetButtonOnColour("Bleep", "FF0000"),
		"bleep_inactive":      goxlr.SetButtonOffColour("Bleep", "FF0000"),
		"fader_a_top":         goxlr.SetFaderColours("A", "FF0000", "FF00FF"),
		"fader_a_bottom":      goxlr.SetFaderColours("A", "00FFFF", "FF0000"),
		"fader_2_mute_active": goxlr.SetButtonOnColour("Fader2Mute", "FF0000"),
	}
	for key, want := range cases {
		d, ok := LightByKey(key)
		require.True(t, ok, key)
		cmd, err := d.Command(m, "#ff0000")
		require.NoError(t, err, key)
		assert.Equal(t, want, cmd, key)
	}
}

func TestLightCommandErrors(t *testing.T) {

	m := goxlr.TestMixerStatus()

	d, _ := LightByKey("accent")
	_, err := d.Command(m, "red")
	assert.Error(t, err)

	d, _ = LightByKey("effect_robot_active")
	_, err = d.Command(m, "FFFFFF")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestParseItemType(t *testing.T) {

	for _, it := range ItemTypes() {
		parsed, err := ParseItemType(it.String())
		assert.NoError(t, err)
		assert.Equal(t, it, parsed)
	}
	assert.Len(t, ItemTypes(), 5)

	_, err := ParseItemType("fader_middle")
	assert.Error(t, err)
}

func TestColourConversion(t *testing.T) {

	assert.Equal(t, "FF8000", RGBToHex(255, 128, 0))

	r, g, b, err := HexToRGB("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 128, 0}, []uint8{r, g, b})

	_, _, _, err = HexToRGB("12345")
	assert.Error(t, err)
	_, err = NormalizeHex("GGGGGG")
	assert.Error(t, err)
}

func TestScaleHex(t *testing.T) {

	tests := []struct {
		colour     string
		brightness uint8
		expected   string
	}{
		{"00FFFF", 128, "008080"},
		{"800000", 255, "FF0000"},
		{"FF8000", 128, "804000"},
		{"000000", 200, "000000"},
	}
	for _, test := range tests {
		scaled, err := ScaleHex(test.colour, test.brightness)
		require.NoError(t, err, test.colour)
		assert.Equal(t, test.expected, scaled, test.colour)
	}

	_, err := ScaleHex("red", 10)
	assert.Error(t, err)
}
