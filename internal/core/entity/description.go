package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"
)

var ErrUnknownItem = errors.New("entity: item not present on mixer")

const (
	STATE_CLASS_MEASUREMENT = "measurement"
	ENTITY_CLASS_DIAGNOSTIC = "diagnostic"
	UNIT_PERCENT            = "%"
)

// EntityDescription holds the presentation fields shared by every entity kind.
type EntityDescription struct {
	Key              string
	Name             string
	Icon             string
	DeviceClass      string
	StateClass       string
	Unit             string
	EntityCategory   string
	EnabledByDefault *bool
}

type SensorDescription struct {
	EntityDescription
	Decimals uint
	// Value returns a float64 or string, and false when the item is absent.
	Value func(m *goxlr.MixerStatus) (any, bool)
}

type BinarySensorDescription struct {
	EntityDescription
	ItemKey string
	Value   func(m *goxlr.MixerStatus, itemKey string) (bool, bool)
}

type LightDescription struct {
	EntityDescription
	ItemType ItemType
	ItemKey  string
	Hex      func(m *goxlr.MixerStatus, itemKey string) (string, bool)
}

func (d BinarySensorDescription) State(m *goxlr.MixerStatus) (bool, bool) {
	return d.Value(m, d.ItemKey)
}

// Colour returns the current RRGGBB colour of the lighting element.
func (d LightDescription) Colour(m *goxlr.MixerStatus) (string, bool) {
	return d.Hex(m, d.ItemKey)
}

// Command builds the utility command that sets the element colour to hex.
func (d LightDescription) Command(m *goxlr.MixerStatus, hex string) (goxlr.Command, error) {
	colour, err := NormalizeHex(hex)
	if err != nil {
		return goxlr.Command{}, err
	}
	if _, ok := d.Colour(m); !ok {
		return goxlr.Command{}, fmt.Errorf("%w: %s", ErrUnknownItem, d.ItemKey)
	}
	switch d.ItemType {
	case ITEM_TYPE_ACCENT:
		return goxlr.SetSimpleColour(d.ItemKey, colour), nil
	case ITEM_TYPE_BUTTON_ACTIVE:
		return goxlr.SetButtonOnColour(d.ItemKey, colour), nil
	case ITEM_TYPE_BUTTON_INACTIVE:
		return goxlr.SetButtonOffColour(d.ItemKey, colour), nil
	case ITEM_TYPE_FADER_TOP:
		current := m.Lighting.Faders[d.ItemKey].Colours
		return goxlr.SetFaderColours(d.ItemKey, colour, current.ColourTwo), nil
	case ITEM_TYPE_FADER_BOTTOM:
		current := m.Lighting.Faders[d.ItemKey].Colours
		return goxlr.SetFaderColours(d.ItemKey, current.ColourOne, colour), nil
	}
	return goxlr.Command{}, fmt.Errorf("entity: unknown item type %q", d.ItemType)
}

// mixer elements

type element struct {
	Name  string // utility name
	Key   string // entity key fragment
	Label string
}

var volumeChannels = []element{
	{"Mic", "mic", "Mic"},
	{"LineIn", "line_in", "Line in"},
	{"Console", "console", "Console"},
	{"System", "system", "System"},
	{"Game", "game", "Game"},
	{"Chat", "chat", "Chat"},
	{"Sample", "sample", "Sample"},
	{"Music", "music", "Music"},
	{"Headphones", "headphones", "Headphones"},
	{"MicMonitor", "mic_monitor", "Mic monitor"},
	{"LineOut", "line_out", "Line out"},
}

var faders = []element{
	{goxlr.FADER_A, "fader_a", "Fader A"},
	{goxlr.FADER_B, "fader_b", "Fader B"},
	{goxlr.FADER_C, "fader_c", "Fader C"},
	{goxlr.FADER_D, "fader_d", "Fader D"},
}

var buttons = []element{
	{"Fader1Mute", "fader_1_mute", "Fader 1 mute"},
	{"Fader2Mute", "fader_2_mute", "Fader 2 mute"},
	{"Fader3Mute", "fader_3_mute", "Fader 3 mute"},
	{"Fader4Mute", "fader_4_mute", "Fader 4 mute"},
	{"Bleep", "bleep", "Bleep"},
	{"Cough", "cough", "Cough"},
	{"EffectSelect1", "effect_select_1", "Effect select 1"},
	{"EffectSelect2", "effect_select_2", "Effect select 2"},
	{"EffectSelect3", "effect_select_3", "Effect select 3"},
	{"EffectSelect4", "effect_select_4", "Effect select 4"},
	{"EffectSelect5", "effect_select_5", "Effect select 5"},
	{"EffectSelect6", "effect_select_6", "Effect select 6"},
	{"EffectFx", "effect_fx", "Effect FX"},
	{"EffectMegaphone", "effect_megaphone", "Effect megaphone"},
	{"EffectRobot", "effect_robot", "Effect robot"},
	{"EffectHardTune", "effect_hard_tune", "Effect hard tune"},
}

// value extractors

func volumePercent(channel string) func(m *goxlr.MixerStatus) (any, bool) {
	return func(m *goxlr.MixerStatus) (any, bool) {
		v, ok := m.Levels.Volumes[channel]
		if !ok {
			return nil, false
		}
		return math.Round(float64(v) * 100 / goxlr.MAX_VOLUME), true
	}
}

func faderChannel(fader string) func(m *goxlr.MixerStatus) (any, bool) {
	return func(m *goxlr.MixerStatus) (any, bool) {
		f, ok := m.FaderStatus[fader]
		if !ok {
			return nil, false
		}
		return f.Channel, true
	}
}

func buttonDown(m *goxlr.MixerStatus, itemKey string) (bool, bool) {
	v, ok := m.ButtonDown[itemKey]
	return v, ok
}

func accentHex(m *goxlr.MixerStatus, itemKey string) (string, bool) {
	c, ok := m.Lighting.Simple[itemKey]
	return c.ColourOne, ok
}

func buttonActiveHex(m *goxlr.MixerStatus, itemKey string) (string, bool) {
	b, ok := m.Lighting.Buttons[itemKey]
	return b.Colours.ColourOne, ok
}

func buttonInactiveHex(m *goxlr.MixerStatus, itemKey string) (string, bool) {
	b, ok := m.Lighting.Buttons[itemKey]
	return b.Colours.ColourTwo, ok
}

func faderTopHex(m *goxlr.MixerStatus, itemKey string) (string, bool) {
	f, ok := m.Lighting.Faders[itemKey]
	return f.Colours.ColourOne, ok
}

func faderBottomHex(m *goxlr.MixerStatus, itemKey string) (string, bool) {
	f, ok := m.Lighting.Faders[itemKey]
	return f.Colours.ColourTwo, ok
}

// description tables

func SensorDescriptions() []SensorDescription {

	var sensors []SensorDescription

	// Profiles
	sensors = append(sensors, SensorDescription{
		EntityDescription: EntityDescription{
			Key:  "profile",
			Name: "Profile",
			Icon: "mdi:account-box",
		},
		Value: func(m *goxlr.MixerStatus) (any, bool) {
			return m.ProfileName, m.ProfileName != ""
		},
	})
	sensors = append(sensors, SensorDescription{
		EntityDescription: EntityDescription{
			Key:  "mic_profile",
			Name: "Mic profile",
			Icon: "mdi:account-voice",
		},
		Value: func(m *goxlr.MixerStatus) (any, bool) {
			return m.MicProfileName, m.MicProfileName != ""
		},
	})

	// Volumes
	for _, ch := range volumeChannels {
		sensors = append(sensors, SensorDescription{
			EntityDescription: EntityDescription{
				Key:        fmt.Sprintf("volume_%s", ch.Key),
				Name:       fmt.Sprintf("%s volume", ch.Label),
				Icon:       "mdi:volume-high",
				StateClass: STATE_CLASS_MEASUREMENT,
				Unit:       UNIT_PERCENT,
			},
			Decimals: 0,
			Value:    volumePercent(ch.Name),
		})
	}

	// Fader channel assignment
	for _, f := range faders {
		sensors = append(sensors, SensorDescription{
			EntityDescription: EntityDescription{
				Key:            fmt.Sprintf("%s_channel", f.Key),
				Name:           fmt.Sprintf("%s channel", f.Label),
				Icon:           "mdi:tune-vertical",
				EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			},
			Value: faderChannel(f.Name),
		})
	}

	return sensors
}

func BinarySensorDescriptions() []BinarySensorDescription {

	var sensors []BinarySensorDescription

	for _, b := range buttons {
		sensors = append(sensors, BinarySensorDescription{
			EntityDescription: EntityDescription{
				Key:  fmt.Sprintf("%s_button", b.Key),
				Name: fmt.Sprintf("%s button", b.Label),
				Icon: "mdi:gesture-tap-button",
			},
			ItemKey: b.Name,
			Value:   buttonDown,
		})
	}

	return sensors
}

func LightDescriptions() []LightDescription {

	var lights []LightDescription

	// Accent
	lights = append(lights, LightDescription{
		EntityDescription: EntityDescription{
			Key:  "accent",
			Name: "Accent",
			Icon: "mdi:lightbulb",
		},
		ItemType: ITEM_TYPE_ACCENT,
		ItemKey:  goxlr.SIMPLE_ACCENT,
		Hex:      accentHex,
	})

	// Buttons
	for _, b := range buttons {
		lights = append(lights, LightDescription{
			EntityDescription: EntityDescription{
				Key:  fmt.Sprintf("%s_active", b.Key),
				Name: fmt.Sprintf("%s active", b.Label),
				Icon: "mdi:gesture-tap-button",
			},
			ItemType: ITEM_TYPE_BUTTON_ACTIVE,
			ItemKey:  b.Name,
			Hex:      buttonActiveHex,
		})
		lights = append(lights, LightDescription{
			EntityDescription: EntityDescription{
				Key:  fmt.Sprintf("%s_inactive", b.Key),
				Name: fmt.Sprintf("%s inactive", b.Label),
				Icon: "mdi:gesture-tap-button",
			},
			ItemType: ITEM_TYPE_BUTTON_INACTIVE,
			ItemKey:  b.Name,
			Hex:      buttonInactiveHex,
		})
	}

	// Faders
	for _, f := range faders {
		lights = append(lights, LightDescription{
			EntityDescription: EntityDescription{
				Key:  fmt.Sprintf("%s_top", f.Key),
				Name: fmt.Sprintf("%s top", f.Label),
				Icon: "mdi:tune-vertical",
			},
			ItemType: ITEM_TYPE_FADER_TOP,
			ItemKey:  f.Name,
			Hex:      faderTopHex,
		})
		lights = append(lights, LightDescription{
			EntityDescription: EntityDescription{
				Key:  fmt.Sprintf("%s_bottom", f.Key),
				Name: fmt.Sprintf("%s bottom", f.Label),
				Icon: "mdi:tune-vertical",
			},
			ItemType: ITEM_TYPE_FADER_BOTTOM,
			ItemKey:  f.Name,
			Hex:      faderBottomHex,
		})
	}

	return lights
}

// LightByKey finds the light description with the given entity key.
func LightByKey(key string) (LightDescription, bool) {
	for _, l := range LightDescriptions() {
		if l.Key == key {
			return l, true
		}
	}
	return LightDescription{}, false
}
