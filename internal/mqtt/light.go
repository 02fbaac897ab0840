package mqtt

import (
	"encoding/json"
	"fmt"
)

// HA MQTT light, JSON schema
const (
	LIGHT_STATE_ON  = "ON"
	LIGHT_STATE_OFF = "OFF"
	LIGHT_COLOR_RGB = "rgb"
)

type LightColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

type LightJSON struct {
	State      string      `json:"state"`
	ColorMode  string      `json:"color_mode,omitempty"`
	Color      *LightColor `json:"color,omitempty"`
	Brightness *uint8      `json:"brightness,omitempty"`
}

// LightCommand is a parsed light command. Color is at full brightness and
// Brightness (0-255) scales it, as HA sends them.
type LightCommand struct {
	On         bool
	Color      *LightColor
	Brightness *uint8
}

func ParseLightCommandPayload(payload []byte) (*LightCommand, error) {
	var msg LightJSON
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("invalid light payload: %w", err)
	}
	switch msg.State {
	case LIGHT_STATE_ON:
		return &LightCommand{On: true, Color: msg.Color, Brightness: msg.Brightness}, nil
	case LIGHT_STATE_OFF:
		return &LightCommand{On: false}, nil
	}
	return nil, fmt.Errorf("invalid light state %q", msg.State)
}

// LightStatePayload reports a lit colour as its full brightness colour plus
// the brightness, the brightest channel.
func LightStatePayload(on bool, r, g, b uint8) string {
	msg := LightJSON{
		State:     LIGHT_STATE_OFF,
		ColorMode: LIGHT_COLOR_RGB,
		Color:     &LightColor{R: r, G: g, B: b},
	}
	if on {
		msg.State = LIGHT_STATE_ON
		if level := max(r, g, b); level > 0 {
			msg.Color = &LightColor{R: fullBrightness(r, level), G: fullBrightness(g, level), B: fullBrightness(b, level)}
			msg.Brightness = &level
		}
	}
	payload, _ := json.Marshal(msg)
	return string(payload)
}

func fullBrightness(c, level uint8) uint8 {
	return uint8((uint(c)*255 + uint(level)/2) / uint(level))
}
