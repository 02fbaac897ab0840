package entity

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const COLOUR_OFF = "000000"

// NormalizeHex validates a RRGGBB colour (optionally prefixed with '#') and
// returns it upper-cased without prefix.
func NormalizeHex(value string) (string, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(value) != 6 {
		return "", fmt.Errorf("entity: invalid colour %q", value)
	}
	if _, err := hex.DecodeString(value); err != nil {
		return "", fmt.Errorf("entity: invalid colour %q", value)
	}
	return strings.ToUpper(value), nil
}

func RGBToHex(r, g, b uint8) string {
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

func HexToRGB(value string) (r, g, b uint8, err error) {
	value, err = NormalizeHex(value)
	if err != nil {
		return 0, 0, 0, err
	}
	raw, _ := hex.DecodeString(value)
	return raw[0], raw[1], raw[2], nil
}

// ScaleHex dims (or brightens) a colour so its brightest channel equals
// brightness, keeping the hue. An unlit colour is returned as is.
func ScaleHex(value string, brightness uint8) (string, error) {
	r, g, b, err := HexToRGB(value)
	if err != nil {
		return "", err
	}
	level := uint(max(r, g, b))
	if level == 0 {
		return COLOUR_OFF, nil
	}
	scale := func(c uint8) uint8 {
		return uint8((uint(c)*uint(brightness) + level/2) / level)
	}
	return RGBToHex(scale(r), scale(g), scale(b)), nil
}
