package goxlr

import (
	"slices"
)

type DaemonStatus struct {
	Config DaemonConfig            `json:"config"`
	Mixers map[string]*MixerStatus `json:"mixers"`
}

type DaemonConfig struct {
	DaemonVersion string `json:"daemon_version"`
}

type MixerStatus struct {
	Hardware       *HardwareStatus        `json:"hardware"`
	FaderStatus    map[string]FaderStatus `json:"fader_status"`
	Levels         Levels                 `json:"levels"`
	ButtonDown     map[string]bool        `json:"button_down"`
	Lighting       Lighting               `json:"lighting"`
	ProfileName    string                 `json:"profile_name"`
	MicProfileName string                 `json:"mic_profile_name"`
}

type HardwareStatus struct {
	Versions         Versions   `json:"versions"`
	SerialNumber     string     `json:"serial_number"`
	ManufacturedDate string     `json:"manufactured_date"`
	DeviceType       string     `json:"device_type"`
	UsbDevice        *UsbDevice `json:"usb_device"`
}

type Versions struct {
	Firmware []int `json:"firmware"`
	Dice     []int `json:"dice"`
}

type UsbDevice struct {
	ManufacturerName string `json:"manufacturer_name"`
	ProductName      string `json:"product_name"`
	Version          []int  `json:"version"`
	BusNumber        int    `json:"bus_number"`
	Address          int    `json:"address"`
}

type FaderStatus struct {
	Channel   string `json:"channel"`
	MuteType  string `json:"mute_type"`
	MuteState string `json:"mute_state"`
}

type Levels struct {
	Volumes map[string]int `json:"volumes"`
}

type Lighting struct {
	Faders  map[string]FaderLighting  `json:"faders"`
	Buttons map[string]ButtonLighting `json:"buttons"`
	Simple  map[string]OneColour      `json:"simple"`
}

type TwoColours struct {
	ColourOne string `json:"colour_one"`
	ColourTwo string `json:"colour_two"`
}

type OneColour struct {
	ColourOne string `json:"colour_one"`
}

type FaderLighting struct {
	Style   string     `json:"style"`
	Colours TwoColours `json:"colours"`
}

type ButtonLighting struct {
	OffStyle string     `json:"off_style"`
	Colours  TwoColours `json:"colours"`
}

const (
	MAX_VOLUME = 255

	FADER_A = "A"
	FADER_B = "B"
	FADER_C = "C"
	FADER_D = "D"

	SIMPLE_ACCENT = "Accent"
)

// Serials returns the serials of the connected mixers in ascending order.
func (s *DaemonStatus) Serials() []string {
	serials := make([]string, 0, len(s.Mixers))
	for serial := range s.Mixers {
		serials = append(serials, serial)
	}
	slices.Sort(serials)
	return serials
}

// Mixer selects the mixer with the given serial. An empty serial selects the
// first mixer in serial order.
func (s *DaemonStatus) Mixer(serial string) (*MixerStatus, error) {
	if s == nil || len(s.Mixers) == 0 {
		return nil, ErrNoMixer
	}
	if serial == "" {
		serial = s.Serials()[0]
	}
	mixer, ok := s.Mixers[serial]
	if !ok || mixer == nil {
		return nil, ErrNoMixer
	}
	return mixer, nil
}

func (m *MixerStatus) Serial() string {
	if m == nil || m.Hardware == nil {
		return ""
	}
	return m.Hardware.SerialNumber
}
