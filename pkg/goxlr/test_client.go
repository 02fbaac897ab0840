package goxlr

import "sync"

const TEST_SERIAL = "S201200586CQK"

func CreateTestStatusReader() (*TestStatusReader, error) {
	return &TestStatusReader{}, nil
}

// TestStatusReader serves a canned mixer and records executed commands.
// Colour commands are applied to the mixer it serves afterwards.
type TestStatusReader struct {
	mu       sync.Mutex
	Executed []Command
}

func (reader *TestStatusReader) Open() error {
	return nil
}

func (reader *TestStatusReader) Close() error {
	return nil
}

func (reader *TestStatusReader) GetStatus() (*DaemonStatus, error) {
	mixer := TestMixerStatus()
	for _, cmd := range reader.Commands() {
		applyTestCommand(mixer, cmd)
	}
	return &DaemonStatus{
		Config: DaemonConfig{DaemonVersion: "1.0.5"},
		Mixers: map[string]*MixerStatus{
			TEST_SERIAL: mixer,
		},
	}, nil
}

func applyTestCommand(m *MixerStatus, cmd Command) {
	args := make([]string, len(cmd.Args))
	for i, arg := range cmd.Args {
		args[i], _ = arg.(string)
	}
	switch {
	case cmd.Name == "SetSimpleColour" && len(args) == 2:
		m.Lighting.Simple[args[0]] = OneColour{ColourOne: args[1]}
	case cmd.Name == "SetButtonOnColour" && len(args) == 2:
		b := m.Lighting.Buttons[args[0]]
		b.Colours.ColourOne = args[1]
		m.Lighting.Buttons[args[0]] = b
	case cmd.Name == "SetButtonOffColour" && len(args) == 2:
		b := m.Lighting.Buttons[args[0]]
		b.Colours.ColourTwo = args[1]
		m.Lighting.Buttons[args[0]] = b
	case cmd.Name == "SetFaderColours" && len(args) == 3:
		f := m.Lighting.Faders[args[0]]
		f.Colours = TwoColours{ColourOne: args[1], ColourTwo: args[2]}
		m.Lighting.Faders[args[0]] = f
	}
}

func (reader *TestStatusReader) Execute(serial string, cmd Command) error {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	if serial != TEST_SERIAL {
		return ErrNoMixer
	}
	reader.Executed = append(reader.Executed, cmd)
	return nil
}

func (reader *TestStatusReader) Commands() []Command {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	return append([]Command(nil), reader.Executed...)
}

func TestMixerStatus() *MixerStatus {
	return &MixerStatus{
		Hardware: &HardwareStatus{
			Versions: Versions{
				Firmware: []int{1, 4, 2, 107},
				Dice:     []int{1, 0, 4, 0},
			},
			SerialNumber:     TEST_SERIAL,
			ManufacturedDate: "2020-12-01",
			DeviceType:       "Full",
			UsbDevice: &UsbDevice{
				ManufacturerName: "TC-Helicon",
				ProductName:      "GoXLR",
				Version:          []int{1, 2, 0},
				BusNumber:        1,
				Address:          7,
			},
		},
		FaderStatus: map[string]FaderStatus{
			FADER_A: {Channel: "Mic", MuteType: "All", MuteState: "Unmuted"},
			FADER_B: {Channel: "Music", MuteType: "All", MuteState: "MutedToAll"},
			FADER_C: {Channel: "Chat", MuteType: "ToStream", MuteState: "Unmuted"},
			FADER_D: {Channel: "System", MuteType: "All", MuteState: "Unmuted"},
		},
		Levels: Levels{
			Volumes: map[string]int{
				"Mic":        255,
				"LineIn":     0,
				"Console":    128,
				"System":     191,
				"Game":       64,
				"Chat":       200,
				"Sample":     100,
				"Music":      51,
				"Headphones": 230,
				"MicMonitor": 0,
				"LineOut":    255,
			},
		},
		ButtonDown: map[string]bool{
			"Fader1Mute":    false,
			"Fader2Mute":    true,
			"Fader3Mute":    false,
			"Fader4Mute":    false,
			"Bleep":         false,
			"Cough":         false,
			"EffectSelect1": false,
			"EffectFx":      true,
		},
		Lighting: Lighting{
			Faders: map[string]FaderLighting{
				FADER_A: {Style: "Gradient", Colours: TwoColours{ColourOne: "00FFFF", ColourTwo: "FF00FF"}},
				FADER_B: {Style: "Gradient", Colours: TwoColours{ColourOne: "FF0000", ColourTwo: "000000"}},
				FADER_C: {Style: "TwoColour", Colours: TwoColours{ColourOne: "00FF00", ColourTwo: "0000FF"}},
				FADER_D: {Style: "Meter", Colours: TwoColours{ColourOne: "FFFFFF", ColourTwo: "101010"}},
			},
			Buttons: map[string]ButtonLighting{
				"Fader1Mute": {OffStyle: "Dimmed", Colours: TwoColours{ColourOne: "00FFFF", ColourTwo: "003333"}},
				"Fader2Mute": {OffStyle: "Dimmed", Colours: TwoColours{ColourOne: "FF0000", ColourTwo: "330000"}},
				"Bleep":      {OffStyle: "DimmedColour2", Colours: TwoColours{ColourOne: "FFFF00", ColourTwo: "000000"}},
				"Cough":      {OffStyle: "Dimmed", Colours: TwoColours{ColourOne: "FF8800", ColourTwo: "221100"}},
			},
			Simple: map[string]OneColour{
				SIMPLE_ACCENT: {ColourOne: "00FFFF"},
				"Global":      {ColourOne: "000000"},
			},
		},
		ProfileName:    "Default",
		MicProfileName: "DEFAULT",
	}
}

// ensure interface compliance
var _ StatusReader = (*TestStatusReader)(nil)
