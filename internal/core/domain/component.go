package domain

type Device struct {
	Id               string
	Name             string
	Version          string
	HwVersion        string
	Model            string
	Manufacturer     string
	ConfigurationURL string
	ViaDevice        string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement
	DeviceClass       string // connectivity
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
}

type GenericLight struct {
	Device   Device
	Id       string
	Name     string
	UniqueId string
	Icon     string
}
