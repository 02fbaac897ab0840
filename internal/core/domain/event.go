package domain

import (
	"fmt"

	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"
)

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
}

type BinarySensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

type TextSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

type BridgeStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

type LightUpdateEvent struct {
	SensorUpdateEventMixIn
	On    bool
	Red   uint8
	Green uint8
	Blue  uint8
}

// MixerAttachedEvent is published when the polled mixer changes, including
// the first successful poll.
type MixerAttachedEvent struct {
	Mixer *goxlr.MixerStatus
}
