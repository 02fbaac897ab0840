package events

import (
	. "github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/core/entity"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"
)

// MixerStatusToUpdateEvents renders the state of every described item present
// on the mixer. Items whose identity cannot be derived are skipped.
func MixerStatusToUpdateEvents(m *goxlr.MixerStatus, conn entity.Connection) []any {
	var events []any

	// Sensors
	for _, d := range entity.SensorDescriptions() {
		value, ok := d.Value(m)
		if !ok {
			continue
		}
		id, err := entity.NewIdentity(m, conn, d.Key, d.Name)
		if err != nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			events = append(events, FloatSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: id.UniqueId,
				},
				Value:    v,
				Decimals: d.Decimals,
			})
		case string:
			events = append(events, TextSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: id.UniqueId,
				},
				Value: v,
			})
		}
	}

	// Binary sensors
	for _, d := range entity.BinarySensorDescriptions() {
		value, ok := d.State(m)
		if !ok {
			continue
		}
		id, err := entity.NewIdentity(m, conn, d.Key, d.Name)
		if err != nil {
			continue
		}
		events = append(events, BinarySensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: id.UniqueId,
			},
			Value: value,
		})
	}

	// Lights
	for _, d := range entity.LightDescriptions() {
		hex, ok := d.Colour(m)
		if !ok {
			continue
		}
		id, err := entity.NewIdentity(m, conn, d.Key, d.Name)
		if err != nil {
			continue
		}
		r, g, b, err := entity.HexToRGB(hex)
		if err != nil {
			continue
		}
		events = append(events, LightUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: id.UniqueId,
			},
			On:    hex != entity.COLOUR_OFF,
			Red:   r,
			Green: g,
			Blue:  b,
		})
	}

	return events
}

// LightForUniqueId resolves the light description whose entity on the mixer
// has the given unique id.
func LightForUniqueId(m *goxlr.MixerStatus, conn entity.Connection, uniqueId string) (entity.LightDescription, bool) {
	for _, d := range entity.LightDescriptions() {
		id, err := entity.NewIdentity(m, conn, d.Key, d.Name)
		if err == nil && id.UniqueId == uniqueId {
			return d, true
		}
	}
	return entity.LightDescription{}, false
}
