package domain

import "github.com/berfenger/goxlr2mqtt/pkg/goxlr"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_GOXLR        = "goxlr"
	ACTOR_ID_COORDINATOR  = "coordinator"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetMixerStatusRequest struct {
	ActorRequestMixIn
}

type GetMixerStatusResponse struct {
	ActorResponseMixIn
	Mixer *goxlr.MixerStatus
}

type ExecuteCommandRequest struct {
	ActorRequestMixIn
	Serial  string
	Command goxlr.Command
}

type ExecuteCommandResponse struct {
	ActorResponseMixIn
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
	Lights  []GenericLight
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
