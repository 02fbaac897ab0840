package domain

// LightCommandRequest asks the coordinator to change the colour of the
// lighting element behind the light entity with key Key.
// Hex is empty when the command carries no colour. Brightness, when set,
// scales the resulting colour.
type LightCommandRequest struct {
	ActorRequestMixIn
	Key        string
	On         bool
	Hex        string
	Brightness *uint8
}

type LightCommandResponse struct {
	ActorResponseMixIn
	Changed bool
}

// RefreshRequest asks the coordinator for an out-of-schedule poll. With Full
// set, every state is published again even if unchanged.
type RefreshRequest struct {
	ActorRequestMixIn
	Full bool
}

// ensure interface compliance
var _ ActorRequest = (*LightCommandRequest)(nil)
