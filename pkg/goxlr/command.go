package goxlr

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNoMixer            = errors.New("goxlr: no mixer connected")
	ErrNotConnected       = errors.New("goxlr: client not connected")
	ErrUnexpectedResponse = errors.New("goxlr: unexpected response")
)

type DaemonError struct {
	Message string
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("goxlr: daemon error: %s", e.Message)
}

// Command is a single mixer command, serialized as {"<Name>": [args...]}.
type Command struct {
	Name string
	Args []any
}

func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{c.Name: c.Args})
}

func SetSimpleColour(target, colour string) Command {
	return Command{Name: "SetSimpleColour", Args: []any{target, colour}}
}

func SetButtonOnColour(button, colour string) Command {
	return Command{Name: "SetButtonOnColour", Args: []any{button, colour}}
}

func SetButtonOffColour(button, colour string) Command {
	return Command{Name: "SetButtonOffColour", Args: []any{button, colour}}
}

func SetFaderColours(fader, top, bottom string) Command {
	return Command{Name: "SetFaderColours", Args: []any{fader, top, bottom}}
}

// wire messages

type request struct {
	Id   uint64 `json:"id"`
	Data any    `json:"data"`
}

type commandRequest struct {
	Command [2]any `json:"Command"`
}

type response struct {
	Id   uint64          `json:"id"`
	Data json.RawMessage `json:"data"`
}

type statusPayload struct {
	Status *DaemonStatus `json:"Status"`
	Error  *string       `json:"Error"`
}

func newStatusRequest(id uint64) request {
	return request{Id: id, Data: "GetStatus"}
}

func newCommandRequest(id uint64, serial string, cmd Command) request {
	return request{Id: id, Data: commandRequest{Command: [2]any{serial, cmd}}}
}

// decodeStatus reads the payload of a GetStatus response.
func decodeStatus(data json.RawMessage) (*DaemonStatus, error) {
	var payload statusPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if payload.Error != nil {
		return nil, &DaemonError{Message: *payload.Error}
	}
	if payload.Status == nil {
		return nil, ErrUnexpectedResponse
	}
	return payload.Status, nil
}

// decodeAck reads the payload of a command response: "Ok" or {"Error": "..."}.
func decodeAck(data json.RawMessage) error {
	var ok string
	if err := json.Unmarshal(data, &ok); err == nil {
		if ok == "Ok" {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, ok)
	}
	var payload statusPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if payload.Error != nil {
		return &DaemonError{Message: *payload.Error}
	}
	return ErrUnexpectedResponse
}
