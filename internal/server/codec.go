package server

import (
	"encoding/json"
	"fmt"
)

// jsonCodec lets connect carry plain Go structs as application/json.
// It replaces the protobuf-based json codec, which only accepts proto messages.
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(message any) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(%T) > %w", message, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	// connect sends an empty body for messages without fields
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, message); err != nil {
		return fmt.Errorf("json.Unmarshal(%T) > %w", message, err)
	}
	return nil
}
