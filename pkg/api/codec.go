// Package api defines the request and response messages of the settleup RPC
// services and the codec used to put them on the wire.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONCodec is a connect.Codec for plain Go structs. It replaces connect's
// protobuf-only JSON codec under the same "json" name, so the wire format is
// application/json for unary calls.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. Unknown fields are rejected.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", msg, err)
	}
	return nil
}
