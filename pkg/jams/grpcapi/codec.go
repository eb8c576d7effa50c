package grpcapi

import "encoding/json"

// jsonCodec lets the gRPC transport carry plain Go structs instead of
// protoc-generated message types. Messages here are written in the
// reference codebase's style (clear field names, JSON-friendly), but
// without a protoc toolchain available there is no generated descriptor
// set to register with server reflection; this is the one documented gap
// against a protoc-based deployment (see DESIGN.md).
type jsonCodec struct{}

func (jsonCodec) Name() string { return "proto" }

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
