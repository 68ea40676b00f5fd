// Package api defines the taskkeeper gRPC contract: request and response
// messages, the service descriptor, a client stub and the JSON wire codec
// both sides use.
package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content subtype ("application/grpc+json").
const CodecName = "json"

// codec marshals protobuf messages with protojson and plain Go structs with
// encoding/json, so standard services such as grpc.health.v1 keep working
// over the same content subtype.
type codec struct{}

func (codec) Name() string { return CodecName }

func (codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if m, ok := v.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

func init() {
	encoding.RegisterCodec(codec{})
}
