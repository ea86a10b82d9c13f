package service

import (
	"encoding/json"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// jsonCodec serves the Connect JSON wire format for plain Go messages.
// Protobuf messages (well-known types such as emptypb.Empty) go through
// protojson so they keep their canonical JSON form.
type jsonCodec struct{}

// Codec returns the codec registered on every handler and client of this
// package. Pass it to connect.NewClient through connect.WithCodec.
func Codec() connect.Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		if len(data) == 0 {
			return nil
		}
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
