package maplog

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// marshalProtoValue encodes an arbitrary Go value as protobuf wire bytes.
// structpb.Value is a schema-less protobuf message type shipped directly
// inside google.golang.org/protobuf, so values convert to proto and marshal
// without a generated .proto package. The JSON round trip only normalizes
// an arbitrary Go value into the bool/float64/string/slice/map shape
// structpb.NewValue accepts; the bytes on the wire are protobuf, not JSON.
func marshalProtoValue(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	pv, err := structpb.NewValue(generic)
	if err != nil {
		return nil, fmt.Errorf("build protobuf value: %w", err)
	}
	return proto.Marshal(pv)
}

// unmarshalProtoValue decodes bytes produced by marshalProtoValue into out
// (a pointer).
func unmarshalProtoValue(data []byte, out any) error {
	var pv structpb.Value
	if err := proto.Unmarshal(data, &pv); err != nil {
		return fmt.Errorf("decode protobuf value: %w", err)
	}
	raw, err := json.Marshal(pv.AsInterface())
	if err != nil {
		return fmt.Errorf("re-encode value: %w", err)
	}
	return json.Unmarshal(raw, out)
}
