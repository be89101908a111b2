package natsadapter

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ContentType is set on every published message.
const ContentType = "application/x-protobuf; messageType=google.protobuf.Struct"

// Encode marshals v as a binary google.protobuf.Struct. v must encode to a
// JSON object.
func Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode: payload is not an object: %w", err)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	return proto.Marshal(st)
}

// Decode unmarshals a binary google.protobuf.Struct into v.
func Decode(data []byte, v any) error {
	raw, err := ToJSON(data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// ToJSON converts a binary google.protobuf.Struct into its JSON form.
func ToJSON(data []byte) ([]byte, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode struct: %w", err)
	}
	raw, err := protojson.Marshal(&st)
	if err != nil {
		return nil, fmt.Errorf("decode struct json: %w", err)
	}
	return raw, nil
}
