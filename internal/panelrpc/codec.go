package panelrpc

import (
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Request and response field names.
const (
	fieldNamespace = "namespace"
	fieldModuleID  = "moduleId"
)

// toStruct converts a JSON-serializable value into a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fromStruct decodes a Struct into v through its JSON form.
func fromStruct(s *structpb.Struct, v any) error {
	raw, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func stringField(s *structpb.Struct, name string) (string, error) {
	f, ok := s.GetFields()[name]
	if !ok {
		return "", nil
	}
	if _, isNull := f.GetKind().(*structpb.Value_NullValue); isNull {
		return "", nil
	}
	str, ok := f.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return str.StringValue, nil
}

func int64Field(s *structpb.Struct, name string) (int64, bool, error) {
	f, ok := s.GetFields()[name]
	if !ok {
		return 0, false, nil
	}
	n, ok := f.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false, fmt.Errorf("%s must be a number", name)
	}
	v := n.NumberValue
	if v != math.Trunc(v) || v < 0 || v > 1<<53 {
		return 0, false, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return int64(v), true, nil
}
