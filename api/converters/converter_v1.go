package converters

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/types/known/structpb"
)

// FieldsToStruct converts a flat field map to a protobuf Struct. Values must be
// string or []string.
func FieldsToStruct(fields map[string]any) (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}

	for name, value := range fields {
		converted, err := fieldToValue(value)
		if err != nil {
			return nil, fmt.Errorf("failed to convert field %s: %w", name, err)
		}

		out.Fields[name] = converted
	}

	return out, nil
}

// StructToFields converts a protobuf Struct back to a flat field map. Lists become
// []string and every other value is rendered as a string.
func StructToFields(s *structpb.Struct) map[string]any {
	fields := make(map[string]any, len(s.GetFields()))

	for name, value := range s.GetFields() {
		if list := value.GetListValue(); list != nil {
			values := make([]string, 0, len(list.GetValues()))
			for _, item := range list.GetValues() {
				values = append(values, valueToString(item))
			}

			fields[name] = values

			continue
		}

		fields[name] = valueToString(value)
	}

	return fields
}

// SortedFieldNames returns the field names of s in lexical order.
func SortedFieldNames(s *structpb.Struct) []string {
	names := make([]string, 0, len(s.GetFields()))
	for name := range s.GetFields() {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func fieldToValue(value any) (*structpb.Value, error) {
	switch v := value.(type) {
	case nil:
		return structpb.NewListValue(&structpb.ListValue{}), nil
	case string:
		return structpb.NewStringValue(v), nil
	case []string:
		items := make([]*structpb.Value, 0, len(v))
		for _, item := range v {
			items = append(items, structpb.NewStringValue(item))
		}

		return structpb.NewListValue(&structpb.ListValue{Values: items}), nil
	case []any:
		list, err := structpb.NewList(v)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return structpb.NewListValue(list), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

func valueToString(value *structpb.Value) string {
	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return fmt.Sprint(kind.NumberValue)
	case *structpb.Value_BoolValue:
		return fmt.Sprint(kind.BoolValue)
	default:
		return ""
	}
}
