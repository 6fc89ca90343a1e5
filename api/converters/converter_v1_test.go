package converters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestFieldsToStruct(t *testing.T) {
	fields := map[string]any{
		"id":                "vudl:1",
		"modeltype_str_mv":  []string{"vudl-system:CoreModel"},
		"datastream_str_mv": nil,
		"hierarchy_top_id":  []any{"vudl:0"},
	}

	s, err := FieldsToStruct(fields)
	require.NoError(t, err)

	assert.Equal(t, "vudl:1", s.GetFields()["id"].GetStringValue())
	assert.Len(t, s.GetFields()["modeltype_str_mv"].GetListValue().GetValues(), 1)
	assert.Empty(t, s.GetFields()["datastream_str_mv"].GetListValue().GetValues())
	assert.Equal(t, []string{"datastream_str_mv", "hierarchy_top_id", "id", "modeltype_str_mv"}, SortedFieldNames(s))

	back := StructToFields(s)
	assert.Equal(t, "vudl:1", back["id"])
	assert.Equal(t, []string{"vudl-system:CoreModel"}, back["modeltype_str_mv"])
	assert.Equal(t, []string{"vudl:0"}, back["hierarchy_top_id"])
	assert.Equal(t, []string{}, back["datastream_str_mv"])

	raw, err := protojson.Marshal(s)
	require.NoError(t, err)

	decoded := &structpb.Struct{}
	require.NoError(t, protojson.Unmarshal(raw, decoded))
	assert.True(t, proto.Equal(s, decoded))
}

func TestFieldsToStructRejectsUnknownTypes(t *testing.T) {
	_, err := FieldsToStruct(map[string]any{"count": 3})
	assert.Error(t, err)
}

func TestStructToFieldsScalars(t *testing.T) {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		"n": structpb.NewNumberValue(2),
		"b": structpb.NewBoolValue(true),
	}}

	fields := StructToFields(s)
	assert.Equal(t, "2", fields["n"])
	assert.Equal(t, "true", fields["b"])
}
