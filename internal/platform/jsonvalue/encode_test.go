package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON_KeepsMemberOrder(t *testing.T) {
	t.Parallel()

	doc := MustParse(`{"z":1,"a":[true,null,"x\"y"],"m":{"k":1.5}}`)
	raw, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null,"x\"y"],"m":{"k":1.5}}`, string(raw))
}

func TestMarshalJSON_CycleRendersNull(t *testing.T) {
	t.Parallel()

	obj := NewObject()
	obj.Set("name", String("loop"))
	obj.Set("self", obj.Value())

	raw, err := obj.Value().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"loop","self":null}`, string(raw))
}

func TestMarshalJSON_NullValue(t *testing.T) {
	t.Parallel()

	raw, err := Null().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}
