package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSliceScan(t *testing.T) {
	var s StringSlice
	assert.NoError(t, s.Scan(`["a","b"]`))
	assert.Equal(t, StringSlice{"a", "b"}, s)

	assert.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	assert.NoError(t, s.Scan([]byte("null")))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))
}

func TestStringSliceValue(t *testing.T) {
	v, err := StringSlice(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringSlice{"x"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, `["x"]`, v)
}

func TestJSONMapRoundTrip(t *testing.T) {
	var m JSONMap
	assert.NoError(t, m.Scan(`{"min":"never","max":"always"}`))
	assert.Equal(t, "never", m["min"])

	v, err := m.Value()
	assert.NoError(t, err)
	assert.Contains(t, v, "always")

	assert.NoError(t, m.Scan(nil))
	assert.Nil(t, m)
}
