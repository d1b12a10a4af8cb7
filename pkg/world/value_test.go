package world

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"true", BoolValue(true)},
		{"False", BoolValue(false)},
		{" TRUE ", BoolValue(true)},
		{"3", NumberValue(3)},
		{"-0.5", NumberValue(-0.5)},
		{"3 lanterns", StringValue("3 lanterns")},
		{"mưa lớn", StringValue("mưa lớn")},
		{"", StringValue("")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Coerce(tt.raw), "raw %q", tt.raw)
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	s := State{
		"power":   BoolValue(true),
		"floor":   NumberValue(3),
		"weather": StringValue("rain"),
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"power": true, "floor": 3, "weather": "rain"}`, string(data))

	var back State
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestValue_UnmarshalRejectsObjects(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"nested": 1}`), &v))
}

func TestState_Merge(t *testing.T) {
	s := State{"floor": NumberValue(1), "weather": StringValue("rain")}
	s.Merge(map[string]Value{"floor": NumberValue(2), "power": BoolValue(false)})

	assert.Equal(t, NumberValue(2), s["floor"])
	assert.Equal(t, StringValue("rain"), s["weather"])
	assert.Equal(t, BoolValue(false), s["power"])
}

func TestCoercePairs_LastWins(t *testing.T) {
	out := CoercePairs([]KeyValue{
		{Key: "floor", Value: "1"},
		{Key: "floor", Value: "2"},
	})
	assert.Equal(t, NumberValue(2), out["floor"])
	assert.Nil(t, CoercePairs(nil))
}
