package world

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the three value shapes the world state may hold.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
)

// Value is a single world-state value: a string, a number, or a boolean.
// The oracle emits every value as a string; Coerce converts once at
// ingestion and nothing downstream re-coerces.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

func NumberValue(f float64) Value { return Value{Kind: KindNumber, Num: f} }

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Coerce converts an oracle-supplied string into a typed Value.
// "true"/"false" (case-insensitive) become booleans, parseable numbers
// become numbers, everything else stays a string.
func Coerce(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if trimmed != "" {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return NumberValue(f)
		}
	}
	return StringValue(raw)
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// MarshalJSON writes the native JSON type, not the wrapper struct.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON accepts a JSON string, number or boolean.
func (v *Value) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = NumberValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	return fmt.Errorf("world value: not a string, number or boolean: %s", string(data))
}

// State is the open-ended world-state map.
type State map[string]Value

// Merge shallow-merges delta over s. Keys absent from delta are untouched;
// keys present overwrite.
func (s State) Merge(delta map[string]Value) {
	for k, v := range delta {
		s[k] = v
	}
}

// KeyValue is the wire shape the oracle uses for world-state entries:
// both key and value arrive as strings.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CoercePairs converts a list of oracle key/value pairs into typed
// world-state deltas. Later entries win on duplicate keys.
func CoercePairs(pairs []KeyValue) map[string]Value {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]Value, len(pairs))
	for _, kv := range pairs {
		out[kv.Key] = Coerce(kv.Value)
	}
	return out
}
