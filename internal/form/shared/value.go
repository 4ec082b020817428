package shared

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind is the runtime shape of a stored answer value.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumeric
	KindText
	KindBool
	KindSequence
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	}
	return "empty"
}

// Value wraps a schema-less answer value. The shape is resolved once when the
// value is built; accessors never fail and report ok=false on a shape mismatch.
type Value struct {
	kind    Kind
	number  float64
	text    string
	boolean bool
	items   []string
	fields  map[string]any
	raw     any
}

// ParseValue decodes a stored JSON answer value. Undecodable input yields an
// empty value.
func ParseValue(raw json.RawMessage) Value {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Value{}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Value{}
	}
	return NewValue(decoded)
}

// NewValue classifies a decoded JSON value.
func NewValue(v any) Value {
	switch typed := v.(type) {
	case nil:
		return Value{}
	case float64:
		return Value{kind: KindNumeric, number: typed, raw: typed}
	case int:
		return Value{kind: KindNumeric, number: float64(typed), raw: float64(typed)}
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return Value{kind: KindText, text: typed.String(), raw: typed.String()}
		}
		return Value{kind: KindNumeric, number: f, raw: f}
	case string:
		return Value{kind: KindText, text: typed, raw: typed}
	case bool:
		return Value{kind: KindBool, boolean: typed, raw: typed}
	case []string:
		items := append([]string(nil), typed...)
		return Value{kind: KindSequence, items: items, raw: typed}
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, scalarString(item))
		}
		return Value{kind: KindSequence, items: items, raw: typed}
	case map[string]any:
		return Value{kind: KindMap, fields: typed, raw: typed}
	}
	return Value{}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Raw returns the decoded value as it was stored.
func (v Value) Raw() any { return v.raw }

// Number coerces the value to a finite number. Numeric-looking strings are
// accepted; everything else reports ok=false.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindNumeric:
		if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
			return 0, false
		}
		return v.number, true
	case KindText:
		trimmed := strings.TrimSpace(v.text)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Text returns the value when it is a string with non-blank content.
func (v Value) Text() (string, bool) {
	if v.kind != KindText || strings.TrimSpace(v.text) == "" {
		return "", false
	}
	return v.text, true
}

// Selections returns the option tokens of a multi-select value.
func (v Value) Selections() ([]string, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return v.items, true
}

// Option returns the token of a truthy scalar value.
func (v Value) Option() (string, bool) {
	switch v.kind {
	case KindText:
		if v.text == "" {
			return "", false
		}
		return v.text, true
	case KindNumeric:
		if v.number == 0 || math.IsNaN(v.number) {
			return "", false
		}
		return FormatNumber(v.number), true
	case KindBool:
		if !v.boolean {
			return "", false
		}
		return "true", true
	}
	return "", false
}

// Other returns the free text of an {"other": "..."} value.
func (v Value) Other() (string, bool) {
	if v.kind != KindMap {
		return "", false
	}
	other, ok := v.fields["other"].(string)
	if !ok || other == "" {
		return "", false
	}
	return other, true
}

// String renders the value as a single cell: sequences are joined with ", ",
// maps are JSON encoded, scalars are printed as is.
func (v Value) String() string {
	switch v.kind {
	case KindNumeric:
		return FormatNumber(v.number)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindSequence:
		return strings.Join(v.items, ", ")
	case KindMap:
		encoded, err := json.Marshal(v.fields)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	*v = ParseValue(data)
	return nil
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func scalarString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return FormatNumber(typed)
	case bool:
		return strconv.FormatBool(typed)
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(encoded)
}
