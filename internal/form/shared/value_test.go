package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValue_Kind(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Kind
	}{
		{name: "Should classify number as numeric", raw: `4`, expected: KindNumeric},
		{name: "Should classify string as text", raw: `"great food"`, expected: KindText},
		{name: "Should classify array as sequence", raw: `["A","B"]`, expected: KindSequence},
		{name: "Should classify object as map", raw: `{"other":"late night menu"}`, expected: KindMap},
		{name: "Should classify boolean as bool", raw: `true`, expected: KindBool},
		{name: "Should classify null as empty", raw: `null`, expected: KindEmpty},
		{name: "Should classify malformed JSON as empty", raw: `{"broken"`, expected: KindEmpty},
		{name: "Should classify blank input as empty", raw: ``, expected: KindEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, ParseValue(json.RawMessage(tc.raw)).Kind())
		})
	}
}

func TestValue_Number(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected float64
		ok       bool
	}{
		{name: "Should return numeric value", value: 4.5, expected: 4.5, ok: true},
		{name: "Should coerce numeric string", value: " 3 ", expected: 3, ok: true},
		{name: "Should reject non numeric string", value: "five", ok: false},
		{name: "Should reject empty string", value: "", ok: false},
		{name: "Should reject sequence", value: []any{"1"}, ok: false},
		{name: "Should reject map", value: map[string]any{"other": "x"}, ok: false},
		{name: "Should reject bool", value: true, ok: false},
		{name: "Should reject null", value: nil, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := NewValue(tc.value).Number()
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestValue_Option(t *testing.T) {
	token, ok := NewValue("A").Option()
	require.True(t, ok)
	require.Equal(t, "A", token)

	token, ok = NewValue(float64(2)).Option()
	require.True(t, ok)
	require.Equal(t, "2", token)

	_, ok = NewValue("").Option()
	require.False(t, ok)

	_, ok = NewValue(float64(0)).Option()
	require.False(t, ok)

	_, ok = NewValue([]any{"A"}).Option()
	require.False(t, ok)
}

func TestValue_Other(t *testing.T) {
	other, ok := ParseValue(json.RawMessage(`{"other":"vegan options"}`)).Other()
	require.True(t, ok)
	require.Equal(t, "vegan options", other)

	_, ok = ParseValue(json.RawMessage(`{"other":""}`)).Other()
	require.False(t, ok)

	_, ok = ParseValue(json.RawMessage(`"other"`)).Other()
	require.False(t, ok)
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "Should join sequence with comma and space", raw: `["A","B"]`, expected: "A, B"},
		{name: "Should encode map as JSON", raw: `{"other":"x"}`, expected: `{"other":"x"}`},
		{name: "Should print integral number without fraction", raw: `5`, expected: "5"},
		{name: "Should print fractional number", raw: `4.25`, expected: "4.25"},
		{name: "Should print text unchanged", raw: `"a,b"`, expected: "a,b"},
		{name: "Should print bool", raw: `false`, expected: "false"},
		{name: "Should print empty for null", raw: `null`, expected: ""},
		{name: "Should stringify non string sequence items", raw: `[1,"B"]`, expected: "1, B"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, ParseValue(json.RawMessage(tc.raw)).String())
		})
	}
}

func TestValue_MarshalJSONRoundTrip(t *testing.T) {
	answer := Answer{Value: ParseValue(json.RawMessage(`["A","B"]`))}

	encoded, err := json.Marshal(answer)
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"value":["A","B"]`)

	var decoded Answer
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	selections, ok := decoded.Value.Selections()
	require.True(t, ok)
	require.Equal(t, []string{"A", "B"}, selections)
}

func TestOption_UnmarshalJSON(t *testing.T) {
	var options []Option
	err := json.Unmarshal([]byte(`["A", {"value":"B","label":"Bee"}, {"label":"no value"}]`), &options)
	require.NoError(t, err)
	require.Equal(t, []Option{{Value: "A"}, {Value: "B", Label: "Bee"}, {Label: "no value"}}, options)

	q := Question{Options: options}
	require.Equal(t, []string{"A", "B"}, q.OptionValues())
}

func TestOption_UnmarshalJSONSkipsMalformedOption(t *testing.T) {
	var options []Option
	err := json.Unmarshal([]byte(`["A", 7, true, {"value":"B"}]`), &options)
	require.NoError(t, err)
	require.Len(t, options, 4)

	q := Question{Options: options}
	require.Equal(t, []string{"A", "B"}, q.OptionValues())
}

func TestSettings_AllowOther(t *testing.T) {
	require.True(t, Settings{"allowOther": true}.AllowOther())
	require.False(t, Settings{"allowOther": "yes"}.AllowOther())
	require.False(t, Settings(nil).AllowOther())
}
