package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupByKey_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	groups := GroupByKey([]string{"apple", "avocado", "banana", "apricot"}, func(s string) byte { return s[0] })

	require.Len(t, groups, 2)
	require.Equal(t, []string{"apple", "avocado", "apricot"}, groups['a'])
	require.Equal(t, []string{"banana"}, groups['b'])
}

func TestGroupByDate_UsesUTCDay(t *testing.T) {
	t.Parallel()

	taipei := time.FixedZone("UTC+8", 8*60*60)
	stamps := []time.Time{
		time.Date(2024, 3, 2, 7, 0, 0, 0, taipei), // 2024-03-01 23:00 UTC
		time.Date(2024, 3, 2, 9, 0, 0, 0, taipei), // 2024-03-02 01:00 UTC
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	groups := GroupByDate(stamps, func(ts time.Time) time.Time { return ts })

	require.Equal(t, []string{"2024-03-01", "2024-03-02"}, SortedKeys(groups))
	require.Len(t, groups["2024-03-01"], 2)
	require.Len(t, groups["2024-03-02"], 1)
}

func TestDistribution(t *testing.T) {
	tests := []struct {
		name     string
		items    [][]string
		expected map[string]int
		sum      int
	}{
		{
			name:     "Should count scalar tokens",
			items:    [][]string{{"A"}, {"B"}, {"A"}},
			expected: map[string]int{"A": 2, "B": 1},
			sum:      3,
		},
		{
			name:     "Should fan out sequences",
			items:    [][]string{{"A", "B"}, {"A"}},
			expected: map[string]int{"A": 2, "B": 1},
			sum:      3,
		},
		{
			name:     "Should return empty distribution for no items",
			items:    nil,
			expected: map[string]int{},
			sum:      0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			counts := Distribution(tc.items, func(tokens []string) []string { return tokens })

			got := make(map[string]int)
			for _, key := range counts.Keys() {
				got[key] = counts.Get(key)
			}
			require.Equal(t, tc.expected, got)
			require.Equal(t, tc.sum, counts.Sum())
		})
	}
}

func TestCounts_MarshalJSONKeepsOrder(t *testing.T) {
	t.Parallel()

	counts := NewCounts("Pasta", "Pizza").Add("Ramen", 2).Add("Pasta", 1)

	encoded, err := json.Marshal(counts)
	require.NoError(t, err)
	require.Equal(t, `{"Pasta":1,"Pizza":0,"Ramen":2}`, string(encoded))

	empty, err := json.Marshal(Counts{})
	require.NoError(t, err)
	require.Equal(t, `{}`, string(empty))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected NumericSummary
	}{
		{
			name:     "Should return zero average for empty input",
			values:   nil,
			expected: NumericSummary{},
		},
		{
			name:     "Should compute sum and average",
			values:   []float64{5, 5, 3},
			expected: NumericSummary{Count: 3, Sum: 13, Average: 13.0 / 3.0, Mode: 5, HasMode: true},
		},
		{
			name:     "Should break mode ties by first encountered value",
			values:   []float64{4, 2, 2, 4},
			expected: NumericSummary{Count: 4, Sum: 12, Average: 3, Mode: 4, HasMode: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, Summarize(tc.values))
		})
	}
}
