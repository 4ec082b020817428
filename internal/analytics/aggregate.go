package analytics

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

const dayLayout = "2006-01-02"

// DayKey returns the UTC calendar day of t as "YYYY-MM-DD".
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// Fold reduces items into an accumulator.
func Fold[T, A any](items []T, init A, fn func(A, T) A) A {
	acc := init
	for _, item := range items {
		acc = fn(acc, item)
	}
	return acc
}

// GroupByKey buckets items by key. Items keep their input order inside each
// bucket; map iteration order is unspecified.
func GroupByKey[T any, K comparable](items []T, key func(T) K) map[K][]T {
	return Fold(items, make(map[K][]T), func(groups map[K][]T, item T) map[K][]T {
		k := key(item)
		groups[k] = append(groups[k], item)
		return groups
	})
}

// GroupByDate buckets items by the UTC calendar day of their timestamp.
func GroupByDate[T any](items []T, at func(T) time.Time) map[string][]T {
	return GroupByKey(items, func(item T) string {
		return DayKey(at(item))
	})
}

// SortedKeys returns the day keys of a date grouping in ascending order.
func SortedKeys[T any](groups map[string][]T) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Counts is a distribution that remembers the order keys were first seen in
// and encodes to a JSON object in that order.
type Counts struct {
	keys   []string
	counts map[string]int
}

func NewCounts(seed ...string) Counts {
	c := Counts{counts: make(map[string]int, len(seed))}
	for _, key := range seed {
		c = c.Add(key, 0)
	}
	return c
}

// Add increments key by n and returns the updated distribution.
func (c Counts) Add(key string, n int) Counts {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key] += n
	return c
}

func (c Counts) Get(key string) int { return c.counts[key] }

func (c Counts) Keys() []string { return append([]string(nil), c.keys...) }

func (c Counts) Len() int { return len(c.keys) }

// Sum returns the total of all counts.
func (c Counts) Sum() int {
	total := 0
	for _, key := range c.keys {
		total += c.counts[key]
	}
	return total
}

// Sorted returns a copy whose keys are ordered by less.
func (c Counts) Sorted(less func(a, b string) bool) Counts {
	keys := c.Keys()
	sort.SliceStable(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	sorted := Counts{keys: keys, counts: make(map[string]int, len(keys))}
	for _, key := range keys {
		sorted.counts[key] = c.counts[key]
	}
	return sorted
}

func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.counts[key]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Distribution counts the tokens returned by values for every item. An item
// returning several tokens increments each of them.
func Distribution[T any](items []T, values func(T) []string) Counts {
	return Fold(items, NewCounts(), func(c Counts, item T) Counts {
		for _, token := range values(item) {
			c = c.Add(token, 1)
		}
		return c
	})
}

type NumericSummary struct {
	Count   int
	Sum     float64
	Average float64
	// Mode is the most frequent value; ties go to the value seen first.
	Mode    float64
	HasMode bool
}

func Summarize(values []float64) NumericSummary {
	type tally struct {
		order []float64
		count map[float64]int
		sum   float64
	}

	t := Fold(values, tally{count: make(map[float64]int)}, func(t tally, v float64) tally {
		if _, ok := t.count[v]; !ok {
			t.order = append(t.order, v)
		}
		t.count[v]++
		t.sum += v
		return t
	})

	summary := NumericSummary{Count: len(values), Sum: t.sum}
	if summary.Count == 0 {
		return summary
	}
	summary.Average = t.sum / float64(summary.Count)

	best := 0
	for _, v := range t.order {
		if t.count[v] > best {
			best = t.count[v]
			summary.Mode = v
			summary.HasMode = true
		}
	}
	return summary
}
