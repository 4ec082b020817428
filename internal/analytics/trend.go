package analytics

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"QRFeedback/feedback-backend/internal/form/shared"
)

type RatingTrendPoint struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// reservedOptionPrefix renames options that would shadow the date or count key.
const reservedOptionPrefix = "option:"

// ChoiceTrendPoint encodes its option counts as keys next to date and count.
type ChoiceTrendPoint struct {
	Date    string
	Count   int
	Options Counts
}

func (p ChoiceTrendPoint) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	date, err := json.Marshal(p.Date)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"date":`)
	buf.Write(date)
	buf.WriteString(`,"count":`)
	buf.WriteString(strconv.Itoa(p.Count))

	options, err := flatOptions(p.Options).MarshalJSON()
	if err != nil {
		return nil, err
	}
	if inner := options[1 : len(options)-1]; len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func flatOptions(options Counts) Counts {
	flat := NewCounts()
	for _, key := range options.Keys() {
		name := key
		if key == "date" || key == "count" {
			name = reservedOptionPrefix + key
		}
		flat = flat.Add(name, options.Get(key))
	}
	return flat
}

type TextTrendPoint struct {
	Date          string `json:"date"`
	Count         int    `json:"count"`
	AverageLength int    `json:"averageLength"`
}

// Trend returns the daily series for a question, ascending by date. Question
// types without a trend reducer yield an empty series.
func Trend(question shared.Question, points []Point) any {
	switch {
	case question.Type == shared.QuestionTypeRating:
		return RatingTrend(points)
	case question.Type.IsChoice():
		return ChoiceTrend(points)
	case question.Type == shared.QuestionTypeText:
		return TextTrend(points)
	}
	return []struct{}{}
}

func RatingTrend(points []Point) []RatingTrendPoint {
	return dailySeries(points, func(date string, day []Point) RatingTrendPoint {
		summary := Summarize(numericValues(day))
		return RatingTrendPoint{Date: date, Count: len(day), Average: summary.Average}
	})
}

func ChoiceTrend(points []Point) []ChoiceTrendPoint {
	return dailySeries(points, func(date string, day []Point) ChoiceTrendPoint {
		options := Distribution(day, func(p Point) []string {
			tokens, _ := choiceTokens(p.Answer.Value)
			return tokens
		})
		return ChoiceTrendPoint{Date: date, Count: len(day), Options: options}
	})
}

func TextTrend(points []Point) []TextTrendPoint {
	return dailySeries(points, func(date string, day []Point) TextTrendPoint {
		responses := textResponses(day)
		texts := make([]string, len(responses))
		for i, r := range responses {
			texts[i] = r.Text
		}
		return TextTrendPoint{Date: date, Count: len(texts), AverageLength: averageLength(texts)}
	})
}

func dailySeries[E any](points []Point, reduce func(date string, day []Point) E) []E {
	byDay := GroupByDate(points, func(p Point) time.Time { return p.SubmittedAt })
	series := make([]E, 0, len(byDay))
	for _, date := range SortedKeys(byDay) {
		series = append(series, reduce(date, byDay[date]))
	}
	return series
}
