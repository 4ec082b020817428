package analytics

import (
	"html"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"QRFeedback/feedback-backend/internal/form/shared"

	"github.com/microcosm-cc/bluemonday"
)

const (
	recentRatingLimit = 5
	commonWordLimit   = 20
	minWordLength     = 4
)

// Point is an answer annotated with the submission time of its response.
type Point struct {
	Answer      shared.Answer
	SubmittedAt time.Time
}

type RecentRating struct {
	Value shared.Value `json:"value"`
	Date  time.Time    `json:"date"`
}

type RatingSummary struct {
	Total         int            `json:"total"`
	Average       float64        `json:"average"`
	Mode          *float64       `json:"mode,omitempty"`
	Distribution  Counts         `json:"distribution"`
	RecentRatings []RecentRating `json:"recentRatings,omitempty"`
}

type ChoiceSummary struct {
	Total          int      `json:"total"`
	Distribution   Counts   `json:"distribution"`
	OtherResponses []string `json:"otherResponses"`
}

type TextResponse struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

type WordCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type TextSummary struct {
	Total         int            `json:"total"`
	Responses     []TextResponse `json:"responses"`
	AverageLength int            `json:"averageLength"`
	ResponseRate  float64        `json:"responseRate"`
	CommonWords   []WordCount    `json:"commonWords"`
}

type RawResponse struct {
	Value shared.Value `json:"value"`
	Date  time.Time    `json:"date"`
}

type RawSummary struct {
	Total     int           `json:"total"`
	Responses []RawResponse `json:"responses"`
}

// Analyze summarizes the answers of one question. The question type picks the
// analyzer; values that do not fit it are skipped.
func Analyze(question shared.Question, points []Point) any {
	switch {
	case question.Type == shared.QuestionTypeRating:
		return AnalyzeRating(points)
	case question.Type.IsChoice():
		return AnalyzeChoice(question, points)
	case question.Type == shared.QuestionTypeText:
		return AnalyzeText(points)
	}
	return AnalyzeRaw(points)
}

func AnalyzeRating(points []Point) RatingSummary {
	values := numericValues(points)
	if len(values) == 0 {
		return RatingSummary{Distribution: NewCounts()}
	}

	summary := Summarize(values)
	mode := summary.Mode

	distribution := Distribution(values, func(v float64) []string {
		return []string{shared.FormatNumber(v)}
	}).Sorted(numericLess)

	start := len(points) - recentRatingLimit
	if start < 0 {
		start = 0
	}
	recent := make([]RecentRating, 0, len(points)-start)
	for i := len(points) - 1; i >= start; i-- {
		recent = append(recent, RecentRating{
			Value: points[i].Answer.Value,
			Date:  points[i].SubmittedAt,
		})
	}

	return RatingSummary{
		Total:         summary.Count,
		Average:       summary.Average,
		Mode:          &mode,
		Distribution:  distribution,
		RecentRatings: recent,
	}
}

func AnalyzeChoice(question shared.Question, points []Point) ChoiceSummary {
	distribution := NewCounts(question.OptionValues()...)
	total := 0
	for _, point := range points {
		tokens, ok := choiceTokens(point.Answer.Value)
		if !ok {
			continue
		}
		total++
		for _, token := range tokens {
			distribution = distribution.Add(token, 1)
		}
	}

	others := make([]string, 0)
	if question.Settings.AllowOther() {
		for _, point := range points {
			if other, ok := point.Answer.Value.Other(); ok {
				others = append(others, other)
			}
		}
	}

	return ChoiceSummary{
		Total:          total,
		Distribution:   distribution,
		OtherResponses: others,
	}
}

func AnalyzeText(points []Point) TextSummary {
	responses := textResponses(points)
	if len(responses) == 0 {
		return TextSummary{
			Responses:   []TextResponse{},
			CommonWords: []WordCount{},
		}
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Date.After(responses[j].Date)
	})

	texts := make([]string, len(responses))
	for i, r := range responses {
		texts[i] = r.Text
	}

	return TextSummary{
		Total:         len(responses),
		Responses:     responses,
		AverageLength: averageLength(texts),
		ResponseRate:  float64(len(responses)) / float64(len(points)) * 100,
		CommonWords:   CommonWords(texts),
	}
}

func AnalyzeRaw(points []Point) RawSummary {
	responses := make([]RawResponse, len(points))
	for i, point := range points {
		responses[i] = RawResponse{Value: point.Answer.Value, Date: point.SubmittedAt}
	}
	return RawSummary{Total: len(points), Responses: responses}
}

var wordPunctuation = strings.NewReplacer(
	".", "", ",", "", "?", "", "!", "", ";", "", ":", "",
	"(", "", ")", "", `"`, "", "'", "", "-", "", "_", "",
)

// CommonWords counts words longer than three characters across texts and
// returns the ones used more than once, most frequent first.
func CommonWords(texts []string) []WordCount {
	counts := NewCounts()
	for _, text := range texts {
		cleaned := wordPunctuation.Replace(strings.ToLower(text))
		for _, word := range strings.Fields(cleaned) {
			if utf8.RuneCountInString(word) < minWordLength {
				continue
			}
			counts = counts.Add(word, 1)
		}
	}

	words := make([]WordCount, 0)
	for _, word := range counts.Keys() {
		if counts.Get(word) > 1 {
			words = append(words, WordCount{Text: word, Count: counts.Get(word)})
		}
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})

	if len(words) > commonWordLimit {
		words = words[:commonWordLimit]
	}
	return words
}

func numericValues(points []Point) []float64 {
	values := make([]float64, 0, len(points))
	for _, point := range points {
		if v, ok := point.Answer.Value.Number(); ok {
			values = append(values, v)
		}
	}
	return values
}

// choiceTokens returns the selected options of a value. ok is false when the
// value selects nothing and must not count toward the total.
func choiceTokens(v shared.Value) ([]string, bool) {
	if selections, ok := v.Selections(); ok {
		return selections, true
	}
	if token, ok := v.Option(); ok {
		return []string{token}, true
	}
	return nil, false
}

// markup strips every tag from customer text.
var markup = bluemonday.StrictPolicy()

func textResponses(points []Point) []TextResponse {
	responses := make([]TextResponse, 0, len(points))
	for _, point := range points {
		text, ok := point.Answer.Value.Text()
		if !ok {
			continue
		}
		if text = plainText(text); strings.TrimSpace(text) == "" {
			continue
		}
		responses = append(responses, TextResponse{Text: text, Date: point.SubmittedAt})
	}
	return responses
}

func plainText(text string) string {
	return html.UnescapeString(markup.Sanitize(text))
}

func averageLength(texts []string) int {
	if len(texts) == 0 {
		return 0
	}
	total := 0
	for _, text := range texts {
		total += utf8.RuneCountInString(text)
	}
	return int(math.Round(float64(total) / float64(len(texts))))
}

func numericLess(a, b string) bool {
	x, errX := strconv.ParseFloat(a, 64)
	y, errY := strconv.ParseFloat(b, 64)
	if errX != nil || errY != nil {
		return a < b
	}
	return x < y
}
