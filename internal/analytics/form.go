package analytics

import (
	"sort"
	"time"

	"QRFeedback/feedback-backend/internal/form/shared"

	"github.com/google/uuid"
)

const (
	minRating = 1
	maxRating = 5
)

type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// NPS splits rated responses on a 1-5 scale: 1-3 detractors, 4 passives,
// 5 promoters.
type NPS struct {
	Detractors int `json:"detractors"`
	Passives   int `json:"passives"`
	Promoters  int `json:"promoters"`
	Total      int `json:"total"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type QuestionSummary struct {
	QuestionID      uuid.UUID           `json:"questionId"`
	Text            string              `json:"text"`
	Type            shared.QuestionType `json:"type"`
	ResponseCount   int                 `json:"responseCount"`
	HasBeenModified bool                `json:"hasBeenModified"`
	Data            any                 `json:"data"`
}

type FormAnalytics struct {
	TotalResponses      int               `json:"totalResponses"`
	FirstResponseDate   *time.Time        `json:"firstResponseDate"`
	LastResponseDate    *time.Time        `json:"lastResponseDate"`
	AverageRating       float64           `json:"averageRating"`
	RatingResponseCount int               `json:"ratingResponseCount"`
	RatingDistribution  []RatingBucket    `json:"ratingDistribution"`
	NPSData             NPS               `json:"npsData"`
	ResponseTrend       []DayCount        `json:"responseTrend"`
	QuestionAnalytics   []QuestionSummary `json:"questionAnalytics"`
	TimelineData        Timeline          `json:"timelineData"`
}

// Lookup holds the per-request indexes built once from the fetched rows.
type Lookup struct {
	submittedAt map[uuid.UUID]time.Time
	questions   map[uuid.UUID]shared.Question
}

func NewLookup(questions []shared.Question, responses []shared.Response) Lookup {
	l := Lookup{
		submittedAt: make(map[uuid.UUID]time.Time, len(responses)),
		questions:   make(map[uuid.UUID]shared.Question, len(questions)),
	}
	for _, r := range responses {
		l.submittedAt[r.ID] = r.SubmittedAt
	}
	for _, q := range questions {
		l.questions[q.ID] = q
	}
	return l
}

func (l Lookup) Question(id uuid.UUID) (shared.Question, bool) {
	q, ok := l.questions[id]
	return q, ok
}

// Points annotates answers with their response's submission time, falling
// back to the answer's own creation time, and orders them by that time.
func (l Lookup) Points(answers []shared.Answer) []Point {
	points := make([]Point, len(answers))
	for i, a := range answers {
		at, ok := l.submittedAt[a.ResponseID]
		if !ok {
			at = a.CreatedAt
		}
		points[i] = Point{Answer: a, SubmittedAt: at}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].SubmittedAt.Before(points[j].SubmittedAt)
	})
	return points
}

// BuildFormAnalytics derives the analytics document of a form from its
// already fetched questions, responses and answers.
func BuildFormAnalytics(questions []shared.Question, responses []shared.Response, answers []shared.Answer) FormAnalytics {
	lookup := NewLookup(questions, responses)
	ratings := overallRatings(responses)

	result := FormAnalytics{
		TotalResponses:      len(responses),
		RatingResponseCount: len(ratings),
		RatingDistribution:  ratingDistribution(ratings),
		NPSData:             segment(ratings),
		ResponseTrend:       responseTrend(responses),
		QuestionAnalytics:   questionSummaries(lookup, questions, answers),
		TimelineData:        BuildTimeline(responses),
	}

	first, last, ok := submissionRange(responses)
	if ok {
		result.FirstResponseDate = &first
		result.LastResponseDate = &last
	}

	result.AverageRating = Summarize(ratings).Average
	return result
}

func overallRatings(responses []shared.Response) []float64 {
	ratings := make([]float64, 0, len(responses))
	for _, r := range responses {
		if r.Rated() {
			ratings = append(ratings, float64(*r.OverallRating))
		}
	}
	return ratings
}

func ratingDistribution(ratings []float64) []RatingBucket {
	buckets := make([]RatingBucket, 0, maxRating-minRating+1)
	for rating := minRating; rating <= maxRating; rating++ {
		buckets = append(buckets, RatingBucket{Rating: rating})
	}
	for _, r := range ratings {
		index := int(r) - minRating
		if index >= 0 && index < len(buckets) {
			buckets[index].Count++
		}
	}
	return buckets
}

func segment(ratings []float64) NPS {
	return Fold(ratings, NPS{}, func(n NPS, r float64) NPS {
		switch {
		case r <= 3:
			n.Detractors++
		case r == 4:
			n.Passives++
		default:
			n.Promoters++
		}
		n.Total++
		return n
	})
}

func responseTrend(responses []shared.Response) []DayCount {
	byDay := GroupByDate(responses, func(r shared.Response) time.Time { return r.SubmittedAt })
	trend := make([]DayCount, 0, len(byDay))
	for _, date := range SortedKeys(byDay) {
		trend = append(trend, DayCount{Date: date, Count: len(byDay[date])})
	}
	return trend
}

func submissionRange(responses []shared.Response) (time.Time, time.Time, bool) {
	if len(responses) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last := responses[0].SubmittedAt, responses[0].SubmittedAt
	for _, r := range responses[1:] {
		if r.SubmittedAt.Before(first) {
			first = r.SubmittedAt
		}
		if r.SubmittedAt.After(last) {
			last = r.SubmittedAt
		}
	}
	return first, last, true
}

func questionSummaries(lookup Lookup, questions []shared.Question, answers []shared.Answer) []QuestionSummary {
	byQuestion := GroupByKey(answers, func(a shared.Answer) uuid.UUID { return a.QuestionID })

	summaries := make([]QuestionSummary, 0, len(questions))
	for _, q := range questions {
		points := lookup.Points(byQuestion[q.ID])
		summaries = append(summaries, QuestionSummary{
			QuestionID:      q.ID,
			Text:            q.Text,
			Type:            q.Type,
			ResponseCount:   len(points),
			HasBeenModified: q.HasBeenModified(),
			Data:            Analyze(q, points),
		})
	}
	return summaries
}
