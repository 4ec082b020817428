package analytics

import (
	"sort"
	"strconv"
	"time"

	"QRFeedback/feedback-backend/internal/form/shared"
)

// Placeholder completion rates per period. Completion is not tracked yet.
// TODO: derive from form views once view tracking lands.
const (
	weekCompletionRate    = 92.5
	monthCompletionRate   = 88.1
	quarterCompletionRate = 90.3
	yearCompletionRate    = 89.7
)

type TimelinePoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type TimelineRollup struct {
	Responses []TimelinePoint `json:"responses"`
	// AverageRating is taken over every response of the form, not only the
	// ones inside the period.
	AverageRating  float64 `json:"averageRating"`
	CompletionRate float64 `json:"completionRate"`
}

type Timeline struct {
	Week    TimelineRollup `json:"week"`
	Month   TimelineRollup `json:"month"`
	Quarter TimelineRollup `json:"quarter"`
	Year    TimelineRollup `json:"year"`
}

type periodLabel struct {
	label func(time.Time) string
	rank  func(string) int
}

var (
	weekdayOrder = map[string]int{"Sun": 0, "Mon": 1, "Tue": 2, "Wed": 3, "Thu": 4, "Fri": 5, "Sat": 6}
	monthOrder   = map[string]int{
		"Jan": 0, "Feb": 1, "Mar": 2, "Apr": 3, "May": 4, "Jun": 5,
		"Jul": 6, "Aug": 7, "Sep": 8, "Oct": 9, "Nov": 10, "Dec": 11,
	}

	byWeekday = periodLabel{
		label: func(t time.Time) string { return t.Weekday().String()[:3] },
		rank:  func(name string) int { return weekdayOrder[name] },
	}
	byDayOfMonth = periodLabel{
		label: func(t time.Time) string { return strconv.Itoa(t.Day()) },
		rank: func(name string) int {
			day, _ := strconv.Atoi(name)
			return day
		},
	}
	byMonth = periodLabel{
		label: func(t time.Time) string { return t.Month().String()[:3] },
		rank:  func(name string) int { return monthOrder[name] },
	}
)

// BuildTimeline rolls responses up by weekday (week), day of month (month)
// and month name (quarter, year), using UTC submission times.
func BuildTimeline(responses []shared.Response) Timeline {
	average := averageOverAll(responses)
	return Timeline{
		Week:    rollup(responses, byWeekday, average, weekCompletionRate),
		Month:   rollup(responses, byDayOfMonth, average, monthCompletionRate),
		Quarter: rollup(responses, byMonth, average, quarterCompletionRate),
		Year:    rollup(responses, byMonth, average, yearCompletionRate),
	}
}

func rollup(responses []shared.Response, period periodLabel, average, completion float64) TimelineRollup {
	counts := Distribution(responses, func(r shared.Response) []string {
		return []string{period.label(r.SubmittedAt.UTC())}
	})

	names := counts.Keys()
	sort.SliceStable(names, func(i, j int) bool {
		return period.rank(names[i]) < period.rank(names[j])
	})

	points := make([]TimelinePoint, len(names))
	for i, name := range names {
		points[i] = TimelinePoint{Name: name, Value: counts.Get(name)}
	}

	return TimelineRollup{
		Responses:      points,
		AverageRating:  average,
		CompletionRate: completion,
	}
}

// averageOverAll divides the rating sum by every response, rated or not.
func averageOverAll(responses []shared.Response) float64 {
	if len(responses) == 0 {
		return 0
	}
	sum := 0
	for _, r := range responses {
		if r.OverallRating != nil {
			sum += *r.OverallRating
		}
	}
	return float64(sum) / float64(len(responses))
}
