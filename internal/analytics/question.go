package analytics

import (
	"time"

	"QRFeedback/feedback-backend/internal/form/shared"

	"github.com/google/uuid"
)

type QuestionAnalytics struct {
	QuestionID          uuid.UUID             `json:"questionId"`
	QuestionText        string                `json:"questionText"`
	QuestionType        shared.QuestionType   `json:"questionType"`
	HasBeenModified     bool                  `json:"hasBeenModified"`
	ModificationHistory []shared.HistoryEntry `json:"modificationHistory"`
	FirstResponseDate   *time.Time            `json:"firstResponseDate"`
	LastResponseDate    *time.Time            `json:"lastResponseDate"`
	ResponseCount       int                   `json:"responseCount"`
	Data                any                   `json:"data"`
	TrendData           any                   `json:"trendData"`
}

// BuildQuestionAnalytics summarizes every answer given to one question.
// responses must contain the responses the answers belong to; answers whose
// response is missing are dated by their creation time.
func BuildQuestionAnalytics(question shared.Question, responses []shared.Response, answers []shared.Answer) QuestionAnalytics {
	points := NewLookup([]shared.Question{question}, responses).Points(answers)

	history := question.History
	if history == nil {
		history = []shared.HistoryEntry{}
	}

	result := QuestionAnalytics{
		QuestionID:          question.ID,
		QuestionText:        question.Text,
		QuestionType:        question.Type,
		HasBeenModified:     question.HasBeenModified(),
		ModificationHistory: history,
		ResponseCount:       len(points),
		Data:                Analyze(question, points),
		TrendData:           Trend(question, points),
	}

	if len(points) > 0 {
		first := points[0].SubmittedAt
		last := points[len(points)-1].SubmittedAt
		result.FirstResponseDate = &first
		result.LastResponseDate = &last
	}
	return result
}
