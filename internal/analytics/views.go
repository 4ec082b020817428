package analytics

import (
	"time"

	"QRFeedback/feedback-backend/internal/form/shared"

	"github.com/google/uuid"
)

const (
	unknownQuestionType = "unknown"
	unknownQuestionText = "Unknown question"
)

// AnnotatedAnswer is an answer listed under its response, labelled with the
// question it answers.
type AnnotatedAnswer struct {
	ID           uuid.UUID    `json:"id"`
	ResponseID   uuid.UUID    `json:"responseId"`
	QuestionID   uuid.UUID    `json:"questionId"`
	Value        shared.Value `json:"value"`
	CreatedAt    time.Time    `json:"createdAt"`
	Type         string       `json:"type"`
	QuestionText string       `json:"questionText"`
}

type ResponseView struct {
	ID            uuid.UUID         `json:"id"`
	FormID        uuid.UUID         `json:"formId"`
	RestaurantID  uuid.UUID         `json:"restaurantId"`
	OverallRating *int              `json:"overallRating"`
	SubmittedAt   time.Time         `json:"submittedAt"`
	CreatedAt     time.Time         `json:"createdAt"`
	Answers       []AnnotatedAnswer `json:"answers"`
}

// QuestionAnswerView is one answer to a question with the submission time of
// its response. FeedbackID repeats ResponseID for dashboard clients.
type QuestionAnswerView struct {
	ID          uuid.UUID    `json:"id"`
	QuestionID  uuid.UUID    `json:"questionId"`
	ResponseID  uuid.UUID    `json:"responseId"`
	FeedbackID  uuid.UUID    `json:"feedbackId"`
	Value       shared.Value `json:"value"`
	CreatedAt   time.Time    `json:"createdAt"`
	SubmittedAt time.Time    `json:"submittedAt"`
}

type QuestionInfo struct {
	ID              uuid.UUID           `json:"id"`
	Text            string              `json:"text"`
	Type            shared.QuestionType `json:"type"`
	Options         []shared.Option     `json:"options"`
	HasBeenModified bool                `json:"hasBeenModified"`
}

type DetailAnswer struct {
	ID         uuid.UUID     `json:"id"`
	ResponseID uuid.UUID     `json:"responseId"`
	QuestionID uuid.UUID     `json:"questionId"`
	Value      shared.Value  `json:"value"`
	CreatedAt  time.Time     `json:"createdAt"`
	Question   *QuestionInfo `json:"question"`
}

type FormSummary struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	ThankYouMessage string `json:"thankYouMessage"`
}

type ResponseDetail struct {
	ID                uuid.UUID      `json:"id"`
	FormID            uuid.UUID      `json:"formId"`
	RestaurantID      uuid.UUID      `json:"restaurantId"`
	CustomerVisitID   *uuid.UUID     `json:"customerVisitId"`
	OverallRating     *int           `json:"overallRating"`
	SubmittedAt       time.Time      `json:"submittedAt"`
	SubmittedToGoogle bool           `json:"submittedToGoogle"`
	GoogleReviewText  string         `json:"googleReviewText"`
	Form              *FormSummary   `json:"form"`
	Answers           []DetailAnswer `json:"answers"`
}

// ResponseViews groups answers under their responses, preserving the order
// of responses.
func ResponseViews(responses []shared.Response, questions []shared.Question, answers []shared.Answer) []ResponseView {
	lookup := NewLookup(questions, nil)

	grouped := GroupByKey(answers, func(a shared.Answer) string { return a.ResponseID.String() })

	views := make([]ResponseView, 0, len(responses))
	for _, r := range responses {
		group := grouped[r.ID.String()]
		annotated := make([]AnnotatedAnswer, 0, len(group))
		for _, a := range group {
			item := AnnotatedAnswer{
				ID:           a.ID,
				ResponseID:   a.ResponseID,
				QuestionID:   a.QuestionID,
				Value:        a.Value,
				CreatedAt:    a.CreatedAt,
				Type:         unknownQuestionType,
				QuestionText: unknownQuestionText,
			}
			if q, ok := lookup.Question(a.QuestionID); ok {
				item.Type = string(q.Type)
				item.QuestionText = q.Text
			}
			annotated = append(annotated, item)
		}

		views = append(views, ResponseView{
			ID:            r.ID,
			FormID:        r.FormID,
			RestaurantID:  r.RestaurantID,
			OverallRating: r.OverallRating,
			SubmittedAt:   r.SubmittedAt,
			CreatedAt:     r.CreatedAt,
			Answers:       annotated,
		})
	}
	return views
}

// QuestionAnswerViews keeps the order of answers.
func QuestionAnswerViews(answers []shared.Answer, responses []shared.Response) []QuestionAnswerView {
	lookup := NewLookup(nil, responses)
	points := make(map[uuid.UUID]time.Time, len(answers))
	for _, p := range lookup.Points(answers) {
		points[p.Answer.ID] = p.SubmittedAt
	}

	views := make([]QuestionAnswerView, 0, len(answers))
	for _, a := range answers {
		views = append(views, QuestionAnswerView{
			ID:          a.ID,
			QuestionID:  a.QuestionID,
			ResponseID:  a.ResponseID,
			FeedbackID:  a.ResponseID,
			Value:       a.Value,
			CreatedAt:   a.CreatedAt,
			SubmittedAt: points[a.ID],
		})
	}
	return views
}

// Detail assembles a single response. form is nil when the form no longer
// exists.
func Detail(response shared.Response, form *shared.Form, questions []shared.Question, answers []shared.Answer) ResponseDetail {
	lookup := NewLookup(questions, nil)

	detailed := make([]DetailAnswer, 0, len(answers))
	for _, a := range answers {
		item := DetailAnswer{
			ID:         a.ID,
			ResponseID: a.ResponseID,
			QuestionID: a.QuestionID,
			Value:      a.Value,
			CreatedAt:  a.CreatedAt,
		}
		if q, ok := lookup.Question(a.QuestionID); ok {
			item.Question = &QuestionInfo{
				ID:              q.ID,
				Text:            q.Text,
				Type:            q.Type,
				Options:         q.Options,
				HasBeenModified: q.HasBeenModified(),
			}
		}
		detailed = append(detailed, item)
	}

	result := ResponseDetail{
		ID:                response.ID,
		FormID:            response.FormID,
		RestaurantID:      response.RestaurantID,
		CustomerVisitID:   response.CustomerVisitID,
		OverallRating:     response.OverallRating,
		SubmittedAt:       response.SubmittedAt,
		SubmittedToGoogle: response.SubmittedToGoogle,
		GoogleReviewText:  response.GoogleReviewText,
		Answers:           detailed,
	}
	if form != nil {
		result.Form = &FormSummary{
			Name:            form.Name,
			Description:     form.Description,
			ThankYouMessage: form.ThankYouMessage,
		}
	}
	return result
}
