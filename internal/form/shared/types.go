package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiplechoice"
	QuestionTypeCheckbox       QuestionType = "checkbox"
	QuestionTypeDropdown       QuestionType = "dropdown"
)

// IsChoice reports whether answers of this type are option tokens.
func (t QuestionType) IsChoice() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeCheckbox, QuestionTypeDropdown:
		return true
	}
	return false
}

// Option is a declared choice. Stored options are either plain strings or
// {value, label} objects; both decode into this type.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

func (o *Option) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		o.Value = plain
		o.Label = ""
		return nil
	}

	var object struct {
		Value any    `json:"value"`
		Label string `json:"label"`
	}
	o.Value = ""
	o.Label = ""
	if err := json.Unmarshal(data, &object); err != nil {
		return nil
	}

	if object.Value != nil {
		if token, ok := NewValue(object.Value).Option(); ok {
			o.Value = token
		}
	}
	o.Label = object.Label
	return nil
}

// HistoryEntry records the question text as it was before an edit.
type HistoryEntry struct {
	Text      string    `json:"text"`
	ChangedAt time.Time `json:"changedAt"`
}

type Settings map[string]any

// AllowOther reports whether customers may type a free-text "other" choice.
func (s Settings) AllowOther() bool {
	allow, ok := s["allowOther"].(bool)
	return ok && allow
}

type Form struct {
	ID              uuid.UUID `json:"id"`
	RestaurantID    uuid.UUID `json:"restaurantId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	IsDefault       bool      `json:"isDefault"`
	Active          bool      `json:"active"`
	ThankYouMessage string    `json:"thankYouMessage"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Question struct {
	ID          uuid.UUID      `json:"id"`
	FormID      uuid.UUID      `json:"formId"`
	Text        string         `json:"text"`
	Description string         `json:"description"`
	Type        QuestionType   `json:"type"`
	Required    bool           `json:"required"`
	Order       int32          `json:"order"`
	Options     []Option       `json:"options"`
	Settings    Settings       `json:"settings"`
	History     []HistoryEntry `json:"questionHistory"`
}

func (q Question) HasBeenModified() bool {
	return len(q.History) > 0
}

// OptionValues returns the declared option tokens, skipping options without a value.
func (q Question) OptionValues() []string {
	values := make([]string, 0, len(q.Options))
	for _, option := range q.Options {
		if option.Value == "" {
			continue
		}
		values = append(values, option.Value)
	}
	return values
}

type Response struct {
	ID                uuid.UUID  `json:"id"`
	FormID            uuid.UUID  `json:"formId"`
	RestaurantID      uuid.UUID  `json:"restaurantId"`
	CustomerVisitID   *uuid.UUID `json:"customerVisitId"`
	OverallRating     *int       `json:"overallRating"`
	SubmittedAt       time.Time  `json:"submittedAt"`
	SubmittedToGoogle bool       `json:"submittedToGoogle"`
	GoogleReviewText  string     `json:"googleReviewText,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Rated reports whether the response carries an overall rating.
func (r Response) Rated() bool {
	return r.OverallRating != nil
}

type Answer struct {
	ID         uuid.UUID `json:"id"`
	ResponseID uuid.UUID `json:"responseId"`
	QuestionID uuid.UUID `json:"questionId"`
	Value      Value     `json:"value"`
	CreatedAt  time.Time `json:"createdAt"`
}
