package question

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type FeedbackQuestion struct {
	ID               uuid.UUID
	FormID           uuid.UUID
	Text             string
	Description      pgtype.Text
	Type             string
	Required         bool
	Order            int32
	Options          []byte
	ConditionalLogic []byte
	Settings         []byte
	QuestionHistory  []byte
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}
