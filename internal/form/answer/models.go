package answer

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type FeedbackAnswer struct {
	ID         uuid.UUID
	ResponseID uuid.UUID
	QuestionID uuid.UUID
	Value      []byte
	CreatedAt  pgtype.Timestamptz
}
