package answerbuilder

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"QRFeedback/feedback-backend/internal/form/answer"
	"QRFeedback/feedback-backend/test/testdata/dbbuilder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

type Builder struct {
	t  *testing.T
	db dbbuilder.DBTX
}

func New(t *testing.T, db dbbuilder.DBTX) *Builder {
	return &Builder{t: t, db: db}
}

// Create stores value as the JSON answer payload.
func (b Builder) Create(responseID, questionID uuid.UUID, value any, createdAt time.Time) answer.FeedbackAnswer {
	encoded, err := json.Marshal(value)
	require.NoError(b.t, err)

	row, err := answer.New(b.db).Create(context.Background(), answer.CreateParams{
		ResponseID: responseID,
		QuestionID: questionID,
		Value:      encoded,
		CreatedAt:  pgtype.Timestamptz{Time: createdAt, Valid: createdAt != time.Time{}},
	})
	require.NoError(b.t, err)

	return row
}
