package questionbuilder

import (
	"context"
	"encoding/json"
	"testing"

	"QRFeedback/feedback-backend/internal/form/question"
	"QRFeedback/feedback-backend/internal/form/shared"
	"QRFeedback/feedback-backend/test/testdata"
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

// Create inserts a question of the given type. options are stored as plain
// option strings.
func (b Builder) Create(formID uuid.UUID, questionType shared.QuestionType, order int32, options ...string) question.FeedbackQuestion {
	encoded, err := json.Marshal(append([]string{}, options...))
	require.NoError(b.t, err)

	row, err := question.New(b.db).Create(context.Background(), question.CreateParams{
		FormID:           formID,
		Text:             testdata.RandomQuestion(),
		Description:      pgtype.Text{Valid: false},
		Type:             string(questionType),
		Order:            order,
		Options:          encoded,
		ConditionalLogic: []byte("{}"),
		Settings:         []byte("{}"),
		QuestionHistory:  []byte("[]"),
	})
	require.NoError(b.t, err)

	return row
}
