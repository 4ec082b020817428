package responsebuilder

import (
	"context"
	"testing"
	"time"

	"QRFeedback/feedback-backend/internal/form/response"
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

// Create inserts a response. A zero rating leaves overall_rating NULL.
func (b Builder) Create(formID, restaurantID uuid.UUID, rating int, submittedAt time.Time) response.FeedbackResponse {
	row, err := response.New(b.db).Create(context.Background(), response.CreateParams{
		FormID:            formID,
		RestaurantID:      restaurantID,
		CustomerVisitID:   pgtype.UUID{Valid: false},
		OverallRating:     pgtype.Int4{Int32: int32(rating), Valid: rating > 0},
		SubmittedAt:       pgtype.Timestamptz{Time: submittedAt, Valid: true},
		SubmittedToGoogle: false,
		GoogleReviewText:  pgtype.Text{Valid: false},
	})
	require.NoError(b.t, err)

	return row
}
