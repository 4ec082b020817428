package response

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type FeedbackResponse struct {
	ID                uuid.UUID
	FormID            uuid.UUID
	RestaurantID      uuid.UUID
	CustomerVisitID   pgtype.UUID
	OverallRating     pgtype.Int4
	SubmittedAt       pgtype.Timestamptz
	SubmittedToGoogle bool
	GoogleReviewText  pgtype.Text
	CreatedAt         pgtype.Timestamptz
}
