package form

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type FeedbackForm struct {
	ID              uuid.UUID
	RestaurantID    uuid.UUID
	Name            string
	Description     pgtype.Text
	IsDefault       bool
	Active          bool
	ThankYouMessage pgtype.Text
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}
