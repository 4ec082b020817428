package form

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const create = `-- name: Create :one
INSERT INTO feedback_forms (restaurant_id, name, description, is_default, active, thank_you_message)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, restaurant_id, name, description, is_default, active, thank_you_message, created_at, updated_at
`

type CreateParams struct {
	RestaurantID    uuid.UUID
	Name            string
	Description     pgtype.Text
	IsDefault       bool
	Active          bool
	ThankYouMessage pgtype.Text
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (FeedbackForm, error) {
	row := q.db.QueryRow(ctx, create,
		arg.RestaurantID,
		arg.Name,
		arg.Description,
		arg.IsDefault,
		arg.Active,
		arg.ThankYouMessage,
	)
	var i FeedbackForm
	err := row.Scan(
		&i.ID,
		&i.RestaurantID,
		&i.Name,
		&i.Description,
		&i.IsDefault,
		&i.Active,
		&i.ThankYouMessage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getByID = `-- name: GetByID :one
SELECT id, restaurant_id, name, description, is_default, active, thank_you_message, created_at, updated_at
FROM feedback_forms
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (FeedbackForm, error) {
	row := q.db.QueryRow(ctx, getByID, id)
	var i FeedbackForm
	err := row.Scan(
		&i.ID,
		&i.RestaurantID,
		&i.Name,
		&i.Description,
		&i.IsDefault,
		&i.Active,
		&i.ThankYouMessage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
