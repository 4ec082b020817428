package response

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const columns = `id, form_id, restaurant_id, customer_visit_id, overall_rating, submitted_at, submitted_to_google, google_review_text, created_at`

const countByFormID = `-- name: CountByFormID :one
SELECT count(*) FROM feedback_responses
WHERE form_id = $1
`

func (q *Queries) CountByFormID(ctx context.Context, formID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countByFormID, formID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const create = `-- name: Create :one
INSERT INTO feedback_responses (form_id, restaurant_id, customer_visit_id, overall_rating, submitted_at, submitted_to_google, google_review_text)
VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6, $7)
RETURNING ` + columns

type CreateParams struct {
	FormID            uuid.UUID
	RestaurantID      uuid.UUID
	CustomerVisitID   pgtype.UUID
	OverallRating     pgtype.Int4
	SubmittedAt       pgtype.Timestamptz
	SubmittedToGoogle bool
	GoogleReviewText  pgtype.Text
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (FeedbackResponse, error) {
	row := q.db.QueryRow(ctx, create,
		arg.FormID,
		arg.RestaurantID,
		arg.CustomerVisitID,
		arg.OverallRating,
		arg.SubmittedAt,
		arg.SubmittedToGoogle,
		arg.GoogleReviewText,
	)
	return scanResponse(row)
}

const getByID = `-- name: GetByID :one
SELECT ` + columns + `
FROM feedback_responses
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (FeedbackResponse, error) {
	return scanResponse(q.db.QueryRow(ctx, getByID, id))
}

const listByFormID = `-- name: ListByFormID :many
SELECT ` + columns + `
FROM feedback_responses
WHERE form_id = $1
ORDER BY submitted_at ASC, id ASC
`

func (q *Queries) ListByFormID(ctx context.Context, formID uuid.UUID) ([]FeedbackResponse, error) {
	return q.list(ctx, listByFormID, formID)
}

const listByIDs = `-- name: ListByIDs :many
SELECT ` + columns + `
FROM feedback_responses
WHERE id = ANY($1::uuid[])
`

func (q *Queries) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]FeedbackResponse, error) {
	return q.list(ctx, listByIDs, ids)
}

// Missing ratings sort as the smallest value.
const listPageByFormID = `-- name: ListPageByFormID :many
SELECT ` + columns + `
FROM feedback_responses
WHERE form_id = $1
ORDER BY
    CASE WHEN $2::text = 'overallRating' AND $3::text = 'asc' THEN overall_rating END ASC NULLS FIRST,
    CASE WHEN $2::text = 'overallRating' AND $3::text = 'desc' THEN overall_rating END DESC NULLS LAST,
    CASE WHEN $2::text = 'createdAt' AND $3::text = 'asc' THEN created_at END ASC,
    CASE WHEN $2::text = 'createdAt' AND $3::text = 'desc' THEN created_at END DESC,
    CASE WHEN $3::text = 'asc' THEN submitted_at END ASC,
    CASE WHEN $3::text = 'desc' THEN submitted_at END DESC,
    id ASC
LIMIT $4 OFFSET $5
`

type ListPageByFormIDParams struct {
	FormID    uuid.UUID
	SortBy    string
	SortOrder string
	Limit     int32
	Offset    int32
}

func (q *Queries) ListPageByFormID(ctx context.Context, arg ListPageByFormIDParams) ([]FeedbackResponse, error) {
	return q.list(ctx, listPageByFormID,
		arg.FormID,
		arg.SortBy,
		arg.SortOrder,
		arg.Limit,
		arg.Offset,
	)
}

func (q *Queries) list(ctx context.Context, query string, args ...interface{}) ([]FeedbackResponse, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FeedbackResponse
	for rows.Next() {
		i, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResponse(row scanner) (FeedbackResponse, error) {
	var i FeedbackResponse
	err := row.Scan(
		&i.ID,
		&i.FormID,
		&i.RestaurantID,
		&i.CustomerVisitID,
		&i.OverallRating,
		&i.SubmittedAt,
		&i.SubmittedToGoogle,
		&i.GoogleReviewText,
		&i.CreatedAt,
	)
	return i, err
}
