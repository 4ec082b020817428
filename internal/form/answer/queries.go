package answer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const columns = `id, response_id, question_id, value, created_at`

const countByQuestionID = `-- name: CountByQuestionID :one
SELECT count(*) FROM feedback_answers
WHERE question_id = $1
`

func (q *Queries) CountByQuestionID(ctx context.Context, questionID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countByQuestionID, questionID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const create = `-- name: Create :one
INSERT INTO feedback_answers (response_id, question_id, value, created_at)
VALUES ($1, $2, $3, COALESCE($4, now()))
RETURNING ` + columns

type CreateParams struct {
	ResponseID uuid.UUID
	QuestionID uuid.UUID
	Value      []byte
	CreatedAt  pgtype.Timestamptz
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (FeedbackAnswer, error) {
	row := q.db.QueryRow(ctx, create,
		arg.ResponseID,
		arg.QuestionID,
		arg.Value,
		arg.CreatedAt,
	)
	return scanAnswer(row)
}

const listByResponseID = `-- name: ListByResponseID :many
SELECT ` + columns + `
FROM feedback_answers
WHERE response_id = $1
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListByResponseID(ctx context.Context, responseID uuid.UUID) ([]FeedbackAnswer, error) {
	return q.list(ctx, listByResponseID, responseID)
}

const listByResponseIDs = `-- name: ListByResponseIDs :many
SELECT ` + columns + `
FROM feedback_answers
WHERE response_id = ANY($1::uuid[])
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListByResponseIDs(ctx context.Context, responseIDs []uuid.UUID) ([]FeedbackAnswer, error) {
	return q.list(ctx, listByResponseIDs, responseIDs)
}

const listByQuestionID = `-- name: ListByQuestionID :many
SELECT ` + columns + `
FROM feedback_answers
WHERE question_id = $1
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]FeedbackAnswer, error) {
	return q.list(ctx, listByQuestionID, questionID)
}

const listPageByQuestionID = `-- name: ListPageByQuestionID :many
SELECT ` + columns + `
FROM feedback_answers
WHERE question_id = $1
ORDER BY
    CASE WHEN $2::text = 'asc' THEN created_at END ASC,
    CASE WHEN $2::text = 'desc' THEN created_at END DESC,
    id ASC
LIMIT $3 OFFSET $4
`

type ListPageByQuestionIDParams struct {
	QuestionID uuid.UUID
	SortOrder  string
	Limit      int32
	Offset     int32
}

func (q *Queries) ListPageByQuestionID(ctx context.Context, arg ListPageByQuestionIDParams) ([]FeedbackAnswer, error) {
	return q.list(ctx, listPageByQuestionID, arg.QuestionID, arg.SortOrder, arg.Limit, arg.Offset)
}

func (q *Queries) list(ctx context.Context, query string, args ...interface{}) ([]FeedbackAnswer, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FeedbackAnswer
	for rows.Next() {
		i, err := scanAnswer(rows)
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

func scanAnswer(row scanner) (FeedbackAnswer, error) {
	var i FeedbackAnswer
	err := row.Scan(
		&i.ID,
		&i.ResponseID,
		&i.QuestionID,
		&i.Value,
		&i.CreatedAt,
	)
	return i, err
}
