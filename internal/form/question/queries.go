package question

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const columns = `id, form_id, text, description, type, required, "order", options, conditional_logic, settings, question_history, created_at, updated_at`

const create = `-- name: Create :one
INSERT INTO feedback_questions (form_id, text, description, type, required, "order", options, conditional_logic, settings, question_history)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + columns

type CreateParams struct {
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
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (FeedbackQuestion, error) {
	row := q.db.QueryRow(ctx, create,
		arg.FormID,
		arg.Text,
		arg.Description,
		arg.Type,
		arg.Required,
		arg.Order,
		arg.Options,
		arg.ConditionalLogic,
		arg.Settings,
		arg.QuestionHistory,
	)
	return scanQuestion(row)
}

const getByID = `-- name: GetByID :one
SELECT ` + columns + `
FROM feedback_questions
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (FeedbackQuestion, error) {
	return scanQuestion(q.db.QueryRow(ctx, getByID, id))
}

const listByFormID = `-- name: ListByFormID :many
SELECT ` + columns + `
FROM feedback_questions
WHERE form_id = $1
ORDER BY "order" ASC, created_at ASC
`

func (q *Queries) ListByFormID(ctx context.Context, formID uuid.UUID) ([]FeedbackQuestion, error) {
	rows, err := q.db.Query(ctx, listByFormID, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FeedbackQuestion
	for rows.Next() {
		i, err := scanQuestion(rows)
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

const listByIDs = `-- name: ListByIDs :many
SELECT ` + columns + `
FROM feedback_questions
WHERE id = ANY($1::uuid[])
`

func (q *Queries) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]FeedbackQuestion, error) {
	rows, err := q.db.Query(ctx, listByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FeedbackQuestion
	for rows.Next() {
		i, err := scanQuestion(rows)
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

func scanQuestion(row scanner) (FeedbackQuestion, error) {
	var i FeedbackQuestion
	err := row.Scan(
		&i.ID,
		&i.FormID,
		&i.Text,
		&i.Description,
		&i.Type,
		&i.Required,
		&i.Order,
		&i.Options,
		&i.ConditionalLogic,
		&i.Settings,
		&i.QuestionHistory,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
