package tenant

import (
	"context"

	"github.com/google/uuid"
)

const create = `-- name: Create :one
INSERT INTO restaurants (name)
VALUES ($1)
RETURNING id, name, created_at, updated_at
`

func (q *Queries) Create(ctx context.Context, name string) (Restaurant, error) {
	row := q.db.QueryRow(ctx, create, name)
	var i Restaurant
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const existsByID = `-- name: ExistsByID :one
SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)
`

func (q *Queries) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, existsByID, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
