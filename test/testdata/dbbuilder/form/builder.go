package formbuilder

import (
	"context"
	"testing"

	"QRFeedback/feedback-backend/internal/form"
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

func (b Builder) Queries() *form.Queries {
	return form.New(b.db)
}

func (b Builder) Create(restaurantID uuid.UUID, opts ...Option) form.FeedbackForm {
	p := &FactoryParams{
		Name:            testdata.RandomName(),
		Description:     testdata.RandomDescription(),
		Active:          true,
		ThankYouMessage: testdata.RandomDescription(),
	}
	for _, opt := range opts {
		opt(p)
	}

	row, err := b.Queries().Create(context.Background(), form.CreateParams{
		RestaurantID:    restaurantID,
		Name:            p.Name,
		Description:     pgtype.Text{String: p.Description, Valid: p.Description != ""},
		IsDefault:       p.IsDefault,
		Active:          p.Active,
		ThankYouMessage: pgtype.Text{String: p.ThankYouMessage, Valid: p.ThankYouMessage != ""},
	})
	require.NoError(b.t, err)

	return row
}
