package restaurantbuilder

import (
	"context"
	"testing"

	"QRFeedback/feedback-backend/internal/tenant"
	"QRFeedback/feedback-backend/internal/user"
	"QRFeedback/feedback-backend/test/testdata"
	"QRFeedback/feedback-backend/test/testdata/dbbuilder"

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

func (b Builder) Create() tenant.Restaurant {
	restaurant, err := tenant.New(b.db).Create(context.Background(), testdata.RandomRestaurantName())
	require.NoError(b.t, err)
	return restaurant
}

// CreateWithAdmin creates a restaurant and an administrator bound to it.
func (b Builder) CreateWithAdmin() (tenant.Restaurant, user.User) {
	restaurant := b.Create()

	admin, err := user.New(b.db).Create(context.Background(), user.CreateParams{
		RestaurantID: restaurant.ID,
		Email:        testdata.RandomEmail(),
		Name:         pgtype.Text{String: testdata.RandomName(), Valid: true},
		Role:         user.RoleAdmin,
	})
	require.NoError(b.t, err)

	return restaurant, admin
}
