//go:build integration

package analytics_test

import (
	"context"
	"testing"
	"time"

	"QRFeedback/feedback-backend/internal"
	"QRFeedback/feedback-backend/internal/analytics"
	"QRFeedback/feedback-backend/internal/export"
	"QRFeedback/feedback-backend/internal/form"
	"QRFeedback/feedback-backend/internal/form/answer"
	"QRFeedback/feedback-backend/internal/form/question"
	"QRFeedback/feedback-backend/internal/form/response"
	"QRFeedback/feedback-backend/internal/form/shared"
	"QRFeedback/feedback-backend/internal/tenant"
	"QRFeedback/feedback-backend/test/testdata"
	answerbuilder "QRFeedback/feedback-backend/test/testdata/dbbuilder/answer"
	formbuilder "QRFeedback/feedback-backend/test/testdata/dbbuilder/form"
	questionbuilder "QRFeedback/feedback-backend/test/testdata/dbbuilder/question"
	responsebuilder "QRFeedback/feedback-backend/test/testdata/dbbuilder/response"
	restaurantbuilder "QRFeedback/feedback-backend/test/testdata/dbbuilder/restaurant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_Postgres(t *testing.T) {
	db := testdata.SetupPostgres(t)
	logger := zap.NewNop()

	restaurant, admin := restaurantbuilder.New(t, db).CreateWithAdmin()
	_, outsider := restaurantbuilder.New(t, db).CreateWithAdmin()

	feedbackForm := formbuilder.New(t, db).Create(restaurant.ID, formbuilder.WithName("Dinner"))
	rating := questionbuilder.New(t, db).Create(feedbackForm.ID, shared.QuestionTypeRating, 1)
	choice := questionbuilder.New(t, db).Create(feedbackForm.ID, shared.QuestionTypeMultipleChoice, 2, "Food", "Service")

	day := time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC)
	responses := responsebuilder.New(t, db)
	answers := answerbuilder.New(t, db)
	first := responses.Create(feedbackForm.ID, restaurant.ID, 5, day)
	second := responses.Create(feedbackForm.ID, restaurant.ID, 3, day.Add(24*time.Hour))
	unrated := responses.Create(feedbackForm.ID, restaurant.ID, 0, day.Add(48*time.Hour))

	answers.Create(first.ID, rating.ID, 5, day)
	answers.Create(first.ID, choice.ID, "Food", day)
	answers.Create(second.ID, rating.ID, 3, day.Add(24*time.Hour))
	answers.Create(second.ID, choice.ID, "Service", day.Add(24*time.Hour))
	answers.Create(unrated.ID, choice.ID, "Food", day.Add(48*time.Hour))

	service := analytics.NewService(logger,
		form.NewService(logger, db),
		question.NewService(logger, db),
		response.NewService(logger, db),
		answer.NewService(logger, db),
		tenant.NewGuard(logger),
		0,
	)

	ctx := context.WithValue(context.Background(), internal.UserContextKey, &admin)
	outsiderCtx := context.WithValue(context.Background(), internal.UserContextKey, &outsider)

	t.Run("Should aggregate the stored form", func(t *testing.T) {
		result, err := service.FormAnalytics(ctx, feedbackForm.ID)
		require.NoError(t, err)
		require.Equal(t, 3, result.TotalResponses)
		require.Equal(t, 2, result.RatingResponseCount)
		require.InDelta(t, 4.0, result.AverageRating, 1e-9)
		require.Len(t, result.QuestionAnalytics, 2)
	})

	t.Run("Should page responses by rating", func(t *testing.T) {
		views, total, err := service.FormResponses(ctx, feedbackForm.ID, response.PageRequest{
			SortBy: "overallRating", SortOrder: "desc", Page: 1, Limit: 2,
		})
		require.NoError(t, err)
		require.Equal(t, int64(3), total)
		require.Len(t, views, 2)
		require.Equal(t, first.ID, views[0].ID)
		require.Equal(t, second.ID, views[1].ID)
	})

	t.Run("Should summarize a choice question", func(t *testing.T) {
		result, err := service.QuestionAnalytics(ctx, choice.ID)
		require.NoError(t, err)
		require.Equal(t, 3, result.ResponseCount)
	})

	t.Run("Should page answers of a question", func(t *testing.T) {
		views, total, err := service.QuestionResponses(ctx, choice.ID, "asc", 1, 20)
		require.NoError(t, err)
		require.Equal(t, int64(3), total)
		require.Len(t, views, 3)
		require.Equal(t, first.ID, views[0].ResponseID)
	})

	t.Run("Should return the response detail", func(t *testing.T) {
		result, err := service.ResponseDetail(ctx, second.ID)
		require.NoError(t, err)
		require.NotNil(t, result.Form)
		require.Equal(t, "Dinner", result.Form.Name)
		require.Len(t, result.Answers, 2)
	})

	t.Run("Should export one row per response", func(t *testing.T) {
		table, err := service.ExportForm(ctx, feedbackForm.ID, export.FormatCSV, export.Ascending)
		require.NoError(t, err)
		require.Len(t, table.Rows, 3)
		require.Equal(t, first.ID.String(), table.Rows[0][0])
	})

	t.Run("Should reject another restaurant's administrator", func(t *testing.T) {
		_, err := service.FormAnalytics(outsiderCtx, feedbackForm.ID)
		require.ErrorIs(t, err, internal.ErrForbiddenError)
	})

	t.Run("Should report a missing form", func(t *testing.T) {
		_, err := service.FormAnalytics(ctx, uuid.New())
		require.ErrorIs(t, err, internal.ErrFormNotFound)
	})
}
