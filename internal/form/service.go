package form

import (
	"context"
	"errors"

	"QRFeedback/feedback-backend/internal"
	"QRFeedback/feedback-backend/internal/form/shared"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (FeedbackForm, error)
	GetByID(ctx context.Context, id uuid.UUID) (FeedbackForm, error)
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("form/service"),
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (shared.Form, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Debug("Form not found", zap.String("form_id", id.String()))
			span.RecordError(internal.ErrFormNotFound)
			return shared.Form{}, internal.ErrFormNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "feedback_forms", "id", id.String(), logger, "get form by id")
		span.RecordError(err)
		return shared.Form{}, err
	}

	return toForm(row), nil
}

type CreateRequest struct {
	RestaurantID    uuid.UUID
	Name            string
	Description     string
	IsDefault       bool
	Active          bool
	ThankYouMessage string
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (shared.Form, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	dbParams := map[string]interface{}{
		"restaurant_id": req.RestaurantID.String(),
		"name":          req.Name,
		"is_default":    req.IsDefault,
		"active":        req.Active,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Create", dbParams)

	row, err := s.queries.Create(ctx, CreateParams{
		RestaurantID:    req.RestaurantID,
		Name:            req.Name,
		Description:     pgtype.Text{String: req.Description, Valid: true},
		IsDefault:       req.IsDefault,
		Active:          req.Active,
		ThankYouMessage: pgtype.Text{String: req.ThankYouMessage, Valid: req.ThankYouMessage != ""},
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create form")
		span.RecordError(err)
		return shared.Form{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	return toForm(row), nil
}

func toForm(row FeedbackForm) shared.Form {
	return shared.Form{
		ID:              row.ID,
		RestaurantID:    row.RestaurantID,
		Name:            row.Name,
		Description:     row.Description.String,
		IsDefault:       row.IsDefault,
		Active:          row.Active,
		ThankYouMessage: row.ThankYouMessage.String,
		CreatedAt:       row.CreatedAt.Time,
	}
}
