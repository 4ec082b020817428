package response

import (
	"context"
	"errors"
	"time"

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
	CountByFormID(ctx context.Context, formID uuid.UUID) (int64, error)
	Create(ctx context.Context, arg CreateParams) (FeedbackResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (FeedbackResponse, error)
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]FeedbackResponse, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]FeedbackResponse, error)
	ListPageByFormID(ctx context.Context, arg ListPageByFormIDParams) ([]FeedbackResponse, error)
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
		tracer:  otel.Tracer("response/service"),
	}
}

// PageRequest selects one page of a form's responses. SortBy is one of
// submittedAt, overallRating or createdAt; SortOrder is asc or desc.
type PageRequest struct {
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (shared.Response, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Debug("Feedback response not found", zap.String("response_id", id.String()))
			span.RecordError(internal.ErrResponseNotFound)
			return shared.Response{}, internal.ErrResponseNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "feedback_responses", "id", id.String(), logger, "get response by id")
		span.RecordError(err)
		return shared.Response{}, err
	}

	return toResponse(row), nil
}

// ListByFormID returns every response of the form, oldest submission first.
func (s *Service) ListByFormID(ctx context.Context, formID uuid.UUID) ([]shared.Response, error) {
	ctx, span := s.tracer.Start(ctx, "ListByFormID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "ListByFormID", map[string]interface{}{"form_id": formID.String()})

	rows, err := s.queries.ListByFormID(ctx, formID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list responses by form id")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), formID.String())

	return toResponses(rows), nil
}

func (s *Service) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.Response, error) {
	ctx, span := s.tracer.Start(ctx, "ListByIDs")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if len(ids) == 0 {
		return []shared.Response{}, nil
	}

	rows, err := s.queries.ListByIDs(ctx, ids)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list responses by ids")
		span.RecordError(err)
		return nil, err
	}

	return toResponses(rows), nil
}

func (s *Service) ListPageByFormID(ctx context.Context, formID uuid.UUID, req PageRequest) ([]shared.Response, error) {
	ctx, span := s.tracer.Start(ctx, "ListPageByFormID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	dbParams := map[string]interface{}{
		"form_id":    formID.String(),
		"sort_by":    req.SortBy,
		"sort_order": req.SortOrder,
		"page":       req.Page,
		"limit":      req.Limit,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "ListPageByFormID", dbParams)

	rows, err := s.queries.ListPageByFormID(ctx, ListPageByFormIDParams{
		FormID:    formID,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Limit:     int32(req.Limit),
		Offset:    int32((req.Page - 1) * req.Limit),
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list response page by form id")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), formID.String())

	return toResponses(rows), nil
}

func (s *Service) CountByFormID(ctx context.Context, formID uuid.UUID) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CountByFormID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	count, err := s.queries.CountByFormID(ctx, formID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "feedback_responses", "form_id", formID.String(), logger, "count responses by form id")
		span.RecordError(err)
		return 0, err
	}

	return count, nil
}

type CreateRequest struct {
	FormID            uuid.UUID
	RestaurantID      uuid.UUID
	CustomerVisitID   *uuid.UUID
	OverallRating     *int
	SubmittedAt       time.Time
	SubmittedToGoogle bool
	GoogleReviewText  string
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (shared.Response, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	params := CreateParams{
		FormID:            req.FormID,
		RestaurantID:      req.RestaurantID,
		SubmittedAt:       pgtype.Timestamptz{Time: req.SubmittedAt, Valid: !req.SubmittedAt.IsZero()},
		SubmittedToGoogle: req.SubmittedToGoogle,
		GoogleReviewText:  pgtype.Text{String: req.GoogleReviewText, Valid: req.GoogleReviewText != ""},
	}
	if req.CustomerVisitID != nil {
		params.CustomerVisitID = pgtype.UUID{Bytes: *req.CustomerVisitID, Valid: true}
	}
	if req.OverallRating != nil {
		params.OverallRating = pgtype.Int4{Int32: int32(*req.OverallRating), Valid: true}
	}

	tracker := logutil.StartDBOperation(ctx, logger, "Create", map[string]interface{}{"form_id": req.FormID.String()})

	row, err := s.queries.Create(ctx, params)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create response")
		span.RecordError(err)
		return shared.Response{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	return toResponse(row), nil
}

func toResponses(rows []FeedbackResponse) []shared.Response {
	responses := make([]shared.Response, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, toResponse(row))
	}
	return responses
}

func toResponse(row FeedbackResponse) shared.Response {
	r := shared.Response{
		ID:                row.ID,
		FormID:            row.FormID,
		RestaurantID:      row.RestaurantID,
		SubmittedAt:       row.SubmittedAt.Time,
		SubmittedToGoogle: row.SubmittedToGoogle,
		GoogleReviewText:  row.GoogleReviewText.String,
		CreatedAt:         row.CreatedAt.Time,
	}
	if row.CustomerVisitID.Valid {
		visitID := uuid.UUID(row.CustomerVisitID.Bytes)
		r.CustomerVisitID = &visitID
	}
	if row.OverallRating.Valid {
		rating := int(row.OverallRating.Int32)
		r.OverallRating = &rating
	}
	return r
}
