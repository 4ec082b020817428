package answer

import (
	"context"
	"encoding/json"
	"time"

	"QRFeedback/feedback-backend/internal/form/shared"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	CountByQuestionID(ctx context.Context, questionID uuid.UUID) (int64, error)
	Create(ctx context.Context, arg CreateParams) (FeedbackAnswer, error)
	ListByResponseID(ctx context.Context, responseID uuid.UUID) ([]FeedbackAnswer, error)
	ListByResponseIDs(ctx context.Context, responseIDs []uuid.UUID) ([]FeedbackAnswer, error)
	ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]FeedbackAnswer, error)
	ListPageByQuestionID(ctx context.Context, arg ListPageByQuestionIDParams) ([]FeedbackAnswer, error)
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
		tracer:  otel.Tracer("answer/service"),
	}
}

func (s *Service) ListByResponseID(ctx context.Context, responseID uuid.UUID) ([]shared.Answer, error) {
	ctx, span := s.tracer.Start(ctx, "ListByResponseID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	rows, err := s.queries.ListByResponseID(ctx, responseID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "feedback_answers", "response_id", responseID.String(), logger, "list answers by response id")
		span.RecordError(err)
		return nil, err
	}

	return toAnswers(rows), nil
}

func (s *Service) ListByResponseIDs(ctx context.Context, responseIDs []uuid.UUID) ([]shared.Answer, error) {
	ctx, span := s.tracer.Start(ctx, "ListByResponseIDs")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if len(responseIDs) == 0 {
		return []shared.Answer{}, nil
	}

	tracker := logutil.StartDBOperation(ctx, logger, "ListByResponseIDs", map[string]interface{}{"response_count": len(responseIDs)})

	rows, err := s.queries.ListByResponseIDs(ctx, responseIDs)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list answers by response ids")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), "")

	return toAnswers(rows), nil
}

func (s *Service) ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]shared.Answer, error) {
	ctx, span := s.tracer.Start(ctx, "ListByQuestionID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "ListByQuestionID", map[string]interface{}{"question_id": questionID.String()})

	rows, err := s.queries.ListByQuestionID(ctx, questionID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list answers by question id")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), questionID.String())

	return toAnswers(rows), nil
}

// ListPageByQuestionID returns one page of the question's answers ordered by
// creation time. sortOrder is asc or desc.
func (s *Service) ListPageByQuestionID(ctx context.Context, questionID uuid.UUID, sortOrder string, page, limit int) ([]shared.Answer, error) {
	ctx, span := s.tracer.Start(ctx, "ListPageByQuestionID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	rows, err := s.queries.ListPageByQuestionID(ctx, ListPageByQuestionIDParams{
		QuestionID: questionID,
		SortOrder:  sortOrder,
		Limit:      int32(limit),
		Offset:     int32((page - 1) * limit),
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "feedback_answers", "question_id", questionID.String(), logger, "list answer page by question id")
		span.RecordError(err)
		return nil, err
	}

	return toAnswers(rows), nil
}

func (s *Service) CountByQuestionID(ctx context.Context, questionID uuid.UUID) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CountByQuestionID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	count, err := s.queries.CountByQuestionID(ctx, questionID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "feedback_answers", "question_id", questionID.String(), logger, "count answers by question id")
		span.RecordError(err)
		return 0, err
	}

	return count, nil
}

type CreateRequest struct {
	ResponseID uuid.UUID
	QuestionID uuid.UUID
	Value      any
	CreatedAt  time.Time
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (shared.Answer, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	value, err := json.Marshal(req.Value)
	if err != nil {
		span.RecordError(err)
		return shared.Answer{}, err
	}

	dbParams := map[string]interface{}{
		"response_id": req.ResponseID.String(),
		"question_id": req.QuestionID.String(),
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Create", dbParams)

	row, err := s.queries.Create(ctx, CreateParams{
		ResponseID: req.ResponseID,
		QuestionID: req.QuestionID,
		Value:      value,
		CreatedAt:  pgtype.Timestamptz{Time: req.CreatedAt, Valid: !req.CreatedAt.IsZero()},
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create answer")
		span.RecordError(err)
		return shared.Answer{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	return toAnswer(row), nil
}

func toAnswers(rows []FeedbackAnswer) []shared.Answer {
	answers := make([]shared.Answer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, toAnswer(row))
	}
	return answers
}

func toAnswer(row FeedbackAnswer) shared.Answer {
	return shared.Answer{
		ID:         row.ID,
		ResponseID: row.ResponseID,
		QuestionID: row.QuestionID,
		Value:      shared.ParseValue(row.Value),
		CreatedAt:  row.CreatedAt.Time,
	}
}
