package question

import (
	"context"
	"encoding/json"
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
	Create(ctx context.Context, arg CreateParams) (FeedbackQuestion, error)
	GetByID(ctx context.Context, id uuid.UUID) (FeedbackQuestion, error)
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]FeedbackQuestion, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]FeedbackQuestion, error)
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
		tracer:  otel.Tracer("question/service"),
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (shared.Question, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Debug("Question not found", zap.String("question_id", id.String()))
			span.RecordError(internal.ErrQuestionNotFound)
			return shared.Question{}, internal.ErrQuestionNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "feedback_questions", "id", id.String(), logger, "get question by id")
		span.RecordError(err)
		return shared.Question{}, err
	}

	return toQuestion(logger, row), nil
}

// ListByFormID returns the form's questions in display order.
func (s *Service) ListByFormID(ctx context.Context, formID uuid.UUID) ([]shared.Question, error) {
	ctx, span := s.tracer.Start(ctx, "ListByFormID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "ListByFormID", map[string]interface{}{"form_id": formID.String()})

	rows, err := s.queries.ListByFormID(ctx, formID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list questions by form id")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), formID.String())

	return toQuestions(logger, rows), nil
}

func (s *Service) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.Question, error) {
	ctx, span := s.tracer.Start(ctx, "ListByIDs")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if len(ids) == 0 {
		return []shared.Question{}, nil
	}

	rows, err := s.queries.ListByIDs(ctx, ids)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list questions by ids")
		span.RecordError(err)
		return nil, err
	}

	return toQuestions(logger, rows), nil
}

type CreateRequest struct {
	FormID           uuid.UUID
	Text             string
	Description      string
	Type             shared.QuestionType
	Required         bool
	Order            int32
	Options          []shared.Option
	ConditionalLogic json.RawMessage
	Settings         shared.Settings
	History          []shared.HistoryEntry
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (shared.Question, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	options, err := marshalOrDefault(req.Options, "[]")
	if err != nil {
		span.RecordError(err)
		return shared.Question{}, err
	}
	settings, err := marshalOrDefault(req.Settings, "{}")
	if err != nil {
		span.RecordError(err)
		return shared.Question{}, err
	}
	history, err := marshalOrDefault(req.History, "[]")
	if err != nil {
		span.RecordError(err)
		return shared.Question{}, err
	}

	dbParams := map[string]interface{}{
		"form_id": req.FormID.String(),
		"type":    string(req.Type),
		"order":   req.Order,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Create", dbParams)

	row, err := s.queries.Create(ctx, CreateParams{
		FormID:           req.FormID,
		Text:             req.Text,
		Description:      pgtype.Text{String: req.Description, Valid: req.Description != ""},
		Type:             string(req.Type),
		Required:         req.Required,
		Order:            req.Order,
		Options:          options,
		ConditionalLogic: req.ConditionalLogic,
		Settings:         settings,
		QuestionHistory:  history,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create question")
		span.RecordError(err)
		return shared.Question{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	return toQuestion(logger, row), nil
}

func toQuestions(logger *zap.Logger, rows []FeedbackQuestion) []shared.Question {
	questions := make([]shared.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, toQuestion(logger, row))
	}
	return questions
}

// toQuestion decodes the JSON columns. A malformed column is logged and left
// empty so one bad row cannot fail a whole analytics request.
func toQuestion(logger *zap.Logger, row FeedbackQuestion) shared.Question {
	q := shared.Question{
		ID:          row.ID,
		FormID:      row.FormID,
		Text:        row.Text,
		Description: row.Description.String,
		Type:        shared.QuestionType(row.Type),
		Required:    row.Required,
		Order:       row.Order,
		Options:     []shared.Option{},
		Settings:    shared.Settings{},
		History:     []shared.HistoryEntry{},
	}

	decode := func(column string, data []byte, target any) {
		if len(data) == 0 || string(data) == "null" {
			return
		}
		if err := json.Unmarshal(data, target); err != nil {
			logger.Warn("Failed to decode question column", zap.String("question_id", row.ID.String()), zap.String("column", column), zap.Error(err))
		}
	}

	decode("options", row.Options, &q.Options)
	decode("settings", row.Settings, &q.Settings)
	decode("question_history", row.QuestionHistory, &q.History)

	if q.Options == nil {
		q.Options = []shared.Option{}
	}
	if q.Settings == nil {
		q.Settings = shared.Settings{}
	}
	if q.History == nil {
		q.History = []shared.HistoryEntry{}
	}

	return q
}

func marshalOrDefault(v any, fallback string) ([]byte, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(encoded) == "null" {
		return []byte(fallback), nil
	}
	return encoded, nil
}
