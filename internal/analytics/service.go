package analytics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"QRFeedback/feedback-backend/internal"
	"QRFeedback/feedback-backend/internal/export"
	"QRFeedback/feedback-backend/internal/form/response"
	"QRFeedback/feedback-backend/internal/form/shared"
	"QRFeedback/feedback-backend/internal/metrics"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type FormStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (shared.Form, error)
}

type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (shared.Question, error)
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]shared.Question, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.Question, error)
}

type ResponseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (shared.Response, error)
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]shared.Response, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.Response, error)
	ListPageByFormID(ctx context.Context, formID uuid.UUID, req response.PageRequest) ([]shared.Response, error)
	CountByFormID(ctx context.Context, formID uuid.UUID) (int64, error)
}

type AnswerStore interface {
	ListByResponseID(ctx context.Context, responseID uuid.UUID) ([]shared.Answer, error)
	ListByResponseIDs(ctx context.Context, responseIDs []uuid.UUID) ([]shared.Answer, error)
	ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]shared.Answer, error)
	ListPageByQuestionID(ctx context.Context, questionID uuid.UUID, sortOrder string, page, limit int) ([]shared.Answer, error)
	CountByQuestionID(ctx context.Context, questionID uuid.UUID) (int64, error)
}

type TenantGuard interface {
	Authorize(ctx context.Context, restaurantID uuid.UUID) error
}

type Service struct {
	logger *zap.Logger
	tracer trace.Tracer

	formStore     FormStore
	questionStore QuestionStore
	responseStore ResponseStore
	answerStore   AnswerStore
	guard         TenantGuard

	exportMaxRows int
}

// NewService wires the analytics use cases. exportMaxRows <= 0 disables the
// export size limit.
func NewService(logger *zap.Logger, formStore FormStore, questionStore QuestionStore, responseStore ResponseStore, answerStore AnswerStore, guard TenantGuard, exportMaxRows int) *Service {
	return &Service{
		logger:        logger,
		tracer:        otel.Tracer("analytics/service"),
		formStore:     formStore,
		questionStore: questionStore,
		responseStore: responseStore,
		answerStore:   answerStore,
		guard:         guard,
		exportMaxRows: exportMaxRows,
	}
}

// FormAnalytics aggregates every response submitted to a form.
func (s *Service) FormAnalytics(ctx context.Context, formID uuid.UUID) (result FormAnalytics, err error) {
	traceCtx, span := s.tracer.Start(ctx, "FormAnalytics")
	defer span.End()
	defer observe("form_analytics", time.Now(), &err)
	logger := logutil.WithContext(traceCtx, s.logger)

	if _, err = s.authorizeForm(traceCtx, formID); err != nil {
		span.RecordError(err)
		return FormAnalytics{}, err
	}

	questions, responses, answers, err := s.loadForm(traceCtx, formID)
	if err != nil {
		span.RecordError(err)
		return FormAnalytics{}, err
	}

	logger.Debug("Building form analytics",
		zap.String("form_id", formID.String()),
		zap.Int("questions", len(questions)),
		zap.Int("responses", len(responses)),
		zap.Int("answers", len(answers)),
	)

	return BuildFormAnalytics(questions, responses, answers), nil
}

// FormResponses returns one page of a form's responses with their answers,
// together with the total number of responses.
func (s *Service) FormResponses(ctx context.Context, formID uuid.UUID, req response.PageRequest) (views []ResponseView, total int64, err error) {
	traceCtx, span := s.tracer.Start(ctx, "FormResponses")
	defer span.End()
	defer observe("form_responses", time.Now(), &err)

	if _, err = s.authorizeForm(traceCtx, formID); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	var (
		page      []shared.Response
		questions []shared.Question
	)
	g, gctx := errgroup.WithContext(traceCtx)
	g.Go(func() error {
		var err error
		page, err = s.responseStore.ListPageByFormID(gctx, formID, req)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.responseStore.CountByFormID(gctx, formID)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.questionStore.ListByFormID(gctx, formID)
		return err
	})
	if err = g.Wait(); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	answers, err := s.answerStore.ListByResponseIDs(traceCtx, responseIDs(page))
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	return ResponseViews(page, questions, answers), total, nil
}

// QuestionAnalytics aggregates every answer given to a question.
func (s *Service) QuestionAnalytics(ctx context.Context, questionID uuid.UUID) (result QuestionAnalytics, err error) {
	traceCtx, span := s.tracer.Start(ctx, "QuestionAnalytics")
	defer span.End()
	defer observe("question_analytics", time.Now(), &err)

	question, err := s.authorizeQuestion(traceCtx, questionID)
	if err != nil {
		span.RecordError(err)
		return QuestionAnalytics{}, err
	}

	responses, answers, err := s.loadQuestion(traceCtx, questionID)
	if err != nil {
		span.RecordError(err)
		return QuestionAnalytics{}, err
	}

	return BuildQuestionAnalytics(question, responses, answers), nil
}

// QuestionResponses returns one page of the answers given to a question,
// together with the total number of answers.
func (s *Service) QuestionResponses(ctx context.Context, questionID uuid.UUID, sortOrder string, page, limit int) (views []QuestionAnswerView, total int64, err error) {
	traceCtx, span := s.tracer.Start(ctx, "QuestionResponses")
	defer span.End()
	defer observe("question_responses", time.Now(), &err)

	if _, err = s.authorizeQuestion(traceCtx, questionID); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	var answers []shared.Answer
	g, gctx := errgroup.WithContext(traceCtx)
	g.Go(func() error {
		var err error
		answers, err = s.answerStore.ListPageByQuestionID(gctx, questionID, sortOrder, page, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.answerStore.CountByQuestionID(gctx, questionID)
		return err
	})
	if err = g.Wait(); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	responses, err := s.responseStore.ListByIDs(traceCtx, answerResponseIDs(answers))
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	return QuestionAnswerViews(answers, responses), total, nil
}

// ResponseDetail returns a single response with its answers and the questions
// they belong to. The form summary is omitted when the form no longer exists.
func (s *Service) ResponseDetail(ctx context.Context, responseID uuid.UUID) (result ResponseDetail, err error) {
	traceCtx, span := s.tracer.Start(ctx, "ResponseDetail")
	defer span.End()
	defer observe("response_detail", time.Now(), &err)
	logger := logutil.WithContext(traceCtx, s.logger)

	resp, err := s.responseStore.GetByID(traceCtx, responseID)
	if err != nil {
		span.RecordError(err)
		return ResponseDetail{}, err
	}

	if err = s.guard.Authorize(traceCtx, resp.RestaurantID); err != nil {
		span.RecordError(err)
		return ResponseDetail{}, err
	}

	var (
		form    *shared.Form
		answers []shared.Answer
	)
	g, gctx := errgroup.WithContext(traceCtx)
	g.Go(func() error {
		found, err := s.formStore.GetByID(gctx, resp.FormID)
		if errors.Is(err, internal.ErrFormNotFound) {
			logger.Debug("Form of feedback response no longer exists", zap.String("form_id", resp.FormID.String()))
			return nil
		}
		if err != nil {
			return err
		}
		form = &found
		return nil
	})
	g.Go(func() error {
		var err error
		answers, err = s.answerStore.ListByResponseID(gctx, responseID)
		return err
	})
	if err = g.Wait(); err != nil {
		span.RecordError(err)
		return ResponseDetail{}, err
	}

	questions, err := s.questionStore.ListByIDs(traceCtx, answerQuestionIDs(answers))
	if err != nil {
		span.RecordError(err)
		return ResponseDetail{}, err
	}

	return Detail(resp, form, questions, answers), nil
}

// ExportForm flattens a form's responses into a table with one row per response.
func (s *Service) ExportForm(ctx context.Context, formID uuid.UUID, format export.Format, order export.SortOrder) (table export.Table, err error) {
	traceCtx, span := s.tracer.Start(ctx, "ExportForm")
	defer span.End()
	defer observe("export_form", time.Now(), &err)
	logger := logutil.WithContext(traceCtx, s.logger)

	if _, err = s.authorizeForm(traceCtx, formID); err != nil {
		span.RecordError(err)
		return export.Table{}, err
	}

	count, err := s.responseStore.CountByFormID(traceCtx, formID)
	if err != nil {
		span.RecordError(err)
		return export.Table{}, err
	}
	if err = s.checkExportSize(logger, count); err != nil {
		span.RecordError(err)
		return export.Table{}, err
	}

	questions, responses, answers, err := s.loadForm(traceCtx, formID)
	if err != nil {
		span.RecordError(err)
		return export.Table{}, err
	}

	table = export.FormTable(questions, responses, answers, order)
	metrics.ObserveExport("form", string(format), len(table.Rows))
	return table, nil
}

// ExportQuestion flattens the answers to one question into a table.
func (s *Service) ExportQuestion(ctx context.Context, questionID uuid.UUID, format export.Format) (table export.Table, err error) {
	traceCtx, span := s.tracer.Start(ctx, "ExportQuestion")
	defer span.End()
	defer observe("export_question", time.Now(), &err)
	logger := logutil.WithContext(traceCtx, s.logger)

	question, err := s.authorizeQuestion(traceCtx, questionID)
	if err != nil {
		span.RecordError(err)
		return export.Table{}, err
	}

	count, err := s.answerStore.CountByQuestionID(traceCtx, questionID)
	if err != nil {
		span.RecordError(err)
		return export.Table{}, err
	}
	if err = s.checkExportSize(logger, count); err != nil {
		span.RecordError(err)
		return export.Table{}, err
	}

	responses, answers, err := s.loadQuestion(traceCtx, questionID)
	if err != nil {
		span.RecordError(err)
		return export.Table{}, err
	}

	table = export.QuestionTable(question, responses, answers)
	metrics.ObserveExport("question", string(format), len(table.Rows))
	return table, nil
}

func (s *Service) authorizeForm(ctx context.Context, formID uuid.UUID) (shared.Form, error) {
	form, err := s.formStore.GetByID(ctx, formID)
	if err != nil {
		return shared.Form{}, err
	}

	if err := s.guard.Authorize(ctx, form.RestaurantID); err != nil {
		return shared.Form{}, err
	}

	return form, nil
}

// authorizeQuestion resolves the question's restaurant through its form.
func (s *Service) authorizeQuestion(ctx context.Context, questionID uuid.UUID) (shared.Question, error) {
	question, err := s.questionStore.GetByID(ctx, questionID)
	if err != nil {
		return shared.Question{}, err
	}

	if _, err := s.authorizeForm(ctx, question.FormID); err != nil {
		return shared.Question{}, err
	}

	return question, nil
}

func (s *Service) loadForm(ctx context.Context, formID uuid.UUID) ([]shared.Question, []shared.Response, []shared.Answer, error) {
	var (
		questions []shared.Question
		responses []shared.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.questionStore.ListByFormID(gctx, formID)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = s.responseStore.ListByFormID(gctx, formID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	answers, err := s.answerStore.ListByResponseIDs(ctx, responseIDs(responses))
	if err != nil {
		return nil, nil, nil, err
	}

	return questions, responses, answers, nil
}

func (s *Service) loadQuestion(ctx context.Context, questionID uuid.UUID) ([]shared.Response, []shared.Answer, error) {
	answers, err := s.answerStore.ListByQuestionID(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}

	responses, err := s.responseStore.ListByIDs(ctx, answerResponseIDs(answers))
	if err != nil {
		return nil, nil, err
	}

	return responses, answers, nil
}

func (s *Service) checkExportSize(logger *zap.Logger, rows int64) error {
	if s.exportMaxRows <= 0 || rows <= int64(s.exportMaxRows) {
		return nil
	}

	logger.Warn("Export exceeds row limit", zap.Int64("rows", rows), zap.Int("limit", s.exportMaxRows))
	return internal.ErrExportTooLarge
}

func observe(operation string, start time.Time, err *error) {
	metrics.ObserveAnalytics(operation, outcome(*err), time.Since(start))
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}

	status, _ := internal.StatusFor(err)
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "forbidden"
	}
	return "error"
}

func responseIDs(responses []shared.Response) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.ID)
	}
	return ids
}

func answerResponseIDs(answers []shared.Answer) []uuid.UUID {
	return uniqueIDs(answers, func(a shared.Answer) uuid.UUID { return a.ResponseID })
}

func answerQuestionIDs(answers []shared.Answer) []uuid.UUID {
	return uniqueIDs(answers, func(a shared.Answer) uuid.UUID { return a.QuestionID })
}

func uniqueIDs[T any](items []T, id func(T) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		key := id(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ids = append(ids, key)
	}
	return ids
}
