package analytics

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"QRFeedback/feedback-backend/internal"
	"QRFeedback/feedback-backend/internal/export"
	"QRFeedback/feedback-backend/internal/form/response"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultPage      = 1
	defaultLimit     = 20
	maxLimit         = 100
	defaultSortBy    = "submittedAt"
	defaultSortOrder = "desc"

	// maxPage keeps the row offset of the last page within int32.
	maxPage = math.MaxInt32/maxLimit + 1
)

type Store interface {
	FormAnalytics(ctx context.Context, formID uuid.UUID) (FormAnalytics, error)
	FormResponses(ctx context.Context, formID uuid.UUID, req response.PageRequest) ([]ResponseView, int64, error)
	QuestionAnalytics(ctx context.Context, questionID uuid.UUID) (QuestionAnalytics, error)
	QuestionResponses(ctx context.Context, questionID uuid.UUID, sortOrder string, page, limit int) ([]QuestionAnswerView, int64, error)
	ResponseDetail(ctx context.Context, responseID uuid.UUID) (ResponseDetail, error)
	ExportForm(ctx context.Context, formID uuid.UUID, format export.Format, order export.SortOrder) (export.Table, error)
	ExportQuestion(ctx context.Context, questionID uuid.UUID, format export.Format) (export.Table, error)
}

type Handler struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	validator *validator.Validate
	store     Store
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, store Store) *Handler {
	return &Handler{
		logger:    logger,
		tracer:    otel.Tracer("analytics/handler"),
		validator: validator,
		store:     store,
	}
}

func (h *Handler) GetFormAnalytics(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetFormAnalytics")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := internal.ParseUUID(r.PathValue("formId"))
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	result, err := h.store.FormAnalytics(traceCtx, formID)
	if err != nil {
		internal.WriteOperationError(traceCtx, w, err, logger, "Error getting form analytics")
		return
	}

	internal.WriteData(w, result)
}

func (h *Handler) GetFormResponses(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetFormResponses")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := internal.ParseUUID(r.PathValue("formId"))
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	req := h.pageRequest(r)
	views, total, err := h.store.FormResponses(traceCtx, formID, req)
	if err != nil {
		internal.WriteOperationError(traceCtx, w, err, logger, "Error getting form responses")
		return
	}

	internal.WritePage(w, views, internal.NewPagination(total, req.Page, req.Limit))
}

func (h *Handler) GetQuestionAnalytics(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetQuestionAnalytics")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	questionID, err := internal.ParseUUID(r.PathValue("questionId"))
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	result, err := h.store.QuestionAnalytics(traceCtx, questionID)
	if err != nil {
		internal.WriteOperationError(traceCtx, w, err, logger, "Error getting question analytics")
		return
	}

	internal.WriteData(w, result)
}

func (h *Handler) GetQuestionResponses(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetQuestionResponses")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	questionID, err := internal.ParseUUID(r.PathValue("questionId"))
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	req := h.pageRequest(r)
	views, total, err := h.store.QuestionResponses(traceCtx, questionID, req.SortOrder, req.Page, req.Limit)
	if err != nil {
		internal.WriteOperationError(traceCtx, w, err, logger, "Error getting question responses")
		return
	}

	internal.WritePage(w, views, internal.NewPagination(total, req.Page, req.Limit))
}

func (h *Handler) GetResponse(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetResponse")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	responseID, err := internal.ParseUUID(r.PathValue("responseId"))
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	result, err := h.store.ResponseDetail(traceCtx, responseID)
	if err != nil {
		internal.WriteOperationError(traceCtx, w, err, logger, "Error getting feedback response")
		return
	}

	internal.WriteData(w, result)
}

func (h *Handler) ExportForm(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportForm")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := internal.ParseUUID(r.PathValue("formId"))
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	format := export.ParseFormat(r.URL.Query().Get("format"))
	order := export.SortOrder(h.queryOrDefault(r, "sortOrder", "sort_order", defaultSortOrder))

	table, err := h.store.ExportForm(traceCtx, formID, format, order)
	if err != nil {
		internal.WriteOperationError(traceCtx, w, err, logger, "Error exporting form data")
		return
	}

	h.writeExport(traceCtx, w, logger, format, format.Filename("feedback", formID.String()), table, "Error exporting form data")
}

func (h *Handler) ExportQuestion(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportQuestion")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	questionID, err := internal.ParseUUID(r.PathValue("questionId"))
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	format := export.ParseFormat(r.URL.Query().Get("format"))
	table, err := h.store.ExportQuestion(traceCtx, questionID, format)
	if err != nil {
		internal.WriteOperationError(traceCtx, w, err, logger, "Error exporting question data")
		return
	}

	h.writeExport(traceCtx, w, logger, format, format.Filename("question", questionID.String()), table, "Error exporting question data")
}

// writeExport renders into a buffer first so an encoding failure can still be
// reported as a JSON error.
func (h *Handler) writeExport(ctx context.Context, w http.ResponseWriter, logger *zap.Logger, format export.Format, filename string, table export.Table, operation string) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, table); err != nil {
		internal.WriteOperationError(ctx, w, fmt.Errorf("render %s export: %w", format, err), logger, operation)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warn("Failed to write export body", zap.String("filename", filename), zap.Error(err))
	}
}

// pageRequest reads the paging query. Invalid values fall back to the defaults.
func (h *Handler) pageRequest(r *http.Request) response.PageRequest {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}

	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return response.PageRequest{
		SortBy:    h.queryOrDefault(r, "sortBy", "sort_field", defaultSortBy),
		SortOrder: h.queryOrDefault(r, "sortOrder", "sort_order", defaultSortOrder),
		Page:      page,
		Limit:     limit,
	}
}

func (h *Handler) queryOrDefault(r *http.Request, key, rule, fallback string) string {
	value := r.URL.Query().Get(key)
	if value == "" || h.validator.Var(value, rule) != nil {
		return fallback
	}
	return value
}
