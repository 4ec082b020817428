package internal

import (
	"context"
	"fmt"
	"math"
	"net/http"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Envelope is the body of every JSON API response.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func NewPagination(total int64, page, limit int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

func WriteData(w http.ResponseWriter, data any) {
	handlerutil.WriteJSONResponse(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func WritePage(w http.ResponseWriter, data any, pagination *Pagination) {
	handlerutil.WriteJSONResponse(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: pagination})
}

// WriteError logs err and writes the failure envelope. The underlying error
// text is only exposed for server side faults.
func WriteError(ctx context.Context, w http.ResponseWriter, err error, logger *zap.Logger) {
	status, message := StatusFor(err)

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)

	body := Envelope{Success: false, Message: message}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
		body.Error = err.Error()
	} else {
		logger.Warn("Request rejected", zap.Int("status", status), zap.Error(err))
	}

	handlerutil.WriteJSONResponse(w, status, body)
}

// WriteOperationError is WriteError with an operation specific message for
// server side faults, e.g. "Error getting form analytics".
func WriteOperationError(ctx context.Context, w http.ResponseWriter, err error, logger *zap.Logger, operation string) {
	status, _ := StatusFor(err)
	if status < http.StatusInternalServerError {
		WriteError(ctx, w, err, logger)
		return
	}

	trace.SpanFromContext(ctx).RecordError(err)
	logger.Error(operation, zap.Error(err))
	handlerutil.WriteJSONResponse(w, status, Envelope{Success: false, Message: operation, Error: err.Error()})
}

// ParseUUID parses a path identifier.
func ParseUUID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidUUID, value)
	}
	return id, nil
}
