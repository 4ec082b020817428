package trace

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"QRFeedback/feedback-backend/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Middleware struct {
	logger *zap.Logger
	tracer trace.Tracer
	debug  bool
}

func NewMiddleware(logger *zap.Logger, debug bool) *Middleware {
	return &Middleware{
		logger: logger,
		tracer: otel.Tracer("trace/middleware"),
		debug:  debug,
	}
}

// RecoverMiddleware turns a panic into a 500 envelope.
func (m *Middleware) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			logger := logutil.WithContext(r.Context(), m.logger)
			fields := []zap.Field{zap.Any("panic", recovered), zap.String("path", r.URL.Path)}
			if m.debug {
				fields = append(fields, zap.ByteString("stack", debug.Stack()))
			}
			logger.Error("Recovered from panic", fields...)

			err := fmt.Errorf("%w: %v", internal.ErrInternalServerError, recovered)
			internal.WriteError(r.Context(), w, err, logger)
		}()

		next(w, r)
	}
}

// TraceMiddleware starts a server span per request, continuing any trace
// propagated by the caller.
func (m *Middleware) TraceMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := r.Pattern
		if route == "" {
			route = r.URL.Path
		}

		ctx, span := m.tracer.Start(ctx, route, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.String("http.target", r.URL.RequestURI()),
		)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", recorder.status))
		if recorder.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(recorder.status))
		}

		if m.debug {
			logutil.WithContext(ctx, m.logger).Debug("Handled request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", recorder.status),
			)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}
