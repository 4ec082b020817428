package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"QRFeedback/feedback-backend/internal"
	"QRFeedback/feedback-backend/internal/user"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const TokenCookieName = "token"

type Parser interface {
	Parse(ctx context.Context, tokenString string) (user.User, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type Middleware struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	parser    Parser
	userStore UserStore
}

func NewMiddleware(logger *zap.Logger, parser Parser, userStore UserStore) *Middleware {
	return &Middleware{
		logger:    logger,
		tracer:    otel.Tracer("jwt/middleware"),
		parser:    parser,
		userStore: userStore,
	}
}

// AuthenticateMiddleware resolves the administrator from a bearer token or the
// token cookie and stores it in the request context.
func (m *Middleware) AuthenticateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "AuthenticateMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		token, err := tokenFromRequest(r)
		if err != nil {
			internal.WriteError(traceCtx, w, err, logger)
			return
		}

		claimed, err := m.parser.Parse(traceCtx, token)
		if err != nil {
			internal.WriteError(traceCtx, w, fmt.Errorf("%w: %v", internal.ErrInvalidJWTToken, err), logger)
			return
		}

		stored, err := m.userStore.GetByID(traceCtx, claimed.ID)
		if err != nil {
			if errors.Is(err, internal.ErrUserNotFound) {
				err = fmt.Errorf("%w: %s", internal.ErrInvalidAuthUser, claimed.ID)
			}
			internal.WriteError(traceCtx, w, err, logger)
			return
		}

		ctx := context.WithValue(r.Context(), internal.UserContextKey, &stored)
		next(w, r.WithContext(ctx))
	}
}

func tokenFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", internal.ErrInvalidAuthHeaderFormat
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			return "", internal.ErrInvalidAuthHeaderFormat
		}
		return token, nil
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", internal.ErrMissingAuthHeader
	}
	return cookie.Value, nil
}
