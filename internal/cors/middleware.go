package cors

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Middleware struct {
	logger       *zap.Logger
	allowOrigins []string
	handler      func(http.Handler) http.Handler
}

// NewMiddleware allows credentialed requests from allowOrigins. A "*" entry
// allows every origin; the request origin is echoed back either way.
func NewMiddleware(logger *zap.Logger, allowOrigins []string) *Middleware {
	m := &Middleware{
		logger:       logger,
		allowOrigins: allowOrigins,
	}

	m.handler = cors.Handler(cors.Options{
		AllowOriginFunc:  m.allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return m
}

func (m *Middleware) allowed(_ *http.Request, origin string) bool {
	if slices.Contains(m.allowOrigins, "*") || slices.Contains(m.allowOrigins, origin) {
		return true
	}

	m.logger.Debug("Origin not allowed", zap.String("origin", origin))
	return false
}

func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return m.handler(next).ServeHTTP
}
