package jwt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"QRFeedback/feedback-backend/internal"
	"QRFeedback/feedback-backend/internal/user"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type TokenIssuer interface {
	New(ctx context.Context, u user.User) (string, error)
}

type Handler struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	validator *validator.Validate
	issuer    TokenIssuer
	userStore UserStore
	devMode   bool
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, issuer TokenIssuer, userStore UserStore, devMode bool) *Handler {
	return &Handler{
		logger:    logger,
		tracer:    otel.Tracer("jwt/handler"),
		validator: validator,
		issuer:    issuer,
		userStore: userStore,
		devMode:   devMode,
	}
}

type internalLoginRequest struct {
	UserID string `json:"uid" validate:"required,uuid"`
}

type internalLoginResponse struct {
	Token string `json:"token"`
}

// InternalLogin issues an access token for an existing user id. Only served in
// development mode.
func (h *Handler) InternalLogin(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "InternalLogin")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	if !h.devMode {
		internal.WriteError(traceCtx, w, internal.ErrInternalLoginDisabled, logger)
		return
	}

	var req internalLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		internal.WriteError(traceCtx, w, fmt.Errorf("%w: %v", internal.ErrInvalidRequestBody, err), logger)
		return
	}
	if err := internal.ValidateStruct(h.validator, req); err != nil {
		internal.WriteError(traceCtx, w, fmt.Errorf("%w: %v", internal.ErrInvalidRequestBody, err), logger)
		return
	}

	u, err := h.userStore.GetByID(traceCtx, uuid.MustParse(req.UserID))
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	token, err := h.issuer.New(traceCtx, u)
	if err != nil {
		internal.WriteError(traceCtx, w, err, logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	internal.WriteData(w, internalLoginResponse{Token: token})
}
