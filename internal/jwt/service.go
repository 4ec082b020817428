package jwt

import (
	"context"
	"errors"
	"strings"
	"time"

	"QRFeedback/feedback-backend/internal/user"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const Issuer = "feedback-backend"

type Service struct {
	logger                *zap.Logger
	secret                string
	accessTokenExpiration time.Duration
	tracer                trace.Tracer
}

func NewService(logger *zap.Logger, secret string, accessTokenExpiration time.Duration) *Service {
	return &Service{
		logger:                logger,
		secret:                secret,
		accessTokenExpiration: accessTokenExpiration,
		tracer:                otel.Tracer("jwt/service"),
	}
}

type claims struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Role         string
	Email        string
	jwt.RegisteredClaims
}

func (s Service) New(ctx context.Context, u user.User) (string, error) {
	traceCtx, span := s.tracer.Start(ctx, "New")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	jwtID := uuid.New()
	now := time.Now()

	tokenClaims := &claims{
		ID:           jwtID,
		RestaurantID: u.RestaurantID,
		Role:         u.Role,
		Email:        u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   u.ID.String(), // user id
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jwtID.String(), // jwt id
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		logger.Error("failed to sign token", zap.Error(err), zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
		span.RecordError(err)
		return "", err
	}

	logger.Debug("Generated JWT token", zap.String("id", u.ID.String()), zap.String("restaurant_id", u.RestaurantID.String()), zap.String("role", u.Role))
	return tokenString, nil
}

// Parse verifies the token and returns the user it was issued for. Only the
// fields carried by the claims are populated.
func (s Service) Parse(ctx context.Context, tokenString string) (user.User, error) {
	traceCtx, span := s.tracer.Start(ctx, "Parse")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	secret := func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	}

	tokenClaims := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, tokenClaims, secret, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			logger.Warn("Failed to parse JWT token due to malformed structure, this is not a JWT token", zap.String("error", err.Error()))
			return user.User{}, err
		case errors.Is(err, jwt.ErrSignatureInvalid):
			logger.Warn("Failed to parse JWT token due to invalid signature", zap.String("error", err.Error()))
			return user.User{}, err
		case errors.Is(err, jwt.ErrTokenExpired):
			expiredTime, getErr := token.Claims.GetExpirationTime()
			if getErr != nil || expiredTime == nil {
				logger.Warn("Failed to parse JWT token due to expired timestamp", zap.String("error", err.Error()))
				return user.User{}, err
			}
			logger.Warn("Failed to parse JWT token due to expired timestamp", zap.String("error", err.Error()), zap.Time("expired_at", expiredTime.Time))
			return user.User{}, err
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			notBeforeTime, getErr := token.Claims.GetNotBefore()
			if getErr != nil || notBeforeTime == nil {
				logger.Warn("Failed to parse JWT token due to not valid yet timestamp", zap.String("error", err.Error()))
				return user.User{}, err
			}
			logger.Warn("Failed to parse JWT token due to not valid yet timestamp", zap.String("error", err.Error()), zap.Time("not_before", notBeforeTime.Time))
			return user.User{}, err
		default:
			logger.Error("Failed to parse JWT token", zap.Error(err))
			return user.User{}, err
		}
	}

	// Parse user ID from subject
	userID, err := uuid.Parse(tokenClaims.Subject)
	if err != nil {
		logger.Error("Failed to parse user ID from JWT subject", zap.Error(err))
		span.RecordError(err)
		return user.User{}, err
	}

	return user.User{
		ID:           userID,
		RestaurantID: tokenClaims.RestaurantID,
		Email:        tokenClaims.Email,
		Role:         tokenClaims.Role,
	}, nil
}
