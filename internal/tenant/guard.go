package tenant

import (
	"context"

	"QRFeedback/feedback-backend/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Guard checks that the authenticated administrator owns the restaurant a
// resource belongs to.
type Guard struct {
	logger *zap.Logger
	tracer trace.Tracer
}

func NewGuard(logger *zap.Logger) *Guard {
	return &Guard{
		logger: logger,
		tracer: otel.Tracer("tenant/guard"),
	}
}

func (g *Guard) Authorize(ctx context.Context, restaurantID uuid.UUID) error {
	traceCtx, span := g.tracer.Start(ctx, "Authorize")
	defer span.End()
	logger := logutil.WithContext(traceCtx, g.logger)

	userID, ok := internal.GetUserIDFromContext(traceCtx)
	if !ok {
		span.RecordError(internal.ErrNoUserInContext)
		return internal.ErrNoUserInContext
	}

	owned, _ := internal.GetRestaurantIDFromContext(traceCtx)
	if owned != restaurantID {
		logger.Warn("Restaurant mismatch",
			zap.String("user_id", userID.String()),
			zap.String("user_restaurant_id", owned.String()),
			zap.String("resource_restaurant_id", restaurantID.String()),
		)
		span.RecordError(internal.ErrForbiddenError)
		return internal.ErrForbiddenError
	}

	return nil
}
