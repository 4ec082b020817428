package tenant

import (
	"context"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, name string) (Restaurant, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
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
		tracer:  otel.Tracer("tenant/service"),
	}
}

func (s *Service) Create(ctx context.Context, name string) (Restaurant, error) {
	traceCtx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	restaurant, err := s.queries.Create(traceCtx, name)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create restaurant")
		span.RecordError(err)
		return Restaurant{}, err
	}

	return restaurant, nil
}

func (s *Service) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	traceCtx, span := s.tracer.Start(ctx, "ExistsByID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	exists, err := s.queries.ExistsByID(traceCtx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "restaurants", "id", id.String(), logger, "check restaurant existence")
		span.RecordError(err)
		return false, err
	}
	return exists, nil
}
