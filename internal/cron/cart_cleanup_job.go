package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
)

const (
	CartCleanupJobName        = "cart-cleanup-reconciler"
	defaultCleanupGracePeriod = 2 * time.Minute
	defaultCleanupBatchSize   = 100
)

type pendingCleanupLister interface {
	ListPendingCleanup(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
}

type cartClearer interface {
	Clear(ctx context.Context, order *models.Order) error
}

type staleClaimReleaser interface {
	ReleaseStaleClaims(ctx context.Context, cutoff time.Time) (int64, error)
}

type CartCleanupJobParams struct {
	Logger      *logger.Logger
	Orders      pendingCleanupLister
	Cleaner     cartClearer
	Claims      staleClaimReleaser
	GracePeriod time.Duration
	BatchSize   int
}

// CartCleanupJob finishes checkouts whose order was saved but whose cart lines survived, and
// returns lines to the cart when their checkout died before saving its order.
// Work younger than the grace period is skipped so in-flight checkouts are not raced.
type CartCleanupJob struct {
	logg    *logger.Logger
	orders  pendingCleanupLister
	cleaner cartClearer
	claims  staleClaimReleaser
	grace   time.Duration
	batch   int
	now     func() time.Time
}

func NewCartCleanupJob(params CartCleanupJobParams) (*CartCleanupJob, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Cleaner == nil {
		return nil, fmt.Errorf("cart cleaner required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	grace := params.GracePeriod
	if grace <= 0 {
		grace = defaultCleanupGracePeriod
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultCleanupBatchSize
	}
	return &CartCleanupJob{
		logg:    logg,
		orders:  params.Orders,
		cleaner: params.Cleaner,
		claims:  params.Claims,
		grace:   grace,
		batch:   batch,
		now:     time.Now,
	}, nil
}

func (j *CartCleanupJob) Name() string { return CartCleanupJobName }

// Run releases abandoned claims and clears one batch of stale orders. Every order is attempted;
// failures are combined.
func (j *CartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.grace)
	pending, err := j.orders.ListPendingCleanup(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("list pending cart cleanup: %w", err)
	}

	var errs error
	if j.claims != nil {
		released, err := j.claims.ReleaseStaleClaims(ctx, cutoff)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("release stale cart claims: %w", err))
		} else if released > 0 {
			j.logg.Info(j.logg.WithField(ctx, "released", released), "stale cart claims released")
		}
	}
	if len(pending) == 0 {
		return errs
	}

	cleared := 0
	for i := range pending {
		order := &pending[i]
		if err := j.cleaner.Clear(ctx, order); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
			continue
		}
		cleared++
	}

	logCtx := j.logg.WithField(ctx, "pending", len(pending))
	logCtx = j.logg.WithField(logCtx, "cleared", cleared)
	j.logg.Info(logCtx, "cart cleanup reconciled")
	return errs
}
