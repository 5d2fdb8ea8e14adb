package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandlimart/mandlimart-backend/internal/address"
	"github.com/mandlimart/mandlimart-backend/internal/orders"
	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	"github.com/mandlimart/mandlimart-backend/pkg/enums"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
	"github.com/mandlimart/mandlimart-backend/pkg/metrics"
)

type lineLoader interface {
	FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartLine, error)
}

type lineClaimer interface {
	Claim(ctx context.Context, userID, orderID uuid.UUID, ids []uuid.UUID, at time.Time) (int64, error)
	ReleaseClaim(ctx context.Context, userID, orderID uuid.UUID) (int64, error)
}

type addressLoader interface {
	FindForUser(ctx context.Context, userID, id uuid.UUID) (*models.Address, error)
}

type orderCreator interface {
	Create(ctx context.Context, order *models.Order) error
}

type cartClearer interface {
	Clear(ctx context.Context, order *models.Order) error
}

// Service places orders from selected cart lines.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error)
}

// PlaceOrderInput is the checkout payload.
type PlaceOrderInput struct {
	LineIDs   []uuid.UUID `json:"line_ids"`
	AddressID uuid.UUID   `json:"address_id"`
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	Lines     lineLoader
	Claims    lineClaimer
	Addresses addressLoader
	Orders    orderCreator
	Cleaner   cartClearer
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
}

type service struct {
	lines     lineLoader
	claims    lineClaimer
	addresses addressLoader
	orders    orderCreator
	cleaner   cartClearer
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Lines == nil {
		return nil, fmt.Errorf("cart line loader required")
	}
	if params.Claims == nil {
		return nil, fmt.Errorf("cart line claimer required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address loader required")
	}
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
	return &service{
		lines:     params.Lines,
		claims:    params.Claims,
		addresses: params.Addresses,
		orders:    params.Orders,
		cleaner:   params.Cleaner,
		metrics:   params.Metrics,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// PlaceOrder validates the selection, claims the lines, writes the order, then removes the
// consumed cart lines. A line can be claimed by one checkout only, so concurrent attempts on the
// same line produce a single order. The order insert always happens before the cart delete. When
// only the delete fails the created order is returned together with a PARTIAL_COMMIT error.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error) {
	lineIDs := dedupe(input.LineIDs)
	fields := pkgerrors.FieldErrors{}
	if len(lineIDs) == 0 {
		fields["line_ids"] = "select at least one cart item"
	}
	if input.AddressID == uuid.Nil {
		fields["address_id"] = "select a delivery address"
	}
	if len(fields) > 0 {
		s.metrics.Outcome(metrics.OutcomeInvalid)
		return nil, pkgerrors.Validation("checkout selection incomplete", fields)
	}

	orderID := uuid.New()
	if err := s.claim(ctx, userID, orderID, lineIDs); err != nil {
		s.recordFailure(err)
		return nil, err
	}

	order, err := s.build(ctx, userID, orderID, lineIDs, input.AddressID)
	if err != nil {
		s.release(ctx, userID, orderID)
		s.recordFailure(err)
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.release(ctx, userID, orderID)
		s.metrics.Outcome(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "order could not be saved")
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	if err := s.cleaner.Clear(ctx, order); err != nil {
		s.metrics.Outcome(metrics.OutcomePartialCommit)
		s.logg.Error(ctx, "cart cleanup after order placement failed", err)
		dto := orders.FromModel(*order)
		return &dto, err
	}

	s.metrics.Outcome(metrics.OutcomePlaced)
	s.logg.Info(ctx, "order placed")
	dto := orders.FromModel(*order)
	return &dto, nil
}

// claim reserves every selected line for orderID or none of them.
func (s *service) claim(ctx context.Context, userID, orderID uuid.UUID, lineIDs []uuid.UUID) error {
	claimed, err := s.claims.Claim(ctx, userID, orderID, lineIDs, s.now().UTC())
	if err != nil {
		s.release(ctx, userID, orderID)
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "claim cart lines")
	}
	if claimed == int64(len(lineIDs)) {
		return nil
	}
	s.release(ctx, userID, orderID)

	lines, err := s.lines.FindByIDs(ctx, userID, lineIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load cart lines")
	}
	if missing := missingIDs(lineIDs, lines); len(missing) > 0 {
		return unavailable(len(missing))
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "cart items are already being checked out")
}

func (s *service) release(ctx context.Context, userID, orderID uuid.UUID) {
	if _, err := s.claims.ReleaseClaim(ctx, userID, orderID); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, orderID.String()), "release cart line claim", err)
	}
}

func (s *service) recordFailure(err error) {
	switch {
	case pkgerrors.HasCode(err, pkgerrors.CodeValidation):
		s.metrics.Outcome(metrics.OutcomeInvalid)
	case pkgerrors.HasCode(err, pkgerrors.CodeConflict):
		s.metrics.Outcome(metrics.OutcomeConflict)
	default:
		s.metrics.Outcome(metrics.OutcomeFailed)
	}
}

func unavailable(missing int) error {
	return pkgerrors.Validation("cart items no longer available", pkgerrors.FieldErrors{
		"line_ids": fmt.Sprintf("%d selected item(s) not found in cart", missing),
	})
}

func (s *service) build(ctx context.Context, userID, orderID uuid.UUID, lineIDs []uuid.UUID, addressID uuid.UUID) (*models.Order, error) {
	lines, err := s.lines.FindByIDs(ctx, userID, lineIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load cart lines")
	}
	if missing := missingIDs(lineIDs, lines); len(missing) > 0 {
		return nil, unavailable(len(missing))
	}

	addr, err := s.addresses.FindForUser(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Validation("delivery address not found", pkgerrors.FieldErrors{"address_id": "not found"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load address")
	}

	items, err := snapshotItems(lineIDs, lines)
	if err != nil {
		return nil, pkgerrors.Validation("cart item is invalid", pkgerrors.FieldErrors{"line_ids": err.Error()})
	}

	now := s.now().UTC()
	return &models.Order{
		ID:            orderID,
		UserID:        userID,
		Items:         items,
		Address:       address.Snapshot(*addr),
		PaymentMethod: enums.PaymentMethodCOD,
		TotalPrice:    items.Total(),
		Status:        enums.OrderStatusPending,
		SourceLineIDs: lineIDs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
