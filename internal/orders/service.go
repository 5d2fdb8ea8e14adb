package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	"github.com/mandlimart/mandlimart-backend/pkg/enums"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
	"github.com/mandlimart/mandlimart-backend/pkg/pagination"
)

// Service exposes order reads, fulfillment transitions and the realtime feed.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, rawStatus string) (*OrderDTO, error)
	RetryCartCleanup(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	Subscribe(ctx context.Context, userID uuid.UUID) (Feed, error)
}

type orderStore interface {
	FindForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, at time.Time) (bool, error)
}

type cartClearer interface {
	Clear(ctx context.Context, order *models.Order) error
}

type orderBroker interface {
	PublishOrderUpdate(ctx context.Context, order OrderDTO) error
	SubscribeOrders(ctx context.Context, userID string) (Feed, error)
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo         orderStore
	Cleaner      cartClearer
	Broker       orderBroker
	Logger       *logger.Logger
	DefaultLimit int
}

type service struct {
	repo         orderStore
	cleaner      cartClearer
	broker       orderBroker
	logg         *logger.Logger
	defaultLimit int
	now          func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Cleaner == nil {
		return nil, fmt.Errorf("cart cleaner required")
	}
	if params.Broker == nil {
		return nil, fmt.Errorf("order broker required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:         params.Repo,
		cleaner:      params.Cleaner,
		broker:       params.Broker,
		logg:         logg,
		defaultLimit: params.DefaultLimit,
		now:          time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error) {
	limit := params.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = pagination.NormalizeLimit(limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListByUser(ctx, userID, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	page := pagination.Trim(dtos, limit, func(o OrderDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return &page, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, rawStatus string) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, pkgerrors.Validation("invalid status", pkgerrors.FieldErrors{"status": err.Error()})
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status cannot change").
			WithDetails(map[string]string{"from": string(order.Status), "to": string(next)})
	}

	at := s.now().UTC()
	updated, err := s.repo.UpdateStatus(ctx, order.ID, order.Status, next, at)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update order status")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}
	order.Status = next
	order.UpdatedAt = at

	dto := FromModel(*order)
	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	if err := s.broker.PublishOrderUpdate(ctx, dto); err != nil {
		s.logg.Error(ctx, "publish order update", err)
	}
	return &dto, nil
}

// RetryCartCleanup re-runs only the cart removal step. A failed retry returns the order with the error.
func (s *service) RetryCartCleanup(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.CartClearedAt == nil {
		if err := s.cleaner.Clear(ctx, order); err != nil {
			dto := FromModel(*order)
			return &dto, err
		}
	}
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) Subscribe(ctx context.Context, userID uuid.UUID) (Feed, error) {
	feed, err := s.broker.SubscribeOrders(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "subscribe to order updates")
	}
	return feed, nil
}

func (s *service) loadForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load order")
	}
	return order, nil
}
