package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	FindByProduct(ctx context.Context, userID, productID uuid.UUID) ([]models.CartLine, error)
	FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) error
	IncrementQuantity(ctx context.Context, userID, lineID uuid.UUID, delta int) error
	DeleteForUser(ctx context.Context, userID, lineID uuid.UUID) (int64, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
