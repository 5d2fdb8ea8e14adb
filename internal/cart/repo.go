package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
)

// Repository exposes persistence operations for cart lines. Every query is scoped by user id.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListByUser returns the user's lines oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

// FindByProduct returns the user's unclaimed lines for one product.
func (r *Repository) FindByProduct(ctx context.Context, userID, productID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND checkout_order_id IS NULL", userID, productID).
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}

// FindByIDs loads the requested lines owned by userID. Ids owned by other users are silently absent.
func (r *Repository) FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	if len(ids) == 0 {
		return lines, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("created_at ASC").
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *Repository) Create(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// IncrementQuantity adds delta to an existing unclaimed line.
func (r *Repository) IncrementQuantity(ctx context.Context, userID, lineID uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND user_id = ? AND checkout_order_id IS NULL", lineID, userID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteForUser removes one unclaimed line and reports how many rows went away.
func (r *Repository) DeleteForUser(ctx context.Context, userID, lineID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND checkout_order_id IS NULL", lineID, userID).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

// Claim marks the listed unclaimed lines as consumed by orderID in a single statement and
// reports how many were claimed. Lines already claimed by another checkout are left alone.
func (r *Repository) Claim(ctx context.Context, userID, orderID uuid.UUID, ids []uuid.UUID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND id IN ? AND checkout_order_id IS NULL", userID, ids).
		UpdateColumns(map[string]any{"checkout_order_id": orderID, "checkout_claimed_at": at})
	return res.RowsAffected, res.Error
}

// ReleaseClaim returns the lines claimed by orderID to the cart, unless that order was saved.
func (r *Repository) ReleaseClaim(ctx context.Context, userID, orderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND checkout_order_id = ?", userID, orderID).
		Where(orderMissing).
		UpdateColumns(clearClaim())
	return res.RowsAffected, res.Error
}

// ReleaseStaleClaims frees lines claimed before cutoff by checkouts that never saved their order.
func (r *Repository) ReleaseStaleClaims(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("checkout_order_id IS NOT NULL AND checkout_claimed_at < ?", cutoff).
		Where(orderMissing).
		UpdateColumns(clearClaim())
	return res.RowsAffected, res.Error
}

// DeleteClaimed removes the listed lines held by orderID. Ids that are already gone are ignored.
func (r *Repository) DeleteClaimed(ctx context.Context, userID, orderID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ? AND checkout_order_id = ?", userID, ids, orderID).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

const orderMissing = "NOT EXISTS (SELECT 1 FROM orders WHERE orders.id = cart_lines.checkout_order_id)"

func clearClaim() map[string]any {
	return map[string]any{"checkout_order_id": nil, "checkout_claimed_at": nil}
}
