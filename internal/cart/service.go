package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
)

// Service exposes cart operations for the authenticated shopper.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error)
	RemoveItem(ctx context.Context, userID, lineID uuid.UUID) error
	ListItems(ctx context.Context, userID uuid.UUID) ([]LineDTO, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

// AddItemInput is the add-to-cart payload.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error) {
	fields := pkgerrors.FieldErrors{}
	if input.ProductID == uuid.Nil {
		fields["product_id"] = "is required"
	}
	if input.Quantity <= 0 {
		fields["quantity"] = "must be greater than zero"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("invalid cart item", fields)
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load product")
	}
	unitPrice := product.Price.Round(2)

	var saved models.CartLine
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByProduct(ctx, userID, product.ID)
		if err != nil {
			return err
		}
		if match := matchingLine(existing, unitPrice); match != nil {
			if err := repo.IncrementQuantity(ctx, userID, match.ID, input.Quantity); err != nil {
				return err
			}
			saved = *match
			saved.Quantity += input.Quantity
			return nil
		}
		saved = models.CartLine{
			UserID:      userID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   unitPrice,
			ImageURL:    product.ImageURL,
			Quantity:    input.Quantity,
		}
		return repo.Create(ctx, &saved)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save cart line")
	}
	dto := FromModel(saved)
	return &dto, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, lineID uuid.UUID) error {
	if lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}
	removed, err := s.repo.DeleteForUser(ctx, userID, lineID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "remove cart line")
	}
	if removed == 0 {
		held, err := s.repo.FindByIDs(ctx, userID, []uuid.UUID{lineID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load cart line")
		}
		if len(held) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart item is being checked out")
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID) ([]LineDTO, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list cart lines")
	}
	out := make([]LineDTO, 0, len(lines))
	for _, line := range lines {
		out = append(out, FromModel(line))
	}
	return out, nil
}

func matchingLine(lines []models.CartLine, unitPrice decimal.Decimal) *models.CartLine {
	for i := range lines {
		if lines[i].UnitPrice.Round(2).Equal(unitPrice) {
			return &lines[i]
		}
	}
	return nil
}
