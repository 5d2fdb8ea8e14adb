package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
)

// Repository reads the product catalog.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns products ordered by name. A non-empty search filters by a
// case-insensitive substring of the name.
func (r *Repository) List(ctx context.Context, search string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(term)+"%")
	}
	var rows []models.Product
	if err := query.Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a product; used by seeding and tests.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func escapeLike(term string) string {
	return strings.NewReplacer(`%`, `\%`, `_`, `\_`).Replace(term)
}
