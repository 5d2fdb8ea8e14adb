package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	product "github.com/mandlimart/mandlimart-backend/internal/products"
	"github.com/mandlimart/mandlimart-backend/pkg/db"
	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	"github.com/mandlimart/mandlimart-backend/pkg/db/sqlitetest"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
)

type fixture struct {
	conn     *gorm.DB
	svc      Service
	products *product.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := sqlitetest.Open(t)
	products := product.NewRepository(conn)
	svc, err := NewService(NewRepository(conn), db.NewFromGorm(conn), products)
	require.NoError(t, err)
	return fixture{conn: conn, svc: svc, products: products}
}

func (f fixture) product(t *testing.T, name string, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.RequireFromString(price), ImageURL: "https://img/" + name}
	require.NoError(t, f.products.Create(context.Background(), &p))
	return p
}

func TestAddItemCopiesProductSnapshot(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	apple := f.product(t, "Apple", "50.00")

	line, err := f.svc.AddItem(context.Background(), user, AddItemInput{ProductID: apple.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "Apple", line.ProductName)
	assert.Equal(t, apple.ImageURL, line.ImageURL)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, line.LineTotal.Equal(decimal.NewFromInt(100)))
}

func TestAddItemMergesSameProductAndPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	apple := f.product(t, "Apple", "50.00")

	first, err := f.svc.AddItem(ctx, user, AddItemInput{ProductID: apple.ID, Quantity: 1})
	require.NoError(t, err)
	second, err := f.svc.AddItem(ctx, user, AddItemInput{ProductID: apple.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Quantity)

	lines, err := f.svc.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestAddItemKeepsSeparateLineWhenPriceChanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	apple := f.product(t, "Apple", "50.00")

	_, err := f.svc.AddItem(ctx, user, AddItemInput{ProductID: apple.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.conn.Model(&models.Product{}).Where("id = ?", apple.ID).Update("price", decimal.RequireFromString("55.00")).Error)
	_, err = f.svc.AddItem(ctx, user, AddItemInput{ProductID: apple.ID, Quantity: 1})
	require.NoError(t, err)

	lines, err := f.svc.ListItems(ctx, user)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAddItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, uuid.New(), AddItemInput{ProductID: uuid.New(), Quantity: 0})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.AddItem(ctx, uuid.New(), AddItemInput{ProductID: uuid.New(), Quantity: 1})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestRemoveItemIsScopedToUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	apple := f.product(t, "Apple", "50.00")

	line, err := f.svc.AddItem(ctx, owner, AddItemInput{ProductID: apple.ID, Quantity: 1})
	require.NoError(t, err)

	err = f.svc.RemoveItem(ctx, stranger, line.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, f.svc.RemoveItem(ctx, owner, line.ID))
	lines, err := f.svc.ListItems(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestClaimedLineIsHeldForCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	repo := NewRepository(f.conn)
	apple := f.product(t, "Apple", "50.00")

	line, err := f.svc.AddItem(ctx, user, AddItemInput{ProductID: apple.ID, Quantity: 2})
	require.NoError(t, err)
	orderID := uuid.New()
	claimed, err := repo.Claim(ctx, user, orderID, []uuid.UUID{line.ID}, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, int64(1), claimed)

	again, err := repo.Claim(ctx, user, uuid.New(), []uuid.UUID{line.ID}, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, again)

	err = f.svc.RemoveItem(ctx, user, line.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	added, err := f.svc.AddItem(ctx, user, AddItemInput{ProductID: apple.ID, Quantity: 1})
	require.NoError(t, err)
	assert.NotEqual(t, line.ID, added.ID)
	assert.Equal(t, 1, added.Quantity)

	items, err := f.svc.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 2)
	byID := map[uuid.UUID]LineDTO{items[0].ID: items[0], items[1].ID: items[1]}
	assert.True(t, byID[line.ID].CheckoutPending)
	assert.Equal(t, 2, byID[line.ID].Quantity)
	assert.False(t, byID[added.ID].CheckoutPending)

	released, err := repo.ReleaseClaim(ctx, user, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
	require.NoError(t, f.svc.RemoveItem(ctx, user, line.ID))
}

func TestListItemsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	for _, name := range []string{"Apple", "Bread", "Curd"} {
		p := f.product(t, name, "10.00")
		_, err := f.svc.AddItem(ctx, user, AddItemInput{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	first, err := f.svc.ListItems(ctx, user)
	require.NoError(t, err)
	second, err := f.svc.ListItems(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "Apple", first[0].ProductName)

	other, err := f.svc.ListItems(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSubtotalCountsOnlySelectedLines(t *testing.T) {
	a := LineDTO{ID: uuid.New(), UnitPrice: decimal.RequireFromString("50"), Quantity: 2}
	b := LineDTO{ID: uuid.New(), UnitPrice: decimal.RequireFromString("20"), Quantity: 1}
	c := LineDTO{ID: uuid.New(), UnitPrice: decimal.RequireFromString("0.333"), Quantity: 3}
	lines := []LineDTO{a, b, c}

	assert.True(t, Subtotal(lines, []uuid.UUID{a.ID, b.ID}).Equal(decimal.NewFromInt(120)))
	assert.True(t, Subtotal(lines, []uuid.UUID{c.ID}).Equal(decimal.RequireFromString("1.00")))
	assert.True(t, Subtotal(lines, nil).IsZero())
	assert.True(t, Subtotal(lines, []uuid.UUID{uuid.New()}).IsZero())
}
