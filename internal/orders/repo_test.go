package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oakmont/storefront/pkg/db/models"
	"github.com/oakmont/storefront/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  city TEXT,
  postal_code TEXT,
  country TEXT,
  payment_method TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  total NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  qty INTEGER NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(lineItems).Error)

	return db
}

func sampleOrder() *models.Order {
	orderID := uuid.New()
	productID := uuid.New()
	return &models.Order{
		ID:            orderID,
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Status:        enums.OrderStatusPending,
		Total:         decimal.NewFromFloat(8.5),
		Items: []models.OrderLineItem{
			{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: &productID,
				Name:      "Ceylon Tea",
				UnitPrice: decimal.NewFromFloat(4.25),
				Qty:       2,
				LineTotal: decimal.NewFromFloat(8.5),
			},
		},
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := sampleOrder()
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, "ada@example.com", found.CustomerEmail)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Ceylon Tea", found.Items[0].Name)
	assert.Equal(t, 2, found.Items[0].Qty)
	assert.True(t, found.Total.Equal(decimal.NewFromFloat(8.5)))
}

func TestRepositoryFindMissing(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := sampleOrder()
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusConfirmed))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, found.Status)
}

func TestRepositoryWithTx(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := sampleOrder()
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := repo.WithTx(tx).Create(context.Background(), order)
		return err
	})
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
}
