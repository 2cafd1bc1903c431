package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakmont/storefront/pkg/db/models"
	"github.com/oakmont/storefront/pkg/pagination"
)

// Repository defines read access to the product catalog. The storefront never
// writes products; catalog CRUD lives in a separate admin surface.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params) ([]models.Product, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Product, int64, error) {
	normalized := params.Normalize()

	var total int64
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("created_at DESC").
		Limit(normalized.Limit).
		Offset(normalized.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
