package repositories

import (
	"handmadehub/internal/models"
)

// ProductFilter narrows a catalog listing. Nil/zero fields are ignored.
type ProductFilter struct {
	Featured  *bool
	Category  string
	ArtisanID string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	Count() (int64, error)
	CountByArtisan(artisanID string) (int64, error)
}
