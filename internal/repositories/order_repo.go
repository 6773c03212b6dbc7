package repositories

import (
	"handmadehub/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// never deleted; the external OrderID is unique across the collection.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByOrderID(orderID string) (*models.Order, error)
	FindByEmailOrOrderID(query string) (*models.Order, error)
	Update(order *models.Order) error
	List(limit int) ([]models.Order, error)
	Count() (int64, error)
}
