package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"handmadehub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts a new order. The unique index on order_id is the backstop
// for the id generator's check-and-retry loop: a concurrent insert of the
// same id surfaces as ErrDuplicateOrderID rather than a silent overwrite.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	if err := r.db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create order %s: %w", order.OrderID, ErrDuplicateOrderID)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByOrderID retrieves an order by its external id, case-insensitively.
func (r *GORMOrderRepository) GetByOrderID(orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, "LOWER(order_id) = ?", strings.ToLower(orderID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return &order, nil
}

// FindByEmailOrOrderID is the lookup fallback: exact match on lowercased
// email, or case-insensitive substring match on the external order id.
func (r *GORMOrderRepository) FindByEmailOrOrderID(query string) (*models.Order, error) {
	q := strings.ToLower(query)
	var order models.Order
	err := r.db.First(&order, "email = ? OR LOWER(order_id) LIKE ?", q, "%"+q+"%").Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order matching %q: %w", query, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up order %q: %w", query, err)
	}
	return &order, nil
}

// Update persists all fields of an existing order.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	order.UpdatedAt = time.Now()
	res := r.db.Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", order.OrderID, ErrNotFound)
	}
	return nil
}

// List retrieves the most recent orders up to limit (0 means no limit).
func (r *GORMOrderRepository) List(limit int) ([]models.Order, error) {
	q := r.db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Count returns the total number of orders.
func (r *GORMOrderRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
