package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"handmadehub/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It enforces the same order-id uniqueness the GORM index provides.
type MockOrderRepository struct {
	orders map[string]models.Order // keyed by internal ID
	byExt  map[string]string      // lowercased OrderID -> internal ID
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		byExt:  make(map[string]string),
	}
}

// Create adds a new order, rejecting duplicate external ids.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ext := strings.ToLower(order.OrderID)
	if _, exists := r.byExt[ext]; exists {
		return fmt.Errorf("create order %s: %w", order.OrderID, ErrDuplicateOrderID)
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	r.byExt[ext] = order.ID
	return nil
}

// GetByOrderID returns an order by its external id, case-insensitively.
func (r *MockOrderRepository) GetByOrderID(orderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[strings.ToLower(orderID)]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	order := r.orders[id]
	return &order, nil
}

// FindByEmailOrOrderID mirrors the GORM fallback query: exact lowercased
// email match or case-insensitive order-id substring match.
func (r *MockOrderRepository) FindByEmailOrOrderID(query string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	for _, order := range r.orders {
		if order.Email == q || strings.Contains(strings.ToLower(order.OrderID), q) {
			matched := order
			return &matched, nil
		}
	}
	return nil, fmt.Errorf("order matching %q: %w", query, ErrNotFound)
}

// Update modifies an existing order.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order %s: %w", order.OrderID, ErrNotFound)
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// List returns the most recent orders up to limit (0 means no limit).
func (r *MockOrderRepository) List(limit int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	if limit > 0 && len(orderList) > limit {
		orderList = orderList[:limit]
	}
	return orderList, nil
}

// Count returns the total number of orders.
func (r *MockOrderRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}
