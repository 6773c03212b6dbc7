package services

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
)

// EventPublisher is the slice of the RabbitMQ client the order service
// needs; tests substitute a mock.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// orderEventsQueue is the routing key order events are published under.
const orderEventsQueue = "order_events"

// maxOrderIDAttempts bounds the generate-check-retry loop for server-side
// order ids before failing loudly.
const maxOrderIDAttempts = 5

// orderIDPattern decides whether a lookup query looks like an order id.
var orderIDPattern = regexp.MustCompile(`(?i)^ORD[-_A-Za-z0-9]+$`)

const orderIDCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// OrderService owns order creation, the forward-only status lifecycle and
// the free-text lookup resolver.
type OrderService struct {
	orderRepo repositories.OrderRepository
	mq        EventPublisher
}

// NewOrderService creates a new OrderService. mq may be nil, in which case
// events are skipped.
func NewOrderService(orderRepo repositories.OrderRepository, mq EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		mq:        mq,
	}
}

// CreateOrderInput is the validated checkout payload.
type CreateOrderInput struct {
	OrderID       string
	Email         string
	Items         []models.OrderItem
	Shipping      models.ShippingInfo
	PaymentMethod string
	ShippingCost  float64
}

// CreateOrder persists a new order with statusIndex 0 and a single
// "Order Placed" tracking entry. Item prices are snapshotted as submitted,
// never re-derived from the live catalog. When the caller did not supply an
// order id, generation retries against the store's uniqueness constraint.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	email := models.CanonicalEmail(input.Email)
	if email == "" || len(input.Items) == 0 {
		return nil, ErrMissingFields
	}

	var subtotal float64
	for _, item := range input.Items {
		qty := item.Qty
		if qty <= 0 {
			qty = 1
		}
		subtotal += item.Price * float64(qty)
	}

	now := time.Now()
	order := &models.Order{
		Email:         email,
		StatusIndex:   0,
		PlacedAt:      now,
		Items:         input.Items,
		Tracking:      []models.TrackingEvent{{Label: models.OrderStages[0], Time: now}},
		Shipping:      input.Shipping,
		PaymentMethod: input.PaymentMethod,
		Subtotal:      subtotal,
		ShippingCost:  input.ShippingCost,
		Total:         subtotal + input.ShippingCost,
	}

	for attempt := 0; attempt < maxOrderIDAttempts; attempt++ {
		if input.OrderID != "" {
			order.OrderID = input.OrderID
		} else {
			order.OrderID = newOrderID()
		}

		err := s.orderRepo.Create(order)
		if err == nil {
			s.publishEvent("order.created", map[string]interface{}{
				"orderId": order.OrderID,
				"email":   order.Email,
				"total":   order.Total,
				"status":  models.OrderStages[order.StatusIndex],
			})
			return order, nil
		}
		if !errors.Is(err, repositories.ErrDuplicateOrderID) {
			return nil, err
		}
		if input.OrderID != "" {
			// Client-supplied ids are never regenerated.
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not allocate a unique order id after %d attempts", maxOrderIDAttempts)
}

// newOrderID returns "ORD-" plus 8 random uppercase base36 characters.
func newOrderID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the OS entropy source is broken;
		// fall back to a time-derived suffix rather than panicking.
		return fmt.Sprintf("ORD-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	for i, b := range buf {
		buf[i] = orderIDCharset[int(b)%len(orderIDCharset)]
	}
	return "ORD-" + string(buf)
}

// TrackingView is a tracking entry with its timestamp coerced to a display
// string for the storefront.
type TrackingView struct {
	Label string `json:"label"`
	Time  string `json:"time"`
}

// OrderView is the lookup response shape. Subtotal is recomputed from the
// stored items for display consistency; it may legitimately differ from the
// persisted total, which can include shipping.
type OrderView struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	StatusIndex int                `json:"statusIndex"`
	PlacedAt    string             `json:"placedAt"`
	Tracking    []TrackingView     `json:"tracking"`
	Items       []models.OrderItem `json:"items"`
	Subtotal    float64            `json:"subtotal"`
}

// Lookup resolves one free-text query to a single order. Queries shaped
// like an order id are tried as an exact case-insensitive id match first;
// anything unresolved falls back to an email or id-substring match.
func (s *OrderService) Lookup(query string) (*OrderView, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrMissingFields
	}

	var order *models.Order
	if orderIDPattern.MatchString(q) {
		found, err := s.orderRepo.GetByOrderID(q)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		order = found
	}
	if order == nil {
		found, err := s.orderRepo.FindByEmailOrOrderID(q)
		if err != nil {
			return nil, err
		}
		order = found
	}
	return buildOrderView(order), nil
}

func buildOrderView(order *models.Order) *OrderView {
	tracking := make([]TrackingView, 0, len(order.Tracking))
	for _, event := range order.Tracking {
		tracking = append(tracking, TrackingView{
			Label: event.Label,
			Time:  event.Time.Format(time.RFC3339),
		})
	}

	var subtotal float64
	for _, item := range order.Items {
		qty := item.Qty
		if qty <= 0 {
			qty = 1
		}
		subtotal += item.Price * float64(qty)
	}

	return &OrderView{
		ID:          order.OrderID,
		Email:       order.Email,
		StatusIndex: order.StatusIndex,
		PlacedAt:    order.PlacedAt.Format(time.RFC3339),
		Tracking:    tracking,
		Items:       order.Items,
		Subtotal:    subtotal,
	}
}

// AdvanceStatus moves an order to the named stage, which must be exactly
// one past its current statusIndex; backward or skipping transitions are
// rejected. A tracking entry is appended for the transition.
func (s *OrderService) AdvanceStatus(orderID, label string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	next := models.StageIndex(label)
	if next < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, label)
	}
	if next != order.StatusIndex+1 {
		return nil, fmt.Errorf("%w: at %q, got %q", ErrInvalidTransition,
			models.OrderStages[order.StatusIndex], label)
	}

	order.StatusIndex = next
	order.Tracking = append(order.Tracking, models.TrackingEvent{Label: label, Time: time.Now()})
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.publishEvent("order.status_updated", map[string]interface{}{
		"orderId": order.OrderID,
		"email":   order.Email,
		"status":  label,
		"index":   next,
	})
	return order, nil
}

// ListRecent returns the latest orders for the artisan/admin dashboards.
func (s *OrderService) ListRecent(limit int) ([]models.Order, error) {
	return s.orderRepo.List(limit)
}

// Count returns the total number of orders.
func (s *OrderService) Count() (int64, error) {
	return s.orderRepo.Count()
}

// publishEvent fires an order event at the queue; failures are logged and
// never fail the request.
func (s *OrderService) publishEvent(event string, payload map[string]interface{}) {
	if s.mq == nil {
		return
	}
	payload["event"] = event
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := s.mq.Publish("", orderEventsQueue, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
