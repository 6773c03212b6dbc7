package services_test

import (
	"fmt"
	"regexp"
	"testing"

	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
	"handmadehub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func newOrderService() (*services.OrderService, *repositories.MockOrderRepository) {
	repo := repositories.NewMockOrderRepository()
	return services.NewOrderService(repo, nil), repo
}

func mugOrder(email string) services.CreateOrderInput {
	return services.CreateOrderInput{
		Email: email,
		Items: []models.OrderItem{
			{ProductID: "P1", Title: "Mug", Qty: 2, Price: 100},
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	svc, _ := newOrderService()

	order, err := svc.CreateOrder(mugOrder("C@D.com"))
	assert.NoError(t, err)

	// Fresh orders start at stage 0 with exactly one tracking entry.
	assert.Equal(t, 0, order.StatusIndex)
	assert.Len(t, order.Tracking, 1)
	assert.Equal(t, "Order Placed", order.Tracking[0].Label)
	assert.False(t, order.Tracking[0].Time.IsZero())

	assert.Equal(t, "c@d.com", order.Email)
	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 200.0, order.Total)
	assert.Regexp(t, regexp.MustCompile(`^ORD-[0-9A-Z]{8}$`), order.OrderID)
	assert.NotEmpty(t, order.ID)
}

func TestOrderService_CreateOrder_MissingFields(t *testing.T) {
	svc, _ := newOrderService()

	_, err := svc.CreateOrder(services.CreateOrderInput{
		Items: []models.OrderItem{{ProductID: "P1", Qty: 1, Price: 10}},
	})
	assert.ErrorIs(t, err, services.ErrMissingFields)

	_, err = svc.CreateOrder(services.CreateOrderInput{Email: "c@d.com"})
	assert.ErrorIs(t, err, services.ErrMissingFields)
}

func TestOrderService_CreateOrder_ClientSuppliedID(t *testing.T) {
	svc, _ := newOrderService()

	input := mugOrder("alice@x.com")
	input.OrderID = "ORD-ABC123"
	order, err := svc.CreateOrder(input)
	assert.NoError(t, err)
	assert.Equal(t, "ORD-ABC123", order.OrderID)

	// A client-supplied id is never regenerated; a duplicate fails loudly.
	dup := mugOrder("other@x.com")
	dup.OrderID = "ord-abc123"
	_, err = svc.CreateOrder(dup)
	assert.ErrorIs(t, err, repositories.ErrDuplicateOrderID)
}

func TestOrderService_OrderIDUniqueness(t *testing.T) {
	svc, repo := newOrderService()

	const n = 10000
	for i := 0; i < n; i++ {
		_, err := svc.CreateOrder(mugOrder(fmt.Sprintf("buyer%d@x.com", i)))
		assert.NoError(t, err)
	}

	// The repository enforces uniqueness, so n successful creates mean n
	// distinct ids survived generation (including any retries).
	count, err := repo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

func TestOrderService_Lookup(t *testing.T) {
	svc, _ := newOrderService()

	input := mugOrder("alice@x.com")
	input.OrderID = "ORD-ABC123"
	_, err := svc.CreateOrder(input)
	assert.NoError(t, err)

	// Id-shaped query resolves through the id path, case-insensitively.
	view, err := svc.Lookup("ord-abc123")
	assert.NoError(t, err)
	assert.Equal(t, "ORD-ABC123", view.ID)
	assert.Equal(t, 0, view.StatusIndex)
	assert.Equal(t, 200.0, view.Subtotal)
	assert.Len(t, view.Tracking, 1)
	assert.Equal(t, "Order Placed", view.Tracking[0].Label)
	assert.NotEmpty(t, view.Tracking[0].Time)
	assert.NotEmpty(t, view.PlacedAt)

	// Email resolves through the fallback path.
	view, err = svc.Lookup("alice@x.com")
	assert.NoError(t, err)
	assert.Equal(t, "ORD-ABC123", view.ID)

	// An id-substring query that is not id-shaped still resolves.
	view, err = svc.Lookup("abc123")
	assert.NoError(t, err)
	assert.Equal(t, "ORD-ABC123", view.ID)

	// A nonexistent id does not fall through to an unrelated record.
	_, err = svc.Lookup("ORD-DOES-NOT-EXIST")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = svc.Lookup("  ")
	assert.ErrorIs(t, err, services.ErrMissingFields)
}

func TestOrderService_Lookup_RecomputesSubtotal(t *testing.T) {
	svc, _ := newOrderService()

	// Persisted total includes shipping; the lookup subtotal is re-derived
	// from items only, so the two legitimately differ.
	input := mugOrder("ship@x.com")
	input.ShippingCost = 25
	order, err := svc.CreateOrder(input)
	assert.NoError(t, err)
	assert.Equal(t, 225.0, order.Total)

	view, err := svc.Lookup("ship@x.com")
	assert.NoError(t, err)
	assert.Equal(t, 200.0, view.Subtotal)
}

func TestOrderService_AdvanceStatus(t *testing.T) {
	svc, _ := newOrderService()

	input := mugOrder("track@x.com")
	input.OrderID = "ORD-TRACK01"
	_, err := svc.CreateOrder(input)
	assert.NoError(t, err)

	// One stage forward is allowed and appends a tracking entry.
	order, err := svc.AdvanceStatus("ORD-TRACK01", "Processing")
	assert.NoError(t, err)
	assert.Equal(t, 1, order.StatusIndex)
	assert.Len(t, order.Tracking, 2)
	assert.Equal(t, "Processing", order.Tracking[1].Label)

	// Skipping a stage is rejected.
	_, err = svc.AdvanceStatus("ORD-TRACK01", "Out for Delivery")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	// Going backward is rejected.
	_, err = svc.AdvanceStatus("ORD-TRACK01", "Order Placed")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	// Unknown labels are rejected.
	_, err = svc.AdvanceStatus("ORD-TRACK01", "Teleported")
	assert.ErrorIs(t, err, services.ErrUnknownStage)

	// The full forward walk reaches Delivered with a complete timeline.
	for _, stage := range models.OrderStages[2:] {
		_, err = svc.AdvanceStatus("ORD-TRACK01", stage)
		assert.NoError(t, err)
	}
	final, err := svc.AdvanceStatus("ORD-TRACK01", "Delivered")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	assert.Nil(t, final)

	view, err := svc.Lookup("ORD-TRACK01")
	assert.NoError(t, err)
	assert.Equal(t, len(models.OrderStages)-1, view.StatusIndex)
	assert.Len(t, view.Tracking, len(models.OrderStages))

	_, err = svc.AdvanceStatus("ORD-MISSING", "Processing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_PublishesEvents(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	mq := new(MockPublisher)
	svc := services.NewOrderService(repo, mq)

	mq.On("Publish", "", "order_events", mock.Anything).Return(nil).Twice()

	input := mugOrder("events@x.com")
	input.OrderID = "ORD-EVENTS1"
	_, err := svc.CreateOrder(input)
	assert.NoError(t, err)

	_, err = svc.AdvanceStatus("ORD-EVENTS1", "Processing")
	assert.NoError(t, err)
	mq.AssertExpectations(t)
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	mq := new(MockPublisher)
	svc := services.NewOrderService(repo, mq)

	mq.On("Publish", "", "order_events", mock.Anything).
		Return(fmt.Errorf("broker down")).Once()

	order, err := svc.CreateOrder(mugOrder("broker@x.com"))
	assert.NoError(t, err)
	assert.NotNil(t, order)
	mq.AssertExpectations(t)
}
