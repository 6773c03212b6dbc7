package models

import "time"

// OrderStages is the canonical forward-only status sequence. StatusIndex on
// an order is a position in this slice.
var OrderStages = []string{
	"Order Placed",
	"Processing",
	"Shipped",
	"Out for Delivery",
	"Delivered",
}

// StageIndex returns the position of a stage label in OrderStages, or -1.
func StageIndex(label string) int {
	for i, stage := range OrderStages {
		if stage == label {
			return i
		}
	}
	return -1
}

// OrderItem is a snapshot of one purchased line. Title and Price are frozen
// at checkout so later catalog edits never change historical orders.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// TrackingEvent is one append-only entry in an order's status timeline.
type TrackingEvent struct {
	Label string    `json:"label"`
	Time  time.Time `json:"time"`
}

// ShippingInfo is the destination block captured at checkout.
type ShippingInfo struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// Order is a purchase record. Orders are bound to a purchaser email, not a
// User id, because lookup is by free-text query rather than account.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string          `json:"orderId" gorm:"uniqueIndex;type:varchar(40)"`
	Email         string          `json:"email" gorm:"index;type:varchar(255)"`
	StatusIndex   int             `json:"statusIndex"`
	PlacedAt      time.Time       `json:"placedAt"`
	Items         []OrderItem     `json:"items" gorm:"serializer:json"`
	Tracking      []TrackingEvent `json:"tracking" gorm:"serializer:json"`
	Shipping      ShippingInfo    `json:"shipping" gorm:"serializer:json"`
	PaymentMethod string          `json:"paymentMethod" gorm:"type:varchar(50)"`
	Subtotal      float64         `json:"subtotal"`
	ShippingCost  float64         `json:"shippingCost"`
	Total         float64         `json:"total"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
