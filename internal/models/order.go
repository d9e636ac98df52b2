package models

import "time"

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderCreated    OrderStatus = "CREATED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

// orderTransitions is the full transition table for the order state machine.
// CANCELLED and REFUNDED are terminal. Any pair not listed here is forbidden.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderCreated, OrderCancelled},
	OrderCreated:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderRefunded},
	OrderShipped:    {OrderCompleted},
	OrderCompleted:  {OrderRefunded},
	OrderCancelled:  {},
	OrderRefunded:   {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether the order state machine permits moving
// from s to the target status.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// OrderItem represents a single item within an order. Price is the unit
// price snapshotted at checkout, decoupled from the live product price.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // Price at the time of order
}

// Order represents a customer order.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID      string      `json:"customer_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);index"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
