package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "PENDING"        // Placed by the customer, not yet picked up by the kitchen
	OrderStatusInPreparation OrderStatus = "IN_PREPARATION" // Kitchen is preparing it
	OrderStatusReady         OrderStatus = "READY"          // Waiting at the counter
	OrderStatusDelivered     OrderStatus = "DELIVERED"      // Handed over to the customer
	OrderStatusCancelled     OrderStatus = "CANCELLED"      // Cancelled by the customer or the canteen
)

// orderTransitions lists every legal status change. Terminal states map to
// an empty set and no state lists itself.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:       {OrderStatusInPreparation, OrderStatusCancelled},
	OrderStatusInPreparation: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:         {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:     {},
	OrderStatusCancelled:     {},
}

// ParseOrderStatus accepts any letter case, e.g. "ready" or "in_preparation".
func ParseOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", errors.Errorf("invalid order status %q", status)
	}
	return s, nil
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderTransitions[s]) == 0
}

// AllowedTransitions returns a copy of the statuses reachable from s.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	OrderNumber   int64                `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID        string               `gorm:"index;not null" json:"user_id"`
	User          *User                `gorm:"foreignKey:UserID" json:"customer,omitempty"`
	Items         []OrderItem          `gorm:"foreignKey:OrderID" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"status_history,omitempty"`
	TotalAmount   decimal.Decimal      `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status        OrderStatus          `gorm:"type:VARCHAR(20);index;not null" json:"status"`
	Notes         string               `json:"notes"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	PreparedAt    *time.Time           `json:"prepared_at,omitempty"`
	ReadyAt       *time.Time           `json:"ready_at,omitempty"`
	DeliveredAt   *time.Time           `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time           `json:"cancelled_at,omitempty"`
}

// StampStatus moves the order to status and records the matching milestone
// timestamp. It does not check the transition table.
func (o *Order) StampStatus(status OrderStatus, at time.Time) {
	o.Status = status
	switch status {
	case OrderStatusInPreparation:
		o.PreparedAt = &at
	case OrderStatusReady:
		o.ReadyAt = &at
	case OrderStatusDelivered:
		o.DeliveredAt = &at
	case OrderStatusCancelled:
		o.CancelledAt = &at
	}
}

// OrderItem is a snapshot of the product taken when the order was placed.
// Later catalog edits never touch it.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Notes       string          `json:"notes"`
}

// OrderStatusHistory rows are only ever inserted.
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);not null" json:"status"`
	ChangedBy *string     `gorm:"type:VARCHAR(128)" json:"changed_by"` // nil for system entries
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"created_at"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
