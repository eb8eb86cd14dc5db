package models

// OrderCounterName is the counter row that mints order numbers.
const OrderCounterName = "order_counter"

type Counter struct {
	Name  string `gorm:"primaryKey;type:VARCHAR(64)"`
	Value int64  `gorm:"not null"`
}
