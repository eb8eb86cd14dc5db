package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCartTotal(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Quantity: 2, Product: Product{Price: decimal.RequireFromString("5.00")}},
		{Quantity: 1, Product: Product{Price: decimal.RequireFromString("3.00")}},
	}}

	assert.True(t, decimal.RequireFromString("13.00").Equal(cart.Total()), cart.Total().String())
	assert.False(t, cart.IsEmpty())
	assert.True(t, Cart{}.IsEmpty())
}

func TestProductOrderable(t *testing.T) {
	assert.True(t, Product{IsAvailable: true}.Orderable())
	assert.False(t, Product{IsAvailable: false}.Orderable())

	deleted := Product{IsAvailable: true, DeletedAt: gorm.DeletedAt{Valid: true}}
	assert.False(t, deleted.Orderable())
}
