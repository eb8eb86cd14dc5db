package services

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/canteen-api/database"
	"github.com/junaidrashid-git/canteen-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// fakeClock hands out strictly increasing timestamps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 9, 2, 11, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []models.Order
	changed []models.OrderStatus
	last    models.Order
}

func (n *recordingNotifier) OrderCreated(order models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, order)
}

func (n *recordingNotifier) OrderStatusChanged(order models.Order, from models.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, order.Status)
	n.last = order
}

type fixture struct {
	db       *gorm.DB
	orders   *OrderService
	carts    *CartService
	catalog  *CatalogService
	users    *UserService
	notifier *recordingNotifier
	hook     *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	logger, hook := newTestLogger()
	notifier := &recordingNotifier{}

	orders := NewOrderService(db, logger, notifier)
	orders.now = newFakeClock().Now

	return &fixture{
		db:       db,
		orders:   orders,
		carts:    NewCartService(db, logger),
		catalog:  NewCatalogService(db, logger),
		users:    NewUserService(db, logger),
		notifier: notifier,
		hook:     hook,
	}
}

func (f *fixture) product(t *testing.T, name, price string, available bool) models.Product {
	t.Helper()

	p := models.Product{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) counterValue(t *testing.T) int64 {
	t.Helper()

	var c models.Counter
	err := f.db.Where("name = ?", models.OrderCounterName).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return c.Value
}

func (f *fixture) cartItemCount(t *testing.T, userID string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.cart_id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Count(&n).Error)
	return n
}

func (f *fixture) orderCount(t *testing.T) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()

	require.Error(t, err)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, kind, domainErr.Kind, domainErr.Message)
	return domainErr
}
