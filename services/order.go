package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/canteen-api/models"
)

const (
	noteOrderCreated        = "order created"
	noteCancelledByCustomer = "cancelled by customer"

	defaultPageSize = 20
	maxPageSize     = 100
)

// OrderNotifier is told about committed order changes. Implementations must
// not block.
type OrderNotifier interface {
	OrderCreated(order models.Order)
	OrderStatusChanged(order models.Order, from models.OrderStatus)
}

type nopNotifier struct{}

func (nopNotifier) OrderCreated(models.Order)                           {}
func (nopNotifier) OrderStatusChanged(models.Order, models.OrderStatus) {}

type OrderService struct {
	db       *gorm.DB
	log      logrus.FieldLogger
	notifier OrderNotifier
	now      func() time.Time
}

// NewOrderService wires the order lifecycle. notifier may be nil.
func NewOrderService(db *gorm.DB, log logrus.FieldLogger, notifier OrderNotifier) *OrderService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &OrderService{db: db, log: log, notifier: notifier, now: time.Now}
}

// CreateFromCart turns the user's cart into a PENDING order. Reading the
// cart, minting the order number, inserting the order with its items and
// first history entry, and emptying the cart happen in one transaction.
func (s *OrderService) CreateFromCart(ctx context.Context, userID, notes string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := readCartSnapshot(tx, userID)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		total := decimal.Zero
		for _, ci := range cart.Items {
			subtotal := ci.Subtotal()
			total = total.Add(subtotal)
			items = append(items, models.OrderItem{
				ProductID:   ci.ProductID,
				ProductName: ci.Product.Name,
				UnitPrice:   ci.Product.Price,
				Quantity:    ci.Quantity,
				Subtotal:    subtotal,
				Notes:       ci.Notes,
			})
		}

		number, err := nextOrderNumber(tx)
		if err != nil {
			return err
		}

		now := s.now()
		order = models.Order{
			OrderNumber: number,
			UserID:      userID,
			Items:       items,
			StatusHistory: []models.OrderStatusHistory{{
				Status:    models.OrderStatusPending,
				Notes:     noteOrderCreated,
				CreatedAt: now,
			}},
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			Notes:       notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&order).Error; err != nil {
			return errors.Wrap(err, "create order")
		}

		return purgeCart(tx, cart.CartID)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total":        order.TotalAmount.StringFixed(2),
		"items":        len(order.Items),
	}).Info("order placed")
	s.notifier.OrderCreated(order)
	return &order, nil
}

// Cancel lets the owner cancel an order that the kitchen has not started.
func (s *OrderService) Cancel(ctx context.Context, orderID uint, userID string) (*models.Order, error) {
	var (
		order models.Order
		from  models.OrderStatus
	)
	if userID == "" {
		return nil, notFound("order")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, orderID, userID)
		if err != nil {
			return err
		}
		if o.Status != models.OrderStatusPending {
			return &Error{
				Kind:      KindInvalidState,
				Message:   msgOnlyPendingCancellable,
				Current:   o.Status,
				Requested: models.OrderStatusCancelled,
			}
		}

		from = o.Status
		actor := userID
		if err := s.applyTransition(tx, o, models.OrderStatusCancelled, &actor, noteCancelledByCustomer); err != nil {
			return err
		}
		order = *o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
	}).Info("order cancelled by customer")
	cancelled, err := s.reloadAndNotify(ctx, order.ID, from)
	if err != nil {
		return nil, err
	}
	cancelled.User = nil
	return cancelled, nil
}

// UpdateStatus moves an order along the status table on behalf of staff.
// Callers are responsible for checking that actorID is an administrator.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus, actorID, notes string) (*models.Order, error) {
	if !next.IsValid() {
		return nil, validation("status", "unknown order status "+next.String())
	}

	var (
		order models.Order
		from  models.OrderStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, orderID, "")
		if err != nil {
			return err
		}
		if !o.Status.CanTransitionTo(next) {
			return invalidTransition(o.Status, next)
		}

		from = o.Status
		actor := actorID
		if err := s.applyTransition(tx, o, next, &actor, notes); err != nil {
			return err
		}
		order = *o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"from":         from,
		"to":           next,
		"actor_id":     actorID,
	}).Info("order status changed")
	return s.reloadAndNotify(ctx, order.ID, from)
}

// reloadAndNotify reads the committed order back in full so listeners get
// the same shape an admin fetch would.
func (s *OrderService) reloadAndNotify(ctx context.Context, orderID uint, from models.OrderStatus) (*models.Order, error) {
	order, err := s.GetByID(ctx, orderID, "", true)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderStatusChanged(*order, from)
	return order, nil
}

// GetByID returns the order with items and history, newest history entry
// first. Non-admins only see their own orders; anything else is NotFound.
func (s *OrderService) GetByID(ctx context.Context, orderID uint, userID string, isAdmin bool) (*models.Order, error) {
	q := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Where("id = ?", orderID)
	if isAdmin {
		q = q.Preload("User")
	} else {
		q = q.Where("user_id = ?", userID)
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order")
		}
		return nil, errors.Wrap(err, "load order")
	}
	return &order, nil
}

type OrderFilter struct {
	UserID   string
	Status   models.OrderStatus
	Page     int
	PageSize int
}

func (f OrderFilter) normalized() OrderFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return f
}

type OrderPage struct {
	Orders   []models.Order `json:"orders"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ListForUser returns the user's own orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string, f OrderFilter) (*OrderPage, error) {
	f.UserID = userID
	return s.list(ctx, f, false)
}

// ListAll is the staff view across all customers.
func (s *OrderService) ListAll(ctx context.Context, f OrderFilter) (*OrderPage, error) {
	return s.list(ctx, f, true)
}

func (s *OrderService) list(ctx context.Context, f OrderFilter, withCustomer bool) (*OrderPage, error) {
	f = f.normalized()
	if f.Status != "" && !f.Status.IsValid() {
		return nil, validation("status", "unknown order status "+f.Status.String())
	}

	q := s.db.WithContext(ctx).Model(&models.Order{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count orders")
	}

	q = q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	if withCustomer {
		q = q.Preload("User")
	}

	orders := []models.Order{}
	if err := q.Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	return &OrderPage{Orders: orders, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// applyTransition writes the new status, its milestone timestamp and one
// history row. The caller has already validated the transition.
func (s *OrderService) applyTransition(tx *gorm.DB, o *models.Order, next models.OrderStatus, actor *string, notes string) error {
	now := s.now()
	o.StampStatus(next, now)
	o.UpdatedAt = now

	if err := tx.Model(o).Select("status", "updated_at", "prepared_at", "ready_at", "delivered_at", "cancelled_at").
		Updates(o).Error; err != nil {
		return errors.Wrap(err, "update order status")
	}

	entry := models.OrderStatusHistory{
		OrderID:   o.ID,
		Status:    next,
		ChangedBy: actor,
		Notes:     notes,
		CreatedAt: now,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return errors.Wrap(err, "append status history")
	}
	return nil
}

// lockOrder loads an order for update. A non-empty ownerID restricts the
// lookup to that user's orders.
func lockOrder(tx *gorm.DB, orderID uint, ownerID string) (*models.Order, error) {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", orderID)
	if ownerID != "" {
		q = q.Where("user_id = ?", ownerID)
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order")
		}
		return nil, errors.Wrap(err, "lock order")
	}
	return &order, nil
}
