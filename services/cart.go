package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/canteen-api/models"
)

// MaxItemQuantity caps a single cart line, however many adds built it up.
const MaxItemQuantity = 99

var errQuantityTooLarge = validation("quantity", fmt.Sprintf("quantity must not exceed %d", MaxItemQuantity))

type CartService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewCartService(db *gorm.DB, log logrus.FieldLogger) *CartService {
	return &CartService{db: db, log: log}
}

// GetCart returns the user's cart with live product data. An empty cart is
// created on first use.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCart(tx, userID, true)
		if err != nil {
			return err
		}
		if err := loadCartItems(tx, c); err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the cart. Adding a product
// that is already in the cart increases its quantity.
func (s *CartService) AddItem(ctx context.Context, userID string, productID uint, quantity int, notes string) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, validation("quantity", "quantity must be at least 1")
	}
	if quantity > MaxItemQuantity {
		return nil, errQuantityTooLarge
	}

	var item models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product")
			}
			return errors.Wrap(err, "load product")
		}
		if !product.Orderable() {
			return productUnavailable(product.Name)
		}

		cart, err := lockCart(tx, userID, true)
		if err != nil {
			return err
		}

		err = tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
		switch {
		case err == nil:
			if item.Quantity+quantity > MaxItemQuantity {
				return errQuantityTooLarge
			}
			item.Quantity += quantity
			if notes != "" {
				item.Notes = notes
			}
			if err := tx.Save(&item).Error; err != nil {
				return errors.Wrap(err, "update cart item")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CartID:    cart.CartID,
				ProductID: productID,
				Quantity:  quantity,
				Notes:     notes,
				AddedAt:   time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return errors.Wrap(err, "create cart item")
			}
		default:
			return errors.Wrap(err, "load cart item")
		}

		item.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   item.Quantity,
	}).Debug("cart item added")
	return &item, nil
}

// UpdateItem sets the quantity of a cart item. A quantity of zero or less
// removes the item, in which case the returned item is nil. A nil notes
// pointer leaves the notes untouched.
func (s *CartService) UpdateItem(ctx context.Context, userID string, itemID uint, quantity int, notes *string) (*models.CartItem, error) {
	if quantity > MaxItemQuantity {
		return nil, errQuantityTooLarge
	}

	var updated *models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID, false)
		if err != nil {
			if IsKind(err, KindNotFound) {
				return notFound("cart item")
			}
			return err
		}

		var item models.CartItem
		if err := tx.Where("id = ? AND cart_id = ?", itemID, cart.CartID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("cart item")
			}
			return errors.Wrap(err, "load cart item")
		}

		if quantity <= 0 {
			if err := tx.Delete(&item).Error; err != nil {
				return errors.Wrap(err, "delete cart item")
			}
			return nil
		}

		item.Quantity = quantity
		if notes != nil {
			item.Notes = *notes
		}
		if err := tx.Save(&item).Error; err != nil {
			return errors.Wrap(err, "update cart item")
		}
		if err := tx.Unscoped().First(&item.Product, item.ProductID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "load product")
		}
		updated = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, itemID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID, false)
		if err != nil {
			if IsKind(err, KindNotFound) {
				return notFound("cart item")
			}
			return err
		}

		res := tx.Where("id = ? AND cart_id = ?", itemID, cart.CartID).Delete(&models.CartItem{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete cart item")
		}
		if res.RowsAffected == 0 {
			return notFound("cart item")
		}
		return nil
	})
}

// Clear removes every item. Clearing a cart that does not exist yet is a no-op.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID, false)
		if err != nil {
			if IsKind(err, KindNotFound) {
				return nil
			}
			return err
		}
		return purgeCart(tx, cart.CartID)
	})
}

// readCartSnapshot loads the locked cart that an order is about to be built
// from. It fails before anything is written when the cart is missing or
// empty, or when any product in it cannot be ordered.
func readCartSnapshot(tx *gorm.DB, userID string) (*models.Cart, error) {
	cart, err := lockCart(tx, userID, false)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, errEmptyCart
		}
		return nil, err
	}
	if err := loadCartItems(tx, cart); err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, errEmptyCart
	}

	for _, item := range cart.Items {
		if item.Product.ID == 0 {
			return nil, productUnavailable(fmt.Sprintf("product #%d", item.ProductID))
		}
		if !item.Product.Orderable() {
			return nil, productUnavailable(item.Product.Name)
		}
	}
	return cart, nil
}

// lockCart takes a row lock on the user's cart for the rest of tx. With
// create set, a missing cart is created first; otherwise it is NotFound.
func lockCart(tx *gorm.DB, userID string, create bool) (*models.Cart, error) {
	cart, err := selectCartForUpdate(tx, userID)
	if err == nil || !create || !IsKind(err, KindNotFound) {
		return cart, err
	}

	// Two first requests may race here; the loser's insert is a no-op and
	// both then lock the same row.
	seed := models.Cart{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return selectCartForUpdate(tx, userID)
}

func selectCartForUpdate(tx *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("cart")
		}
		return nil, errors.Wrap(err, "lock cart")
	}
	return &cart, nil
}

// loadCartItems fills cart.Items in insertion order. Products are loaded
// even when soft deleted so the caller can name them.
func loadCartItems(tx *gorm.DB, cart *models.Cart) error {
	err := tx.Where("cart_id = ?", cart.CartID).
		Order("id ASC").
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Find(&cart.Items).Error
	return errors.Wrap(err, "load cart items")
}

func purgeCart(tx *gorm.DB, cartID uint) error {
	err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	return errors.Wrap(err, "purge cart")
}
