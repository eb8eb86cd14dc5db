package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/canteen-api/models"
)

// sortableProductColumns whitelists the columns a client may sort by.
var sortableProductColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
}

// CatalogService manages the menu. Orders never read through it: they keep
// their own snapshot of name and price.
type CatalogService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewCatalogService(db *gorm.DB, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{db: db, log: log}
}

type ProductFilter struct {
	Search        string
	CategoryID    *uint
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	AvailableOnly bool
	SortBy        string
	Order         string
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	IsAvailable bool
	ImageURL    string
	CategoryID  *uint
}

// ProductPatch carries optional updates; nil fields are left alone.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	IsAvailable *bool
	ImageURL    *string
	CategoryID  *uint
}

func (s *CatalogService) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}

	column, ok := sortableProductColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		direction = "ASC"
	}

	products := []models.Product{}
	if err := q.Order(fmt.Sprintf("%s %s, id %s", column, direction, direction)).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product")
		}
		return nil, errors.Wrap(err, "load product")
	}
	return &product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validateProduct(in.Name, in.Price); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		IsAvailable: in.IsAvailable,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(tx, in.CategoryID); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(&product).Error, "create product")
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("product created")
	return &product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product")
			}
			return errors.Wrap(err, "load product")
		}

		if patch.Name != nil {
			product.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			product.Description = *patch.Description
		}
		if patch.Price != nil {
			product.Price = *patch.Price
		}
		if patch.IsAvailable != nil {
			product.IsAvailable = *patch.IsAvailable
		}
		if patch.ImageURL != nil {
			product.ImageURL = *patch.ImageURL
		}
		if patch.CategoryID != nil {
			if err := ensureCategory(tx, patch.CategoryID); err != nil {
				return err
			}
			product.CategoryID = patch.CategoryID
		}
		if err := validateProduct(product.Name, product.Price); err != nil {
			return err
		}

		product.Category = nil
		return errors.Wrap(tx.Save(&product).Error, "update product")
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct soft deletes the product. Carts still holding it will fail
// checkout with the product named as unavailable.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return notFound("product")
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context, withProducts bool) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Order("sort_order ASC, name ASC")
	if withProducts {
		q = q.Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("name ASC")
		})
	}

	categories := []models.Category{}
	if err := q.Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string, sortOrder int) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation("name", "name is required")
	}

	category := models.Category{Name: name, Description: description, SortOrder: sortOrder}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, errors.Wrap(err, "create category")
	}
	return &category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, name, description *string, sortOrder *int) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("category")
		}
		return nil, errors.Wrap(err, "load category")
	}

	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return nil, validation("name", "name is required")
		}
		category.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		category.Description = *description
	}
	if sortOrder != nil {
		category.SortOrder = *sortOrder
	}
	if err := s.db.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, errors.Wrap(err, "update category")
	}
	return &category, nil
}

// DeleteCategory detaches its products before removing the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Product{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return errors.Wrap(err, "detach products")
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete category")
		}
		if res.RowsAffected == 0 {
			return notFound("category")
		}
		return nil
	})
}

func validateProduct(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return validation("name", "name is required")
	}
	if price.IsNegative() {
		return validation("price", "price must not be negative")
	}
	return nil
}

func ensureCategory(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return errors.Wrap(err, "check category")
	}
	if count == 0 {
		return notFound("category")
	}
	return nil
}
