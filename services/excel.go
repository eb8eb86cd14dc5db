package services

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/canteen-api/models"
)

var productSheetHeaders = []string{
	"ID", "Name", "Description", "Price", "Available", "CategoryID", "ImageURL",
}

type ImportResult struct {
	Created int `json:"created_count"`
	Updated int `json:"updated_count"`
	Skipped int `json:"skipped_count"`
}

// ExportProducts writes the whole menu, soft-deleted products excluded, as
// a single-sheet workbook.
func (s *CatalogService) ExportProducts(ctx context.Context, w io.Writer) error {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return errors.Wrap(err, "load products")
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return errors.Wrap(err, "add sheet")
	}

	header := sheet.AddRow()
	for _, h := range productSheetHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(strconv.FormatUint(uint64(p.ID), 10))
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(formatAvailable(p.IsAvailable))
		categoryID := ""
		if p.CategoryID != nil {
			categoryID = strconv.FormatUint(uint64(*p.CategoryID), 10)
		}
		row.AddCell().SetValue(categoryID)
		row.AddCell().SetValue(p.ImageURL)
	}

	return errors.Wrap(file.Write(w), "write workbook")
}

// ImportProducts reads a workbook in the export layout. Rows with a known ID
// update that product, rows without one create a product, and rows that do
// not parse are counted as skipped.
func (s *CatalogService) ImportProducts(ctx context.Context, r io.ReaderAt, size int64) (*ImportResult, error) {
	book, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, validation("file", "file is not a readable xlsx workbook")
	}
	if len(book.Sheets) == 0 || book.Sheets[0].MaxRow < 2 {
		return nil, validation("file", "workbook is empty or missing the header row")
	}

	sheet := book.Sheets[0]
	result := &ImportResult{}
	db := s.db.WithContext(ctx)

	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		if row == nil {
			result.Skipped++
			continue
		}
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(1)
		price, err := decimal.NewFromString(get(3))
		if name == "" || err != nil || price.IsNegative() {
			result.Skipped++
			continue
		}
		var categoryID *uint
		if raw := get(5); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				result.Skipped++
				continue
			}
			cid := uint(id)
			categoryID = &cid
		}

		fields := models.Product{
			Name:        name,
			Description: get(2),
			Price:       price,
			IsAvailable: parseAvailable(get(4)),
			CategoryID:  categoryID,
			ImageURL:    get(6),
		}

		created, err := upsertImportedProduct(db, get(0), fields)
		switch {
		case err != nil:
			s.log.WithError(err).WithField("row", i+1).Warn("product import row skipped")
			result.Skipped++
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}

	s.log.WithFields(logrus.Fields{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("product import finished")
	return result, nil
}

func upsertImportedProduct(db *gorm.DB, rawID string, fields models.Product) (bool, error) {
	if rawID != "" {
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			return false, errors.Wrapf(err, "parse id %q", rawID)
		}

		var existing models.Product
		err = db.First(&existing, uint(id)).Error
		if err == nil {
			existing.Name = fields.Name
			existing.Description = fields.Description
			existing.Price = fields.Price
			existing.IsAvailable = fields.IsAvailable
			existing.CategoryID = fields.CategoryID
			existing.ImageURL = fields.ImageURL
			return false, errors.Wrap(db.Save(&existing).Error, "update product")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.Wrap(err, "load product")
		}
	}

	return true, errors.Wrap(db.Create(&fields).Error, "create product")
}

func formatAvailable(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func parseAvailable(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}
