package services

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/canteen-api/models"
)

// nextOrderNumber increments the order counter and returns the new value.
// It must run inside the transaction that persists the order: the UPDATE
// holds the counter row lock until that transaction ends, so concurrent
// callers are serialized and a rolled back order also rolls back its number.
func nextOrderNumber(tx *gorm.DB) (int64, error) {
	seed := models.Counter{Name: models.OrderCounterName, Value: 0}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, errors.Wrap(err, "seed order counter")
	}

	res := tx.Model(&models.Counter{}).
		Where("name = ?", models.OrderCounterName).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "increment order counter")
	}
	if res.RowsAffected != 1 {
		return 0, &Error{
			Kind:    KindConcurrencyConflict,
			Message: "order number could not be reserved, please retry",
			Field:   models.OrderCounterName,
		}
	}

	var counter models.Counter
	if err := tx.Where("name = ?", models.OrderCounterName).First(&counter).Error; err != nil {
		return 0, errors.Wrap(err, "read order counter")
	}
	return counter.Value, nil
}
