package database

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/canteen-api/config"
	"github.com/junaidrashid-git/canteen-api/models"
)

func TestMigrateInMemory(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []interface{}{
		&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{},
		&models.Counter{}, &models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{},
	} {
		assert.True(t, db.Migrator().HasTable(table), "%T", table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.CartItem{}, "idx_cart_product"))
}

func TestOpenSQLiteFile(t *testing.T) {
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.WarnLevel)

	cfg := config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "canteen.db"),
	}
	db, err := Open(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.Counter{Name: models.OrderCounterName, Value: 7}).Error)
	var c models.Counter
	require.NoError(t, db.First(&c, "name = ?", models.OrderCounterName).Error)
	assert.Equal(t, int64(7), c.Value)
}
