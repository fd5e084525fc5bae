package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
)

// OpenTestDB opens an isolated in-memory database with the full schema and
// installs it, along with a test configuration, as the active instances.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.Store{},
		&models.Order{},
		&models.OrderItem{},
		&models.Contact{},
	)
	require.NoError(t, err, "Failed to migrate test database")

	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:         "test",
		JWTSecret:     "integration-test-secret",
		JWTExpireDays: 30,
		AdminEmail:    "admin@breakfast4u.in",
	})
	config.SetRedis(nil)
	services.SetMailer(nil)
	services.SetImageService(nil)

	return db
}
