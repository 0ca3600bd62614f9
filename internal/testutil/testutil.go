// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"testing"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/config"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database that lives as long as the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	password.Cost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(":memory:")), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// CreateUser inserts a user with password "secret123"
func CreateUser(t *testing.T, db *gorm.DB, username string, role domain.Role) *models.User {
	t.Helper()

	hash, err := password.Hash("secret123")
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		Type:     role,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

// CreateOffer inserts an offer owned by user with basic/standard/premium
// details priced at the given amounts and delivered in the given days
func CreateOffer(t *testing.T, db *gorm.DB, user *models.User, title string, prices [3]int, days [3]int) *models.Offer {
	t.Helper()

	types := []domain.OfferType{domain.OfferTypeBasic, domain.OfferTypeStandard, domain.OfferTypePremium}
	offer := &models.Offer{
		UserID:      user.ID,
		Title:       title,
		Description: title + " description",
	}
	require.NoError(t, db.Create(offer).Error)

	for i, ot := range types {
		offer.Details = append(offer.Details, models.OfferDetail{
			OfferID:            offer.ID,
			Title:              title + " " + string(ot),
			Revisions:          i + 1,
			DeliveryTimeInDays: days[i],
			Price:              prices[i],
			Features:           []string{"feature " + string(ot)},
			OfferType:          ot,
		})
	}
	require.NoError(t, db.Create(&offer.Details).Error)
	return offer
}
