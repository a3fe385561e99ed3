package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

// AutoMigrate строит схему средствами GORM. В проде схему ведёт golang-migrate
// (internal/database/migrations), AutoMigrate нужен для SQLite в тестах и локальной разработки.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Subscription{},
		&domain.Tag{},
		&domain.Ingredient{},
		&domain.Recipe{},
		&domain.RecipeIngredient{},
		&domain.RecipeTag{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, set := range []domain.MembershipSet{domain.FavoritesSet, domain.ShoppingCartSet} {
		if err := db.Table(string(set)).AutoMigrate(&domain.Membership{}); err != nil {
			return fmt.Errorf("automigrate %s: %w", set, err)
		}
	}
	return nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
