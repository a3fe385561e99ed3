package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

// MembershipStorage хранит множество пар (user, recipe) в таблице, заданной set.
// Избранное и корзина отличаются только таблицей.
type MembershipStorage struct {
	db     *gorm.DB
	set    domain.MembershipSet
	logger *slog.Logger
}

func NewMembershipStorage(db *gorm.DB, set domain.MembershipSet, logger *slog.Logger) *MembershipStorage {
	return &MembershipStorage{db: db, set: set, logger: logger.With("set", string(set))}
}

func NewFavoriteStorage(db *gorm.DB, logger *slog.Logger) *MembershipStorage {
	return NewMembershipStorage(db, domain.FavoritesSet, logger)
}

func NewShoppingCartStorage(db *gorm.DB, logger *slog.Logger) *MembershipStorage {
	return NewMembershipStorage(db, domain.ShoppingCartSet, logger)
}

func (s *MembershipStorage) Set() domain.MembershipSet {
	return s.set
}

func (s *MembershipStorage) table(tx *gorm.DB) *gorm.DB {
	return tx.Table(string(s.set))
}

func (s *MembershipStorage) Add(ctx context.Context, userID, recipeID int64) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := s.table(tx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&exists).Error; err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("recipe %d in %s: %w", recipeID, s.set, domain.ErrConflict)
		}

		row := domain.Membership{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now().UTC()}
		if err := s.table(tx).Create(&row).Error; err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("recipe %d in %s: %w", recipeID, s.set, domain.ErrConflict)
			}
			return fmt.Errorf("insert membership: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("membership not added", "user_id", userID, "recipe_id", recipeID, "error", err)
		return err
	}

	s.logger.Info("membership added",
		"user_id", userID,
		"recipe_id", recipeID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *MembershipStorage) Remove(ctx context.Context, userID, recipeID int64) error {
	res := s.table(s.db.WithContext(ctx)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.Membership{})
	if res.Error != nil {
		s.logger.Error("failed to remove membership", "user_id", userID, "recipe_id", recipeID, "error", res.Error)
		return fmt.Errorf("delete membership: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recipe %d in %s: %w", recipeID, s.set, domain.ErrNotFound)
	}

	s.logger.Info("membership removed", "user_id", userID, "recipe_id", recipeID)
	return nil
}

// ContainsAny отвечает, какие из recipeIDs входят в множество пользователя.
func (s *MembershipStorage) ContainsAny(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}

	var found []int64
	err := s.table(s.db.WithContext(ctx)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", s.set, err)
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}
