package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

// SubscriptionStorage реализует ports.SubscriptionStorage с использованием GORM
type SubscriptionStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewSubscriptionStorage(db *gorm.DB, logger *slog.Logger) *SubscriptionStorage {
	return &SubscriptionStorage{db: db, logger: logger}
}

func (s *SubscriptionStorage) Subscribe(ctx context.Context, userID, authorID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&domain.Subscription{}).
			Where("user_id = ? AND author_id = ?", userID, authorID).
			Count(&exists).Error; err != nil {
			return fmt.Errorf("check subscription: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("subscription to %d: %w", authorID, domain.ErrConflict)
		}

		sub := domain.Subscription{UserID: userID, AuthorID: authorID, CreatedAt: time.Now().UTC()}
		if err := tx.Create(&sub).Error; err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("subscription to %d: %w", authorID, domain.ErrConflict)
			}
			return fmt.Errorf("insert subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("subscription not created", "user_id", userID, "author_id", authorID, "error", err)
		return err
	}

	s.logger.Info("subscription created", "user_id", userID, "author_id", authorID)
	return nil
}

func (s *SubscriptionStorage) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("subscription to %d: %w", authorID, domain.ErrNotFound)
	}

	s.logger.Info("subscription removed", "user_id", userID, "author_id", authorID)
	return nil
}

func (s *SubscriptionStorage) FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return out, nil
	}

	var found []int64
	err := s.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("lookup subscriptions: %w", err)
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

// ListFollowed возвращает авторов, на которых подписан пользователь, в порядке подписки.
func (s *SubscriptionStorage) ListFollowed(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	list := q.Select("users.*").Order("subscriptions.created_at ASC").Order("users.id ASC")
	if limit > 0 {
		list = list.Limit(limit).Offset(offset)
	}
	var authors []domain.User
	if err := list.Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	return authors, total, nil
}
