package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

const shoppingListQuery = `
	SELECT i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total
	FROM shopping_cart_entries sc
	JOIN recipe_ingredients ri ON ri.recipe_id = sc.recipe_id
	JOIN ingredients i ON i.id = ri.ingredient_id
	WHERE sc.user_id = ?
	GROUP BY i.name, i.measurement_unit
	ORDER BY i.name ASC, i.measurement_unit ASC
`

// ShoppingListStorage агрегирует корзину одним SQL-запросом через sqlx.
type ShoppingListStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewShoppingListStorage(db *sqlx.DB, logger *slog.Logger) *ShoppingListStorage {
	return &ShoppingListStorage{db: db, logger: logger}
}

func (s *ShoppingListStorage) AggregateShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error) {
	start := time.Now()

	items := []domain.ShoppingListItem{}
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(shoppingListQuery), userID); err != nil {
		s.logger.Error("failed to aggregate shopping list", "user_id", userID, "error", err)
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}

	s.logger.Info("shopping list aggregated",
		"user_id", userID,
		"items", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return items, nil
}
