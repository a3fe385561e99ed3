package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/metrics"
)

// membershipUseCase реализует MembershipUseCase поверх одного множества:
// избранного или корзины. Логика у них одинаковая.
type membershipUseCase struct {
	set           ports.MembershipStorage
	recipeStorage ports.RecipeStorage
	logger        *slog.Logger
}

// NewMembershipUseCase создает MembershipUseCase для переданного множества
func NewMembershipUseCase(set ports.MembershipStorage, recipeStorage ports.RecipeStorage, logger *slog.Logger) MembershipUseCase {
	return &membershipUseCase{
		set:           set,
		recipeStorage: recipeStorage,
		logger:        logger.With("set", string(set.Set())),
	}
}

// Add проверяет, что рецепт существует, и добавляет его в множество зрителя.
func (uc *membershipUseCase) Add(ctx context.Context, viewerID, recipeID int64) (_ *ShortRecipeView, err error) {
	defer func() { uc.observe("add", err) }()

	if viewerID == 0 {
		return nil, domain.ErrUnauthorized
	}
	recipe, err := uc.recipeStorage.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := uc.set.Add(ctx, viewerID, recipeID); err != nil {
		return nil, fmt.Errorf("usecase: рецепт %d в %s: %w", recipeID, uc.set.Set(), err)
	}

	uc.logger.Info("usecase: рецепт добавлен", "user_id", viewerID, "recipe_id", recipeID)
	view := shortRecipeView(*recipe)
	return &view, nil
}

// Remove убирает рецепт из множества зрителя.
func (uc *membershipUseCase) Remove(ctx context.Context, viewerID, recipeID int64) (err error) {
	defer func() { uc.observe("remove", err) }()

	if viewerID == 0 {
		return domain.ErrUnauthorized
	}
	if _, err := uc.recipeStorage.GetRecipe(ctx, recipeID); err != nil {
		return err
	}
	if err := uc.set.Remove(ctx, viewerID, recipeID); err != nil {
		return fmt.Errorf("usecase: рецепт %d в %s: %w", recipeID, uc.set.Set(), err)
	}

	uc.logger.Info("usecase: рецепт убран", "user_id", viewerID, "recipe_id", recipeID)
	return nil
}

func (uc *membershipUseCase) observe(operation string, err error) {
	metrics.MembershipChanges.WithLabelValues(string(uc.set.Set()), operation, metrics.Result(err)).Inc()
}
