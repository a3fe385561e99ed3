package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
	"github.com/GoArmGo/Foodgram/internal/metrics"
	"github.com/GoArmGo/Foodgram/internal/validation"
)

// Причины удаления картинки, уходят в очередь вместе с ключом.
const (
	CleanupReasonWriteFailed = "write_failed"
	CleanupReasonReplaced    = "replaced"
	CleanupReasonDeleted     = "recipe_deleted"
)

// recipeUseCase реализует RecipeUseCase
type recipeUseCase struct {
	recipeStorage ports.RecipeStorage
	fileStorage   ports.FileStorage
	cleanup       ports.ImageCleanupPublisher
	projector     *Projector
	logger        *slog.Logger
}

// NewRecipeUseCase создает новый экземпляр RecipeUseCase
func NewRecipeUseCase(
	recipeStorage ports.RecipeStorage,
	fileStorage ports.FileStorage,
	cleanup ports.ImageCleanupPublisher,
	projector *Projector,
	logger *slog.Logger,
) RecipeUseCase {
	return &recipeUseCase{
		recipeStorage: recipeStorage,
		fileStorage:   fileStorage,
		cleanup:       cleanup,
		projector:     projector,
		logger:        logger,
	}
}

// CreateRecipe проверяет ввод, загружает картинку в S3 и пишет рецепт одной транзакцией.
// Если транзакция не прошла, загруженная картинка ставится в очередь на удаление.
func (uc *recipeUseCase) CreateRecipe(ctx context.Context, viewerID int64, in RecipeInput) (_ *RecipeView, err error) {
	start := time.Now()
	defer func() { metrics.RecipeWrites.WithLabelValues("create", metrics.Result(err)).Inc() }()

	if viewerID == 0 {
		return nil, domain.ErrUnauthorized
	}
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Image == "" {
		return nil, domain.NewValidationError("image", "This field is required.")
	}

	w := recipeWrite(in)
	if err := uc.recipeStorage.CheckReferences(ctx, w); err != nil {
		return nil, err
	}

	img, err := uc.uploadImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	w.Recipe.AuthorID = viewerID
	w.Recipe.Image = img.url
	w.Recipe.ImageKey = img.key

	recipe, err := uc.recipeStorage.CreateRecipe(ctx, w)
	if err != nil {
		uc.scheduleCleanup(ctx, img.key, 0, CleanupReasonWriteFailed)
		return nil, fmt.Errorf("usecase: ошибка при создании рецепта: %w", err)
	}

	uc.logger.Info("usecase: рецепт создан",
		"recipe_id", recipe.ID,
		"author_id", viewerID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return uc.projector.Recipe(ctx, *recipe, viewerID)
}

// UpdateRecipe полностью заменяет ингредиенты и теги рецепта. Править может только автор.
func (uc *recipeUseCase) UpdateRecipe(ctx context.Context, viewerID, recipeID int64, in RecipeInput) (_ *RecipeView, err error) {
	start := time.Now()
	defer func() { metrics.RecipeWrites.WithLabelValues("update", metrics.Result(err)).Inc() }()

	if viewerID == 0 {
		return nil, domain.ErrUnauthorized
	}
	current, err := uc.recipeStorage.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != viewerID {
		return nil, domain.ErrForbidden
	}
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	w := recipeWrite(in)
	w.Recipe.ID = recipeID
	if err := uc.recipeStorage.CheckReferences(ctx, w); err != nil {
		return nil, err
	}

	var img *uploadedImage
	if in.Image != "" {
		img, err = uc.uploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		w.Recipe.Image = img.url
		w.Recipe.ImageKey = img.key
	}

	recipe, err := uc.recipeStorage.UpdateRecipe(ctx, w)
	if err != nil {
		if img != nil {
			uc.scheduleCleanup(ctx, img.key, recipeID, CleanupReasonWriteFailed)
		}
		return nil, fmt.Errorf("usecase: ошибка при обновлении рецепта %d: %w", recipeID, err)
	}
	if img != nil && current.ImageKey != "" && current.ImageKey != img.key {
		uc.scheduleCleanup(ctx, current.ImageKey, recipeID, CleanupReasonReplaced)
	}

	uc.logger.Info("usecase: рецепт обновлён",
		"recipe_id", recipeID,
		"image_replaced", img != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return uc.projector.Recipe(ctx, *recipe, viewerID)
}

// DeleteRecipe удаляет рецепт автора вместе с его строками в избранном и корзинах.
func (uc *recipeUseCase) DeleteRecipe(ctx context.Context, viewerID, recipeID int64) (err error) {
	defer func() { metrics.RecipeWrites.WithLabelValues("delete", metrics.Result(err)).Inc() }()

	if viewerID == 0 {
		return domain.ErrUnauthorized
	}
	current, err := uc.recipeStorage.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if current.AuthorID != viewerID {
		return domain.ErrForbidden
	}
	if err := uc.recipeStorage.DeleteRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("usecase: ошибка при удалении рецепта %d: %w", recipeID, err)
	}
	if current.ImageKey != "" {
		uc.scheduleCleanup(ctx, current.ImageKey, recipeID, CleanupReasonDeleted)
	}

	uc.logger.Info("usecase: рецепт удалён", "recipe_id", recipeID, "author_id", viewerID)
	return nil
}

func (uc *recipeUseCase) GetRecipe(ctx context.Context, viewerID, recipeID int64) (*RecipeView, error) {
	recipe, err := uc.recipeStorage.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return uc.projector.Recipe(ctx, *recipe, viewerID)
}

// ListRecipes отдаёт страницу рецептов, новые первыми.
// Фильтры is_favorited и is_in_shopping_cart для анонима ничего не отсекают.
func (uc *recipeUseCase) ListRecipes(ctx context.Context, viewerID int64, q RecipeListQuery) (Page[RecipeView], error) {
	recipes, total, err := uc.recipeStorage.ListRecipes(ctx, ports.RecipeFilter{
		AuthorIDs:      q.AuthorIDs,
		TagSlugs:       q.TagSlugs,
		Favorited:      q.IsFavorited,
		InShoppingCart: q.InShoppingCart,
		ViewerID:       viewerID,
		Limit:          q.Limit,
		Offset:         q.Offset(),
	})
	if err != nil {
		return Page[RecipeView]{}, fmt.Errorf("usecase: ошибка при получении списка рецептов: %w", err)
	}

	views, err := uc.projector.Recipes(ctx, recipes, viewerID)
	if err != nil {
		return Page[RecipeView]{}, err
	}
	return Page[RecipeView]{Items: views, Total: total}, nil
}

type uploadedImage struct {
	key string
	url string
}

func (uc *recipeUseCase) uploadImage(ctx context.Context, dataURL string) (*uploadedImage, error) {
	img, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	url, err := uc.fileStorage.UploadFile(ctx, img.Key, img.Reader(), img.ContentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка загрузки картинки %s в S3: %w", img.Key, err)
	}
	return &uploadedImage{key: img.Key, url: url}, nil
}

// scheduleCleanup ставит удаление картинки в очередь. Ошибка публикации только логируется.
func (uc *recipeUseCase) scheduleCleanup(ctx context.Context, key string, recipeID int64, reason string) {
	err := uc.cleanup.PublishImageCleanup(ctx, payloads.ImageCleanupPayload{
		Key:      key,
		RecipeID: recipeID,
		Reason:   reason,
	})
	metrics.ImageCleanups.WithLabelValues("published", metrics.Result(err)).Inc()
	if err != nil {
		uc.logger.Warn("usecase: не удалось поставить удаление картинки в очередь",
			"key", key,
			"recipe_id", recipeID,
			"reason", reason,
			"error", err,
		)
	}
}

func recipeWrite(in RecipeInput) ports.RecipeWrite {
	ingredients := make([]domain.RecipeIngredient, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		ingredients = append(ingredients, domain.RecipeIngredient{IngredientID: ing.ID, Amount: ing.Amount})
	}
	return ports.RecipeWrite{
		Recipe: domain.Recipe{
			Name:        in.Name,
			Text:        in.Text,
			CookingTime: in.CookingTime,
		},
		Ingredients: ingredients,
		TagIDs:      in.Tags,
	}
}
