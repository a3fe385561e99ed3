package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

// RecipeStorage реализует ports.RecipeStorage с использованием GORM
type RecipeStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecipeStorage(db *gorm.DB, logger *slog.Logger) *RecipeStorage {
	return &RecipeStorage{db: db, logger: logger}
}

// CreateRecipe вставляет рецепт, затем пачкой его ингредиенты, затем теги.
// Неизвестный ингредиент или тег откатывает всю транзакцию.
func (s *RecipeStorage) CreateRecipe(ctx context.Context, w ports.RecipeWrite) (*domain.Recipe, error) {
	start := time.Now()

	recipe := w.Recipe
	recipe.ID = 0
	if recipe.PubDate.IsZero() {
		recipe.PubDate = time.Now().UTC()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureReferences(tx, w); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return insertAssociations(tx, recipe.ID, w)
	})
	if err != nil {
		s.logger.Error("failed to create recipe", "author_id", w.Recipe.AuthorID, "error", err)
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.logger.Info("recipe created",
		"id", recipe.ID,
		"author_id", recipe.AuthorID,
		"ingredients", len(w.Ingredients),
		"tags", len(w.TagIDs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &recipe, nil
}

// UpdateRecipe очищает связи рецепта, вставляет их заново и обновляет скалярные поля.
// Автор и дата публикации не меняются.
func (s *RecipeStorage) UpdateRecipe(ctx context.Context, w ports.RecipeWrite) (*domain.Recipe, error) {
	start := time.Now()

	var updated domain.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", w.Recipe.ID).Error; err != nil {
			if isNotFound(err) {
				return fmt.Errorf("recipe %d: %w", w.Recipe.ID, domain.ErrNotFound)
			}
			return fmt.Errorf("select recipe: %w", err)
		}
		if err := ensureReferences(tx, w); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", updated.ID).Delete(&domain.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("clear recipe tags: %w", err)
		}
		if err := tx.Where("recipe_id = ?", updated.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear recipe ingredients: %w", err)
		}
		if err := insertAssociations(tx, updated.ID, w); err != nil {
			return err
		}

		updated.Name = w.Recipe.Name
		updated.Text = w.Recipe.Text
		updated.CookingTime = w.Recipe.CookingTime
		if w.Recipe.Image != "" {
			updated.Image = w.Recipe.Image
			updated.ImageKey = w.Recipe.ImageKey
		}
		return tx.Model(&domain.Recipe{}).Where("id = ?", updated.ID).Updates(map[string]interface{}{
			"name":         updated.Name,
			"text":         updated.Text,
			"cooking_time": updated.CookingTime,
			"image":        updated.Image,
			"image_key":    updated.ImageKey,
		}).Error
	})
	if err != nil {
		s.logger.Error("failed to update recipe", "id", w.Recipe.ID, "error", err)
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	s.logger.Info("recipe updated",
		"id", updated.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &updated, nil
}

// CheckReferences проверяет ингредиенты и теги до загрузки картинки.
// Внутри транзакций записи проверка повторяется.
func (s *RecipeStorage) CheckReferences(ctx context.Context, w ports.RecipeWrite) error {
	return ensureReferences(s.db.WithContext(ctx), w)
}

// DeleteRecipe удаляет рецепт вместе со всеми строками, которые на него ссылаются.
func (s *RecipeStorage) DeleteRecipe(ctx context.Context, id int64) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, set := range []domain.MembershipSet{domain.FavoritesSet, domain.ShoppingCartSet} {
			if err := tx.Table(string(set)).Where("recipe_id = ?", id).Delete(&domain.Membership{}).Error; err != nil {
				return fmt.Errorf("delete %s rows: %w", set, err)
			}
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("delete recipe tags: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete recipe ingredients: %w", err)
		}
		res := tx.Delete(&domain.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to delete recipe", "id", id, "error", err)
		return err
	}

	s.logger.Info("recipe deleted", "id", id, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *RecipeStorage) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// ListRecipes возвращает страницу рецептов (новые первыми) и общее число подходящих под фильтр.
func (s *RecipeStorage) ListRecipes(ctx context.Context, f ports.RecipeFilter) ([]domain.Recipe, int64, error) {
	start := time.Now()

	q := s.db.WithContext(ctx).Model(&domain.Recipe{})
	if len(f.AuthorIDs) > 0 {
		q = q.Where("author_id IN ?", f.AuthorIDs)
	}
	if len(f.TagSlugs) > 0 {
		tagged := s.db.Model(&domain.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("id IN (?)", tagged)
	}
	if f.ViewerID != 0 && f.Favorited {
		q = q.Where("id IN (?)", s.membershipSubquery(domain.FavoritesSet, f.ViewerID))
	}
	if f.ViewerID != 0 && f.InShoppingCart {
		q = q.Where("id IN (?)", s.membershipSubquery(domain.ShoppingCartSet, f.ViewerID))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		s.logger.Error("failed to count recipes", "error", err)
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []domain.Recipe
	list := q.Order("pub_date DESC").Order("id DESC")
	if f.Limit > 0 {
		list = list.Limit(f.Limit).Offset(f.Offset)
	}
	if err := list.Find(&recipes).Error; err != nil {
		s.logger.Error("failed to list recipes", "error", err)
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}

	s.logger.Debug("listed recipes",
		"count", len(recipes),
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return recipes, total, nil
}

func (s *RecipeStorage) membershipSubquery(set domain.MembershipSet, userID int64) *gorm.DB {
	return s.db.Table(string(set)).Select("recipe_id").Where("user_id = ?", userID)
}

// ListRecipesByAuthor возвращает рецепты автора, новые первыми. limit <= 0 снимает ограничение.
func (s *RecipeStorage) ListRecipesByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	q := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("pub_date DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes of author %d: %w", authorID, err)
	}
	return recipes, nil
}

func (s *RecipeStorage) CountRecipesByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count recipes by authors: %w", err)
	}
	for _, r := range rows {
		out[r.AuthorID] = r.Total
	}
	return out, nil
}

func (s *RecipeStorage) TagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]domain.Tag, error) {
	out := make(map[int64][]domain.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RecipeID int64
		ID       int64
		Name     string
		Color    string
		Slug     string
	}
	err := s.db.WithContext(ctx).Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.id, tags.name, tags.color, tags.slug").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", recipeIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recipe tags: %w", err)
	}
	for _, r := range rows {
		out[r.RecipeID] = append(out[r.RecipeID], domain.Tag{ID: r.ID, Name: r.Name, Color: r.Color, Slug: r.Slug})
	}
	return out, nil
}

func (s *RecipeStorage) IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]domain.IngredientAmount, error) {
	out := make(map[int64][]domain.IngredientAmount, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RecipeID        int64
		ID              int64
		Name            string
		MeasurementUnit string
		Amount          int
	}
	err := s.db.WithContext(ctx).Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, ingredients.id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", recipeIDs).
		Order("ingredients.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recipe ingredients: %w", err)
	}
	for _, r := range rows {
		out[r.RecipeID] = append(out[r.RecipeID], domain.IngredientAmount{
			ID:              r.ID,
			Name:            r.Name,
			MeasurementUnit: r.MeasurementUnit,
			Amount:          r.Amount,
		})
	}
	return out, nil
}

// ensureReferences проверяет, что все ингредиенты и теги существуют, до любой вставки.
func ensureReferences(tx *gorm.DB, w ports.RecipeWrite) error {
	ingredientIDs := make([]int64, 0, len(w.Ingredients))
	for _, ri := range w.Ingredients {
		ingredientIDs = append(ingredientIDs, ri.IngredientID)
	}
	if id, err := firstMissing(tx, &domain.Ingredient{}, ingredientIDs); err != nil {
		return err
	} else if id != 0 {
		return fmt.Errorf("ingredient %d: %w", id, domain.ErrNotFound)
	}

	if id, err := firstMissing(tx, &domain.Tag{}, w.TagIDs); err != nil {
		return err
	} else if id != 0 {
		return fmt.Errorf("tag %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func firstMissing(tx *gorm.DB, model interface{}, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var found []int64
	if err := tx.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return 0, fmt.Errorf("check references: %w", err)
	}
	seen := make(map[int64]struct{}, len(found))
	for _, id := range found {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			return id, nil
		}
	}
	return 0, nil
}

func insertAssociations(tx *gorm.DB, recipeID int64, w ports.RecipeWrite) error {
	rows := make([]domain.RecipeIngredient, 0, len(w.Ingredients))
	for _, ri := range w.Ingredients {
		rows = append(rows, domain.RecipeIngredient{RecipeID: recipeID, IngredientID: ri.IngredientID, Amount: ri.Amount})
	}
	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert recipe ingredients: %w", err)
		}
	}

	tags := make([]domain.RecipeTag, 0, len(w.TagIDs))
	for _, id := range w.TagIDs {
		tags = append(tags, domain.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return fmt.Errorf("insert recipe tags: %w", err)
		}
	}
	return nil
}
