package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

func TestCreateRecipe(t *testing.T) {
	env := newTestEnv(t)

	author := env.user(t, "author")
	flour := env.ingredient(t, "flour", "g")
	milk := env.ingredient(t, "milk", "ml")
	breakfast := env.tag(t, "breakfast")

	view := env.recipe(t, author.ID, recipeInput("Pancakes", []int64{breakfast.ID},
		IngredientInput{ID: flour.ID, Amount: 200},
		IngredientInput{ID: milk.ID, Amount: 300},
	))

	if view.Author.ID != author.ID {
		t.Fatalf("author = %d, want %d", view.Author.ID, author.ID)
	}
	if len(view.Ingredients) != 2 || len(view.Tags) != 1 {
		t.Fatalf("got %d ingredients and %d tags", len(view.Ingredients), len(view.Tags))
	}
	if view.IsFavorited || view.IsInShoppingCart {
		t.Fatal("fresh recipe must not be favorited or in cart")
	}
	if !strings.HasPrefix(view.Image, "http://files.test/recipes/images/") || !strings.HasSuffix(view.Image, ".png") {
		t.Fatalf("unexpected image url %q", view.Image)
	}
	if len(env.files.files) != 1 {
		t.Fatalf("expected one uploaded file, got %d", len(env.files.files))
	}
	for _, ing := range view.Ingredients {
		if ing.ID == flour.ID && ing.Amount != 200 {
			t.Fatalf("flour amount = %d, want 200", ing.Amount)
		}
	}
}

func TestCreateRecipeValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	flour := env.ingredient(t, "flour", "g")
	tag := env.tag(t, "dinner")

	tests := []struct {
		name  string
		in    RecipeInput
		field string
	}{
		{
			name:  "duplicate ingredient",
			in:    recipeInput("Bread", []int64{tag.ID}, IngredientInput{ID: flour.ID, Amount: 1}, IngredientInput{ID: flour.ID, Amount: 2}),
			field: "ingredients",
		},
		{
			name:  "no ingredients",
			in:    recipeInput("Bread", []int64{tag.ID}),
			field: "ingredients",
		},
		{
			name:  "duplicate tag",
			in:    recipeInput("Bread", []int64{tag.ID, tag.ID}, IngredientInput{ID: flour.ID, Amount: 1}),
			field: "tags",
		},
		{
			name:  "amount out of range",
			in:    recipeInput("Bread", []int64{tag.ID}, IngredientInput{ID: flour.ID, Amount: 30001}),
			field: "ingredients[0].amount",
		},
		{
			name: "cooking time zero",
			in: func() RecipeInput {
				in := recipeInput("Bread", []int64{tag.ID}, IngredientInput{ID: flour.ID, Amount: 1})
				in.CookingTime = 0
				return in
			}(),
			field: "cooking_time",
		},
		{
			name: "cooking time above a day",
			in: func() RecipeInput {
				in := recipeInput("Bread", []int64{tag.ID}, IngredientInput{ID: flour.ID, Amount: 1})
				in.CookingTime = 1441
				return in
			}(),
			field: "cooking_time",
		},
		{
			name: "missing image",
			in: func() RecipeInput {
				in := recipeInput("Bread", []int64{tag.ID}, IngredientInput{ID: flour.ID, Amount: 1})
				in.Image = ""
				return in
			}(),
			field: "image",
		},
		{
			name: "image is not a data url",
			in: func() RecipeInput {
				in := recipeInput("Bread", []int64{tag.ID}, IngredientInput{ID: flour.ID, Amount: 1})
				in.Image = "https://example.com/bread.png"
				return in
			}(),
			field: "image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.recipes.CreateRecipe(ctx, author.ID, tt.in)
			assertValidationField(t, err, tt.field)
		})
	}

	var n int64
	env.db.Model(&domain.Recipe{}).Count(&n)
	if n != 0 {
		t.Fatalf("rejected input must not create recipes, got %d", n)
	}
}

func TestCreateRecipeUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	flour := env.ingredient(t, "flour", "g")
	tag := env.tag(t, "lunch")

	_, err := env.recipes.CreateRecipe(ctx, author.ID, recipeInput("Ghost", []int64{tag.ID}, IngredientInput{ID: 999, Amount: 1}))
	assertIs(t, err, domain.ErrNotFound)

	_, err = env.recipes.CreateRecipe(ctx, author.ID, recipeInput("Ghost", []int64{999}, IngredientInput{ID: flour.ID, Amount: 1}))
	assertIs(t, err, domain.ErrNotFound)

	created := env.recipe(t, author.ID, recipeInput("Soup", []int64{tag.ID}, IngredientInput{ID: flour.ID, Amount: 1}))
	_, err = env.recipes.UpdateRecipe(ctx, author.ID, created.ID, recipeInput("Soup", []int64{tag.ID}, IngredientInput{ID: 999, Amount: 1}))
	assertIs(t, err, domain.ErrNotFound)

	// неизвестные ссылки отклоняются до загрузки картинки
	if len(env.files.files) != 1 {
		t.Fatalf("expected only the first recipe image in storage, got %d files", len(env.files.files))
	}
	if jobs := env.published.Jobs(); len(jobs) != 0 {
		t.Fatalf("expected no cleanup jobs, got %+v", jobs)
	}

	var n int64
	env.db.Model(&domain.RecipeIngredient{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected 1 recipe ingredient row, got %d", n)
	}
}

func TestCreateRecipeRequiresViewer(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.recipes.CreateRecipe(context.Background(), 0, RecipeInput{})
	assertIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateRecipeReplacesAssociations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	a := env.ingredient(t, "a", "g")
	b := env.ingredient(t, "b", "g")
	c := env.ingredient(t, "c", "g")
	t1 := env.tag(t, "t1")
	t2 := env.tag(t, "t2")

	created := env.recipe(t, author.ID, recipeInput("Soup", []int64{t1.ID},
		IngredientInput{ID: a.ID, Amount: 1},
		IngredientInput{ID: b.ID, Amount: 2},
	))

	in := recipeInput("Soup v2", []int64{t2.ID}, IngredientInput{ID: c.ID, Amount: 3})
	in.Image = ""
	updated, err := env.recipes.UpdateRecipe(ctx, author.ID, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Soup v2" {
		t.Fatalf("name = %q", updated.Name)
	}
	if len(updated.Ingredients) != 1 || updated.Ingredients[0].ID != c.ID || updated.Ingredients[0].Amount != 3 {
		t.Fatalf("ingredients not replaced: %+v", updated.Ingredients)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != t2.ID {
		t.Fatalf("tags not replaced: %+v", updated.Tags)
	}
	if updated.Image != created.Image {
		t.Fatalf("image must be kept when omitted: %q != %q", updated.Image, created.Image)
	}
	if updated.Author.ID != author.ID {
		t.Fatal("author must not change")
	}
	if len(env.published.Jobs()) != 0 {
		t.Fatal("kept image must not be cleaned up")
	}
}

func TestUpdateRecipeReplacesImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	a := env.ingredient(t, "a", "g")
	tag := env.tag(t, "t")

	created := env.recipe(t, author.ID, recipeInput("Cake", []int64{tag.ID}, IngredientInput{ID: a.ID, Amount: 1}))
	updated, err := env.recipes.UpdateRecipe(ctx, author.ID, created.ID, recipeInput("Cake", []int64{tag.ID}, IngredientInput{ID: a.ID, Amount: 1}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Image == created.Image {
		t.Fatal("image url must change")
	}

	jobs := env.published.Jobs()
	if len(jobs) != 1 || jobs[0].Reason != CleanupReasonReplaced || jobs[0].RecipeID != created.ID {
		t.Fatalf("unexpected cleanup jobs %+v", jobs)
	}
	if !strings.HasSuffix(created.Image, jobs[0].Key) {
		t.Fatalf("old key %q does not match old image %q", jobs[0].Key, created.Image)
	}
}

func TestUpdateAndDeleteRequireAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	other := env.user(t, "other")
	a := env.ingredient(t, "a", "g")
	tag := env.tag(t, "t")
	created := env.recipe(t, author.ID, recipeInput("Tea", []int64{tag.ID}, IngredientInput{ID: a.ID, Amount: 1}))

	_, err := env.recipes.UpdateRecipe(ctx, other.ID, created.ID, recipeInput("Mine", []int64{tag.ID}, IngredientInput{ID: a.ID, Amount: 1}))
	assertIs(t, err, domain.ErrForbidden)

	assertIs(t, env.recipes.DeleteRecipe(ctx, other.ID, created.ID), domain.ErrForbidden)
	assertIs(t, env.recipes.DeleteRecipe(ctx, 0, created.ID), domain.ErrUnauthorized)
	assertIs(t, env.recipes.DeleteRecipe(ctx, author.ID, created.ID+100), domain.ErrNotFound)
}

func TestDeleteRecipeCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	fan := env.user(t, "fan")
	a := env.ingredient(t, "a", "g")
	tag := env.tag(t, "t")
	created := env.recipe(t, author.ID, recipeInput("Pie", []int64{tag.ID}, IngredientInput{ID: a.ID, Amount: 1}))

	if _, err := env.favorite.Add(ctx, fan.ID, created.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if _, err := env.cart.Add(ctx, fan.ID, created.ID); err != nil {
		t.Fatalf("cart: %v", err)
	}

	if err := env.recipes.DeleteRecipe(ctx, author.ID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := env.recipes.GetRecipe(ctx, fan.ID, created.ID)
	assertIs(t, err, domain.ErrNotFound)

	for _, table := range []string{"favorites", "shopping_cart_entries", "recipe_tags", "recipe_ingredients"} {
		var n int64
		env.db.Table(table).Count(&n)
		if n != 0 {
			t.Fatalf("%s still has %d rows", table, n)
		}
	}

	jobs := env.published.Jobs()
	if len(jobs) != 1 || jobs[0].Reason != CleanupReasonDeleted {
		t.Fatalf("unexpected cleanup jobs %+v", jobs)
	}
}

func TestListRecipesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	a := env.ingredient(t, "a", "g")
	lunch := env.tag(t, "lunch")
	dinner := env.tag(t, "dinner")

	r1 := env.recipe(t, alice.ID, recipeInput("r1", []int64{lunch.ID}, IngredientInput{ID: a.ID, Amount: 1}))
	r2 := env.recipe(t, alice.ID, recipeInput("r2", []int64{dinner.ID}, IngredientInput{ID: a.ID, Amount: 1}))
	r3 := env.recipe(t, bob.ID, recipeInput("r3", []int64{lunch.ID, dinner.ID}, IngredientInput{ID: a.ID, Amount: 1}))

	if _, err := env.favorite.Add(ctx, bob.ID, r1.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if _, err := env.cart.Add(ctx, bob.ID, r2.ID); err != nil {
		t.Fatalf("cart: %v", err)
	}

	ids := func(p Page[RecipeView]) []int64 {
		out := make([]int64, 0, len(p.Items))
		for _, r := range p.Items {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		viewer int64
		q      RecipeListQuery
		want   []int64
	}{
		{name: "all newest first", q: RecipeListQuery{}, want: []int64{r3.ID, r2.ID, r1.ID}},
		{name: "by author", q: RecipeListQuery{AuthorIDs: []int64{alice.ID}}, want: []int64{r2.ID, r1.ID}},
		{name: "by tag", q: RecipeListQuery{TagSlugs: []string{"lunch"}}, want: []int64{r3.ID, r1.ID}},
		{name: "any of tags", q: RecipeListQuery{TagSlugs: []string{"lunch", "dinner"}}, want: []int64{r3.ID, r2.ID, r1.ID}},
		{name: "favorited", viewer: bob.ID, q: RecipeListQuery{IsFavorited: true}, want: []int64{r1.ID}},
		{name: "in cart", viewer: bob.ID, q: RecipeListQuery{InShoppingCart: true}, want: []int64{r2.ID}},
		{name: "anonymous ignores favorited", q: RecipeListQuery{IsFavorited: true}, want: []int64{r3.ID, r2.ID, r1.ID}},
		{name: "page two", q: RecipeListQuery{PageRequest: PageRequest{Page: 2, Limit: 2}}, want: []int64{r1.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.recipes.ListRecipes(ctx, tt.viewer, tt.q)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			got := ids(page)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}

	page, err := env.recipes.ListRecipes(ctx, bob.ID, RecipeListQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Total)
	}
	for _, r := range page.Items {
		if r.IsFavorited != (r.ID == r1.ID) {
			t.Fatalf("recipe %d is_favorited = %v", r.ID, r.IsFavorited)
		}
		if r.IsInShoppingCart != (r.ID == r2.ID) {
			t.Fatalf("recipe %d is_in_shopping_cart = %v", r.ID, r.IsInShoppingCart)
		}
	}
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantExt string
		wantErr bool
	}{
		{name: "png", raw: pngDataURL, wantExt: ".png"},
		{name: "jpeg", raw: "data:image/jpeg;base64,/9j/4AAQ", wantExt: ".jpg"},
		{name: "plain url", raw: "http://example.com/a.png", wantErr: true},
		{name: "not base64 encoded", raw: "data:image/png,abc", wantErr: true},
		{name: "unsupported type", raw: "data:text/plain;base64,aGVsbG8=", wantErr: true},
		{name: "broken payload", raw: "data:image/png;base64,@@@", wantErr: true},
		{name: "empty payload", raw: "data:image/png;base64,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := decodeDataURL(tt.raw)
			if tt.wantErr {
				if _, ok := domain.IsValidation(err); !ok {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !strings.HasPrefix(img.Key, "recipes/images/") || !strings.HasSuffix(img.Key, tt.wantExt) {
				t.Fatalf("unexpected key %q", img.Key)
			}
		})
	}
}
