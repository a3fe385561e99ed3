package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

func TestDownloadShoppingListSumsAmounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cook := env.user(t, "cook")
	flour := env.ingredient(t, "flour", "g")
	sugar := env.ingredient(t, "sugar", "g")
	tag := env.tag(t, "baking")

	r1 := env.recipe(t, cook.ID, recipeInput("Bread", []int64{tag.ID}, IngredientInput{ID: flour.ID, Amount: 100}))
	r2 := env.recipe(t, cook.ID, recipeInput("Cake", []int64{tag.ID},
		IngredientInput{ID: flour.ID, Amount: 50},
		IngredientInput{ID: sugar.ID, Amount: 20},
	))
	for _, id := range []int64{r1.ID, r2.ID} {
		if _, err := env.cart.Add(ctx, cook.ID, id); err != nil {
			t.Fatalf("cart add: %v", err)
		}
	}

	doc, err := env.shopping.DownloadShoppingList(ctx, cook.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if doc.Filename != ShoppingListFilename {
		t.Fatalf("filename = %q", doc.Filename)
	}

	want := "Foodgram shopping list:\n\nflour (g) - 150\nsugar (g) - 20\n"
	if string(doc.Content) != want {
		t.Fatalf("content = %q, want %q", doc.Content, want)
	}
}

func TestDownloadShoppingListEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cook := env.user(t, "cook")
	doc, err := env.shopping.DownloadShoppingList(ctx, cook.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(doc.Content) != "Foodgram shopping list:\n" {
		t.Fatalf("content = %q", doc.Content)
	}

	_, err = env.shopping.DownloadShoppingList(ctx, 0)
	assertIs(t, err, domain.ErrUnauthorized)
}

func TestRenderShoppingList(t *testing.T) {
	got := RenderShoppingList([]domain.ShoppingListItem{
		{Name: "eggs", MeasurementUnit: "pcs", Total: 3},
	})
	if got != "Foodgram shopping list:\n\neggs (pcs) - 3\n" {
		t.Fatalf("got %q", got)
	}
}
