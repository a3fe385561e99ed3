package storage_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/database/storage"
	"github.com/GoArmGo/Foodgram/internal/database/testdb"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

func seedUser(t *testing.T, s *storage.UserStorage, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "F",
		LastName:     "L",
		PasswordHash: "hash",
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func TestCatalogIngredientSearch(t *testing.T) {
	db, _ := testdb.Open(t)
	catalog := storage.NewCatalogStorage(db, testdb.Logger())
	ctx := context.Background()

	for _, ing := range []domain.Ingredient{
		{Name: "Brown Sugar", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "milk 3%", MeasurementUnit: "ml"},
	} {
		ing := ing
		if err := db.Create(&ing).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := catalog.ListIngredients(ctx, "SUG")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Brown Sugar" || got[1].Name != "sugar" {
		t.Fatalf("unexpected result %+v", got)
	}

	all, err := catalog.ListIngredients(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 ingredients, got %d", len(all))
	}

	// % и _ ищутся как обычные символы
	for _, tc := range []struct {
		term string
		want []string
	}{
		{term: "%", want: []string{"milk 3%"}},
		{term: "3%", want: []string{"milk 3%"}},
		{term: "_", want: nil},
		{term: "s_l", want: nil},
		{term: `\`, want: nil},
	} {
		got, err := catalog.ListIngredients(ctx, tc.term)
		if err != nil {
			t.Fatalf("list %q: %v", tc.term, err)
		}
		var names []string
		for _, ing := range got {
			names = append(names, ing.Name)
		}
		if !slices.Equal(names, tc.want) {
			t.Fatalf("search %q: got %v, want %v", tc.term, names, tc.want)
		}
	}

	if _, err := catalog.GetIngredient(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := catalog.GetTag(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateTagValidatesColor(t *testing.T) {
	db, _ := testdb.Open(t)
	catalog := storage.NewCatalogStorage(db, testdb.Logger())
	ctx := context.Background()

	if err := catalog.CreateTag(ctx, &domain.Tag{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	cases := []struct {
		name  string
		tag   domain.Tag
		field string
	}{
		{"short hex", domain.Tag{Name: "Dinner", Color: "#abc", Slug: "dinner"}, "color"},
		{"no hash", domain.Tag{Name: "Dinner", Color: "8775D2A", Slug: "dinner"}, "color"},
		{"not hex", domain.Tag{Name: "Dinner", Color: "#GGGGGG", Slug: "dinner"}, "color"},
		{"duplicate slug", domain.Tag{Name: "Lunch 2", Color: "#49B64E", Slug: "lunch"}, "slug"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			tag := tt.tag
			ve, ok := domain.IsValidation(catalog.CreateTag(ctx, &tag))
			if !ok || len(ve.Fields[tt.field]) == 0 {
				t.Fatalf("expected validation error on %q, got %v", tt.field, ve)
			}
		})
	}

	tags, err := catalog.ListTags(ctx)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("rejected tags must not be stored, got %+v", tags)
	}
}

func TestRecipeWriteRollsBackOnUnknownTag(t *testing.T) {
	db, _ := testdb.Open(t)
	logger := testdb.Logger()
	recipes := storage.NewRecipeStorage(db, logger)
	author := seedUser(t, storage.NewUserStorage(db, logger), "author")

	flour := domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	if err := db.Create(&flour).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := recipes.CreateRecipe(context.Background(), ports.RecipeWrite{
		Recipe:      domain.Recipe{AuthorID: author.ID, Name: "x", Text: "y", Image: "i", ImageKey: "k", CookingTime: 1},
		Ingredients: []domain.RecipeIngredient{{IngredientID: flour.ID, Amount: 1}},
		TagIDs:      []int64{42},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	var n int64
	db.Model(&domain.Recipe{}).Count(&n)
	if n != 0 {
		t.Fatalf("recipe must be rolled back, found %d", n)
	}
}

func TestCountRecipesByAuthors(t *testing.T) {
	db, _ := testdb.Open(t)
	logger := testdb.Logger()
	recipes := storage.NewRecipeStorage(db, logger)
	users := storage.NewUserStorage(db, logger)
	ctx := context.Background()

	a := seedUser(t, users, "a")
	b := seedUser(t, users, "b")
	c := seedUser(t, users, "c")

	for i, authorID := range []int64{a.ID, a.ID, b.ID} {
		r := domain.Recipe{AuthorID: authorID, Name: "r", Text: "t", Image: "i", ImageKey: "k", CookingTime: i + 1}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed recipe: %v", err)
		}
	}

	counts, err := recipes.CountRecipesByAuthors(ctx, []int64{a.ID, b.ID, c.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[a.ID] != 2 || counts[b.ID] != 1 || counts[c.ID] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestSubscriptionStorage(t *testing.T) {
	db, _ := testdb.Open(t)
	logger := testdb.Logger()
	users := storage.NewUserStorage(db, logger)
	subs := storage.NewSubscriptionStorage(db, logger)
	ctx := context.Background()

	reader := seedUser(t, users, "reader")
	first := seedUser(t, users, "first")
	second := seedUser(t, users, "second")

	for _, id := range []int64{second.ID, first.ID} {
		if err := subs.Subscribe(ctx, reader.ID, id); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
	}
	if err := subs.Subscribe(ctx, reader.ID, first.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	followed, total, err := subs.ListFollowed(ctx, reader.ID, 10, 0)
	if err != nil {
		t.Fatalf("list followed: %v", err)
	}
	if total != 2 || len(followed) != 2 {
		t.Fatalf("expected 2 followed, got %d (total %d)", len(followed), total)
	}

	among, err := subs.FollowedAmong(ctx, reader.ID, []int64{first.ID, reader.ID})
	if err != nil {
		t.Fatalf("followed among: %v", err)
	}
	if !among[first.ID] || among[reader.ID] {
		t.Fatalf("unexpected flags %v", among)
	}

	if err := subs.Unsubscribe(ctx, reader.ID, second.ID); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := subs.Unsubscribe(ctx, reader.ID, second.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestShoppingListAggregation(t *testing.T) {
	db, sqlxDB := testdb.Open(t)
	logger := testdb.Logger()
	users := storage.NewUserStorage(db, logger)
	cart := storage.NewShoppingCartStorage(db, logger)
	list := storage.NewShoppingListStorage(sqlxDB, logger)
	ctx := context.Background()

	cook := seedUser(t, users, "cook")
	other := seedUser(t, users, "other")

	onion := domain.Ingredient{Name: "onion", MeasurementUnit: "pcs"}
	oil := domain.Ingredient{Name: "oil", MeasurementUnit: "ml"}
	for _, ing := range []*domain.Ingredient{&onion, &oil} {
		if err := db.Create(ing).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	recipeIDs := make([]int64, 0, 2)
	for _, amounts := range []map[int64]int{
		{onion.ID: 2, oil.ID: 30},
		{onion.ID: 1},
	} {
		r := domain.Recipe{AuthorID: cook.ID, Name: "r", Text: "t", Image: "i", ImageKey: "k", CookingTime: 5}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed recipe: %v", err)
		}
		for ingID, amount := range amounts {
			if err := db.Create(&domain.RecipeIngredient{RecipeID: r.ID, IngredientID: ingID, Amount: amount}).Error; err != nil {
				t.Fatalf("seed recipe ingredient: %v", err)
			}
		}
		recipeIDs = append(recipeIDs, r.ID)
	}

	for _, id := range recipeIDs {
		if err := cart.Add(ctx, cook.ID, id); err != nil {
			t.Fatalf("cart add: %v", err)
		}
	}
	if err := cart.Add(ctx, other.ID, recipeIDs[0]); err != nil {
		t.Fatalf("cart add: %v", err)
	}

	items, err := list.AggregateShoppingList(ctx, cook.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	want := []domain.ShoppingListItem{
		{Name: "oil", MeasurementUnit: "ml", Total: 30},
		{Name: "onion", MeasurementUnit: "pcs", Total: 3},
	}
	if len(items) != len(want) {
		t.Fatalf("got %+v, want %+v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}

	empty, err := list.AggregateShoppingList(ctx, 12345)
	if err != nil {
		t.Fatalf("aggregate empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %+v", empty)
	}
}
