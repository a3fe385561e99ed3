package usecase

import (
	"context"
	"fmt"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

// Projector собирает ответы API из нескольких хранилищ. Вычисляемые флаги
// (is_favorited, is_in_shopping_cart, is_subscribed) строятся как предикаты
// по зрителю и применяются при сборке ответа.
type Projector struct {
	recipes       ports.RecipeStorage
	users         ports.UserStorage
	subscriptions ports.SubscriptionStorage
	favorites     ports.MembershipStorage
	cart          ports.MembershipStorage
}

func NewProjector(
	recipes ports.RecipeStorage,
	users ports.UserStorage,
	subscriptions ports.SubscriptionStorage,
	favorites ports.MembershipStorage,
	cart ports.MembershipStorage,
) *Projector {
	return &Projector{
		recipes:       recipes,
		users:         users,
		subscriptions: subscriptions,
		favorites:     favorites,
		cart:          cart,
	}
}

// flag отвечает на вопрос о сущности с данным id для уже зафиксированного зрителя.
type flag func(id int64) bool

func never(int64) bool { return false }

// membershipFlag: рецепт входит в множество зрителя. Для анонима всегда false.
func membershipFlag(ctx context.Context, set ports.MembershipStorage, viewerID int64, recipeIDs []int64) (flag, error) {
	if viewerID == 0 {
		return never, nil
	}
	found, err := set.ContainsAny(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	return func(id int64) bool { return found[id] }, nil
}

// subscribedFlag: зритель подписан на автора. Для анонима всегда false.
func subscribedFlag(ctx context.Context, subs ports.SubscriptionStorage, viewerID int64, authorIDs []int64) (flag, error) {
	if viewerID == 0 {
		return never, nil
	}
	found, err := subs.FollowedAmong(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}
	return func(id int64) bool { return found[id] }, nil
}

func userView(u domain.User, isSubscribed flag) UserView {
	return UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed(u.ID),
	}
}

func shortRecipeView(r domain.Recipe) ShortRecipeView {
	return ShortRecipeView{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// Users проецирует пользователей для зрителя.
func (p *Projector) Users(ctx context.Context, users []domain.User, viewerID int64) ([]UserView, error) {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	isSubscribed, err := subscribedFlag(ctx, p.subscriptions, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("project users: %w", err)
	}

	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u, isSubscribed))
	}
	return out, nil
}

// Recipes проецирует рецепты пачкой: теги, ингредиенты, авторы и флаги читаются
// фиксированным числом запросов независимо от длины списка.
func (p *Projector) Recipes(ctx context.Context, recipes []domain.Recipe, viewerID int64) ([]RecipeView, error) {
	out := make([]RecipeView, 0, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	tags, err := p.recipes.TagsFor(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("project recipes: %w", err)
	}
	ingredients, err := p.recipes.IngredientsFor(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("project recipes: %w", err)
	}
	authors, err := p.users.GetUsers(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("project recipes: %w", err)
	}
	isSubscribed, err := subscribedFlag(ctx, p.subscriptions, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("project recipes: %w", err)
	}
	isFavorited, err := membershipFlag(ctx, p.favorites, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("project recipes: %w", err)
	}
	isInCart, err := membershipFlag(ctx, p.cart, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("project recipes: %w", err)
	}

	for _, r := range recipes {
		view := RecipeView{
			ID:               r.ID,
			Tags:             tags[r.ID],
			Author:           userView(authors[r.AuthorID], isSubscribed),
			Ingredients:      ingredients[r.ID],
			IsFavorited:      isFavorited(r.ID),
			IsInShoppingCart: isInCart(r.ID),
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if view.Tags == nil {
			view.Tags = []domain.Tag{}
		}
		if view.Ingredients == nil {
			view.Ingredients = []domain.IngredientAmount{}
		}
		out = append(out, view)
	}
	return out, nil
}

// Recipe проецирует один рецепт.
func (p *Projector) Recipe(ctx context.Context, recipe domain.Recipe, viewerID int64) (*RecipeView, error) {
	views, err := p.Recipes(ctx, []domain.Recipe{recipe}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Subscriptions проецирует авторов вместе с их последними рецептами.
// recipesLimit <= 0 не ограничивает вложенный список.
func (p *Projector) Subscriptions(ctx context.Context, authors []domain.User, viewerID int64, recipesLimit int) ([]SubscriptionView, error) {
	users, err := p.Users(ctx, authors, viewerID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := p.recipes.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("project subscriptions: %w", err)
	}

	out := make([]SubscriptionView, 0, len(authors))
	for i, a := range authors {
		recipes, err := p.recipes.ListRecipesByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("project subscriptions: %w", err)
		}
		short := make([]ShortRecipeView, 0, len(recipes))
		for _, r := range recipes {
			short = append(short, shortRecipeView(r))
		}
		out = append(out, SubscriptionView{
			UserView:     users[i],
			Recipes:      short,
			RecipesCount: counts[a.ID],
		})
	}
	return out, nil
}
