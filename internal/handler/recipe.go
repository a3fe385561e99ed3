package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// ListRecipes — GET /recipes/ с фильтрами author, tags, is_favorited, is_in_shopping_cart.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var authorIDs []int64
	for _, raw := range q["author"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithDomainError(w, domain.NewValidationError("author", "Select a valid author id."), h.logger)
			return
		}
		authorIDs = append(authorIDs, id)
	}

	req := h.pageRequest(r)
	page, err := h.recipes.ListRecipes(r.Context(), ViewerID(r.Context()), usecase.RecipeListQuery{
		AuthorIDs:      authorIDs,
		TagSlugs:       q["tags"],
		IsFavorited:    queryFlag(r, "is_favorited"),
		InShoppingCart: queryFlag(r, "is_in_shopping_cart"),
		PageRequest:    req,
	})
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, newPaginated(r, req, page), h.logger)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	recipe, err := h.recipes.GetRecipe(r.Context(), ViewerID(r.Context()), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe, h.logger)
}

// CreateRecipe — POST /recipes/.
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var in usecase.RecipeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	recipe, err := h.recipes.CreateRecipe(r.Context(), ViewerID(r.Context()), in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("recipe created", "recipe_id", recipe.ID, "author_id", recipe.Author.ID)
	respondWithJSON(w, http.StatusCreated, recipe, h.logger)
}

// UpdateRecipe — PATCH /recipes/{id}/. Ингредиенты и теги заменяются целиком.
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	var in usecase.RecipeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	recipe, err := h.recipes.UpdateRecipe(r.Context(), ViewerID(r.Context()), id, in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe, h.logger)
}

func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	if err := h.recipes.DeleteRecipe(r.Context(), ViewerID(r.Context()), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFavorite — POST /recipes/{id}/favorite/.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.addMembership(w, r, h.favorites)
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.removeMembership(w, r, h.favorites)
}

// AddToShoppingCart — POST /recipes/{id}/shopping_cart/.
func (h *Handler) AddToShoppingCart(w http.ResponseWriter, r *http.Request) {
	h.addMembership(w, r, h.cart)
}

func (h *Handler) RemoveFromShoppingCart(w http.ResponseWriter, r *http.Request) {
	h.removeMembership(w, r, h.cart)
}

func (h *Handler) addMembership(w http.ResponseWriter, r *http.Request, set usecase.MembershipUseCase) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	short, err := set.Add(r.Context(), ViewerID(r.Context()), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, short, h.logger)
}

func (h *Handler) removeMembership(w http.ResponseWriter, r *http.Request, set usecase.MembershipUseCase) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	if err := set.Remove(r.Context(), ViewerID(r.Context()), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadShoppingCart — GET /recipes/download_shopping_cart/, отдаёт текстовый файл.
func (h *Handler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	doc, err := h.shoppingList.DownloadShoppingList(r.Context(), ViewerID(r.Context()))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		h.logger.Error("failed to write shopping list", "error", err)
	}
}
