package handler

import (
	"net/http"

	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// registeredUser ответ на регистрацию: без is_subscribed и без пароля.
type registeredUser struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register — POST /users/.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	respondWithJSON(w, http.StatusCreated, registeredUser{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, h.logger)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req := h.pageRequest(r)
	page, err := h.users.ListUsers(r.Context(), ViewerID(r.Context()), req)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, newPaginated(r, req, page), h.logger)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	user, err := h.users.GetUser(r.Context(), ViewerID(r.Context()), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// Me — GET /users/me/.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), ViewerID(r.Context()))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// SetPassword — POST /users/set_password/.
func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var in usecase.SetPasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	if err := h.users.SetPassword(r.Context(), ViewerID(r.Context()), in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe — POST /users/{id}/subscribe/?recipes_limit=N.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	sub, err := h.users.Subscribe(r.Context(), ViewerID(r.Context()), id, queryInt(r, "recipes_limit"))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, sub, h.logger)
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	if err := h.users.Unsubscribe(r.Context(), ViewerID(r.Context()), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscriptions — GET /users/subscriptions/.
func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	req := h.pageRequest(r)
	page, err := h.users.Subscriptions(r.Context(), ViewerID(r.Context()), req, queryInt(r, "recipes_limit"))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, newPaginated(r, req, page), h.logger)
}
