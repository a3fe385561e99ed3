package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// maxBodyBytes ограничивает тело запроса: картинка в base64 плюс поля рецепта.
const maxBodyBytes = 8 << 20

// Handler — обработчик HTTP-запросов API.
type Handler struct {
	recipes      usecase.RecipeUseCase
	favorites    usecase.MembershipUseCase
	cart         usecase.MembershipUseCase
	shoppingList usecase.ShoppingListUseCase
	catalog      usecase.CatalogUseCase
	users        usecase.UserUseCase
	pageSize     int
	logger       *slog.Logger
}

// UseCases набор бизнес-логики, которую обслуживает Handler.
type UseCases struct {
	Recipes      usecase.RecipeUseCase
	Favorites    usecase.MembershipUseCase
	ShoppingCart usecase.MembershipUseCase
	ShoppingList usecase.ShoppingListUseCase
	Catalog      usecase.CatalogUseCase
	Users        usecase.UserUseCase
}

// NewHandler создаёт новый экземпляр Handler.
func NewHandler(uc UseCases, pageSize int, logger *slog.Logger) *Handler {
	return &Handler{
		recipes:      uc.Recipes,
		favorites:    uc.Favorites,
		cart:         uc.ShoppingCart,
		shoppingList: uc.ShoppingList,
		catalog:      uc.Catalog,
		users:        uc.Users,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithDomainError переводит ошибку usecase-слоя в HTTP-ответ.
// Ошибки валидации отдаются как {"поле": ["сообщение", ...]}.
func respondWithDomainError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if ve, ok := domain.IsValidation(err); ok {
		respondWithJSON(w, http.StatusBadRequest, ve.Fields, logger)
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Учетные данные не были предоставлены", logger)
	case errors.Is(err, domain.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Недостаточно прав для выполнения действия", logger)
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Не найдено", logger)
	case errors.Is(err, domain.ErrConflict):
		respondWithError(w, http.StatusConflict, "Уже существует", logger)
	default:
		logger.Error("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", logger)
	}
}

// decodeJSON читает тело запроса в dst. Битый JSON это ошибка валидации.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("non_field_errors", "Invalid JSON body: "+err.Error())
	}
	return nil
}

// pathID достаёт числовой id из URL. Нечисловой id означает, что ресурса нет.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func (h *Handler) pageRequest(r *http.Request) usecase.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return usecase.NewPageRequest(page, limit, h.pageSize)
}

// paginated ответ списка в формате {count, next, previous, results}.
type paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func newPaginated[T any](r *http.Request, req usecase.PageRequest, page usecase.Page[T]) paginated[T] {
	out := paginated[T]{Count: page.Total, Results: page.Items}
	if out.Results == nil {
		out.Results = []T{}
	}
	if int64(req.Page)*int64(req.Limit) < page.Total {
		next := pageURL(r, req.Page+1)
		out.Next = &next
	}
	if req.Page > 1 {
		prev := pageURL(r, req.Page-1)
		out.Previous = &prev
	}
	return out
}

func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// queryFlag понимает "1" и "true" как включённый фильтр.
func queryFlag(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true":
		return true
	default:
		return false
	}
}
