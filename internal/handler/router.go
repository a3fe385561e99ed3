package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger проверяет доступность базы для /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig всё, что нужно для сборки маршрутов API.
type RouterConfig struct {
	Handler            *Handler
	Verifier           TokenVerifier
	DB                 Pinger
	Logger             *slog.Logger
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
}

// NewRouter собирает chi-роутер: служебные маршруты в корне, API под /api.
func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", healthz(cfg.DB, cfg.Logger))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS(cfg.CORSAllowedOrigins))
		r.Use(RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.Logger))
		r.Use(Authenticate(cfg.Verifier, cfg.Logger))

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Post("/", h.CreateRecipe)
			r.Get("/download_shopping_cart", h.DownloadShoppingCart)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetRecipe)
				r.Patch("/", h.UpdateRecipe)
				r.Delete("/", h.DeleteRecipe)
				r.Post("/favorite", h.AddFavorite)
				r.Delete("/favorite", h.RemoveFavorite)
				r.Post("/shopping_cart", h.AddToShoppingCart)
				r.Delete("/shopping_cart", h.RemoveFromShoppingCart)
			})
		})

		r.Get("/tags", h.ListTags)
		r.Get("/tags/{id}", h.GetTag)
		r.Get("/ingredients", h.ListIngredients)
		r.Get("/ingredients/{id}", h.GetIngredient)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.Register)
			r.Get("/me", h.Me)
			r.Post("/set_password", h.SetPassword)
			r.Get("/subscriptions", h.Subscriptions)
			r.Get("/{id}", h.GetUser)
			r.Post("/{id}/subscribe", h.Subscribe)
			r.Delete("/{id}/subscribe", h.Unsubscribe)
		})
	})

	return r
}

func healthz(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("health check failed", "error", err)
			respondWithError(w, http.StatusServiceUnavailable, "База данных недоступна", logger)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}
