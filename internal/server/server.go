package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"floreboard/internal/auth"
	"floreboard/internal/design"
	"floreboard/internal/inventory"
	"floreboard/internal/settings"
)

// Handlers groups the feature handlers mounted on the router.
type Handlers struct {
	Inventory *inventory.Handler
	Design    *design.Handler
	Settings  *settings.Handler
	Auth      auth.Handler
	Session   auth.Middleware
}

// New constructs the HTTP server with routes and middleware.
func New(port string, h Handlers) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(h.Session.InjectTenant)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Post("/", h.Auth.Login)
			r.Delete("/", h.Auth.Logout)
			r.Get("/", h.Auth.Me)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.Inventory.List)
			r.Post("/", h.Inventory.Create)
			r.Get("/low-stock", h.Inventory.LowStock)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", h.Inventory.Update)
				r.Delete("/", h.Inventory.Delete)
			})
		})

		r.Route("/designs", func(r chi.Router) {
			r.Get("/", h.Design.List)
			r.Post("/generate", h.Design.Generate)
			r.Post("/generate-from-image", h.Design.GenerateFromImage)
			r.Get("/vocab", h.Design.Vocab)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", h.Design.Save)
				r.Post("/image", h.Design.RenderImage)
				r.Post("/execute", h.Design.Execute)
				r.Delete("/", h.Design.Delete)
			})
		})

		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.Settings.Get)
			r.Put("/", h.Settings.Update)
			r.Delete("/key", h.Settings.DeleteKey)
			r.Get("/language", h.Settings.GetLanguage)
			r.Put("/language", h.Settings.SetLanguage)
		})

		r.Get("/events", h.Design.StreamEvents)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	log.Println("server ready on", srv.Addr)
	return srv
}
