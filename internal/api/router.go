// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/api/handler"
	apimw "github.com/omer1kenan/backend/internal/api/middleware"
	"github.com/omer1kenan/backend/internal/metrics"
)

// Options tunes the router's global middlewares.
type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
	Metrics        *metrics.Metrics // nil disables request metrics and /metrics
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(userHandler *handler.UserHandler, transactionHandler *handler.TransactionHandler, opts Options, logger *zap.Logger) http.Handler {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = handler.DefaultTimeout
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)        // Add a request ID to the context
	r.Use(middleware.RealIP)           // Use the real IP address
	r.Use(apimw.RequestLogger(logger)) // Log HTTP requests through zap
	r.Use(middleware.Recoverer)        // Recover from panics and return 500
	r.Use(opts.Metrics.Middleware)     // Request count and latency per route
	r.Use(middleware.Timeout(timeout)) // Cancel the request context after timeout
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello World!"))
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	usersRoutes := func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)
		r.Post("/", userHandler.CreateUser)
		r.Post("/login", userHandler.Login)
		r.Post("/reset-password", userHandler.ResetPassword)

		r.Route("/{userId}", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Put("/", userHandler.UpdateUser)
			r.Delete("/", userHandler.DeleteUser)

			r.Post("/add-contact", userHandler.AddContact)
			r.Delete("/delete-contact/{contactId}", userHandler.DeleteContact)

			r.Post("/transactions", transactionHandler.CreateTransaction)
			r.Get("/transactions", transactionHandler.ListTransactions)
			r.Get("/transactions/{transactionId}", transactionHandler.GetTransaction)
			r.Get("/transactions/by-contact/{contactId}", transactionHandler.ListTransactionsByContact)
		})
	}

	// The API is reachable under both casings.
	r.Route("/Users", usersRoutes)
	r.Route("/users", usersRoutes)

	return r
}
