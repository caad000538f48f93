// internal/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	router "github.com/omer1kenan/backend/internal/api"
	"github.com/omer1kenan/backend/internal/api/handler"
	"github.com/omer1kenan/backend/internal/config"
	"github.com/omer1kenan/backend/internal/events"
	"github.com/omer1kenan/backend/internal/metrics"
	"github.com/omer1kenan/backend/internal/repository"
	"github.com/omer1kenan/backend/internal/repository/sqlstore"
	"github.com/omer1kenan/backend/internal/service"
	"github.com/omer1kenan/backend/internal/util"
	"github.com/omer1kenan/backend/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config    *config.AppConfig
	Logger    *zap.Logger
	DB        *sqlx.DB
	Metrics   *metrics.Metrics
	Publisher events.Publisher

	// Registerer receives the Prometheus collectors. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	// Repositories
	UserRepository        repository.UserRepository
	ContactRepository     repository.ContactRepository
	TransactionRepository repository.TransactionRepository

	// Services
	UserService        service.UserService
	TransactionService service.TransactionService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
// Config and Logger may be set beforehand; otherwise they are loaded from the environment.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	if app.Config == nil {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		app.Config = cfg
	}

	// 2. Initialize Logger
	if app.Logger == nil {
		logger, err := util.NewLogger(app.Config.Env)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		app.Logger = logger
	}
	app.Logger.Info("Application configuration loaded successfully.", zap.String("env", app.Config.Env))

	// 3. Connect to Database
	database, err := db.Open(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.", zap.String("driver", app.Config.DB.Driver))

	if app.Config.Migrate {
		if err := db.Migrate(app.DB, app.Config.DB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		app.Logger.Info("Database migrations applied.")
	}

	// 4. Initialize Repositories
	app.UserRepository = sqlstore.NewUserRepository()
	app.ContactRepository = sqlstore.NewContactRepository()
	app.TransactionRepository = sqlstore.NewTransactionRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Events and metrics
	publisher, err := events.New(app.Config.Events, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	app.Publisher = publisher

	if app.Registerer == nil {
		app.Registerer = prometheus.DefaultRegisterer
	}
	app.Metrics = metrics.New(app.Registerer)

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx and a logging rollback from pkg/db
	rollbackTx := db.NewRollbackTxFunc(app.Logger)
	app.UserService = service.NewUserService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.ContactRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		rollbackTx,
		app.Publisher,
		app.Logger,
	)
	app.TransactionService = service.NewTransactionService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.ContactRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		rollbackTx,
		app.Publisher,
		app.Metrics,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	userHandler := handler.NewUserHandler(app.UserService, app.Logger)
	transactionHandler := handler.NewTransactionHandler(app.TransactionService, app.Logger)
	app.HTTPHandler = router.NewRouter(userHandler, transactionHandler, router.Options{
		AllowedOrigins: app.Config.AllowedOrigins,
		Timeout:        app.Config.RequestTimeout,
		Metrics:        app.Metrics,
	}, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", zap.Error(err))
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
