package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/skritek/flightbook/internal/api"
	"github.com/skritek/flightbook/internal/cache"
	"github.com/skritek/flightbook/internal/events"
	"github.com/skritek/flightbook/internal/ports"
	"github.com/skritek/flightbook/internal/repository"
	"github.com/skritek/flightbook/internal/service"
	"github.com/skritek/flightbook/internal/utils"
	"github.com/skritek/flightbook/pkg/config"
	"github.com/skritek/flightbook/pkg/health"
)

const version = "1.0.0"

type App struct {
	config   *config.Config
	log      *logrus.Logger
	server   *http.Server
	db       *pgxpool.Pool
	producer *events.Producer
	cache    *cache.RedisCache
}

func NewApp(cfg *config.Config, log *logrus.Logger) *App {
	return &App{
		config: cfg,
		log:    log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.setupDatabase(ctx); err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}

	if err := a.setupServer(); err != nil {
		return fmt.Errorf("server setup failed: %w", err)
	}

	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	return nil
}

func (a *App) setupServer() error {
	services := a.setupServices()
	router := a.setupRouter(services)

	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      handlers.CombinedLoggingHandler(a.log.Writer(), router),
		WriteTimeout: a.config.Server.WriteTimeout,
		ReadTimeout:  a.config.Server.ReadTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	return nil
}

type Services struct {
	BookingService ports.BookingService
	FlightService  ports.FlightService
}

func (a *App) setupServices() Services {
	inventory := repository.NewInventory(a.log)
	bookingRepo := repository.NewBookingRepository(a.db, inventory, a.log)
	flightRepo := repository.NewFlightRepository(a.db)

	bookingOpts := []service.BookingServiceOption{service.WithBookingLogger(a.log)}
	if len(a.config.Kafka.Brokers) > 0 {
		a.producer = events.NewProducer(a.config.Kafka.Brokers)
		bookingOpts = append(bookingOpts, service.WithEventProducer(a.producer, a.config.Kafka.BookingTopic))
	}

	flightOpts := []service.FlightServiceOption{service.WithFlightLogger(a.log)}
	if a.config.Redis.Addr != "" {
		a.cache = cache.NewRedisCache(
			a.config.Redis.Addr,
			a.config.Redis.Password,
			a.config.Redis.DB,
			a.config.Booking.SearchCacheTTL,
		)
		flightOpts = append(flightOpts, service.WithFlightCache(a.cache))
	}

	return Services{
		BookingService: service.NewBookingService(bookingRepo, bookingOpts...),
		FlightService:  service.NewFlightService(flightRepo, flightOpts...),
	}
}

func (a *App) setupRouter(services Services) http.Handler {
	router := mux.NewRouter()
	v1 := router.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/health", health.HealthGet(version)).Methods(http.MethodGet)

	v1.HandleFunc("/bookings", utils.AllowedContentTypes(
		api.CreateBookingHandler(services.BookingService),
		"application/json",
	)).Methods(http.MethodPost)
	v1.HandleFunc("/bookings", api.ListBookingsHandler(services.BookingService)).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id}", api.GetBookingHandler(services.BookingService)).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id}/cancel", api.CancelBookingHandler(services.BookingService)).Methods(http.MethodPost)
	v1.HandleFunc("/payments/{id}/process", api.ProcessPaymentHandler(services.BookingService)).Methods(http.MethodPost)
	v1.HandleFunc("/flights/search", api.SearchFlightsHandler(services.FlightService)).Methods(http.MethodGet)
	v1.HandleFunc("/flights/{id}", api.GetFlightHandler(services.FlightService)).Methods(http.MethodGet)
	v1.HandleFunc("/airports/search", api.SearchAirportsHandler(services.FlightService)).Methods(http.MethodGet)

	return router
}

func (a *App) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		a.log.Infof("starting server on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		a.log.Info("starting graceful shutdown")
		return a.Shutdown(ctx)
	case <-ctx.Done():
		return a.Shutdown(ctx)
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.WithError(err).Warn("event producer close failed")
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.WithError(err).Warn("cache close failed")
		}
	}
	if a.db != nil {
		a.db.Close()
	}

	return nil
}

func main() {
	ctx := context.Background()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	app := NewApp(cfg, log)
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
