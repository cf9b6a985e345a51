package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/flexcredit/loan-engine/internal/config"
	"github.com/flexcredit/loan-engine/internal/handler"
	"github.com/flexcredit/loan-engine/internal/repository"
	"github.com/flexcredit/loan-engine/internal/service"
	"github.com/flexcredit/loan-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	cardRepo := repository.NewDebitCardRepository(db)
	txManager := repository.NewTxManager(db)

	// Initialize services
	loanService := service.NewLoanService(loanRepo, paymentRepo, txManager, redisClient, cfg)
	authService := service.NewAuthService(userRepo, cfg)
	cardService := service.NewDebitCardService(cardRepo)

	loanHandler := handler.NewLoanHandler(loanService)
	authHandler := handler.NewAuthHandler(authService)
	cardHandler := handler.NewDebitCardHandler(cardService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(cfg, loanHandler, authHandler, cardHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	cfg *config.Config,
	loanHandler *handler.LoanHandler,
	authHandler *handler.AuthHandler,
	cardHandler *handler.DebitCardHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(handler.Authenticate(cfg.Auth.JWTSecret))

	protected.HandleFunc("/loans", loanHandler.CreateLoan).Methods("POST")
	protected.HandleFunc("/loans/{loanId}", loanHandler.GetLoan).Methods("GET")
	protected.HandleFunc("/loans/{loanId}/repayments", loanHandler.RepayLoan).Methods("POST")
	protected.HandleFunc("/loans/{loanId}/repayments", loanHandler.ListRepayments).Methods("GET")

	protected.HandleFunc("/debit-cards", cardHandler.CreateCard).Methods("POST")
	protected.HandleFunc("/debit-cards", cardHandler.ListCards).Methods("GET")
	protected.HandleFunc("/debit-cards/{cardId}", cardHandler.GetCard).Methods("GET")
	protected.HandleFunc("/debit-cards/{cardId}", cardHandler.UpdateCard).Methods("PUT")
	protected.HandleFunc("/debit-cards/{cardId}", cardHandler.DeleteCard).Methods("DELETE")

	protected.HandleFunc("/debit-card-transactions", cardHandler.ListTransactions).Methods("GET")
	protected.HandleFunc("/debit-card-transactions", cardHandler.CreateTransaction).Methods("POST")

	return router
}
