// Package api hosts the synchronous HTTP surface of the ledger: the account
// and stand directories, the ledger engines, and the read endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/compost-credit-ledger/internal/api/handler"
	"github.com/compost-credit-ledger/internal/api/service"
	"github.com/compost-credit-ledger/internal/config"
	"github.com/gin-gonic/gin"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// Services bundles everything the HTTP surface depends on
type Services struct {
	Accounts     service.AccountService
	Stands       service.StandService
	Ledger       service.LedgerEngine
	Transactions service.TransactionReadService
	Stats        service.StatsService
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	accountHandler := handler.NewAccountHandler(log, services.Accounts)
	standHandler := handler.NewStandHandler(log, services.Stands)
	transactionHandler := handler.NewTransactionHandler(log, services.Ledger, services.Transactions, services.Stats, cfg.Rewards.Precision)
	depositHandler := handler.NewDepositHandler(log, services.Ledger)

	setupRouter(log, httpRouter, accountHandler, standHandler, transactionHandler, depositHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
