package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/compost-credit-ledger/internal/api/handler"
	"github.com/compost-credit-ledger/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	standHandler *handler.StandHandler,
	transactionHandler *handler.TransactionHandler,
	depositHandler *handler.DepositHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account directory
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("/lookup", accountHandler.Lookup)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.PUT("/:id/local-stand", accountHandler.SetLocalStand)
			accounts.GET("/:id/transactions", transactionHandler.GetByAccountID)
		}

		// Compost stand directory
		stands := v1.Group("/stands")
		{
			stands.POST("", standHandler.Create)
			stands.GET("", standHandler.List)
			stands.GET("/:id", standHandler.GetByID)
			stands.POST("/:id/admins", standHandler.AddAdmin)
			stands.DELETE("/:id/admins/:account_id", standHandler.RemoveAdmin)
			stands.GET("/:id/deposits", standHandler.GetDeposits)
		}

		// Ledger operations
		v1.POST("/transfers", transactionHandler.CreateTransfer)
		v1.POST("/deposits", depositHandler.Create)

		requests := v1.Group("/requests")
		{
			requests.POST("", transactionHandler.CreateRequest)
			requests.POST("/:id/resolve", transactionHandler.ResolveRequest)
		}

		// Reads
		transactions := v1.Group("/transactions")
		{
			transactions.GET("/:id", transactionHandler.GetByID)
		}
		v1.GET("/stats/daily", transactionHandler.GetDailyStats)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
