package main

import (
	"fmt"
	"net/http"
	"os"

	"spendpal/internal/config"
	"spendpal/internal/database"
	apperrors "spendpal/internal/errors"
	"spendpal/internal/handlers"
	"spendpal/internal/llm"
	"spendpal/internal/logger"
	"spendpal/internal/middleware"
	"spendpal/internal/services"
	"spendpal/internal/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "spendpal/internal/docs" // Import swagger docs
)

// @title           Spendpal API
// @version         1.0
// @description     Spendpal is a personal expense tracker with recurring expenses, budget periods, shared expenses between friends, and AI spending analysis.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	llmClient := llm.NewClient(appConfig.LLMBaseURL, appConfig.LLMAPIKey, appConfig.LLMModel)

	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	friendService := services.NewFriendService(db)
	expenseService := services.NewExpenseService(db, friendService)
	recurrenceService := services.NewRecurrenceService(db)
	budgetService := services.NewBudgetService(db, services.BudgetOptions{
		WarnPercent:     appConfig.BudgetWarnPercent,
		CriticalPercent: appConfig.BudgetCriticalPercent,
		CountOwedShares: appConfig.BudgetCountOwedShares,
	})
	settlementService := services.NewSettlementService(db, friendService)
	wishlistService := services.NewWishlistService(db)
	analysisService := services.NewAnalysisService(db, llmClient, appConfig.AnalysisCooldownDays)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, recurrenceService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, recurrenceService, auditService)
	friendHandler := handlers.NewFriendHandler(friendService, auditService)
	settlementHandler := handlers.NewSettlementHandler(settlementService, auditService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, auditService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, auditService)
	receiptHandler := handlers.NewReceiptHandler(llmClient)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// JSON 404 for unmatched routes
	router.NoRoute(func(c *gin.Context) {
		c.JSON(apperrors.ErrNotFound.StatusCode, gin.H{
			"error": gin.H{
				"code":    apperrors.ErrNotFound.Code,
				"message": apperrors.ErrNotFound.Message,
			},
		})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("/rollforward", expenseHandler.RollForward)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Budget routes
	budget := protected.Group("/budget")
	budget.PUT("", budgetHandler.SetBudget)
	budget.GET("", budgetHandler.GetBudget)
	budget.GET("/summary", budgetHandler.GetSummary)

	// Friend routes
	friends := protected.Group("/friends")
	friends.GET("", friendHandler.GetFriends)
	friends.POST("/requests", friendHandler.SendRequest)
	friends.GET("/requests", friendHandler.ListLinks)
	friends.PUT("/requests/:id", friendHandler.Respond)

	// Settlement routes
	settlements := protected.Group("/settlements")
	settlements.GET("/balances", settlementHandler.GetBalances)
	settlements.POST("/:friendID", settlementHandler.Settle)

	// Wishlist routes
	wishlist := protected.Group("/wishlist")
	wishlist.POST("", wishlistHandler.AddItem)
	wishlist.GET("", wishlistHandler.GetItems)
	wishlist.DELETE("/:id", wishlistHandler.DeleteItem)
	wishlist.POST("/:id/convert", wishlistHandler.Convert)

	// Analysis routes
	analysis := protected.Group("/analysis")
	analysis.POST("/reports", analysisHandler.Generate)
	analysis.GET("/reports", analysisHandler.ListReports)
	analysis.GET("/status", analysisHandler.GetStatus)
	analysis.GET("/advice", analysisHandler.GetAdvice)

	// Receipt routes
	receipts := protected.Group("/receipts")
	receipts.POST("/extract", receiptHandler.Extract)

	log.Infof("Starting Spendpal backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
