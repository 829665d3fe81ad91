package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/handlers"
	"spendpal/internal/llm"
	"spendpal/internal/logger"
	"spendpal/internal/middleware"
	"spendpal/internal/models"
	"spendpal/internal/services"
	"spendpal/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// stubAnalyzer is a deterministic stand-in for the LLM client.
type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeSpending(_ context.Context, _ string) (string, error) {
	return "Most of your spending was food this month.", nil
}

func (stubAnalyzer) SpendingTips(_ context.Context, _ string) (string, error) {
	return "Cook at home.\nWalk more.", nil
}

func (stubAnalyzer) ExtractReceipt(_ context.Context, _ string) (*llm.ReceiptDraft, error) {
	return &llm.ReceiptDraft{Amount: 1250, Category: "food", Description: "Cafe", Date: "2025-06-01"}, nil
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Expense{},
		&models.WishlistItem{},
		&models.BudgetPeriod{},
		&models.FriendLink{},
		&models.AnalysisReport{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	friendService := services.NewFriendService(db)
	expenseService := services.NewExpenseService(db, friendService)
	recurrenceService := services.NewRecurrenceService(db)
	budgetService := services.NewBudgetService(db, services.BudgetOptions{WarnPercent: 50, CriticalPercent: 80})
	settlementService := services.NewSettlementService(db, friendService)
	wishlistService := services.NewWishlistService(db)
	analysisService := services.NewAnalysisService(db, stubAnalyzer{}, 14)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, recurrenceService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, recurrenceService, auditService)
	friendHandler := handlers.NewFriendHandler(friendService, auditService)
	settlementHandler := handlers.NewSettlementHandler(settlementService, auditService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, auditService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, auditService)
	receiptHandler := handlers.NewReceiptHandler(stubAnalyzer{})

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("/rollforward", expenseHandler.RollForward)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	budget := protected.Group("/budget")
	budget.PUT("", budgetHandler.SetBudget)
	budget.GET("", budgetHandler.GetBudget)
	budget.GET("/summary", budgetHandler.GetSummary)

	friends := protected.Group("/friends")
	friends.GET("", friendHandler.GetFriends)
	friends.POST("/requests", friendHandler.SendRequest)
	friends.GET("/requests", friendHandler.ListLinks)
	friends.PUT("/requests/:id", friendHandler.Respond)

	settlements := protected.Group("/settlements")
	settlements.GET("/balances", settlementHandler.GetBalances)
	settlements.POST("/:friendID", settlementHandler.Settle)

	wishlist := protected.Group("/wishlist")
	wishlist.POST("", wishlistHandler.AddItem)
	wishlist.GET("", wishlistHandler.GetItems)
	wishlist.DELETE("/:id", wishlistHandler.DeleteItem)
	wishlist.POST("/:id/convert", wishlistHandler.Convert)

	analysis := protected.Group("/analysis")
	analysis.POST("/reports", analysisHandler.Generate)
	analysis.GET("/reports", analysisHandler.ListReports)
	analysis.GET("/status", analysisHandler.GetStatus)
	analysis.GET("/advice", analysisHandler.GetAdvice)

	receipts := protected.Group("/receipts")
	receipts.POST("/extract", receiptHandler.Extract)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(apperrors.ErrNotFound.StatusCode, gin.H{
			"error": gin.H{
				"code":    apperrors.ErrNotFound.Code,
				"message": apperrors.ErrNotFound.Message,
			},
		})
	})

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test User","currency":"USD"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// makeFriends registers two accepted friends and returns their tokens and IDs.
func (app *testApp) makeFriends(t *testing.T) (tokenA, idA, tokenB, idB string) {
	t.Helper()

	tokenA, idA = app.registerUser(t, fmt.Sprintf("a%d@test.com", dbCounter.Load()), "password123")
	tokenB, idB = app.registerUser(t, fmt.Sprintf("b%d@test.com", dbCounter.Load()), "password123")

	rec := app.request("POST", "/api/v1/friends/requests", fmt.Sprintf(`{"user_id":%q}`, idB), tokenA)
	if rec.Code != http.StatusCreated {
		t.Fatalf("friend request failed: %d %s", rec.Code, rec.Body.String())
	}
	linkID := parseJSON(t, rec)["link"].(map[string]interface{})["id"].(string)

	rec = app.request("PUT", "/api/v1/friends/requests/"+linkID, `{"accept":true}`, tokenB)
	if rec.Code != http.StatusOK {
		t.Fatalf("friend accept failed: %d %s", rec.Code, rec.Body.String())
	}

	return tokenA, idA, tokenB, idB
}

// isoDaysAgo formats a timestamp n days in the past.
func isoDaysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).UTC().Format(time.RFC3339)
}
