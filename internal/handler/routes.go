package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *AuthHandler,
	accountHandler *AccountHandler,
	categoryHandler *CategoryHandler,
	transactionHandler *TransactionHandler,
	kpiHandler *KpiHandler,
	planHandler *PlanHandler,
	holdingHandler *HoldingHandler,
	liabilityHandler *LiabilityHandler,
	settingHandler *SettingHandler,
	dashboardHandler *DashboardHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)
	auth.POST("/verify-email", authHandler.VerifyEmail)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Auth routes (protected)
	authProtected := api.Group("/auth")
	authProtected.Use(authMiddleware.Authenticate())
	authProtected.POST("/sign-out", authHandler.SignOut)
	authProtected.GET("/me", authHandler.Me)

	// Account routes (protected)
	accounts := api.Group("/accounts")
	accounts.Use(authMiddleware.Authenticate())
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("/:id/receipt", transactionHandler.UploadReceipt)
	transactions.GET("/:id/receipt", transactionHandler.GetReceiptURL)

	// KPI routes (protected)
	kpis := api.Group("/kpis")
	kpis.Use(authMiddleware.Authenticate())
	kpis.GET("/current", kpiHandler.GetCurrent)
	kpis.GET("/:year/:month", kpiHandler.GetByPeriod)
	kpis.GET("/:year/:month/details", kpiHandler.GetDetails)
	kpis.POST("/:year/:month/recompute", kpiHandler.Recompute)

	// Plan routes (protected)
	plans := api.Group("/plans")
	plans.Use(authMiddleware.Authenticate())
	plans.POST("", planHandler.CreatePlan)
	plans.GET("", planHandler.GetPlan)

	// Holding routes (protected)
	holdings := api.Group("/holdings")
	holdings.Use(authMiddleware.Authenticate())
	holdings.POST("", holdingHandler.CreateHolding)
	holdings.GET("", holdingHandler.GetHoldings)

	// Liability routes (protected)
	liabilities := api.Group("/liabilities")
	liabilities.Use(authMiddleware.Authenticate())
	liabilities.POST("", liabilityHandler.CreateLiability)
	liabilities.GET("", liabilityHandler.GetLiabilities)

	// Setting routes (protected)
	settings := api.Group("/settings")
	settings.Use(authMiddleware.Authenticate())
	settings.PUT("", settingHandler.SetSetting)
	settings.GET("", settingHandler.GetSettings)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate())
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	// WebSocket endpoint (token auth via query param)
	e.GET("/ws", wsHandler.HandleWS)
}
