// Package router assembles the HTTP engine: middleware, services, handlers
// and the /api/v1 routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "fintrack/internal/docs" // registers the swagger spec
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// New builds the gin engine backed by db.
func New(db *gorm.DB) *gin.Engine {
	// Services
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	cardService := services.NewCardService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	earningService := services.NewEarningService(db)
	reportService := services.NewReportService(db)
	dataService := services.NewDataService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	cardHandler := handlers.NewCardHandler(cardService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	earningHandler := handlers.NewEarningHandler(earningService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)
	dataHandler := handlers.NewDataHandler(dataService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

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

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.PATCH("/:id/edit-balance", accountHandler.EditBalance)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.GetUserCards)
	cards.GET("/:id", cardHandler.GetCardByID)
	cards.PATCH("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetUserExpenses)
	expenses.PATCH("/pay", expenseHandler.PayExpenses)
	expenses.GET("/:id", expenseHandler.GetExpenseByID)
	expenses.PATCH("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	earnings := protected.Group("/earnings")
	earnings.POST("", earningHandler.CreateEarning)
	earnings.GET("", earningHandler.GetUserEarnings)
	earnings.GET("/:id", earningHandler.GetEarningByID)
	earnings.PATCH("/:id", earningHandler.UpdateEarning)
	earnings.DELETE("/:id", earningHandler.DeleteEarning)

	reports := protected.Group("/reports")
	reports.GET("/monthly", reportHandler.GetMonthlyReport)
	reports.GET("/monthly/export", reportHandler.ExportMonthlyReport)
	reports.GET("/range", reportHandler.GetReportRange)
	reports.GET("/cards/:id", reportHandler.GetCardMonthlyExpenses)

	protected.DELETE("/data/reset", dataHandler.ResetUserData)

	return router
}
