package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tradejournal/configs"
	"tradejournal/internal/domain"
	custommiddleware "tradejournal/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	Config          *configs.Config
	Users           domain.UserRepository
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	AccountHandler  *AccountHandler
	PlaybookHandler *PlaybookHandler
	TradeHandler    *TradeHandler
}

// SetupRoutes configures middleware and all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, echo.Map{
			"status":    "healthy",
			"service":   "tradejournal-api",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := e.Group(config.Config.Server.BasePath)

	requireAuth := custommiddleware.Auth(config.Config.Auth.AccessTokenSecret, config.Users)

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/refresh", config.AuthHandler.Refresh)
		auth.POST("/forgot-password", config.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", config.AuthHandler.ResetPassword)
		auth.GET("/verify-email", config.AuthHandler.VerifyEmail)
		auth.POST("/recover", config.AuthHandler.RecoverAccount)

		auth.POST("/logout", config.AuthHandler.Logout, requireAuth)
		auth.POST("/change-password", config.AuthHandler.ChangePassword, requireAuth)
		auth.POST("/send-verification", config.AuthHandler.SendVerification, requireAuth)
	}

	// Profile routes
	users := api.Group("/users", requireAuth)
	{
		users.GET("/me", config.UserHandler.GetProfile)
		users.PATCH("/me/username", config.UserHandler.UpdateUsername)
		users.POST("/me/email", config.UserHandler.RequestEmailChange)
		users.POST("/me/email/confirm", config.UserHandler.ConfirmEmailChange)
		users.DELETE("/me", config.UserHandler.DeleteAccount)
	}

	// Account routes
	accounts := api.Group("/accounts", requireAuth)
	{
		accounts.POST("", config.AccountHandler.Create)
		accounts.GET("", config.AccountHandler.List)
		accounts.GET("/:id", config.AccountHandler.GetByID)
		accounts.PATCH("/:id", config.AccountHandler.Update)
		accounts.POST("/:id/archive", config.AccountHandler.Archive)
		accounts.POST("/:id/unarchive", config.AccountHandler.Unarchive)
		accounts.DELETE("/:id", config.AccountHandler.Delete)

		accounts.POST("/:id/trades", config.TradeHandler.Execute)
		accounts.GET("/:id/trades", config.TradeHandler.List)
	}

	// Playbook routes
	playbooks := api.Group("/playbooks", requireAuth)
	{
		playbooks.POST("", config.PlaybookHandler.Create)
		playbooks.GET("", config.PlaybookHandler.List)
		playbooks.GET("/:id", config.PlaybookHandler.GetByID)
		playbooks.PATCH("/:id", config.PlaybookHandler.Update)
		playbooks.DELETE("/:id", config.PlaybookHandler.Delete)
	}

	// Trade routes
	trades := api.Group("/trades", requireAuth)
	{
		trades.GET("/:id", config.TradeHandler.GetByID)
		trades.PATCH("/:id", config.TradeHandler.Update)
		trades.PATCH("/:id/closed", config.TradeHandler.Close)
		trades.DELETE("/:id", config.TradeHandler.Delete)
	}
}
