package httptransport

import (
	"log/slog"
	"time"

	"github.com/codequest-dev/auth-service/internal/transport/http/handler"
	"github.com/codequest-dev/auth-service/internal/transport/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, userHandler *handler.UserHandler, tokens middleware.TokenVerifier, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Cookie credentials only work cross-origin against an explicit
	// allow-list; requests without an Origin header are not gated.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	sessionMW := middleware.SessionAuth(tokens)

	auth := r.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/sent-reset-otp", authHandler.SendResetOTP)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Session-identified routes
	auth.POST("/send-verify-otp", sessionMW, authHandler.SendVerifyOTP)
	auth.POST("/verify-account", sessionMW, authHandler.VerifyAccount)
	auth.GET("/is-auth", sessionMW, authHandler.IsAuth)

	user := r.Group("/api/user", sessionMW)
	user.GET("/data", userHandler.GetData)

	return r
}
