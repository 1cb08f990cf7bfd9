package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hearthkeep/household-system/docs"
	"github.com/hearthkeep/household-system/internal/api/handler"
	"github.com/hearthkeep/household-system/internal/api/middleware"
	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/service"
	"github.com/hearthkeep/household-system/internal/infrastructure/config"
	mongodb "github.com/hearthkeep/household-system/internal/infrastructure/db/mongo"
	redisdb "github.com/hearthkeep/household-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("household"))
	e.Use(middleware.CSRF())

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	householdRepo := mongodb.NewHouseholdRepository(db)
	invitationRepo := mongodb.NewInvitationRepository(db)

	// --- Services ---
	rotationGuard := redisdb.NewRotationGuard(rdb)
	tokenService := service.NewTokenService(userRepo, rotationGuard, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, log)
	authService := service.NewAuthService(userRepo, tokenService)
	membershipService := service.NewMembershipService(userRepo, householdRepo, log)
	invitationService := service.NewInvitationService(invitationRepo, membershipService, householdRepo, cfg.InviteTTL, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, tokenService, cfg.RefreshTTL, cfg.Production())
	householdHandler := handler.NewHouseholdHandler(membershipService)
	invitationHandler := handler.NewInvitationHandler(invitationService)

	authn := middleware.Auth(tokenService, log)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/csrf", authHandler.CSRFToken)

	// --- Household routes ---
	households := e.Group("/households", authn)
	households.POST("", householdHandler.Create)
	households.GET("/:id", householdHandler.Get, middleware.RequirePermission(domain.PermHouseholdView))
	households.GET("/:id/members", householdHandler.ListMembers, middleware.RequirePermission(domain.PermHouseholdView))
	households.DELETE("/:id/members/:userId", householdHandler.RemoveMember, middleware.RequirePermission(domain.PermMemberRemove))
	households.POST("/:id/transfer", householdHandler.TransferOwnership, middleware.RequirePermission(domain.PermOwnerTransfer))
	households.POST("/:id/invitations", invitationHandler.Create, middleware.RequirePermission(domain.PermMemberInvite))
	households.GET("/:id/invitations", invitationHandler.List, middleware.RequirePermission(domain.PermMemberInvite))

	// --- Invitation routes ---
	invitations := e.Group("/invitations", authn)
	invitations.DELETE("/:id", invitationHandler.Cancel)
	invitations.POST("/redeem", invitationHandler.Redeem)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
