package handlers

import (
	"fmt"

	"github.com/SscSPs/household_ledger/cmd/docs"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/SscSPs/household_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := registerValidators(); err != nil {
		return err
	}

	// Add health check route
	r.GET("/health", getHealth)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", cfg.RateLimit, err)
	}

	// Apply AuthMiddleware to the entire v1 group; the limiter keys on the authenticated member
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer), middleware.RateLimit(rateLimiter))

	registerMemberRoutes(v1, services.Member)
	registerExpenseRoutes(v1, services.Expense)
	registerInvoiceRoutes(v1, services.Invoice)
	registerPaymentRoutes(v1, services.Payment)
	registerStatsRoutes(v1, services.Balance)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
