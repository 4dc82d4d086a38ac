package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fundacion-portal-backend/internal/shared/middleware"
	"fundacion-portal-backend/pkg/container"
)

// SetupRouter mounts all HTTP routes. Wizard and public directory routes
// are open; management routes sit behind staff authentication.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupWizardRoutes(v1, c)
		setupEntrepreneurRoutes(v1, c)
		setupVolunteerRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.StaffHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(c.JWTManager), c.StaffHandler.Profile)
	}
}

// Wizard routes are public: visitors register themselves through the
// multi-step form without an account.
func setupWizardRoutes(v1 *gin.RouterGroup, c *container.Container) {
	wizards := v1.Group("/wizards")
	{
		wizards.POST("", c.WizardHandler.Open)
		wizards.GET("/:id", c.WizardHandler.Get)
		wizards.PUT("/:id/fields", c.WizardHandler.SetField)
		wizards.POST("/:id/images/:slot", c.WizardHandler.AttachImage)
		wizards.DELETE("/:id/images/:slot", c.WizardHandler.ClearImage)
		wizards.POST("/:id/next", c.WizardHandler.Next)
		wizards.POST("/:id/back", c.WizardHandler.Back)
		wizards.POST("/:id/submit", c.WizardHandler.Submit)
		wizards.DELETE("/:id", c.WizardHandler.Cancel)
	}
}

func setupEntrepreneurRoutes(v1 *gin.RouterGroup, c *container.Container) {
	entrepreneurs := v1.Group("/entrepreneurs")
	{
		// Public directory views plus direct submission for API clients.
		entrepreneurs.GET("", c.EntrepreneurHandler.List)
		entrepreneurs.GET("/:id", c.EntrepreneurHandler.Get)
		entrepreneurs.POST("", c.EntrepreneurHandler.Create)
	}

	staffOnly := v1.Group("/entrepreneurs")
	staffOnly.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		staffOnly.PUT("/:id", c.EntrepreneurHandler.Update)
		staffOnly.POST("/:id/approve", c.EntrepreneurHandler.Approve)
		staffOnly.POST("/:id/reject", c.EntrepreneurHandler.Reject)
		staffOnly.PATCH("/:id/active", c.EntrepreneurHandler.SetActive)
		staffOnly.DELETE("/:id", middleware.AdminOnly(), c.EntrepreneurHandler.Delete)
	}
}

func setupVolunteerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Volunteer records carry personal data, so only creation is public.
	v1.POST("/volunteers", c.VolunteerHandler.Create)

	volunteers := v1.Group("/volunteers")
	volunteers.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		volunteers.GET("", c.VolunteerHandler.List)
		volunteers.GET("/:id", c.VolunteerHandler.Get)
		volunteers.PUT("/:id", c.VolunteerHandler.Update)
		volunteers.POST("/:id/approve", c.VolunteerHandler.Approve)
		volunteers.POST("/:id/reject", c.VolunteerHandler.Reject)
		volunteers.PATCH("/:id/active", c.VolunteerHandler.SetActive)
		volunteers.DELETE("/:id", middleware.AdminOnly(), c.VolunteerHandler.Delete)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		redisStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
