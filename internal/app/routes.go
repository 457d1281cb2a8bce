package app

import (
	"net/http"

	"learntrack/internal/auth"
	"learntrack/internal/cache"
	"learntrack/internal/config"
	"learntrack/internal/handlers"
	"learntrack/internal/repo"
	"learntrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, store repo.Store, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	// nil disables caching
	var dashCache *cache.DashboardCache
	if ttl := cfg.Redis.DashboardTTL.Duration(); ttl > 0 {
		dashCache = cache.NewDashboardCache(rdb, ttl)
	}

	sessionStore := auth.NewStore(rdb, cfg.Auth.TokenTTL.Duration())
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration())
	userSvc := service.NewUserService(store, dashCache)
	authHandler := handlers.NewAuthHandler(sessionStore, tokens, userSvc, cfg.App.Env == "prod")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/signup", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("", auth.RequireAuth(tokens, sessionStore))
	protected.GET("/auth/me", authHandler.Me)
	protected.DELETE("/users/me", authHandler.DeleteMe)

	goalHandler := handlers.NewGoalHandler(service.NewGoalService(store, dashCache))
	registerGoalRoutes(protected, goalHandler)

	taskHandler := handlers.NewTaskHandler(service.NewTaskService(store, dashCache))
	registerTaskRoutes(protected, taskHandler)

	dashboardHandler := handlers.NewDashboardHandler(service.NewDashboardService(store, dashCache))
	registerDashboardRoutes(protected, dashboardHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Learning Tracker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerGoalRoutes(api *gin.RouterGroup, h *handlers.GoalHandler) {
	api.POST("/goals", h.Create)
	api.POST("/goals/import", h.Import)
	api.GET("/goals", h.List)
	api.GET("/goals/:id", h.GetByID)
	api.PUT("/goals/:id", h.Update)
	api.DELETE("/goals/:id", h.Delete)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/:id", h.GetByID)
	api.PUT("/tasks/:id", h.Update)
	api.PATCH("/tasks/:id/status", h.UpdateStatus)
	api.DELETE("/tasks/:id", h.Delete)
}

func registerDashboardRoutes(api *gin.RouterGroup, h *handlers.DashboardHandler) {
	api.GET("/dashboard", h.Get)
	api.GET("/dashboard/progress", h.Progress)
	api.GET("/dashboard/goals/recent", h.RecentGoals)
	api.GET("/dashboard/tasks/upcoming", h.UpcomingTasks)
	api.GET("/dashboard/tasks/overdue", h.OverdueTasks)
}
