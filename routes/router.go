package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Cinfob09/Stats.cinfob/collector"
	"github.com/Cinfob09/Stats.cinfob/config"
	"github.com/Cinfob09/Stats.cinfob/controllers"
	"github.com/Cinfob09/Stats.cinfob/meta"
	"github.com/Cinfob09/Stats.cinfob/middleware"
	"github.com/Cinfob09/Stats.cinfob/utils"
)

// SetupRouter wires routes, middlewares and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to a rolling file instead of gin's console logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	graph := meta.NewClient(cfg.MetaGraphBaseURL)
	orchestrator := collector.New(graph)

	authController := controllers.NewAuthController(db)
	connectionController := controllers.NewConnectionController(db, graph)
	metricController := controllers.NewMetricController()
	reportController := controllers.NewReportController(db, orchestrator)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Metric catalog is public; it carries no user data
	api.GET("/metrics", metricController.List)

	// OAuth endpoints sit outside the JWT gate: the provider's browser
	// redirect carries no Authorization header. The one-time state token
	// guards the callback.
	metaGroup := api.Group("/meta")
	metaGroup.Use(middleware.RateLimit())
	metaGroup.GET("/login", connectionController.OAuthRedirect)
	metaGroup.GET("/callback", connectionController.OAuthCallback)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimit())

	protected.GET("/connections", connectionController.List)
	protected.PUT("/connections", connectionController.Save)
	protected.POST("/connections/disconnect", connectionController.RequestDisconnect)
	protected.POST("/connections/disconnect/confirm", connectionController.ConfirmDisconnect)

	protected.POST("/reports", reportController.Create)
	protected.GET("/reports", reportController.List)
	protected.GET("/reports/:id/stats", reportController.Stats)
	protected.POST("/reports/:id/delete", reportController.RequestDelete)
	protected.POST("/reports/:id/delete/confirm", reportController.ConfirmDelete)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
