package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artem-evko/docker-Linux/internal/app"
	"github.com/artem-evko/docker-Linux/internal/config"
)

// NewRouter builds the gin engine with every route mounted under the configured root path
func NewRouter(a *app.App) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(RequestIDMiddleware())
	router.Use(AccessLogMiddleware(a.Logger))
	router.Use(RecoveryMiddleware(a.Logger))
	if corsMiddleware := newCorsMiddleware(a.Config.Cors); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	router.Use(MaxBodySizeMiddleware(a.Config.Http.MaxRequestSize))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method Not Allowed"})
	})

	h := &userHandlers{
		service: a.UserService,
		logger:  a.Logger,
	}

	api := router.Group(a.Config.Http.RootPath)
	{
		api.GET("/health", healthHandler(a))

		users := api.Group("/users")
		{
			users.POST("/", h.createUser)
			users.GET("/", h.listUsers)
			users.GET("/:user_id", h.getUser)
			users.PATCH("/:user_id", h.updateUser)
			users.DELETE("/:user_id", h.deleteUser)
		}
	}

	a.Logger.Info("Routes registered",
		zap.String("root_path", a.Config.Http.RootPath),
		zap.Int("count", len(router.Routes())))

	return router
}

// NewHTTPServer wraps the router in an http.Server using the configured timeouts
func NewHTTPServer(cfg config.HttpConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

func newCorsMiddleware(cfg config.CorsConfig) gin.HandlerFunc {
	if len(cfg.AllowOrigins) == 0 {
		return nil
	}

	corsConfig := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range cfg.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
			break
		}
	}
	if !corsConfig.AllowAllOrigins {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}

	return cors.New(corsConfig)
}

func healthHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := a.Health.RuntimeHealthCheck(c.Request.Context())

		services := gin.H{}
		for name, err := range report.Services {
			if err != nil {
				services[name] = "unhealthy"
			} else {
				services[name] = "healthy"
			}
		}

		if !report.Healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"services":  services,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  services,
		})
	}
}
