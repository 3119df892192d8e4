package http

import (
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the controllers the router wires up.
type RouterConfig struct {
	Action   *ActionController
	Settings *SettingsController
	Health   *HealthController
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", cfg.Health.Status)

	api := router.Group("/api")
	{
		api.POST("/action", cfg.Action.PerformAction)
		api.GET("/action/info", cfg.Action.GetInfo)
		api.GET("/action/result", cfg.Action.GetResult)

		api.GET("/settings", cfg.Settings.GetSettings)
		api.POST("/settings", cfg.Settings.UpdateSettings)
	}

	return router
}
