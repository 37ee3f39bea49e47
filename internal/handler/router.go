// internal/handler/router.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"unit-converter/internal/service"
	"unit-converter/pkg/middleware"
)

// ReadyFunc reports whether dependencies are reachable.
type ReadyFunc func() error

func SetupRouter(svc *service.ConversionService, ready ReadyFunc, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if ready != nil {
			if err := ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "rates": svc.RateStatus()})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	converter := NewConverterHandler(svc, log)
	favorites := NewFavoritesHandler(svc.Favorites(), log)
	history := NewHistoryHandler(svc.History(), log)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", converter.GetCategories)
		v1.POST("/convert", converter.Convert)

		rates := v1.Group("/rates")
		{
			rates.GET("", converter.GetRates)
			rates.GET("/status", converter.GetRateStatus)
			rates.POST("/refresh", converter.RefreshRates)
		}

		fav := v1.Group("/favorites")
		{
			fav.GET("", favorites.List)
			fav.POST("/toggle", favorites.Toggle)
			fav.GET("/check", favorites.Check)
			fav.DELETE("/:id", favorites.Remove)
		}

		hist := v1.Group("/history")
		{
			hist.GET("", history.List)
			hist.POST("", history.Add)
			hist.GET("/grouped", history.Grouped)
			hist.DELETE("/:id", history.Remove)
			hist.DELETE("", history.Clear)
		}
	}

	return router
}
