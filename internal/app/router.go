package app

import (
	"placefinder-api/internal/handler"
	"placefinder-api/internal/middleware"

	_ "placefinder-api/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router builds the HTTP routes on a fresh gin engine.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics(a.Metrics))

	searchHandler := handler.NewSearchHandler(a.Places)
	routeHandler := handler.NewRouteHandler(a.Routes)
	weatherHandler := handler.NewWeatherHandler(a.Weather)

	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/where", searchHandler.Where)
	r.GET("/search", searchHandler.Search)
	r.GET("/nearby", searchHandler.Nearby)
	r.GET("/route", routeHandler.Route)
	r.GET("/weather", weatherHandler.Weather)

	return r
}
