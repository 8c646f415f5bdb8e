package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"placefinder-api/internal/provider"
	"placefinder-api/internal/service"

	"github.com/gin-gonic/gin"
)

// WeatherHandler handles current-conditions requests
type WeatherHandler struct {
	service CurrentWeatherService
}

// CurrentWeatherService interface for dependency injection
type CurrentWeatherService interface {
	Current(ctx context.Context, lat, lon float64) (json.RawMessage, error)
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(svc CurrentWeatherService) *WeatherHandler {
	return &WeatherHandler{service: svc}
}

// Weather handles GET /weather requests
//
//	@Summary	Current weather at a point
//	@Tags		weather
//	@Produce	json
//	@Param		lat	query		number	true	"latitude"
//	@Param		lon	query		number	true	"longitude"
//	@Success	200	{object}	map[string]any
//	@Failure	400	{object}	map[string]any
//	@Failure	502	{object}	map[string]any
//	@Router		/weather [get]
func (h *WeatherHandler) Weather(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "lat/lon required"})
		return
	}

	data, err := h.service.Current(c.Request.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "lat/lon required"})
			return
		}
		if status, ok := provider.UpstreamStatus(err); ok {
			c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "weather HTTP " + strconv.Itoa(status)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
