package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"placefinder-api/internal/models"
	"placefinder-api/internal/provider"
	"placefinder-api/internal/service"

	"github.com/gin-gonic/gin"
)

// RouteHandler handles routing requests
type RouteHandler struct {
	service RoutingService
}

// RoutingService interface for dependency injection
type RoutingService interface {
	Route(ctx context.Context, mode string, from, to models.Coordinate) (json.RawMessage, error)
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(svc RoutingService) *RouteHandler {
	return &RouteHandler{service: svc}
}

// Route handles GET /route requests and returns the router's JSON unchanged
//
//	@Summary	Route between two points
//	@Tags		routing
//	@Produce	json
//	@Param		from	query	string	true	"origin as lat,lon"
//	@Param		to		query	string	true	"destination as lat,lon"
//	@Param		mode	query	string	false	"driving, walking or cycling"
//	@Success	200		{object}	map[string]any
//	@Failure	400	{object}	map[string]string
//	@Failure	502	{object}	map[string]string
//	@Router		/route [get]
func (h *RouteHandler) Route(c *gin.Context) {
	from, err := models.ParseCoordinate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' coordinate, expected lat,lon"})
		return
	}
	to, err := models.ParseCoordinate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' coordinate, expected lat,lon"})
		return
	}

	route, err := h.service.Route(c.Request.Context(), c.Query("mode"), from, to)
	switch {
	case errors.Is(err, service.ErrUnsupportedMode), errors.Is(err, service.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": upstreamMessage("route", err)})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", route)
}

func upstreamMessage(name string, err error) string {
	if status, ok := provider.UpstreamStatus(err); ok {
		return fmt.Sprintf("%s HTTP %d", name, status)
	}
	return name + " service unavailable"
}
