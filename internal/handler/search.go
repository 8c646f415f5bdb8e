package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"placefinder-api/internal/models"
	"placefinder-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles free-text and nearby place searches
type SearchHandler struct {
	service PlaceSearchService
}

// PlaceSearchService interface for dependency injection
type PlaceSearchService interface {
	Search(context.Context, string) models.SearchResponse
	Nearby(context.Context, models.NearbyRequest) (models.SearchResponse, error)
}

// WhereRequest is the body of POST /where
type WhereRequest struct {
	Query string `json:"q" example:"lidl syntagma"`
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(svc PlaceSearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Where handles POST /where requests
//
//	@Summary	Search places in Athens
//	@Tags		places
//	@Accept		json
//	@Produce	json
//	@Param		request	body		WhereRequest	true	"free-text query"
//	@Success	200		{object}	models.SearchResponse
//	@Router		/where [post]
func (h *SearchHandler) Where(c *gin.Context) {
	var req WhereRequest
	// An unreadable body is treated as an empty query.
	_ = c.ShouldBindJSON(&req)

	c.JSON(http.StatusOK, h.service.Search(c.Request.Context(), req.Query))
}

// Search handles GET /search requests
//
//	@Summary	Search places in Athens
//	@Tags		places
//	@Produce	json
//	@Param		q	query		string	true	"free-text query"
//	@Success	200	{object}	models.SearchResponse
//	@Router		/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Search(c.Request.Context(), c.Query("q")))
}

// Nearby handles GET /nearby requests
//
//	@Summary	List places of a category around a point
//	@Tags		places
//	@Produce	json
//	@Param		lat		query		number	true	"latitude"
//	@Param		lon		query		number	true	"longitude"
//	@Param		cat		query		string	true	"cafe, food, pharmacy or supermarket"
//	@Param		radius	query		int		false	"radius in meters"
//	@Success	200		{object}	models.SearchResponse
//	@Failure	400		{object}	map[string]any
//	@Router		/nearby [get]
func (h *SearchHandler) Nearby(c *gin.Context) {
	req, ok := parseNearby(c)
	if !ok {
		badNearby(c)
		return
	}

	resp, err := h.service.Nearby(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidNearbyRequest) {
		badNearby(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"found": false, "results": []models.PlaceRecord{}, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseNearby(c *gin.Context) (models.NearbyRequest, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	if err != nil {
		return models.NearbyRequest{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(c.Query("lon")), 64)
	if err != nil {
		return models.NearbyRequest{}, false
	}
	cat := strings.TrimSpace(c.Query("cat"))
	if cat == "" || !models.IsFinite(lat, lon) {
		return models.NearbyRequest{}, false
	}

	radius := 0
	if raw := strings.TrimSpace(c.Query("radius")); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil || radius < 0 {
			return models.NearbyRequest{}, false
		}
	}

	return models.NearbyRequest{
		Latitude:     lat,
		Longitude:    lon,
		Category:     models.Category(cat),
		RadiusMeters: radius,
	}, true
}

func badNearby(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"found":   false,
		"results": []models.PlaceRecord{},
		"error":   service.ErrInvalidNearbyRequest.Error(),
	})
}
