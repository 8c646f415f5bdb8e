package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health requests
//
//	@Summary	Liveness probe
//	@Tags		system
//	@Produce	plain
//	@Success	200	{string}	string	"OK"
//	@Router		/health [get]
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
