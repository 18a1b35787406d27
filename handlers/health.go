package handlers

import (
	"net/http"

	"covenant/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /health. A failed startup schema check shows up
// here as degraded with the missing collection names.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if status.Degraded {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
