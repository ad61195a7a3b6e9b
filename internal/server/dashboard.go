package server

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var dashboardFS embed.FS

// showDashboard serves the monitoring page
func showDashboard(c *gin.Context) {
	data, err := dashboardFS.ReadFile("static/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load dashboard page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}
