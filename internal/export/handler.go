package export

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wordcollab/wordcollab/pkg/logger"
	"github.com/wordcollab/wordcollab/pkg/middleware"
)

// RegisterExportRoutes exposes POST /export.
func RegisterExportRoutes(r gin.IRoutes, e *Exporter) {
	r.POST("/export", func(c *gin.Context) {
		res, err := e.Export(c.Request.Context())
		if err != nil {
			logger.Errorf("export failed request_id=%s: %v", middleware.GetRequestID(c), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export words"})
			return
		}
		c.JSON(http.StatusOK, res)
	})
}
