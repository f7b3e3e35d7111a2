package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wordcollab/wordcollab/internal/word"
	"github.com/wordcollab/wordcollab/internal/word/service"
	"github.com/wordcollab/wordcollab/pkg/logger"
	"github.com/wordcollab/wordcollab/pkg/middleware"
)

// RegisterWordRoutes mounts the word API on r. It is called for both the
// root and the /api group so old clients keep working.
func RegisterWordRoutes(r gin.IRoutes, svc service.Service) {
	r.GET("/words", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err, "Failed to fetch words")
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/words/:id", func(c *gin.Context) {
		w, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err, "Failed to fetch word")
			return
		}
		c.JSON(http.StatusOK, w)
	})

	r.POST("/words", func(c *gin.Context) {
		var req word.CreateWordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, service.ErrWordRequired, "")
			return
		}
		w, err := svc.Create(c.Request.Context(), req.Word)
		if err != nil {
			writeError(c, err, "Failed to add word")
			return
		}
		c.JSON(http.StatusOK, w)
	})

	r.POST("/words/bulk", func(c *gin.Context) {
		var req word.BulkCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, service.ErrNoWordsGiven, "")
			return
		}
		res, err := svc.CreateMany(c.Request.Context(), word.SplitList(req.Words))
		if err != nil {
			writeError(c, err, "Failed to add words")
			return
		}
		c.JSON(http.StatusOK, res)
	})

	r.POST("/collaborate", func(c *gin.Context) {
		var req word.AddCollaboratorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, service.ErrCollaboratorRequired, "")
			return
		}
		w, err := svc.AddCollaborator(c.Request.Context(), req.WordID, req.Name)
		if err != nil {
			writeError(c, err, "Failed to add collaborator")
			return
		}
		c.JSON(http.StatusOK, w)
	})
}

// StatusFor maps a store error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {error}. Unexpected failures are logged and replaced
// by the generic message so store details never reach the client.
func writeError(c *gin.Context, err error, generic string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("%s %s request_id=%s: %v", c.Request.Method, c.FullPath(), middleware.GetRequestID(c), err)
		c.JSON(status, gin.H{"error": generic})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
