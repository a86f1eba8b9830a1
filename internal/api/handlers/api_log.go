package handlers

import (
	"net/http"
	"strconv"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"github.com/gin-gonic/gin"
)

// APILogHandler handles upstream API call log requests
type APILogHandler struct {
	repo repository.APILogRepository
}

// NewAPILogHandler creates a new APILogHandler
func NewAPILogHandler(repo repository.APILogRepository) *APILogHandler {
	return &APILogHandler{repo: repo}
}

// ListAPILogs godoc
// @Summary List upstream API call logs (Admin only)
// @Description Returns the most recent calls made to the upstream pricing API
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param limit query integer false "Maximum number of entries to return (default 100)"
// @Success 200 {array} models.APICallLog
// @Failure 400 {object} models.ErrorResponse "Invalid limit"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Permission denied - admin only"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /logs [get]
func (h *APILogHandler) ListAPILogs(c *gin.Context) {
	limit := 100
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch API logs"})
		return
	}
	if entries == nil {
		entries = []models.APICallLog{}
	}

	c.JSON(http.StatusOK, entries)
}
