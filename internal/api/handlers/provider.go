package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"powermatch/internal/models"
	"powermatch/internal/provider"

	"github.com/gin-gonic/gin"
)

// ProviderHandler handles provider-related requests
type ProviderHandler struct {
	manager *provider.Manager
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(manager *provider.Manager) *ProviderHandler {
	return &ProviderHandler{
		manager: manager,
	}
}

// TriggerPlanRefreshRequest represents the request body for triggering a plan refresh
type TriggerPlanRefreshRequest struct {
	TDSPs []string `json:"tdsps"`
}

// TriggerPlanRefreshResponse represents the response for triggering a plan refresh
type TriggerPlanRefreshResponse struct {
	Message string `json:"message"`
}

// TriggerPlanRefresh godoc
// @Summary Trigger plan refresh (Admin only)
// @Description Triggers the plans provider to refresh stored plan data for the given TDSP territories. Defaults to all covered territories.
// @Tags providers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TriggerPlanRefreshRequest true "Refresh request parameters"
// @Success 202 {object} TriggerPlanRefreshResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request body or parameters"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Permission denied - admin only"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /providers/plans/refresh [post]
func (h *ProviderHandler) TriggerPlanRefresh(c *gin.Context) {
	var req TriggerPlanRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	plansProvider, exists := h.manager.GetProvider("plans")
	if !exists {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "plans provider not found"})
		return
	}

	// Default to all covered territories
	if len(req.TDSPs) == 0 {
		req.TDSPs = plansProvider.GetConfig().SupportedTDSPs
	}

	for _, duns := range req.TDSPs {
		if !plansProvider.SupportsTDSP(duns) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("unsupported TDSP: %s", duns)})
			return
		}
	}

	// Start background job
	go func() {
		for _, duns := range req.TDSPs {
			opts := provider.RunOptions{TDSPDUNS: duns}
			if err := h.manager.RunProvider(context.Background(), "plans", &opts); err != nil {
				log.Printf("Error running plans provider for TDSP %s: %v", duns, err)
			}
		}
	}()

	c.JSON(http.StatusAccepted, TriggerPlanRefreshResponse{
		Message: "Plan refresh request queued successfully",
	})
}
