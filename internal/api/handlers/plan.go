package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"powermatch/internal/models"
	"powermatch/internal/plans"
	"powermatch/internal/pricing"

	"github.com/gin-gonic/gin"
)

// PlanHandler handles plan listing requests
type PlanHandler struct {
	service *plans.Service
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(service *plans.Service) *PlanHandler {
	return &PlanHandler{service: service}
}

// ListPlans godoc
// @Summary List electricity plans for a TDSP territory
// @Description Returns current plans for a service territory, optionally filtered
// @Tags plans
// @Accept json
// @Produce json
// @Param tdsp_duns query string true "TDSP DUNS number"
// @Param display_usage query integer false "Usage tier for sorting (500, 1000 or 2000)"
// @Param term query integer false "Contract term in months"
// @Param percent_green query integer false "Minimum renewable percentage"
// @Param is_pre_pay query boolean false "Prepaid plans only"
// @Param is_time_of_use query boolean false "Time-of-use plans only"
// @Param requires_auto_pay query boolean false "Auto-pay plans only"
// @Success 200 {array} models.Plan
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 503 {object} models.ErrorResponse "No plan data available"
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	tdspDUNS := c.Query("tdsp_duns")
	if tdspDUNS == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "tdsp_duns is required"})
		return
	}

	displayUsage := 1000
	if usageStr := c.Query("display_usage"); usageStr != "" {
		usage, err := strconv.Atoi(usageStr)
		if err != nil || (usage != 500 && usage != 1000 && usage != 2000) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "display_usage must be 500, 1000 or 2000"})
			return
		}
		displayUsage = usage
	}

	var filters models.PlanFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid filter parameters"})
		return
	}

	result, err := h.service.GetPlans(c.Request.Context(), pricing.Params{
		TDSPDUNS:     tdspDUNS,
		DisplayUsage: displayUsage,
		Filters:      filters,
	})
	if errors.Is(err, plans.ErrPlansUnavailable) {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "Plan data is temporarily unavailable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch plans"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CityAvailability godoc
// @Summary Check plan availability for a city
// @Description Reports whether plans can be served for a city slug
// @Tags plans
// @Accept json
// @Produce json
// @Param slug path string true "City slug"
// @Success 200 {object} models.CityPlansAvailability
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /cities/{slug}/availability [get]
func (h *PlanHandler) CityAvailability(c *gin.Context) {
	availability, err := h.service.CityAvailability(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check availability"})
		return
	}

	c.JSON(http.StatusOK, availability)
}
