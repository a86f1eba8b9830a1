package handlers

import (
	"net/http"

	"powermatch/internal/models"
	"powermatch/internal/territory"

	"github.com/gin-gonic/gin"
)

// ZIPHandler handles ZIP code validation requests
type ZIPHandler struct {
	resolver *territory.Resolver
}

// NewZIPHandler creates a new ZIPHandler
func NewZIPHandler(resolver *territory.Resolver) *ZIPHandler {
	return &ZIPHandler{resolver: resolver}
}

// ValidateZIP godoc
// @Summary Validate a ZIP code
// @Description Resolves a Texas ZIP code to its deregulated service territory
// @Tags zip
// @Accept json
// @Produce json
// @Param request body models.ValidateZIPRequest true "ZIP code to validate"
// @Success 200 {object} models.ZIPValidationResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /zip/validate [post]
func (h *ZIPHandler) ValidateZIP(c *gin.Context) {
	var req models.ValidateZIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	result := h.resolver.Resolve(c.Request.Context(), req.ZIPCode)

	resp := models.ZIPValidationResponse{
		IsValid:     result.Resolution != nil,
		ErrorCode:   result.ErrorCode,
		Suggestions: result.Suggestions,
	}

	resp.IsTexas = result.ErrorCode != models.ZIPErrorInvalidFormat &&
		result.ErrorCode != models.ZIPErrorNotTexas

	if result.Resolution != nil {
		resp.IsDeregulated = result.Resolution.IsDeregulated
		resp.CityData = result.Resolution
		resp.TDSPData = &models.TDSPServiceTerritory{
			DUNS:          result.Resolution.TDSPDUNS,
			Name:          result.Resolution.TDSPName,
			MarketZone:    result.Resolution.MarketZone,
			IsDeregulated: true,
		}
	}

	c.JSON(http.StatusOK, resp)
}
