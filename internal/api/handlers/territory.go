package handlers

import (
	"net/http"
	"strconv"
	"time"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TerritoryHandler handles ZIP mapping administration requests
type TerritoryHandler struct {
	repo repository.TerritoryRepository
}

// NewTerritoryHandler creates a new TerritoryHandler
func NewTerritoryHandler(repo repository.TerritoryRepository) *TerritoryHandler {
	return &TerritoryHandler{repo: repo}
}

// ListTerritories godoc
// @Summary List ZIP mappings
// @Description Returns ZIP code to service territory mappings
// @Tags territories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param city_slug query string false "Filter by city slug"
// @Param tdsp_duns query string false "Filter by TDSP DUNS"
// @Param search query string false "Search by city name"
// @Param order_by query string false "Order by field (city_name, tdsp_name, updated_at)"
// @Param order_desc query boolean false "Order descending"
// @Param limit query integer false "Limit results"
// @Param offset query integer false "Offset results"
// @Success 200 {array} models.ZIPCodeMapping
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /territories [get]
func (h *TerritoryHandler) ListTerritories(c *gin.Context) {
	filter := repository.TerritoryFilter{}

	if citySlug := c.Query("city_slug"); citySlug != "" {
		filter.CitySlug = &citySlug
	}
	if tdspDUNS := c.Query("tdsp_duns"); tdspDUNS != "" {
		filter.TDSPDUNS = &tdspDUNS
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}

	// Parse ordering
	if orderBy := c.Query("order_by"); orderBy != "" {
		filter.OrderBy = orderBy
		if desc := c.Query("order_desc"); desc != "" {
			filter.OrderDesc = desc == "true"
		}
	}

	// Parse pagination
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid limit"})
			return
		}
		filter.Limit = &limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid offset"})
			return
		}
		filter.Offset = &offset
	}

	mappings, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch territories"})
		return
	}

	c.JSON(http.StatusOK, mappings)
}

// GetTerritory godoc
// @Summary Get a ZIP mapping by ID
// @Description Returns a ZIP mapping by its ID
// @Tags territories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mapping ID"
// @Success 200 {object} models.ZIPCodeMapping
// @Failure 400 {object} models.ErrorResponse "Invalid mapping ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Mapping not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /territories/{id} [get]
func (h *TerritoryHandler) GetTerritory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid mapping ID"})
		return
	}

	mapping, err := h.repo.GetByID(c.Request.Context(), id)
	if err == repository.ErrTerritoryNotFound {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Mapping not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch mapping"})
		return
	}

	c.JSON(http.StatusOK, mapping)
}

// CreateTerritory godoc
// @Summary Create a ZIP mapping
// @Description Creates a new ZIP code to service territory mapping
// @Tags territories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mapping body models.CreateTerritoryRequest true "Mapping to create"
// @Success 201 {object} models.ZIPCodeMapping
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 409 {object} models.ErrorResponse "Mapping already exists"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /territories [post]
func (h *TerritoryHandler) CreateTerritory(c *gin.Context) {
	var req models.CreateTerritoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	mapping := models.ZIPCodeMapping{
		ZIPCode:       req.ZIPCode,
		CitySlug:      req.CitySlug,
		CityName:      req.CityName,
		County:        req.County,
		TDSPName:      req.TDSPName,
		TDSPDUNS:      req.TDSPDUNS,
		IsDeregulated: req.IsDeregulated,
		MarketZone:    req.MarketZone,
		Priority:      req.Priority,
		Source:        "admin",
		LastValidated: time.Now(),
	}

	if err := h.repo.Create(c.Request.Context(), &mapping); err == repository.ErrTerritoryExists {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "A mapping for this ZIP code already exists"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create mapping"})
		return
	}

	c.JSON(http.StatusCreated, mapping)
}

// UpdateTerritory godoc
// @Summary Update a ZIP mapping
// @Description Updates an existing ZIP mapping
// @Tags territories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mapping ID"
// @Param mapping body models.UpdateTerritoryRequest true "Updated mapping"
// @Success 200 {object} models.ZIPCodeMapping
// @Failure 400 {object} models.ErrorResponse "Invalid request body or mapping ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Mapping not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /territories/{id} [put]
func (h *TerritoryHandler) UpdateTerritory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid mapping ID"})
		return
	}

	var req models.UpdateTerritoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	mapping := models.ZIPCodeMapping{
		ID:            id,
		CitySlug:      req.CitySlug,
		CityName:      req.CityName,
		County:        req.County,
		TDSPName:      req.TDSPName,
		TDSPDUNS:      req.TDSPDUNS,
		IsDeregulated: req.IsDeregulated,
		MarketZone:    req.MarketZone,
		Priority:      req.Priority,
	}

	if err := h.repo.Update(c.Request.Context(), &mapping); err == repository.ErrTerritoryNotFound {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Mapping not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update mapping"})
		return
	}

	c.JSON(http.StatusOK, mapping)
}

// DeleteTerritory godoc
// @Summary Delete a ZIP mapping
// @Description Deletes an existing ZIP mapping
// @Tags territories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mapping ID"
// @Success 204 "No Content"
// @Failure 400 {object} models.ErrorResponse "Invalid mapping ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Mapping not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /territories/{id} [delete]
func (h *TerritoryHandler) DeleteTerritory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid mapping ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err == repository.ErrTerritoryNotFound {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Mapping not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete mapping"})
		return
	}

	c.Status(http.StatusNoContent)
}
