package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alumnihub/backend/internal/service"
)

const defaultSearchLimit = 20

// OrganizationHandler serves organization and city typeahead lookups.
type OrganizationHandler struct {
	orgService service.IOrganizationService
}

func NewOrganizationHandler(orgService service.IOrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func (h *OrganizationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/organizations/search", h.SearchOrganizations)
	router.GET("/cities/search", h.SearchCities)
}

func (h *OrganizationHandler) SearchOrganizations(c *gin.Context) {
	query := c.Query("q")
	limit := queryLimit(c)

	orgs, err := h.orgService.SearchOrganizations(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

func (h *OrganizationHandler) SearchCities(c *gin.Context) {
	query := c.Query("q")
	limit := queryLimit(c)

	cities, err := h.orgService.SearchCities(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSearchLimit)))
	if err != nil || limit <= 0 {
		return defaultSearchLimit
	}
	return limit
}
