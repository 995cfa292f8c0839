package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alumnihub/backend/internal/middleware"
	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/service"
)

// UpdateRequestHandler lets members propose profile changes that need
// admin review.
type UpdateRequestHandler struct {
	updateRequestService service.IUpdateRequestService
}

func NewUpdateRequestHandler(updateRequestService service.IUpdateRequestService) *UpdateRequestHandler {
	return &UpdateRequestHandler{updateRequestService: updateRequestService}
}

func (h *UpdateRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/update-requests")
	{
		requests.POST("", h.Submit)
		requests.GET("/mine", h.ListMine)
	}
}

func (h *UpdateRequestHandler) Submit(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var payload models.ProfileUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.updateRequestService.Submit(c.Request.Context(), claims.UserID, &payload)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit request"})
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *UpdateRequestHandler) ListMine(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requests, err := h.updateRequestService.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
