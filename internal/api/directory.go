package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alumnihub/backend/internal/middleware"
	"github.com/alumnihub/backend/internal/service"
)

// DirectoryHandler serves a member's personal saved-members list.
type DirectoryHandler struct {
	directoryService service.IDirectoryService
}

func NewDirectoryHandler(directoryService service.IDirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

func (h *DirectoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	directory := router.Group("/directory")
	{
		directory.GET("", h.List)
		directory.POST("/:id", h.Add)
		directory.DELETE("/:id", h.Remove)
	}
}

func (h *DirectoryHandler) List(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	members, err := h.directoryService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load saved members"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members, "count": len(members)})
}

func (h *DirectoryHandler) Add(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	if err := h.directoryService.Add(c.Request.Context(), claims.UserID, memberID); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadySaved):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSelfEntry):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save member"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "member saved"})
}

func (h *DirectoryHandler) Remove(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	if err := h.directoryService.Remove(c.Request.Context(), claims.UserID, memberID); err != nil {
		if errors.Is(err, service.ErrNotSaved) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}
