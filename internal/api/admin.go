package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alumnihub/backend/internal/middleware"
	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/service"
	"github.com/alumnihub/backend/internal/types"
)

// AdminHandler serves the moderation surface: registration review, update
// request review, direct profile edits and bulk export.
type AdminHandler struct {
	authService          service.IAuthService
	profileService       service.IProfileService
	updateRequestService service.IUpdateRequestService
	exportService        service.IExportService
}

func NewAdminHandler(authService service.IAuthService, profileService service.IProfileService, updateRequestService service.IUpdateRequestService, exportService service.IExportService) *AdminHandler {
	return &AdminHandler{
		authService:          authService,
		profileService:       profileService,
		updateRequestService: updateRequestService,
		exportService:        exportService,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.GET("/registrations/pending", h.ListPendingRegistrations)
		admin.POST("/registrations/:id/approve", h.ApproveRegistration)
		admin.POST("/registrations/:id/reject", h.RejectRegistration)
		admin.GET("/update-requests", h.ListPendingUpdateRequests)
		admin.POST("/update-requests/:id/approve", h.ApproveUpdateRequest)
		admin.POST("/update-requests/:id/reject", h.RejectUpdateRequest)
		admin.PUT("/profiles/:id", h.EditProfile)
		admin.GET("/export", h.Export)
	}
}

func (h *AdminHandler) ListPendingRegistrations(c *gin.Context) {
	users, err := h.authService.ListPendingRegistrations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load registrations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": users})
}

func (h *AdminHandler) ApproveRegistration(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.authService.ApproveRegistration(c.Request.Context(), claims, userID); err != nil {
		h.registrationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "registration approved"})
}

func (h *AdminHandler) RejectRegistration(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	// Reason is optional; an empty body is fine.
	var req types.RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.authService.RejectRegistration(c.Request.Context(), claims, userID, req.Reason); err != nil {
		h.registrationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "registration rejected"})
}

func (h *AdminHandler) registrationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyResolvedUser):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve registration"})
	}
}

func (h *AdminHandler) ListPendingUpdateRequests(c *gin.Context) {
	requests, err := h.updateRequestService.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *AdminHandler) ApproveUpdateRequest(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req types.ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	resolved, err := h.updateRequestService.Approve(c.Request.Context(), claims, requestID, req.Payload, req.AdminNotes)
	if err != nil {
		h.updateRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}

func (h *AdminHandler) RejectUpdateRequest(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req types.RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	resolved, err := h.updateRequestService.Reject(c.Request.Context(), claims, requestID, req.Reason)
	if err != nil {
		h.updateRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}

func (h *AdminHandler) updateRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAdminOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve request"})
	}
}

// EditProfile applies a direct admin edit to any member's profile. The
// change lands in the audit trail as an admin edit.
func (h *AdminHandler) EditProfile(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), claims, userID, &upd)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AdminHandler) Export(c *gin.Context) {
	var filters types.ProfileSearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stamp := time.Now().Format("2006-01-02")
	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		data, err := h.exportService.ExportProfilesXLSX(c.Request.Context(), &filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=members-%s.xlsx", stamp))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	case "csv":
		data, err := h.exportService.ExportProfilesCSV(c.Request.Context(), &filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=members-%s.csv", stamp))
		c.Data(http.StatusOK, "text/csv", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
	}
}
