package handler

import (
	settingsapp "github.com/aqarcrm/backend/internal/application/settings"
	"github.com/aqarcrm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles configuration API endpoints
type SettingsHandler struct {
	BaseHandler
	service *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// UpdateSettingRequest is the request body for writing a setting.
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required,min=1,max=1024"`
}

// Get returns the value for a configuration key
func (h *SettingsHandler) Get(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Setting key is required")
		return
	}

	setting, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, setting)
}

// Update validates and writes a configuration value. The change is visible to
// the next status evaluation; no reader observes the stale value afterwards.
func (h *SettingsHandler) Update(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Setting key is required")
		return
	}

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	setting, err := h.service.Set(c.Request.Context(), key, req.Value)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, setting)
}
