package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/brickstock/internal/settingsstore"
)

// SettingsController exposes the Rebrickable token and default
// category configuration.
type SettingsController struct {
	store *settingsstore.SettingsStore
}

// NewSettingsController creates a new SettingsController.
func NewSettingsController(store *settingsstore.SettingsStore) *SettingsController {
	return &SettingsController{store: store}
}

// SettingsResponse is the response for GET /api/settings.
type SettingsResponse struct {
	Token             string `json:"token"` // masked
	DefaultCategoryID *uint  `json:"default_category_id,omitempty"`
	SetSyncEnabled    bool   `json:"set_sync_enabled"`
	SetSyncSchedule   string `json:"set_sync_schedule"`
}

// GetSettings handles GET /api/settings.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	sync := sc.store.GetSetSyncConfig()
	c.JSON(http.StatusOK, SettingsResponse{
		Token:             maskToken(sc.store.GetAPIToken()),
		DefaultCategoryID: sc.store.GetDefaultCategoryID(),
		SetSyncEnabled:    sync.Enabled,
		SetSyncSchedule:   sync.Schedule,
	})
}

// UpdateSettingsRequest is the request body for POST /api/settings.
type UpdateSettingsRequest struct {
	Token             *string `json:"token"`
	DefaultCategoryID *uint   `json:"default_category_id"`
	SetSyncEnabled    *bool   `json:"set_sync_enabled"`
	SetSyncSchedule   *string `json:"set_sync_schedule"`
}

// UpdateSettings handles POST /api/settings. Only fields present in
// the body are touched.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Token != nil {
		if err := sc.store.SetAPIToken(strings.TrimSpace(*req.Token)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if req.DefaultCategoryID != nil {
		if err := sc.store.SetDefaultCategoryID(*req.DefaultCategoryID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if req.SetSyncEnabled != nil {
		if err := sc.store.SetSetSyncEnabled(*req.SetSyncEnabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if req.SetSyncSchedule != nil {
		if err := sc.store.SetSetSyncSchedule(*req.SetSyncSchedule); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// maskToken hides all but the last four characters of a token.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
