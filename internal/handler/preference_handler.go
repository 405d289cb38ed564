package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medquizai/medquiz-backend/internal/config"
	"github.com/medquizai/medquiz-backend/internal/middleware"
	"github.com/medquizai/medquiz-backend/internal/model"
	"github.com/medquizai/medquiz-backend/internal/response"
	"github.com/medquizai/medquiz-backend/internal/store"
	"github.com/medquizai/medquiz-backend/internal/validator"
)

// PreferenceHandler stores per-client presentation preferences. The theme
// value is an opaque string; the backend never interprets it.
type PreferenceHandler struct {
	store store.Store
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(st store.Store) *PreferenceHandler {
	return &PreferenceHandler{store: st}
}

// GetTheme godoc
// GET /api/v1/preference/theme
func (h *PreferenceHandler) GetTheme(c *gin.Context) {
	clientID := middleware.GetClientID(c)
	if clientID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrClientIDRequired)
		return
	}

	theme, _, err := h.store.Get(c.Request.Context(), config.StoreKey.ThemePreference(clientID))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"theme": theme})
}

// SetTheme godoc
// PUT /api/v1/preference/theme
func (h *PreferenceHandler) SetTheme(c *gin.Context) {
	clientID := middleware.GetClientID(c)
	if clientID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrClientIDRequired)
		return
	}

	var req model.ThemeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.store.Set(c.Request.Context(), config.StoreKey.ThemePreference(clientID), req.Theme); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"theme": req.Theme})
}
