package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medquizai/medquiz-backend/internal/middleware"
	"github.com/medquizai/medquiz-backend/internal/model"
	"github.com/medquizai/medquiz-backend/internal/response"
	"github.com/medquizai/medquiz-backend/internal/service"
	"github.com/medquizai/medquiz-backend/internal/validator"
)

// AuthHandler handles the access gate endpoints.
type AuthHandler struct {
	authService *service.AuthService
	quizService *service.QuizService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, quizService *service.QuizService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		quizService: quizService,
	}
}

// Unlock godoc
// POST /api/v1/auth/unlock
// Validates the submitted access code. On success returns a bearer token and
// the session expiry; on failure nothing changes server-side.
func (h *AuthHandler) Unlock(c *gin.Context) {
	clientID := middleware.GetClientID(c)
	if clientID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrClientIDRequired)
		return
	}

	var req model.UnlockRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.authService.Unlock(c.Request.Context(), clientID, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAccessCode) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidAccessCode)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// GetSession godoc
// GET /api/v1/auth/session
// Reports whether the client currently holds a valid session. Safe to call
// at startup: its only side effect is purging an invalid stored record.
func (h *AuthHandler) GetSession(c *gin.Context) {
	clientID := middleware.GetClientID(c)
	if clientID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrClientIDRequired)
		return
	}

	session := h.authService.CheckSession(c.Request.Context(), clientID)
	response.Success(c, http.StatusOK, session)
}

// Logout godoc
// POST /api/v1/auth/logout
// Removes the authorization record and discards the quiz session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.ClientID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	h.quizService.DropSession(claims.ClientID)

	response.Success(c, http.StatusOK, gin.H{})
}
