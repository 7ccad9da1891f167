package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moodmate/internal/domain/auth"
)

// Register creates an account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Login issues access and refresh tokens.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout drops the per-user dashboard and places state.
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.dashboardSvc.Reset(userID)
	h.places.Untrack(userID)
	if err := h.authSvc.Logout(c.Request.Context(), userID); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the caller's profile.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	view, err := h.authSvc.Profile(c.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateLanguage stores the preferred interface language.
func (h *Handler) UpdateLanguage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req auth.LanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.authSvc.UpdateLanguage(c.Request.Context(), userID, req.Language)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
