package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moto-tune/suspension-backend/internal/auth"
	"github.com/moto-tune/suspension-backend/internal/auth/domain"
	"github.com/moto-tune/suspension-backend/internal/logging"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	user, err := h.authService.GetUserByFirebaseUID(c.Request.Context(), firebaseUID)
	if err != nil {
		writeError(c, "get profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// GetPublicProfile returns the public part of another rider's profile
func (h *Handler) GetPublicProfile(c *gin.Context) {
	user, err := h.authService.GetUserByFirebaseUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		writeError(c, "get public profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user.Public()})
}

// SyncUser syncs Firebase user data to PostgreSQL
// This endpoint is called after Firebase authentication to ensure user exists in our DB
// Accepts optional JSON body with display_name, photo_url, level, and preferences
func (h *Handler) SyncUser(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	email := auth.UserEmail(c)

	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	var body struct {
		Email       string                 `json:"email,omitempty"`
		DisplayName *string                `json:"display_name,omitempty"`
		PhotoURL    *string                `json:"photo_url,omitempty"`
		Level       string                 `json:"level,omitempty"`
		Preferences map[string]interface{} `json:"preferences,omitempty"`
	}

	// The body is optional, but a malformed one is rejected
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body", "details": err.Error()})
			return
		}
	}

	// Email is required - prioritize: body > token > fallback
	if body.Email != "" {
		email = body.Email
	} else if email == "" {
		email = firebaseUID + "@firebase.local"
	}

	user, err := h.authService.SyncUser(c.Request.Context(), &domain.SyncUserRequest{
		FirebaseUID: firebaseUID,
		Email:       email,
		DisplayName: body.DisplayName,
		PhotoURL:    body.PhotoURL,
		Level:       body.Level,
		Preferences: body.Preferences,
	})
	if err != nil {
		writeError(c, "sync user", err)
		return
	}

	if err := h.authService.RecordLogin(c.Request.Context(), firebaseUID); err != nil {
		logging.New(c.Request.Context()).With("uid", firebaseUID).Warn("record login", err)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// UpdateProfile updates the user's profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	var req struct {
		DisplayName   *string                `json:"display_name,omitempty"`
		PhotoURL      *string                `json:"photo_url,omitempty"`
		Bio           *string                `json:"bio,omitempty"`
		Level         *string                `json:"level,omitempty"`
		RiderWeightKg *int                   `json:"rider_weight_kg,omitempty"`
		Preferences   map[string]interface{} `json:"preferences,omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), firebaseUID, &domain.UpdateUserRequest{
		DisplayName:   req.DisplayName,
		PhotoURL:      req.PhotoURL,
		Bio:           req.Bio,
		Level:         req.Level,
		RiderWeightKg: req.RiderWeightKg,
		Preferences:   req.Preferences,
	})
	if err != nil {
		writeError(c, "update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "email already exists"})
	case errors.Is(err, domain.ErrInvalidLevel):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid level"})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to " + op})
	}
}
