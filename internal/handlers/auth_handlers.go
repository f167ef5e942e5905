package handlers

import (
	"net/http"

	"court_booking_backend/internal/middleware"
	"court_booking_backend/internal/notifications"
	"court_booking_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves account endpoints and the facility join request.
type AuthHandler struct {
	backend           services.AuthBackend
	membershipService services.MembershipService
	publisher         notifications.Publisher
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(backend services.AuthBackend, ms services.MembershipService, publisher notifications.Publisher) *AuthHandler {
	return &AuthHandler{backend: backend, membershipService: ms, publisher: publisher}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "Register")
		return
	}
	resp, err := h.backend.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Register: Error from auth backend")
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": resp.User, "accessToken": resp.AccessToken, "expiresIn": resp.ExpiresIn})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "Login")
		return
	}
	resp, err := h.backend.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Login: Error from auth backend")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": resp.User, "accessToken": resp.AccessToken, "expiresIn": resp.ExpiresIn})
}

// Me handles GET /auth/me for the bearer of the token.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	user, err := h.backend.GetMe(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Me: Error from auth backend")
		return
	}
	memberships, err := h.membershipService.ListUserMemberships(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Me: Error listing memberships")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user, "memberships": memberships})
}

// AddFacility handles POST /auth/add-facility: whitelist admission then upsert.
// The response carries the user with all of their memberships, plus the
// membership just decided whatever status it got.
func (h *AuthHandler) AddFacility(c *gin.Context) {
	var req services.JoinFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "AddFacility")
		return
	}
	membership, err := h.membershipService.JoinFacility(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "AddFacility: Error from membershipService.JoinFacility")
		return
	}
	notifications.PublishAsync(h.publisher, notifications.KeyMembershipRequested, notifications.NewMembershipEvent(membership))

	user, err := h.backend.GetMe(c.Request.Context(), membership.UserID)
	if err != nil {
		respondServiceError(c, err, "AddFacility: Error loading user")
		return
	}
	memberships, err := h.membershipService.ListUserMemberships(c.Request.Context(), membership.UserID)
	if err != nil {
		respondServiceError(c, err, "AddFacility: Error listing memberships")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user, "membership": membership, "memberships": memberships})
}
