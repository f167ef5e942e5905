package handlers

import (
	"net/http"

	"court_booking_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// MembershipHandler serves facility member administration.
type MembershipHandler struct {
	membershipService services.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(ms services.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: ms}
}

// ListMembers handles GET /facilities/:facilityId/members?status=.
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	members, err := h.membershipService.ListFacilityMembers(c.Request.Context(), c.Param("facilityId"), c.Query("status"))
	if err != nil {
		respondServiceError(c, err, "ListMembers: Error from membershipService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"memberships": members})
}

// UpdateMemberStatus handles PATCH /facilities/:facilityId/members/:userId.
func (h *MembershipHandler) UpdateMemberStatus(c *gin.Context) {
	var req services.UpdateMemberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "UpdateMemberStatus")
		return
	}
	m, err := h.membershipService.UpdateMemberStatus(c.Request.Context(), c.Param("facilityId"), c.Param("userId"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateMemberStatus: Error from membershipService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"membership": m})
}

// SetFacilityAdmin handles PATCH /facilities/:facilityId/members/:userId/admin.
func (h *MembershipHandler) SetFacilityAdmin(c *gin.Context) {
	var req services.SetFacilityAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "SetFacilityAdmin")
		return
	}
	m, err := h.membershipService.SetFacilityAdmin(c.Request.Context(), c.Param("facilityId"), c.Param("userId"), req)
	if err != nil {
		respondServiceError(c, err, "SetFacilityAdmin: Error from membershipService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"membership": m})
}

// RemoveMember handles DELETE /facilities/:facilityId/members/:userId.
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	if err := h.membershipService.RemoveMember(c.Request.Context(), c.Param("facilityId"), c.Param("userId")); err != nil {
		respondServiceError(c, err, "RemoveMember: Error from membershipService")
		return
	}
	respondSuccess(c, http.StatusOK, nil)
}
