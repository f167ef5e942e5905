package handlers

import (
	"net/http"

	"court_booking_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AddressWhitelistHandler serves /address-whitelist/:facilityId.
type AddressWhitelistHandler struct {
	whitelistService services.AddressWhitelistService
}

// NewAddressWhitelistHandler creates a new AddressWhitelistHandler.
func NewAddressWhitelistHandler(ws services.AddressWhitelistService) *AddressWhitelistHandler {
	return &AddressWhitelistHandler{whitelistService: ws}
}

func (h *AddressWhitelistHandler) List(c *gin.Context) {
	entries, err := h.whitelistService.List(c.Request.Context(), c.Param("facilityId"))
	if err != nil {
		respondServiceError(c, err, "ListWhitelist: Error from whitelistService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"entries": entries})
}

func (h *AddressWhitelistHandler) Add(c *gin.Context) {
	var req services.AddWhitelistEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "AddWhitelistEntry")
		return
	}
	entry, err := h.whitelistService.Add(c.Request.Context(), c.Param("facilityId"), req)
	if err != nil {
		respondServiceError(c, err, "AddWhitelistEntry: Error from whitelistService")
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"entry": entry})
}

func (h *AddressWhitelistHandler) Update(c *gin.Context) {
	var req services.UpdateWhitelistEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "UpdateWhitelistEntry")
		return
	}
	entry, err := h.whitelistService.Update(c.Request.Context(), c.Param("facilityId"), c.Param("addressId"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateWhitelistEntry: Error from whitelistService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"entry": entry})
}

func (h *AddressWhitelistHandler) Delete(c *gin.Context) {
	if err := h.whitelistService.Delete(c.Request.Context(), c.Param("facilityId"), c.Param("addressId")); err != nil {
		respondServiceError(c, err, "DeleteWhitelistEntry: Error from whitelistService")
		return
	}
	respondSuccess(c, http.StatusOK, nil)
}

// Check handles GET /address-whitelist/:facilityId/check/:address.
func (h *AddressWhitelistHandler) Check(c *gin.Context) {
	check, err := h.whitelistService.Check(c.Request.Context(), c.Param("facilityId"), c.Param("address"))
	if err != nil {
		respondServiceError(c, err, "CheckAddress: Error from whitelistService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"check": check})
}

// Count handles GET /address-whitelist/:facilityId/count/:address.
func (h *AddressWhitelistHandler) Count(c *gin.Context) {
	count, err := h.whitelistService.Count(c.Request.Context(), c.Param("facilityId"), c.Param("address"))
	if err != nil {
		respondServiceError(c, err, "CountAddress: Error from whitelistService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"count": count})
}
