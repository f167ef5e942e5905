package handlers

import (
	"net/http"

	"court_booking_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// FacilityHandler serves facilities and courts.
type FacilityHandler struct {
	facilityService services.FacilityService
}

// NewFacilityHandler creates a new FacilityHandler.
func NewFacilityHandler(fs services.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilityService: fs}
}

func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	facilities, err := h.facilityService.ListFacilities(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "ListFacilities: Error from facilityService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"facilities": facilities})
}

func (h *FacilityHandler) GetFacility(c *gin.Context) {
	facility, err := h.facilityService.GetFacility(c.Request.Context(), c.Param("facilityId"))
	if err != nil {
		respondServiceError(c, err, "GetFacility: Error from facilityService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"facility": facility})
}

func (h *FacilityHandler) CreateFacility(c *gin.Context) {
	var req services.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "CreateFacility")
		return
	}
	facility, err := h.facilityService.CreateFacility(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateFacility: Error from facilityService")
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"facility": facility})
}

func (h *FacilityHandler) ListCourts(c *gin.Context) {
	courts, err := h.facilityService.ListCourts(c.Request.Context(), c.Param("facilityId"))
	if err != nil {
		respondServiceError(c, err, "ListCourts: Error from facilityService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"courts": courts})
}

func (h *FacilityHandler) CreateCourt(c *gin.Context) {
	var req services.CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "CreateCourt")
		return
	}
	court, err := h.facilityService.CreateCourt(c.Request.Context(), c.Param("facilityId"), req)
	if err != nil {
		respondServiceError(c, err, "CreateCourt: Error from facilityService")
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"court": court})
}
