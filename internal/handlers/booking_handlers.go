package handlers

import (
	"net/http"

	"court_booking_backend/internal/notifications"
	"court_booking_backend/internal/services"
	"court_booking_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler holds the booking service.
type BookingHandler struct {
	bookingService services.BookingService
	publisher      notifications.Publisher
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingService, publisher notifications.Publisher) *BookingHandler {
	return &BookingHandler{bookingService: bs, publisher: publisher}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "CreateBooking")
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateBooking: Error from bookingService.CreateBooking")
		return
	}
	notifications.PublishAsync(h.publisher, notifications.KeyBookingConfirmed, notifications.NewBookingEvent(booking))
	respondSuccess(c, http.StatusCreated, gin.H{"booking": booking})
}

// GetBooking handles GET /bookings/:bookingId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		respondServiceError(c, err, "GetBooking: Error from bookingService.GetBooking")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"booking": booking})
}

// CancelBooking handles DELETE /bookings/:bookingId?userId=.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("bookingId"), c.Query("userId"))
	if err != nil {
		respondServiceError(c, err, "CancelBooking: Error from bookingService.CancelBooking")
		return
	}
	notifications.PublishAsync(h.publisher, notifications.KeyBookingCancelled, notifications.NewBookingEvent(booking))
	respondSuccess(c, http.StatusOK, nil)
}

// UpdateBookingStatus handles the admin PATCH /bookings/:bookingId/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req services.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err, "UpdateBookingStatus")
		return
	}
	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), c.Param("bookingId"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateBookingStatus: Error from bookingService.UpdateBookingStatus")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"booking": booking})
}

// ListFacilityBookings handles GET /bookings/facility/:facilityId?date=.
func (h *BookingHandler) ListFacilityBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListFacilityBookings(c.Request.Context(), c.Param("facilityId"), c.Query("date"))
	if err != nil {
		respondServiceError(c, err, "ListFacilityBookings: Error from bookingService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"bookings": bookings})
}

// ListCourtBookings handles GET /bookings/court/:courtId?date=.
func (h *BookingHandler) ListCourtBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListCourtBookings(c.Request.Context(), c.Param("courtId"), c.Query("date"))
	if err != nil {
		respondServiceError(c, err, "ListCourtBookings: Error from bookingService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"bookings": bookings})
}

// ListUserBookings handles GET /bookings/user/:userId?upcoming=true|false.
func (h *BookingHandler) ListUserBookings(c *gin.Context) {
	upcoming, err := utils.ParseOptionalBool(c.Query("upcoming"))
	if err != nil {
		utils.RespondValidationFailed(c, "upcoming must be true or false")
		return
	}
	bookings, err := h.bookingService.ListUserBookings(c.Request.Context(), c.Param("userId"), upcoming)
	if err != nil {
		respondServiceError(c, err, "ListUserBookings: Error from bookingService")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"bookings": bookings})
}
