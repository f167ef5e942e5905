package router

import (
	"court_booking_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// routeGuards are the middleware chains shared by route groups.
type routeGuards struct {
	authenticated gin.HandlerFunc
	admin         gin.HandlerFunc
	facilityAdmin gin.HandlerFunc
	rateLimited   gin.HandlerFunc
}

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, g routeGuards) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", g.rateLimited, authHandler.Register)
		authRoutes.POST("/login", g.rateLimited, authHandler.Login)
		authRoutes.POST("/add-facility", authHandler.AddFacility)
		authRoutes.GET("/me", g.authenticated, authHandler.Me)
	}
}

// SetupBookingRoutes sets up the booking routes. Ownership is carried by userId in
// the body or query, so only the status override needs a token.
func SetupBookingRoutes(apiGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler, g routeGuards) {
	bookingRoutes := apiGroup.Group("/bookings")
	{
		bookingRoutes.POST("", g.rateLimited, bookingHandler.CreateBooking)
		bookingRoutes.GET("/facility/:facilityId", bookingHandler.ListFacilityBookings)
		bookingRoutes.GET("/court/:courtId", bookingHandler.ListCourtBookings)
		bookingRoutes.GET("/user/:userId", bookingHandler.ListUserBookings)
		bookingRoutes.GET("/:bookingId", bookingHandler.GetBooking)
		bookingRoutes.DELETE("/:bookingId", bookingHandler.CancelBooking)
		bookingRoutes.PATCH("/:bookingId/status", g.authenticated, g.admin, bookingHandler.UpdateBookingStatus)
	}
}

// SetupFacilityRoutes sets up facilities, courts and member administration.
func SetupFacilityRoutes(apiGroup *gin.RouterGroup, facilityHandler *handlers.FacilityHandler, membershipHandler *handlers.MembershipHandler, g routeGuards) {
	facilityRoutes := apiGroup.Group("/facilities")
	{
		facilityRoutes.GET("", facilityHandler.ListFacilities)
		facilityRoutes.POST("", g.authenticated, g.admin, facilityHandler.CreateFacility)
		facilityRoutes.GET("/:facilityId", facilityHandler.GetFacility)
		facilityRoutes.GET("/:facilityId/courts", facilityHandler.ListCourts)
		facilityRoutes.POST("/:facilityId/courts", g.authenticated, g.admin, facilityHandler.CreateCourt)

		memberRoutes := facilityRoutes.Group("/:facilityId/members")
		memberRoutes.Use(g.authenticated, g.facilityAdmin)
		{
			memberRoutes.GET("", membershipHandler.ListMembers)
			memberRoutes.PATCH("/:userId", membershipHandler.UpdateMemberStatus)
			memberRoutes.DELETE("/:userId", membershipHandler.RemoveMember)
			memberRoutes.PATCH("/:userId/admin", membershipHandler.SetFacilityAdmin)
		}
	}
}

// SetupAddressWhitelistRoutes sets up whitelist management for facility admins.
func SetupAddressWhitelistRoutes(apiGroup *gin.RouterGroup, whitelistHandler *handlers.AddressWhitelistHandler, g routeGuards) {
	whitelistRoutes := apiGroup.Group("/address-whitelist/:facilityId")
	whitelistRoutes.Use(g.authenticated, g.facilityAdmin)
	{
		whitelistRoutes.GET("", whitelistHandler.List)
		whitelistRoutes.POST("", whitelistHandler.Add)
		whitelistRoutes.PATCH("/:addressId", whitelistHandler.Update)
		whitelistRoutes.DELETE("/:addressId", whitelistHandler.Delete)
		whitelistRoutes.GET("/check/:address", whitelistHandler.Check)
		whitelistRoutes.GET("/count/:address", whitelistHandler.Count)
	}
}
