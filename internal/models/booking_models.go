package models

import "time"

// BookingStatus defines the type for booking statuses
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsValidBookingStatus checks if the provided status string is a valid BookingStatus.
func IsValidBookingStatus(status string) bool {
	switch BookingStatus(status) {
	case BookingStatusConfirmed,
		BookingStatusPending,
		BookingStatusCancelled,
		BookingStatusCompleted:
		return true
	default:
		return false
	}
}

// DefaultBookingType is stored when the caller sends none.
const DefaultBookingType = "regular"

// Booking is one reservation of one court for one user on one date/time range.
// BookingDate is YYYY-MM-DD; StartTime/EndTime are local HH:MM.
type Booking struct {
	ID              string        `json:"id" db:"id"`
	CourtID         string        `json:"courtId" db:"court_id"`
	UserID          string        `json:"userId" db:"user_id"`
	FacilityID      string        `json:"facilityId" db:"facility_id"`
	BookingDate     string        `json:"bookingDate" db:"booking_date"`
	StartTime       string        `json:"startTime" db:"start_time"`
	EndTime         string        `json:"endTime" db:"end_time"`
	DurationMinutes int           `json:"durationMinutes" db:"duration_minutes"`
	Status          BookingStatus `json:"status" db:"status"`
	BookingType     string        `json:"bookingType" db:"booking_type"`
	Notes           *string       `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
	CourtName       *string       `json:"courtName,omitempty"` // joined from courts in listings
	UserName        *string       `json:"userName,omitempty"`  // joined from users in listings
}

// UserBookingsFilter partitions a user's bookings around today.
// Upcoming nil lists every non-cancelled booking.
type UserBookingsFilter struct {
	UserID   string
	Upcoming *bool
}
