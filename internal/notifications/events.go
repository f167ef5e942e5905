package notifications

import (
	"context"
	"time"

	"court_booking_backend/internal/models"
	"court_booking_backend/pkg/utils"
)

// publishTimeout bounds a fire-and-forget publish.
const publishTimeout = 5 * time.Second

// BookingEvent is published when a booking is confirmed or cancelled.
type BookingEvent struct {
	BookingID   string    `json:"bookingId"`
	CourtID     string    `json:"courtId"`
	FacilityID  string    `json:"facilityId"`
	UserID      string    `json:"userId"`
	BookingDate string    `json:"bookingDate"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// NewBookingEvent snapshots b.
func NewBookingEvent(b *models.Booking) BookingEvent {
	return BookingEvent{
		BookingID: b.ID, CourtID: b.CourtID, FacilityID: b.FacilityID, UserID: b.UserID,
		BookingDate: b.BookingDate, StartTime: b.StartTime, EndTime: b.EndTime,
		Status: string(b.Status), OccurredAt: time.Now().UTC(),
	}
}

// MembershipEvent is published after a join request is admitted.
type MembershipEvent struct {
	UserID         string    `json:"userId"`
	FacilityID     string    `json:"facilityId"`
	MembershipType string    `json:"membershipType"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewMembershipEvent snapshots m.
func NewMembershipEvent(m *models.FacilityMembership) MembershipEvent {
	return MembershipEvent{
		UserID: m.UserID, FacilityID: m.FacilityID, MembershipType: m.MembershipType,
		Status: string(m.Status), OccurredAt: time.Now().UTC(),
	}
}

// PublishAsync publishes in the background with its own deadline. Errors are only logged.
func PublishAsync(p Publisher, key string, v any) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.Publish(ctx, key, v); err != nil {
			utils.LogError(err, "Failed to publish event", map[string]interface{}{"routing_key": key})
		}
	}()
	return done
}
