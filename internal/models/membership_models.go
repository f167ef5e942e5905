package models

import "time"

// MembershipStatus is the state of a user's relationship to a facility.
type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusPending   MembershipStatus = "pending"
	MembershipStatusExpired   MembershipStatus = "expired"
	MembershipStatusSuspended MembershipStatus = "suspended"
)

// IsValidMembershipStatus checks s against the known membership statuses.
func IsValidMembershipStatus(s string) bool {
	switch MembershipStatus(s) {
	case MembershipStatusActive, MembershipStatusPending, MembershipStatusExpired, MembershipStatusSuspended:
		return true
	}
	return false
}

// DefaultMembershipType is used when a join request names no type.
const DefaultMembershipType = "Full"

// FacilityMembership is keyed by (UserID, FacilityID).
type FacilityMembership struct {
	UserID          string           `json:"userId" db:"user_id"`
	FacilityID      string           `json:"facilityId" db:"facility_id"`
	MembershipType  string           `json:"membershipType" db:"membership_type"`
	Status          MembershipStatus `json:"status" db:"status"`
	IsFacilityAdmin bool             `json:"isFacilityAdmin" db:"is_facility_admin"`
	StartDate       string           `json:"startDate" db:"start_date"`
	EndDate         *string          `json:"endDate,omitempty" db:"end_date"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	FacilityName    *string          `json:"facilityName,omitempty"` // joined for a user's membership list
	UserName        *string          `json:"userName,omitempty"`     // joined for a facility's member list
	UserEmail       *string          `json:"userEmail,omitempty"`
	StreetAddress   *string          `json:"streetAddress,omitempty"`
}
