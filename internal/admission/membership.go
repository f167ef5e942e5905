package admission

import (
	"strings"

	"court_booking_backend/internal/models"
)

// WhitelistMatch is the whitelist row found for a user's address, if any.
type WhitelistMatch struct {
	Found         bool
	AccountsLimit int
}

// DecideMembershipStatus picks the initial status of a join request.
// Without an address or a whitelist match the request waits for review;
// a matched address is auto-approved while fewer than AccountsLimit
// active or pending accounts already use it.
func DecideMembershipStatus(streetAddress string, match WhitelistMatch, existingAccounts int) models.MembershipStatus {
	if strings.TrimSpace(streetAddress) == "" {
		return models.MembershipStatusPending
	}
	if !match.Found {
		return models.MembershipStatusPending
	}
	if existingAccounts < match.AccountsLimit {
		return models.MembershipStatusActive
	}
	return models.MembershipStatusPending
}
