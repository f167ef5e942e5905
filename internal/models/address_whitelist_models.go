package models

import "time"

// DefaultAccountsLimit is the per-address cap when an admin does not set one.
const DefaultAccountsLimit = 4

// AddressWhitelistEntry pre-approves memberships for one address at one facility,
// up to AccountsLimit accounts.
type AddressWhitelistEntry struct {
	ID            string    `json:"id" db:"id"`
	FacilityID    string    `json:"facilityId" db:"facility_id"`
	Address       string    `json:"address" db:"address"`
	AccountsLimit int       `json:"accountsLimit" db:"accounts_limit"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// AddressCheck answers whether an address is whitelisted at a facility.
type AddressCheck struct {
	Address       string                 `json:"address"`
	IsWhitelisted bool                   `json:"isWhitelisted"`
	Entry         *AddressWhitelistEntry `json:"entry,omitempty"`
}

// AddressCount reports how many active/pending accounts use an address.
type AddressCount struct {
	Address       string `json:"address"`
	Count         int    `json:"count"`
	AccountsLimit *int   `json:"accountsLimit,omitempty"`
}
