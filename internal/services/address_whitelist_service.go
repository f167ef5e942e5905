package services

import (
	"context"
	"database/sql"
	"errors"

	"court_booking_backend/internal/models"
	"court_booking_backend/internal/repositories"
	"court_booking_backend/pkg/utils"
)

type AddWhitelistEntryRequest struct {
	Address       string `json:"address" binding:"required,notblank"`
	AccountsLimit *int   `json:"accountsLimit"`
}

type UpdateWhitelistEntryRequest struct {
	Address       *string `json:"address"`
	AccountsLimit *int    `json:"accountsLimit"`
}

// AddressWhitelistService manages the addresses a facility pre-approves.
type AddressWhitelistService interface {
	List(ctx context.Context, facilityID string) ([]models.AddressWhitelistEntry, error)
	Add(ctx context.Context, facilityID string, req AddWhitelistEntryRequest) (*models.AddressWhitelistEntry, error)
	Update(ctx context.Context, facilityID, entryID string, req UpdateWhitelistEntryRequest) (*models.AddressWhitelistEntry, error)
	Delete(ctx context.Context, facilityID, entryID string) error
	Check(ctx context.Context, facilityID, address string) (*models.AddressCheck, error)
	Count(ctx context.Context, facilityID, address string) (*models.AddressCount, error)
}

type addressWhitelistService struct {
	whitelistRepo  repositories.AddressWhitelistRepository
	membershipRepo repositories.MembershipRepository
	db             *sql.DB
}

// NewAddressWhitelistService creates a new instance of AddressWhitelistService.
func NewAddressWhitelistService(wr repositories.AddressWhitelistRepository, mr repositories.MembershipRepository, db *sql.DB) AddressWhitelistService {
	return &addressWhitelistService{whitelistRepo: wr, membershipRepo: mr, db: db}
}

func validateAccountsLimit(limit int) error {
	if limit < 1 {
		return validationError("accountsLimit must be at least 1")
	}
	return nil
}

func whitelistWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateKey):
		return newError(KindConflict, "Address is already whitelisted for this facility")
	case errors.Is(err, repositories.ErrForeignKey):
		return newError(KindNotFound, "Facility not found")
	case errors.Is(err, repositories.ErrNotFound):
		return newError(KindNotFound, "Whitelist entry not found")
	}
	return persistenceError(err)
}

func (s *addressWhitelistService) List(ctx context.Context, facilityID string) ([]models.AddressWhitelistEntry, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	entries, err := s.whitelistRepo.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, persistenceError(err)
	}
	return entries, nil
}

// Add whitelists an address; accountsLimit defaults to models.DefaultAccountsLimit.
func (s *addressWhitelistService) Add(ctx context.Context, facilityID string, req AddWhitelistEntryRequest) (*models.AddressWhitelistEntry, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	address := utils.CollapseSpaces(req.Address)
	if address == "" {
		return nil, validationError("address must not be empty")
	}
	limit := models.DefaultAccountsLimit
	if req.AccountsLimit != nil {
		limit = *req.AccountsLimit
	}
	if err := validateAccountsLimit(limit); err != nil {
		return nil, err
	}

	entry, err := s.whitelistRepo.Create(ctx, &models.AddressWhitelistEntry{
		FacilityID: facilityID, Address: address, AccountsLimit: limit,
	})
	if err != nil {
		return nil, whitelistWriteError(err)
	}
	return entry, nil
}

func (s *addressWhitelistService) Update(ctx context.Context, facilityID, entryID string, req UpdateWhitelistEntryRequest) (*models.AddressWhitelistEntry, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	if err := validateID("addressId", entryID); err != nil {
		return nil, err
	}
	if req.Address == nil && req.AccountsLimit == nil {
		return nil, validationError("Nothing to update")
	}
	var address *string
	if req.Address != nil {
		a := utils.CollapseSpaces(*req.Address)
		if a == "" {
			return nil, validationError("address must not be empty")
		}
		address = &a
	}
	if req.AccountsLimit != nil {
		if err := validateAccountsLimit(*req.AccountsLimit); err != nil {
			return nil, err
		}
	}

	entry, err := s.whitelistRepo.Update(ctx, facilityID, entryID, address, req.AccountsLimit)
	if err != nil {
		return nil, whitelistWriteError(err)
	}
	return entry, nil
}

func (s *addressWhitelistService) Delete(ctx context.Context, facilityID, entryID string) error {
	if err := validateID("facilityId", facilityID); err != nil {
		return err
	}
	if err := validateID("addressId", entryID); err != nil {
		return err
	}
	if err := s.whitelistRepo.Delete(ctx, facilityID, entryID); err != nil {
		return whitelistWriteError(err)
	}
	return nil
}

// Check reports whether address matches a whitelist entry, ignoring case.
func (s *addressWhitelistService) Check(ctx context.Context, facilityID, address string) (*models.AddressCheck, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	address = utils.CollapseSpaces(address)
	if address == "" {
		return nil, newError(KindValidation, MsgMissingRequiredFields)
	}
	result := &models.AddressCheck{Address: address}
	entry, err := s.whitelistRepo.FindByAddress(ctx, s.db, facilityID, address)
	switch {
	case err == nil:
		result.IsWhitelisted = true
		result.Entry = entry
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, persistenceError(err)
	}
	return result, nil
}

// Count reports the active and pending accounts at address and, when whitelisted, its limit.
func (s *addressWhitelistService) Count(ctx context.Context, facilityID, address string) (*models.AddressCount, error) {
	check, err := s.Check(ctx, facilityID, address)
	if err != nil {
		return nil, err
	}
	count, err := s.membershipRepo.CountAccountsAtAddress(ctx, s.db, facilityID, check.Address)
	if err != nil {
		return nil, persistenceError(err)
	}
	result := &models.AddressCount{Address: check.Address, Count: count}
	if check.Entry != nil {
		limit := check.Entry.AccountsLimit
		result.AccountsLimit = &limit
	}
	return result, nil
}
