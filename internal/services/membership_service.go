package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"court_booking_backend/internal/admission"
	"court_booking_backend/internal/metrics"
	"court_booking_backend/internal/models"
	"court_booking_backend/internal/repositories"
	"court_booking_backend/pkg/utils"
)

// --- Membership DTOs ---
type JoinFacilityRequest struct {
	UserID         string  `json:"userId" binding:"required"`
	FacilityID     string  `json:"facilityId" binding:"required"`
	MembershipType *string `json:"membershipType"`
}

type UpdateMemberStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetFacilityAdminRequest struct {
	IsFacilityAdmin *bool `json:"isFacilityAdmin" binding:"required"`
}

// MembershipService admits users to facilities and administers existing members.
type MembershipService interface {
	JoinFacility(ctx context.Context, req JoinFacilityRequest) (*models.FacilityMembership, error)
	ListUserMemberships(ctx context.Context, userID string) ([]models.FacilityMembership, error)
	ListFacilityMembers(ctx context.Context, facilityID, status string) ([]models.FacilityMembership, error)
	UpdateMemberStatus(ctx context.Context, facilityID, userID string, req UpdateMemberStatusRequest) (*models.FacilityMembership, error)
	SetFacilityAdmin(ctx context.Context, facilityID, userID string, req SetFacilityAdminRequest) (*models.FacilityMembership, error)
	RemoveMember(ctx context.Context, facilityID, userID string) error
	IsFacilityAdmin(ctx context.Context, userID, facilityID string) (bool, error)
}

type membershipService struct {
	membershipRepo repositories.MembershipRepository
	whitelistRepo  repositories.AddressWhitelistRepository
	db             *sql.DB
	now            func() time.Time
}

// NewMembershipService creates a new instance of MembershipService.
func NewMembershipService(mr repositories.MembershipRepository, wr repositories.AddressWhitelistRepository, db *sql.DB) MembershipService {
	return &membershipService{membershipRepo: mr, whitelistRepo: wr, db: db, now: time.Now}
}

// JoinFacility decides the initial status from the address whitelist and upserts
// the membership. The whole decision runs under an advisory lock on the household
// so two members of one address cannot both take the last slot.
func (s *membershipService) JoinFacility(ctx context.Context, req JoinFacilityRequest) (*models.FacilityMembership, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.FacilityID = strings.TrimSpace(req.FacilityID)
	if err := validateID("userId", req.UserID); err != nil {
		return nil, err
	}
	if err := validateID("facilityId", req.FacilityID); err != nil {
		return nil, err
	}
	membershipType := models.DefaultMembershipType
	if t := utils.TrimmedOrNil(req.MembershipType); t != nil {
		membershipType = *t
	}

	var saved *models.FacilityMembership
	var whitelisted bool
	err := repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		address, err := s.membershipRepo.GetUserStreetAddress(ctx, tx, req.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return newError(KindNotFound, "User not found")
			}
			return err
		}
		address = strings.TrimSpace(address)

		var match admission.WhitelistMatch
		existing := 0
		if address != "" {
			if err := s.membershipRepo.LockAddress(ctx, tx, req.FacilityID, address); err != nil {
				return err
			}
			entry, err := s.whitelistRepo.FindByAddress(ctx, tx, req.FacilityID, address)
			switch {
			case err == nil:
				match = admission.WhitelistMatch{Found: true, AccountsLimit: entry.AccountsLimit}
			case !errors.Is(err, repositories.ErrNotFound):
				return err
			}
			if match.Found {
				existing, err = s.membershipRepo.CountAccountsAtAddress(ctx, tx, req.FacilityID, address)
				if err != nil {
					return err
				}
			}
		}

		status := admission.DecideMembershipStatus(address, match, existing)
		whitelisted = match.Found

		saved, err = s.membershipRepo.UpsertMembership(ctx, tx, &models.FacilityMembership{
			UserID:         req.UserID,
			FacilityID:     req.FacilityID,
			MembershipType: membershipType,
			Status:         status,
			StartDate:      s.now().Format(bookingDateLayout),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, newError(KindNotFound, "Facility not found")
		}
		return nil, asServiceError(err)
	}

	metrics.RecordMembershipDecision(string(saved.Status), whitelisted)
	utils.LogInfo("Membership admission decided", map[string]interface{}{
		"user_id": saved.UserID, "facility_id": saved.FacilityID,
		"status": saved.Status, "whitelisted": whitelisted,
	})
	return saved, nil
}

func (s *membershipService) ListUserMemberships(ctx context.Context, userID string) ([]models.FacilityMembership, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	memberships, err := s.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, persistenceError(err)
	}
	return memberships, nil
}

// ListFacilityMembers lists every member, or only those in status when it is set.
func (s *membershipService) ListFacilityMembers(ctx context.Context, facilityID, status string) ([]models.FacilityMembership, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	var filter *models.MembershipStatus
	if status = strings.TrimSpace(status); status != "" {
		if !models.IsValidMembershipStatus(status) {
			return nil, validationError("Invalid membership status %q", status)
		}
		st := models.MembershipStatus(status)
		filter = &st
	}
	members, err := s.membershipRepo.ListByFacility(ctx, facilityID, filter)
	if err != nil {
		return nil, persistenceError(err)
	}
	return members, nil
}

func (s *membershipService) validateMemberKey(facilityID, userID string) error {
	if err := validateID("facilityId", facilityID); err != nil {
		return err
	}
	return validateID("userId", userID)
}

func membershipLookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return newError(KindNotFoundOrUnauthorized, "Membership not found")
	}
	return persistenceError(err)
}

// UpdateMemberStatus is the admin approve/suspend/reactivate/expire action.
func (s *membershipService) UpdateMemberStatus(ctx context.Context, facilityID, userID string, req UpdateMemberStatusRequest) (*models.FacilityMembership, error) {
	if err := s.validateMemberKey(facilityID, userID); err != nil {
		return nil, err
	}
	if !models.IsValidMembershipStatus(req.Status) {
		return nil, validationError("Invalid membership status %q", req.Status)
	}
	m, err := s.membershipRepo.UpdateStatus(ctx, userID, facilityID, models.MembershipStatus(req.Status))
	if err != nil {
		return nil, membershipLookupError(err)
	}
	return m, nil
}

func (s *membershipService) SetFacilityAdmin(ctx context.Context, facilityID, userID string, req SetFacilityAdminRequest) (*models.FacilityMembership, error) {
	if err := s.validateMemberKey(facilityID, userID); err != nil {
		return nil, err
	}
	if req.IsFacilityAdmin == nil {
		return nil, newError(KindValidation, MsgMissingRequiredFields)
	}
	m, err := s.membershipRepo.SetFacilityAdmin(ctx, userID, facilityID, *req.IsFacilityAdmin)
	if err != nil {
		return nil, membershipLookupError(err)
	}
	return m, nil
}

// RemoveMember hard-deletes the membership row.
func (s *membershipService) RemoveMember(ctx context.Context, facilityID, userID string) error {
	if err := s.validateMemberKey(facilityID, userID); err != nil {
		return err
	}
	if err := s.membershipRepo.DeleteMembership(ctx, userID, facilityID); err != nil {
		return membershipLookupError(err)
	}
	return nil
}

func (s *membershipService) IsFacilityAdmin(ctx context.Context, userID, facilityID string) (bool, error) {
	if s.validateMemberKey(facilityID, userID) != nil {
		return false, nil
	}
	ok, err := s.membershipRepo.IsFacilityAdmin(ctx, userID, facilityID)
	if err != nil {
		return false, persistenceError(err)
	}
	return ok, nil
}
