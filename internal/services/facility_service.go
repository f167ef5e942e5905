package services

import (
	"context"
	"errors"
	"strings"

	"court_booking_backend/internal/models"
	"court_booking_backend/internal/repositories"
	"court_booking_backend/pkg/utils"
)

type CreateFacilityRequest struct {
	Name        string  `json:"name" binding:"required,notblank"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

type CreateCourtRequest struct {
	Name        string  `json:"name" binding:"required,notblank"`
	SurfaceType *string `json:"surfaceType"`
	IsIndoor    bool    `json:"isIndoor"`
	Status      *string `json:"status"`
}

// FacilityService exposes facilities and their courts.
type FacilityService interface {
	ListFacilities(ctx context.Context) ([]models.Facility, error)
	GetFacility(ctx context.Context, facilityID string) (*models.Facility, error)
	CreateFacility(ctx context.Context, req CreateFacilityRequest) (*models.Facility, error)
	ListCourts(ctx context.Context, facilityID string) ([]models.Court, error)
	CreateCourt(ctx context.Context, facilityID string, req CreateCourtRequest) (*models.Court, error)
}

type facilityService struct {
	facilityRepo repositories.FacilityRepository
}

// NewFacilityService creates a new instance of FacilityService.
func NewFacilityService(fr repositories.FacilityRepository) FacilityService {
	return &facilityService{facilityRepo: fr}
}

func (s *facilityService) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	facilities, err := s.facilityRepo.ListFacilities(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}
	return facilities, nil
}

func (s *facilityService) GetFacility(ctx context.Context, facilityID string) (*models.Facility, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	f, err := s.facilityRepo.GetFacilityByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, "Facility not found")
		}
		return nil, persistenceError(err)
	}
	return f, nil
}

func (s *facilityService) CreateFacility(ctx context.Context, req CreateFacilityRequest) (*models.Facility, error) {
	f, err := s.facilityRepo.CreateFacility(ctx, &models.Facility{
		Name:        strings.TrimSpace(req.Name),
		Address:     utils.TrimmedOrNil(req.Address),
		Description: utils.TrimmedOrNil(req.Description),
	})
	if err != nil {
		return nil, persistenceError(err)
	}
	return f, nil
}

func (s *facilityService) ListCourts(ctx context.Context, facilityID string) ([]models.Court, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	courts, err := s.facilityRepo.ListCourts(ctx, facilityID)
	if err != nil {
		return nil, persistenceError(err)
	}
	return courts, nil
}

func (s *facilityService) CreateCourt(ctx context.Context, facilityID string, req CreateCourtRequest) (*models.Court, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	court := &models.Court{
		FacilityID:  facilityID,
		Name:        strings.TrimSpace(req.Name),
		SurfaceType: utils.TrimmedOrNil(req.SurfaceType),
		IsIndoor:    req.IsIndoor,
	}
	if st := utils.TrimmedOrNil(req.Status); st != nil {
		court.Status = *st
	}
	c, err := s.facilityRepo.CreateCourt(ctx, court)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, newError(KindNotFound, "Facility not found")
		}
		return nil, persistenceError(err)
	}
	return c, nil
}
