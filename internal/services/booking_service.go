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

	"github.com/google/uuid"
)

const bookingDateLayout = "2006-01-02"

// --- Booking DTOs ---
type CreateBookingRequest struct {
	CourtID         string  `json:"courtId" binding:"required"`
	UserID          string  `json:"userId" binding:"required"`
	FacilityID      string  `json:"facilityId" binding:"required"`
	BookingDate     string  `json:"bookingDate" binding:"required"`
	StartTime       string  `json:"startTime" binding:"required"`
	EndTime         string  `json:"endTime" binding:"required"`
	DurationMinutes *int    `json:"durationMinutes" binding:"required,gt=0"`
	BookingType     *string `json:"bookingType"`
	Notes           *string `json:"notes"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- BookingService Interface ---
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, req UpdateBookingStatusRequest) (*models.Booking, error)
	ListFacilityBookings(ctx context.Context, facilityID, date string) ([]models.Booking, error)
	ListCourtBookings(ctx context.Context, courtID, date string) ([]models.Booking, error)
	ListUserBookings(ctx context.Context, userID string, upcoming *bool) ([]models.Booking, error)
}

// --- bookingService Implementation ---
type bookingService struct {
	bookingRepo repositories.BookingRepository
	db          *sql.DB
	now         func() time.Time
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(br repositories.BookingRepository, db *sql.DB) BookingService {
	return &bookingService{bookingRepo: br, db: db, now: time.Now}
}

func (s *bookingService) today() string {
	return s.now().Format(bookingDateLayout)
}

func validateID(field, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return validationError("Invalid %s", field)
	}
	return nil
}

func validateDate(value string) error {
	if _, err := time.Parse(bookingDateLayout, value); err != nil {
		return validationError("Invalid date %q, expected YYYY-MM-DD", value)
	}
	return nil
}

// validateCreate checks what binding tags cannot express (id, date and time-range
// formats) without touching the database, and returns the normalised time range.
func validateCreate(req *CreateBookingRequest) (admission.Interval, error) {
	req.CourtID = strings.TrimSpace(req.CourtID)
	req.UserID = strings.TrimSpace(req.UserID)
	req.FacilityID = strings.TrimSpace(req.FacilityID)
	req.BookingDate = strings.TrimSpace(req.BookingDate)

	for field, value := range map[string]string{"courtId": req.CourtID, "userId": req.UserID, "facilityId": req.FacilityID} {
		if err := validateID(field, value); err != nil {
			return admission.Interval{}, err
		}
	}
	if err := validateDate(req.BookingDate); err != nil {
		return admission.Interval{}, err
	}
	interval, err := admission.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return admission.Interval{}, validationError("Invalid time range: %v", err)
	}
	if req.DurationMinutes == nil || *req.DurationMinutes <= 0 {
		return admission.Interval{}, validationError("durationMinutes must be positive")
	}
	return interval, nil
}

// occupiedSlots converts stored bookings for FindConflict, skipping exclude.
func occupiedSlots(bookings []models.Booking, exclude string) ([]admission.Occupied, error) {
	slots := make([]admission.Occupied, 0, len(bookings))
	for _, b := range bookings {
		if b.ID == exclude {
			continue
		}
		interval, err := admission.NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		slots = append(slots, admission.Occupied{
			BookingID: b.ID,
			Interval:  interval,
			Cancelled: b.Status == models.BookingStatusCancelled,
		})
	}
	return slots, nil
}

// CreateBooking admits a booking if no non-cancelled booking on the same court and
// date overlaps it. The court row lock serialises concurrent writers; the exclusion
// constraint catches anything that still slips through.
func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	interval, err := validateCreate(&req)
	if err != nil {
		metrics.RecordBookingAdmission(metrics.BookingInvalid)
		return nil, err
	}

	if *req.DurationMinutes != interval.Minutes() {
		utils.LogWarn("Booking duration disagrees with its time range; storing as supplied", map[string]interface{}{
			"court_id":         req.CourtID,
			"duration_minutes": *req.DurationMinutes,
			"range_minutes":    interval.Minutes(),
		})
	}

	bookingType := models.DefaultBookingType
	if t := utils.TrimmedOrNil(req.BookingType); t != nil {
		bookingType = *t
	}

	booking := &models.Booking{
		CourtID:         req.CourtID,
		UserID:          req.UserID,
		FacilityID:      req.FacilityID,
		BookingDate:     req.BookingDate,
		StartTime:       interval.Start.String(),
		EndTime:         interval.End.String(),
		DurationMinutes: *req.DurationMinutes,
		Status:          models.BookingStatusConfirmed,
		BookingType:     bookingType,
		Notes:           utils.TrimmedOrNil(req.Notes),
	}

	var created *models.Booking
	err = repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		courtFacility, err := s.bookingRepo.LockCourt(ctx, tx, booking.CourtID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return validationError("Court not found")
			}
			return err
		}
		if courtFacility != booking.FacilityID {
			return validationError("Court does not belong to facility")
		}

		existing, err := s.bookingRepo.ListActiveForCourtDate(ctx, tx, booking.CourtID, booking.BookingDate)
		if err != nil {
			return err
		}
		slots, err := occupiedSlots(existing, "")
		if err != nil {
			return err
		}
		if hit, found := admission.FindConflict(interval, slots); found {
			utils.LogDebug("Booking rejected, slot taken", map[string]interface{}{
				"court_id": booking.CourtID, "date": booking.BookingDate,
				"requested": interval.String(), "conflicts_with": hit.BookingID,
			})
			metrics.RecordBookingAdmission(metrics.BookingConflict)
			return newError(KindSlotUnavailable, MsgSlotUnavailable)
		}

		created, err = s.bookingRepo.CreateBooking(ctx, tx, booking)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrExclusionViolation):
			metrics.RecordBookingAdmission(metrics.BookingRaceLost)
			return nil, newError(KindSlotUnavailable, MsgSlotUnavailable)
		case errors.Is(err, repositories.ErrForeignKey):
			metrics.RecordBookingAdmission(metrics.BookingInvalid)
			return nil, validationError("Unknown user, court or facility")
		}
		switch KindOf(err) {
		case KindSlotUnavailable:
		case KindValidation:
			metrics.RecordBookingAdmission(metrics.BookingInvalid)
		default:
			metrics.RecordBookingAdmission(metrics.BookingFailed)
		}
		return nil, asServiceError(err)
	}

	metrics.RecordBookingAdmission(metrics.BookingAccepted)
	utils.LogInfo("Booking confirmed", map[string]interface{}{
		"booking_id": created.ID, "court_id": created.CourtID, "date": created.BookingDate,
		"start": created.StartTime, "end": created.EndTime,
	})
	return created, nil
}

// CancelBooking soft-cancels a booking owned by userID. Cancelling twice succeeds.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	userID = strings.TrimSpace(userID)
	if bookingID == "" || userID == "" {
		return nil, newError(KindValidation, MsgMissingRequiredFields)
	}
	// Malformed ids cannot own anything; answer the same way as a foreign booking.
	if _, err := uuid.Parse(bookingID); err != nil {
		return nil, newError(KindNotFoundOrUnauthorized, MsgBookingNotFoundOrAuth)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, newError(KindNotFoundOrUnauthorized, MsgBookingNotFoundOrAuth)
	}

	cancelled, err := s.bookingRepo.CancelBooking(ctx, s.db, bookingID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.RecordBookingAdmission(metrics.BookingNotCancelled)
			return nil, newError(KindNotFoundOrUnauthorized, MsgBookingNotFoundOrAuth)
		}
		return nil, persistenceError(err)
	}
	metrics.RecordBookingAdmission(metrics.BookingCancelled)
	return cancelled, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	if err := validateID("bookingId", bookingID); err != nil {
		return nil, err
	}
	b, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, "Booking not found")
		}
		return nil, persistenceError(err)
	}
	return b, nil
}

// UpdateBookingStatus is the administrative status change. Moving a cancelled
// booking back to confirmed or pending re-runs the conflict check.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID string, req UpdateBookingStatusRequest) (*models.Booking, error) {
	if err := validateID("bookingId", bookingID); err != nil {
		return nil, err
	}
	if !models.IsValidBookingStatus(req.Status) {
		return nil, validationError("Invalid booking status %q", req.Status)
	}
	target := models.BookingStatus(req.Status)

	current, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.Status == target {
		return current, nil
	}
	if current.Status == models.BookingStatusCompleted {
		return nil, validationError("Completed bookings cannot change status")
	}

	var updated *models.Booking
	err = repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		reactivating := current.Status == models.BookingStatusCancelled &&
			(target == models.BookingStatusConfirmed || target == models.BookingStatusPending)
		if reactivating {
			if _, err := s.bookingRepo.LockCourt(ctx, tx, current.CourtID); err != nil {
				return err
			}
			existing, err := s.bookingRepo.ListActiveForCourtDate(ctx, tx, current.CourtID, current.BookingDate)
			if err != nil {
				return err
			}
			slots, err := occupiedSlots(existing, current.ID)
			if err != nil {
				return err
			}
			interval, err := admission.NewInterval(current.StartTime, current.EndTime)
			if err != nil {
				return err
			}
			if _, found := admission.FindConflict(interval, slots); found {
				return newError(KindSlotUnavailable, MsgSlotUnavailable)
			}
		}
		updated, err = s.bookingRepo.UpdateBookingStatus(ctx, tx, current.ID, target)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrExclusionViolation):
			return nil, newError(KindSlotUnavailable, MsgSlotUnavailable)
		case errors.Is(err, repositories.ErrNotFound):
			return nil, newError(KindNotFound, "Booking not found")
		}
		return nil, asServiceError(err)
	}
	return updated, nil
}

func (s *bookingService) ListFacilityBookings(ctx context.Context, facilityID, date string) ([]models.Booking, error) {
	if err := validateID("facilityId", facilityID); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.ListByFacilityDate(ctx, facilityID, date)
	if err != nil {
		return nil, persistenceError(err)
	}
	return bookings, nil
}

func (s *bookingService) ListCourtBookings(ctx context.Context, courtID, date string) ([]models.Booking, error) {
	if err := validateID("courtId", courtID); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.ListByCourtDate(ctx, courtID, date)
	if err != nil {
		return nil, persistenceError(err)
	}
	return bookings, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string, upcoming *bool) ([]models.Booking, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.ListByUser(ctx, models.UserBookingsFilter{UserID: userID, Upcoming: upcoming}, s.today())
	if err != nil {
		return nil, persistenceError(err)
	}
	return bookings, nil
}
