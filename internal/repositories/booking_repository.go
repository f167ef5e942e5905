package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"court_booking_backend/internal/models"

	"github.com/google/uuid"
)

// BookingRepository defines the interface for booking-related database operations.
type BookingRepository interface {
	LockCourt(ctx context.Context, executor SQLExecutor, courtID string) (facilityID string, err error)
	ListActiveForCourtDate(ctx context.Context, executor SQLExecutor, courtID, bookingDate string) ([]models.Booking, error)
	CreateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	CancelBooking(ctx context.Context, executor SQLExecutor, bookingID, userID string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, executor SQLExecutor, bookingID string, status models.BookingStatus) (*models.Booking, error)
	ListByFacilityDate(ctx context.Context, facilityID, bookingDate string) ([]models.Booking, error)
	ListByCourtDate(ctx context.Context, courtID, bookingDate string) ([]models.Booking, error)
	ListByUser(ctx context.Context, filter models.UserBookingsFilter, today string) ([]models.Booking, error)
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `b.id, b.court_id, b.user_id, b.facility_id,
	to_char(b.booking_date, 'YYYY-MM-DD'), to_char(b.start_time, 'HH24:MI'), to_char(b.end_time, 'HH24:MI'),
	b.duration_minutes, b.status, b.booking_type, b.notes, b.created_at, b.updated_at`

const bookingListSelect = `SELECT ` + bookingColumns + `, c.name, u.full_name
	FROM bookings b
	LEFT JOIN courts c ON c.id = b.court_id
	LEFT JOIN users u ON u.id = b.user_id`

// scanBookingRow scans bookingColumns, plus court and user names when joined.
func scanBookingRow(row scanner, joined bool) (*models.Booking, error) {
	var b models.Booking
	var notes, courtName, userName sql.NullString
	var status string

	dest := []interface{}{
		&b.ID, &b.CourtID, &b.UserID, &b.FacilityID,
		&b.BookingDate, &b.StartTime, &b.EndTime,
		&b.DurationMinutes, &status, &b.BookingType, &notes, &b.CreatedAt, &b.UpdatedAt,
	}
	if joined {
		dest = append(dest, &courtName, &userName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	b.Status = models.BookingStatus(status)
	if notes.Valid {
		b.Notes = &notes.String
	}
	if courtName.Valid {
		b.CourtName = &courtName.String
	}
	if userName.Valid {
		b.UserName = &userName.String
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows, joined bool) ([]models.Booking, error) {
	defer rows.Close()
	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBookingRow(rows, joined)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning booking: %v", ErrDatabaseError, err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating booking rows: %v", ErrDatabaseError, err)
	}
	return bookings, nil
}

// LockCourt takes a row lock on the court for the rest of the transaction and
// returns the facility owning it. Concurrent bookings of the same court queue here.
func (r *bookingRepository) LockCourt(ctx context.Context, executor SQLExecutor, courtID string) (string, error) {
	var facilityID string
	err := executor.QueryRowContext(ctx, `SELECT facility_id FROM courts WHERE id = $1 FOR UPDATE`, courtID).Scan(&facilityID)
	if err != nil {
		return "", wrapPQError(err, fmt.Sprintf("locking court %s", courtID))
	}
	return facilityID, nil
}

// ListActiveForCourtDate returns the non-cancelled bookings of a court on a date.
func (r *bookingRepository) ListActiveForCourtDate(ctx context.Context, executor SQLExecutor, courtID, bookingDate string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
	          FROM bookings b
	          WHERE b.court_id = $1 AND b.booking_date = $2 AND b.status <> 'cancelled'
	          ORDER BY b.start_time ASC`
	rows, err := executor.QueryContext(ctx, query, courtID, bookingDate)
	if err != nil {
		return nil, wrapPQError(err, "querying court bookings")
	}
	return collectBookings(rows, false)
}

func (r *bookingRepository) CreateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	query := `INSERT INTO bookings AS b
	            (id, court_id, user_id, facility_id, booking_date, start_time, end_time,
	             duration_minutes, status, booking_type, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING ` + bookingColumns

	created, err := scanBookingRow(executor.QueryRowContext(ctx, query,
		booking.ID, booking.CourtID, booking.UserID, booking.FacilityID, booking.BookingDate,
		booking.StartTime, booking.EndTime, booking.DurationMinutes, string(booking.Status),
		booking.BookingType, booking.Notes,
	), false)
	if err != nil {
		return nil, wrapPQError(err, "creating booking")
	}
	return created, nil
}

func (r *bookingRepository) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	b, err := scanBookingRow(r.db.QueryRowContext(ctx, bookingListSelect+` WHERE b.id = $1`, id), true)
	if err != nil {
		return nil, wrapPQError(err, fmt.Sprintf("getting booking %s", id))
	}
	return b, nil
}

// CancelBooking soft-cancels a booking owned by userID. Already-cancelled rows match
// again so a repeated cancel succeeds; completed bookings are left alone.
func (r *bookingRepository) CancelBooking(ctx context.Context, executor SQLExecutor, bookingID, userID string) (*models.Booking, error) {
	query := `UPDATE bookings AS b SET status = 'cancelled', updated_at = NOW()
	          WHERE b.id = $1 AND b.user_id = $2 AND b.status IN ('confirmed', 'pending', 'cancelled')
	          RETURNING ` + bookingColumns
	b, err := scanBookingRow(executor.QueryRowContext(ctx, query, bookingID, userID), false)
	if err != nil {
		return nil, wrapPQError(err, fmt.Sprintf("cancelling booking %s", bookingID))
	}
	return b, nil
}

func (r *bookingRepository) UpdateBookingStatus(ctx context.Context, executor SQLExecutor, bookingID string, status models.BookingStatus) (*models.Booking, error) {
	query := `UPDATE bookings AS b SET status = $2, updated_at = NOW()
	          WHERE b.id = $1
	          RETURNING ` + bookingColumns
	b, err := scanBookingRow(executor.QueryRowContext(ctx, query, bookingID, string(status)), false)
	if err != nil {
		return nil, wrapPQError(err, fmt.Sprintf("updating status of booking %s", bookingID))
	}
	return b, nil
}

func (r *bookingRepository) ListByFacilityDate(ctx context.Context, facilityID, bookingDate string) ([]models.Booking, error) {
	query := bookingListSelect + `
	          WHERE b.facility_id = $1 AND b.booking_date = $2 AND b.status <> 'cancelled'
	          ORDER BY b.start_time ASC, c.name ASC`
	rows, err := r.db.QueryContext(ctx, query, facilityID, bookingDate)
	if err != nil {
		return nil, wrapPQError(err, "querying facility bookings")
	}
	return collectBookings(rows, true)
}

func (r *bookingRepository) ListByCourtDate(ctx context.Context, courtID, bookingDate string) ([]models.Booking, error) {
	query := bookingListSelect + `
	          WHERE b.court_id = $1 AND b.booking_date = $2 AND b.status <> 'cancelled'
	          ORDER BY b.start_time ASC`
	rows, err := r.db.QueryContext(ctx, query, courtID, bookingDate)
	if err != nil {
		return nil, wrapPQError(err, "querying court bookings")
	}
	return collectBookings(rows, true)
}

// ListByUser partitions on booking_date relative to today (YYYY-MM-DD).
func (r *bookingRepository) ListByUser(ctx context.Context, filter models.UserBookingsFilter, today string) ([]models.Booking, error) {
	query := bookingListSelect + ` WHERE b.user_id = $1 AND b.status <> 'cancelled'`
	args := []interface{}{filter.UserID}

	switch {
	case filter.Upcoming == nil:
		query += ` ORDER BY b.booking_date DESC, b.start_time ASC`
	case *filter.Upcoming:
		query += ` AND b.booking_date >= $2 ORDER BY b.booking_date ASC, b.start_time ASC`
		args = append(args, today)
	default:
		query += ` AND b.booking_date < $2 ORDER BY b.booking_date DESC, b.start_time DESC`
		args = append(args, today)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPQError(err, "querying user bookings")
	}
	return collectBookings(rows, true)
}
