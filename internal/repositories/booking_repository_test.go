package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"court_booking_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var bookingCols = []string{
	"id", "court_id", "user_id", "facility_id", "booking_date", "start_time", "end_time",
	"duration_minutes", "status", "booking_type", "notes", "created_at", "updated_at",
}

func bookingRow(id, status, start, end string) []driver.Value {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []driver.Value{id, "court-1", "user-1", "fac-1", "2025-03-10", start, end, 60, status, "regular", nil, now, now}
}

func TestBookingRepository_LockCourt(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT facility_id FROM courts WHERE id = $1 FOR UPDATE`)).
		WithArgs("court-1").
		WillReturnRows(sqlmock.NewRows([]string{"facility_id"}).AddRow("fac-1"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM courts WHERE id = $1 FOR UPDATE`)).
		WithArgs("court-x").
		WillReturnError(sql.ErrNoRows)

	facilityID, err := repo.LockCourt(context.Background(), db, "court-1")
	require.NoError(t, err)
	assert.Equal(t, "fac-1", facilityID)

	_, err = repo.LockCourt(context.Background(), db, "court-x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingRepository_ListActiveForCourtDate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`WHERE b.court_id = \$1 AND b.booking_date = \$2 AND b.status <> 'cancelled' ORDER BY b.start_time ASC`).
		WithArgs("court-1", "2025-03-10").
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(bookingRow("b1", "confirmed", "09:00", "10:00")...).
			AddRow(bookingRow("b2", "pending", "11:00", "12:00")...))

	bookings, err := repo.ListActiveForCourtDate(context.Background(), db, "court-1", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "b1", bookings[0].ID)
	assert.Equal(t, models.BookingStatusPending, bookings[1].Status)
	assert.Nil(t, bookings[0].Notes)
}

func TestBookingRepository_CreateBooking(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	b := &models.Booking{
		CourtID: "court-1", UserID: "user-1", FacilityID: "fac-1", BookingDate: "2025-03-10",
		StartTime: "09:00", EndTime: "10:00", DurationMinutes: 60,
		Status: models.BookingStatusConfirmed, BookingType: models.DefaultBookingType,
	}

	mock.ExpectQuery(`INSERT INTO bookings AS b`).
		WithArgs(sqlmock.AnyArg(), "court-1", "user-1", "fac-1", "2025-03-10", "09:00", "10:00", 60, "confirmed", "regular", nil).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(bookingRow("b1", "confirmed", "09:00", "10:00")...))

	created, err := repo.CreateBooking(context.Background(), db, b)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID, "id is generated when missing")
	assert.Equal(t, models.BookingStatusConfirmed, created.Status)
}

func TestBookingRepository_CreateBooking_ExclusionViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`INSERT INTO bookings AS b`).
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value", Constraint: "bookings_no_overlap"})

	_, err := repo.CreateBooking(context.Background(), db, &models.Booking{ID: "b1"})
	assert.ErrorIs(t, err, ErrExclusionViolation)
}

func TestBookingRepository_CancelBooking(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`UPDATE bookings AS b SET status = 'cancelled'.*WHERE b.id = \$1 AND b.user_id = \$2 AND b.status IN \('confirmed', 'pending', 'cancelled'\)`).
		WithArgs("b1", "user-1").
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(bookingRow("b1", "cancelled", "09:00", "10:00")...))
	mock.ExpectQuery(`UPDATE bookings AS b SET status = 'cancelled'`).
		WithArgs("b1", "someone-else").
		WillReturnError(sql.ErrNoRows)

	cancelled, err := repo.CancelBooking(context.Background(), db, "b1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	_, err = repo.CancelBooking(context.Background(), db, "b1", "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingRepository_ListByUser(t *testing.T) {
	cols := append(append([]string{}, bookingCols...), "court_name", "user_name")
	row := append(bookingRow("b1", "confirmed", "09:00", "10:00"), "Court 1", "Ann")

	tests := []struct {
		name     string
		upcoming *bool
		query    string
		args     []driver.Value
	}{
		{"all", nil, `WHERE b.user_id = \$1 AND b.status <> 'cancelled' ORDER BY b.booking_date DESC, b.start_time ASC`, []driver.Value{"user-1"}},
		{"upcoming", boolPtr(true), `AND b.booking_date >= \$2 ORDER BY b.booking_date ASC`, []driver.Value{"user-1", "2025-03-05"}},
		{"past", boolPtr(false), `AND b.booking_date < \$2 ORDER BY b.booking_date DESC`, []driver.Value{"user-1", "2025-03-05"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewBookingRepository(db)

			mock.ExpectQuery(tt.query).WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(cols).AddRow(row...))

			bookings, err := repo.ListByUser(context.Background(), models.UserBookingsFilter{UserID: "user-1", Upcoming: tt.upcoming}, "2025-03-05")
			require.NoError(t, err)
			require.Len(t, bookings, 1)
			require.NotNil(t, bookings[0].CourtName)
			assert.Equal(t, "Court 1", *bookings[0].CourtName)
		})
	}
}

func TestBookingRepository_GetBookingByID_DatabaseError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`WHERE b.id = \$1`).WithArgs("b1").WillReturnError(sql.ErrConnDone)

	_, err := repo.GetBookingByID(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrDatabaseError)
}

func boolPtr(b bool) *bool { return &b }
