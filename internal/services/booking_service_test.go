package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"court_booking_backend/internal/models"
	"court_booking_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCourtID    = "7d1c3b9e-0a57-4d5e-9a3b-6f1b2f0c1a01"
	testFacilityID = "2b8f4a6e-5c1d-4e2f-8a9b-0c1d2e3f4a02"
	testUserA      = "9a0b1c2d-3e4f-4a5b-8c6d-7e8f9a0b1c03"
	testUserB      = "4f3e2d1c-0b9a-4877-9665-544332211004"
	testBookingID  = "c0ffee00-1234-4abc-8def-001122334405"
	testDate       = "2025-06-14"
)

var svcBookingCols = []string{
	"id", "court_id", "user_id", "facility_id", "booking_date", "start_time", "end_time",
	"duration_minutes", "status", "booking_type", "notes", "created_at", "updated_at",
}

func svcBookingRow(id, status, start, end string) []driver.Value {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return []driver.Value{id, testCourtID, testUserA, testFacilityID, testDate, start, end, 60, status, "regular", nil, now, now}
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func newTestBookingService(db *sql.DB) *bookingService {
	svc := NewBookingService(repositories.NewBookingRepository(db), db).(*bookingService)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func createRequest(start, end string, duration int) CreateBookingRequest {
	return CreateBookingRequest{
		CourtID: testCourtID, UserID: testUserA, FacilityID: testFacilityID,
		BookingDate: testDate, StartTime: start, EndTime: end, DurationMinutes: &duration,
	}
}

// expectAdmissionRead sets up the lock and the read of existing bookings.
func expectAdmissionRead(mock sqlmock.Sqlmock, existing ...[]driver.Value) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT facility_id FROM courts WHERE id = \$1 FOR UPDATE`).
		WithArgs(testCourtID).
		WillReturnRows(sqlmock.NewRows([]string{"facility_id"}).AddRow(testFacilityID))
	rows := sqlmock.NewRows(svcBookingCols)
	for _, r := range existing {
		rows.AddRow(r...)
	}
	mock.ExpectQuery(`WHERE b.court_id = \$1 AND b.booking_date = \$2 AND b.status <> 'cancelled'`).
		WithArgs(testCourtID, testDate).
		WillReturnRows(rows)
}

func TestCreateBooking_AdjacentSlotIsAccepted(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	expectAdmissionRead(mock, svcBookingRow("b-existing", "confirmed", "09:00", "10:00"))
	mock.ExpectQuery(`INSERT INTO bookings AS b`).
		WithArgs(sqlmock.AnyArg(), testCourtID, testUserA, testFacilityID, testDate, "10:00", "11:00", 60, "confirmed", "regular", nil).
		WillReturnRows(sqlmock.NewRows(svcBookingCols).AddRow(svcBookingRow(testBookingID, "confirmed", "10:00", "11:00")...))
	mock.ExpectCommit()

	booking, err := svc.CreateBooking(context.Background(), createRequest("10:00", "11:00", 60))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, "10:00", booking.StartTime)
}

func TestCreateBooking_OverlapIsRejected(t *testing.T) {
	tests := []struct {
		name                 string
		existStart, existEnd string
		start, end           string
	}{
		{"partial overlap", "09:00", "10:00", "09:30", "10:30"},
		{"candidate inside existing", "09:00", "11:00", "09:15", "09:45"},
		{"candidate contains existing", "09:30", "09:45", "09:00", "10:00"},
		{"identical", "09:00", "10:00", "09:00", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMock(t)
			svc := newTestBookingService(db)

			expectAdmissionRead(mock, svcBookingRow("b-existing", "confirmed", tt.existStart, tt.existEnd))
			mock.ExpectRollback()

			req := createRequest(tt.start, tt.end, 60)
			_, err := svc.CreateBooking(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, KindSlotUnavailable, KindOf(err))
			assert.Contains(t, err.Error(), MsgSlotUnavailable)
		})
	}
}

func TestCreateBooking_CancelledBookingNeverBlocks(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	expectAdmissionRead(mock, svcBookingRow("b-cancelled", "cancelled", "09:00", "10:00"))
	mock.ExpectQuery(`INSERT INTO bookings AS b`).
		WillReturnRows(sqlmock.NewRows(svcBookingCols).AddRow(svcBookingRow(testBookingID, "confirmed", "09:00", "10:00")...))
	mock.ExpectCommit()

	_, err := svc.CreateBooking(context.Background(), createRequest("09:00", "10:00", 60))
	require.NoError(t, err)
}

func TestCreateBooking_ConcurrentWriterHitsExclusionConstraint(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	expectAdmissionRead(mock)
	mock.ExpectQuery(`INSERT INTO bookings AS b`).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), createRequest("09:00", "10:00", 60))
	assert.Equal(t, KindSlotUnavailable, KindOf(err))
}

func TestCreateBooking_DurationStoredAsSupplied(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	expectAdmissionRead(mock)
	mock.ExpectQuery(`INSERT INTO bookings AS b`).
		WithArgs(sqlmock.AnyArg(), testCourtID, testUserA, testFacilityID, testDate, "09:00", "10:00", 90, "confirmed", "regular", nil).
		WillReturnRows(sqlmock.NewRows(svcBookingCols).AddRow(svcBookingRow(testBookingID, "confirmed", "09:00", "10:00")...))
	mock.ExpectCommit()

	_, err := svc.CreateBooking(context.Background(), createRequest("09:00", "10:00", 90))
	require.NoError(t, err)
}

func TestCreateBooking_CourtFromAnotherFacility(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM courts WHERE id = \$1 FOR UPDATE`).
		WithArgs(testCourtID).
		WillReturnRows(sqlmock.NewRows([]string{"facility_id"}).AddRow(testUserB))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), createRequest("09:00", "10:00", 60))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateBooking_ValidationHappensBeforeDatabase(t *testing.T) {
	sixty := 60
	zero := 0
	tests := []struct {
		name    string
		mutate  func(*CreateBookingRequest)
		message string
	}{
		{"empty court", func(r *CreateBookingRequest) { r.CourtID = "" }, "Invalid courtId"},
		{"missing duration", func(r *CreateBookingRequest) { r.DurationMinutes = nil }, "durationMinutes must be positive"},
		{"signed start time", func(r *CreateBookingRequest) { r.StartTime = "+9:00" }, "Invalid time range"},
		{"bad uuid", func(r *CreateBookingRequest) { r.UserID = "42" }, "Invalid userId"},
		{"bad date", func(r *CreateBookingRequest) { r.BookingDate = "14/06/2025" }, "Invalid date"},
		{"end before start", func(r *CreateBookingRequest) { r.StartTime, r.EndTime = "11:00", "10:00" }, "Invalid time range"},
		{"zero duration", func(r *CreateBookingRequest) { r.DurationMinutes = &zero }, "durationMinutes must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newSQLMock(t)
			svc := newTestBookingService(db)

			req := createRequest("09:00", "10:00", sixty)
			tt.mutate(&req)
			_, err := svc.CreateBooking(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCancelBooking_OwnershipEnforced(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	mock.ExpectQuery(`UPDATE bookings AS b SET status = 'cancelled'`).
		WithArgs(testBookingID, testUserB).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.CancelBooking(context.Background(), testBookingID, testUserB)
	require.Error(t, err)
	assert.Equal(t, KindNotFoundOrUnauthorized, KindOf(err))
	assert.Contains(t, err.Error(), MsgBookingNotFoundOrAuth)
}

func TestCancelBooking_RepeatCancelSucceeds(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`UPDATE bookings AS b SET status = 'cancelled'`).
			WithArgs(testBookingID, testUserA).
			WillReturnRows(sqlmock.NewRows(svcBookingCols).AddRow(svcBookingRow(testBookingID, "cancelled", "09:00", "10:00")...))
	}

	for i := 0; i < 2; i++ {
		b, err := svc.CancelBooking(context.Background(), testBookingID, testUserA)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, b.Status)
	}
}

func TestCancelBooking_MissingUser(t *testing.T) {
	db, _ := newSQLMock(t)
	svc := newTestBookingService(db)

	_, err := svc.CancelBooking(context.Background(), testBookingID, "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestUpdateBookingStatus_ReconfirmConflicts(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	joinedCols := append(append([]string{}, svcBookingCols...), "court_name", "user_name")
	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs(testBookingID).
		WillReturnRows(sqlmock.NewRows(joinedCols).AddRow(append(svcBookingRow(testBookingID, "cancelled", "09:00", "10:00"), "Court 1", "Ann")...))
	expectAdmissionRead(mock, svcBookingRow("b-other", "confirmed", "09:30", "10:30"))
	mock.ExpectRollback()

	_, err := svc.UpdateBookingStatus(context.Background(), testBookingID, UpdateBookingStatusRequest{Status: "confirmed"})
	assert.Equal(t, KindSlotUnavailable, KindOf(err))
}

func TestUpdateBookingStatus_Complete(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	joinedCols := append(append([]string{}, svcBookingCols...), "court_name", "user_name")
	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs(testBookingID).
		WillReturnRows(sqlmock.NewRows(joinedCols).AddRow(append(svcBookingRow(testBookingID, "confirmed", "09:00", "10:00"), nil, nil)...))
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE bookings AS b SET status = \$2`).
		WithArgs(testBookingID, "completed").
		WillReturnRows(sqlmock.NewRows(svcBookingCols).AddRow(svcBookingRow(testBookingID, "completed", "09:00", "10:00")...))
	mock.ExpectCommit()

	b, err := svc.UpdateBookingStatus(context.Background(), testBookingID, UpdateBookingStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)
}

func TestListUserBookings_UsesToday(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := newTestBookingService(db)

	joinedCols := append(append([]string{}, svcBookingCols...), "court_name", "user_name")
	mock.ExpectQuery(`AND b.booking_date >= \$2`).
		WithArgs(testUserA, "2025-06-10").
		WillReturnRows(sqlmock.NewRows(joinedCols))

	upcoming := true
	bookings, err := svc.ListUserBookings(context.Background(), testUserA, &upcoming)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}
