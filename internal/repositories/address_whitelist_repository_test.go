package repositories

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"court_booking_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var whitelistCols = []string{"id", "facility_id", "address", "accounts_limit", "created_at", "updated_at"}

func whitelistRow(address string, limit int) []driver.Value {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{"wl-1", "fac-1", address, limit, now, now}
}

func TestAddressWhitelistRepository_FindByAddress(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAddressWhitelistRepository(db)

	mock.ExpectQuery(`WHERE facility_id = \$1 AND LOWER\(address\) = LOWER\(\$2\) ORDER BY created_at ASC LIMIT 1`).
		WithArgs("fac-1", "12 oak st").
		WillReturnRows(sqlmock.NewRows(whitelistCols).AddRow(whitelistRow("12 Oak St", 2)...))

	entry, err := repo.FindByAddress(context.Background(), db, "fac-1", "12 oak st")
	require.NoError(t, err)
	assert.Equal(t, "12 Oak St", entry.Address)
	assert.Equal(t, 2, entry.AccountsLimit)
}

func TestAddressWhitelistRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAddressWhitelistRepository(db)

	mock.ExpectQuery(`INSERT INTO address_whitelist`).
		WithArgs(sqlmock.AnyArg(), "fac-1", "12 Oak St", 4).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "address_whitelist_facility_address_key"})

	_, err := repo.Create(context.Background(), &models.AddressWhitelistEntry{FacilityID: "fac-1", Address: "12 Oak St", AccountsLimit: 4})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestAddressWhitelistRepository_Update_OnlyLimit(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAddressWhitelistRepository(db)

	mock.ExpectQuery(`UPDATE address_whitelist SET updated_at = NOW\(\), accounts_limit = \$3 WHERE id = \$1 AND facility_id = \$2`).
		WithArgs("wl-1", "fac-1", 6).
		WillReturnRows(sqlmock.NewRows(whitelistCols).AddRow(whitelistRow("12 Oak St", 6)...))

	limit := 6
	entry, err := repo.Update(context.Background(), "fac-1", "wl-1", nil, &limit)
	require.NoError(t, err)
	assert.Equal(t, 6, entry.AccountsLimit)
}

func TestAddressWhitelistRepository_Delete_Missing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAddressWhitelistRepository(db)

	mock.ExpectExec(`DELETE FROM address_whitelist WHERE id = \$1 AND facility_id = \$2`).
		WithArgs("wl-9", "fac-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "fac-1", "wl-9"), ErrNotFound)
}
