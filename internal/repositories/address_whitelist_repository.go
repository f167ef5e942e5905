package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"court_booking_backend/internal/models"

	"github.com/google/uuid"
)

// AddressWhitelistRepository defines database operations on a facility's address whitelist.
type AddressWhitelistRepository interface {
	FindByAddress(ctx context.Context, executor SQLExecutor, facilityID, address string) (*models.AddressWhitelistEntry, error)
	ListByFacility(ctx context.Context, facilityID string) ([]models.AddressWhitelistEntry, error)
	Create(ctx context.Context, entry *models.AddressWhitelistEntry) (*models.AddressWhitelistEntry, error)
	Update(ctx context.Context, facilityID, id string, address *string, accountsLimit *int) (*models.AddressWhitelistEntry, error)
	Delete(ctx context.Context, facilityID, id string) error
}

type addressWhitelistRepository struct {
	db *sql.DB
}

// NewAddressWhitelistRepository creates a new instance of AddressWhitelistRepository.
func NewAddressWhitelistRepository(db *sql.DB) AddressWhitelistRepository {
	return &addressWhitelistRepository{db: db}
}

const whitelistColumns = `id, facility_id, address, accounts_limit, created_at, updated_at`

func scanWhitelistEntry(row scanner) (*models.AddressWhitelistEntry, error) {
	var e models.AddressWhitelistEntry
	if err := row.Scan(&e.ID, &e.FacilityID, &e.Address, &e.AccountsLimit, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByAddress matches the address case-insensitively. If several entries differ
// only by case the oldest wins.
func (r *addressWhitelistRepository) FindByAddress(ctx context.Context, executor SQLExecutor, facilityID, address string) (*models.AddressWhitelistEntry, error) {
	query := `SELECT ` + whitelistColumns + `
	          FROM address_whitelist
	          WHERE facility_id = $1 AND LOWER(address) = LOWER($2)
	          ORDER BY created_at ASC
	          LIMIT 1`
	e, err := scanWhitelistEntry(executor.QueryRowContext(ctx, query, facilityID, address))
	if err != nil {
		return nil, wrapPQError(err, "finding whitelist entry")
	}
	return e, nil
}

func (r *addressWhitelistRepository) ListByFacility(ctx context.Context, facilityID string) ([]models.AddressWhitelistEntry, error) {
	query := `SELECT ` + whitelistColumns + ` FROM address_whitelist WHERE facility_id = $1 ORDER BY address ASC`
	rows, err := r.db.QueryContext(ctx, query, facilityID)
	if err != nil {
		return nil, wrapPQError(err, "querying whitelist")
	}
	defer rows.Close()

	entries := []models.AddressWhitelistEntry{}
	for rows.Next() {
		e, err := scanWhitelistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning whitelist entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating whitelist rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

func (r *addressWhitelistRepository) Create(ctx context.Context, entry *models.AddressWhitelistEntry) (*models.AddressWhitelistEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	query := `INSERT INTO address_whitelist (id, facility_id, address, accounts_limit)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + whitelistColumns
	e, err := scanWhitelistEntry(r.db.QueryRowContext(ctx, query, entry.ID, entry.FacilityID, entry.Address, entry.AccountsLimit))
	if err != nil {
		return nil, wrapPQError(err, "creating whitelist entry")
	}
	return e, nil
}

// Update changes the non-nil fields of an entry scoped to its facility.
func (r *addressWhitelistRepository) Update(ctx context.Context, facilityID, id string, address *string, accountsLimit *int) (*models.AddressWhitelistEntry, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{id, facilityID}
	if address != nil {
		args = append(args, *address)
		setClauses = append(setClauses, fmt.Sprintf("address = $%d", len(args)))
	}
	if accountsLimit != nil {
		args = append(args, *accountsLimit)
		setClauses = append(setClauses, fmt.Sprintf("accounts_limit = $%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE address_whitelist SET %s
	          WHERE id = $1 AND facility_id = $2
	          RETURNING %s`, strings.Join(setClauses, ", "), whitelistColumns)
	e, err := scanWhitelistEntry(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapPQError(err, fmt.Sprintf("updating whitelist entry %s", id))
	}
	return e, nil
}

func (r *addressWhitelistRepository) Delete(ctx context.Context, facilityID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM address_whitelist WHERE id = $1 AND facility_id = $2`, id, facilityID)
	if err != nil {
		return wrapPQError(err, fmt.Sprintf("deleting whitelist entry %s", id))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking deleted whitelist entry: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
