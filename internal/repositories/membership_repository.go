package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"court_booking_backend/internal/models"
)

// MembershipRepository defines database operations on facility memberships.
type MembershipRepository interface {
	LockAddress(ctx context.Context, executor SQLExecutor, facilityID, address string) error
	GetUserStreetAddress(ctx context.Context, executor SQLExecutor, userID string) (string, error)
	CountAccountsAtAddress(ctx context.Context, executor SQLExecutor, facilityID, address string) (int, error)
	UpsertMembership(ctx context.Context, executor SQLExecutor, m *models.FacilityMembership) (*models.FacilityMembership, error)
	GetMembership(ctx context.Context, userID, facilityID string) (*models.FacilityMembership, error)
	ListByFacility(ctx context.Context, facilityID string, status *models.MembershipStatus) ([]models.FacilityMembership, error)
	ListByUser(ctx context.Context, userID string) ([]models.FacilityMembership, error)
	UpdateStatus(ctx context.Context, userID, facilityID string, status models.MembershipStatus) (*models.FacilityMembership, error)
	SetFacilityAdmin(ctx context.Context, userID, facilityID string, isAdmin bool) (*models.FacilityMembership, error)
	DeleteMembership(ctx context.Context, userID, facilityID string) error
	IsFacilityAdmin(ctx context.Context, userID, facilityID string) (bool, error)
}

type membershipRepository struct {
	db *sql.DB
}

// NewMembershipRepository creates a new instance of MembershipRepository.
func NewMembershipRepository(db *sql.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

const membershipColumns = `fm.user_id, fm.facility_id, fm.membership_type, fm.status, fm.is_facility_admin,
	to_char(fm.start_date, 'YYYY-MM-DD'), to_char(fm.end_date, 'YYYY-MM-DD'), fm.created_at`

func scanMembership(row scanner, extra ...interface{}) (*models.FacilityMembership, error) {
	var m models.FacilityMembership
	var status string
	var endDate sql.NullString
	dest := append([]interface{}{
		&m.UserID, &m.FacilityID, &m.MembershipType, &status, &m.IsFacilityAdmin,
		&m.StartDate, &endDate, &m.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	m.Status = models.MembershipStatus(status)
	if endDate.Valid {
		m.EndDate = &endDate.String
	}
	return &m, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// LockAddress takes a transaction-scoped advisory lock on (facility, lower(address))
// so concurrent joins for one household are counted one at a time.
func (r *membershipRepository) LockAddress(ctx context.Context, executor SQLExecutor, facilityID, address string) error {
	_, err := executor.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext(LOWER($2)))`, facilityID, address)
	if err != nil {
		return wrapPQError(err, "acquiring address lock")
	}
	return nil
}

// GetUserStreetAddress returns the user's street address, "" when unset.
func (r *membershipRepository) GetUserStreetAddress(ctx context.Context, executor SQLExecutor, userID string) (string, error) {
	var address string
	err := executor.QueryRowContext(ctx, `SELECT COALESCE(street_address, '') FROM users WHERE id = $1`, userID).Scan(&address)
	if err != nil {
		return "", wrapPQError(err, fmt.Sprintf("getting street address of user %s", userID))
	}
	return address, nil
}

// CountAccountsAtAddress counts distinct users with an active or pending membership
// at the facility whose street address matches case-insensitively.
func (r *membershipRepository) CountAccountsAtAddress(ctx context.Context, executor SQLExecutor, facilityID, address string) (int, error) {
	query := `SELECT COUNT(DISTINCT fm.user_id)
	          FROM facility_memberships fm
	          JOIN users u ON u.id = fm.user_id
	          WHERE fm.facility_id = $1
	            AND fm.status IN ('active', 'pending')
	            AND LOWER(u.street_address) = LOWER($2)`
	var count int
	if err := executor.QueryRowContext(ctx, query, facilityID, address).Scan(&count); err != nil {
		return 0, wrapPQError(err, "counting accounts at address")
	}
	return count, nil
}

// UpsertMembership inserts the membership or overwrites type, status and start date
// of the existing (user, facility) row.
func (r *membershipRepository) UpsertMembership(ctx context.Context, executor SQLExecutor, m *models.FacilityMembership) (*models.FacilityMembership, error) {
	query := `INSERT INTO facility_memberships AS fm (user_id, facility_id, membership_type, status, start_date)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, facility_id) DO UPDATE
	            SET membership_type = EXCLUDED.membership_type,
	                status = EXCLUDED.status,
	                start_date = EXCLUDED.start_date
	          RETURNING ` + membershipColumns
	saved, err := scanMembership(executor.QueryRowContext(ctx, query,
		m.UserID, m.FacilityID, m.MembershipType, string(m.Status), m.StartDate,
	))
	if err != nil {
		return nil, wrapPQError(err, "upserting membership")
	}
	return saved, nil
}

func (r *membershipRepository) GetMembership(ctx context.Context, userID, facilityID string) (*models.FacilityMembership, error) {
	query := `SELECT ` + membershipColumns + ` FROM facility_memberships fm WHERE fm.user_id = $1 AND fm.facility_id = $2`
	m, err := scanMembership(r.db.QueryRowContext(ctx, query, userID, facilityID))
	if err != nil {
		return nil, wrapPQError(err, "getting membership")
	}
	return m, nil
}

// ListByFacility lists members with their name, email and address; status filters when set.
func (r *membershipRepository) ListByFacility(ctx context.Context, facilityID string, status *models.MembershipStatus) ([]models.FacilityMembership, error) {
	query := `SELECT ` + membershipColumns + `, u.full_name, u.email, u.street_address
	          FROM facility_memberships fm
	          JOIN users u ON u.id = fm.user_id
	          WHERE fm.facility_id = $1`
	args := []interface{}{facilityID}
	if status != nil {
		query += ` AND fm.status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY fm.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPQError(err, "querying facility members")
	}
	defer rows.Close()

	members := []models.FacilityMembership{}
	for rows.Next() {
		var name, email, address sql.NullString
		m, err := scanMembership(rows, &name, &email, &address)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning member: %v", ErrDatabaseError, err)
		}
		m.UserName = nullableString(name)
		m.UserEmail = nullableString(email)
		m.StreetAddress = nullableString(address)
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating member rows: %v", ErrDatabaseError, err)
	}
	return members, nil
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID string) ([]models.FacilityMembership, error) {
	query := `SELECT ` + membershipColumns + `, f.name
	          FROM facility_memberships fm
	          JOIN facilities f ON f.id = fm.facility_id
	          WHERE fm.user_id = $1
	          ORDER BY f.name ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapPQError(err, "querying user memberships")
	}
	defer rows.Close()

	memberships := []models.FacilityMembership{}
	for rows.Next() {
		var facilityName sql.NullString
		m, err := scanMembership(rows, &facilityName)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning membership: %v", ErrDatabaseError, err)
		}
		m.FacilityName = nullableString(facilityName)
		memberships = append(memberships, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating membership rows: %v", ErrDatabaseError, err)
	}
	return memberships, nil
}

func (r *membershipRepository) UpdateStatus(ctx context.Context, userID, facilityID string, status models.MembershipStatus) (*models.FacilityMembership, error) {
	query := `UPDATE facility_memberships AS fm SET status = $3
	          WHERE fm.user_id = $1 AND fm.facility_id = $2
	          RETURNING ` + membershipColumns
	m, err := scanMembership(r.db.QueryRowContext(ctx, query, userID, facilityID, string(status)))
	if err != nil {
		return nil, wrapPQError(err, "updating membership status")
	}
	return m, nil
}

func (r *membershipRepository) SetFacilityAdmin(ctx context.Context, userID, facilityID string, isAdmin bool) (*models.FacilityMembership, error) {
	query := `UPDATE facility_memberships AS fm SET is_facility_admin = $3
	          WHERE fm.user_id = $1 AND fm.facility_id = $2
	          RETURNING ` + membershipColumns
	m, err := scanMembership(r.db.QueryRowContext(ctx, query, userID, facilityID, isAdmin))
	if err != nil {
		return nil, wrapPQError(err, "updating facility admin flag")
	}
	return m, nil
}

func (r *membershipRepository) DeleteMembership(ctx context.Context, userID, facilityID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM facility_memberships WHERE user_id = $1 AND facility_id = $2`, userID, facilityID)
	if err != nil {
		return wrapPQError(err, "deleting membership")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking deleted membership: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsFacilityAdmin reports whether the user administers the facility; only active
// memberships count.
func (r *membershipRepository) IsFacilityAdmin(ctx context.Context, userID, facilityID string) (bool, error) {
	var isAdmin bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM facility_memberships
	            WHERE user_id = $1 AND facility_id = $2 AND is_facility_admin AND status = 'active')`
	if err := r.db.QueryRowContext(ctx, query, userID, facilityID).Scan(&isAdmin); err != nil {
		return false, wrapPQError(err, "checking facility admin")
	}
	return isAdmin, nil
}
