package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"court_booking_backend/internal/models"

	"github.com/google/uuid"
)

// FacilityRepository defines database operations on facilities and their courts.
type FacilityRepository interface {
	ListFacilities(ctx context.Context) ([]models.Facility, error)
	GetFacilityByID(ctx context.Context, id string) (*models.Facility, error)
	CreateFacility(ctx context.Context, facility *models.Facility) (*models.Facility, error)
	ListCourts(ctx context.Context, facilityID string) ([]models.Court, error)
	CreateCourt(ctx context.Context, court *models.Court) (*models.Court, error)
}

type facilityRepository struct {
	db *sql.DB
}

// NewFacilityRepository creates a new instance of FacilityRepository.
func NewFacilityRepository(db *sql.DB) FacilityRepository {
	return &facilityRepository{db: db}
}

const (
	facilityColumns = `id, name, address, description, created_at`
	courtColumns    = `id, facility_id, name, surface_type, is_indoor, status, created_at`
)

func scanFacility(row scanner) (*models.Facility, error) {
	var f models.Facility
	var address, description sql.NullString
	if err := row.Scan(&f.ID, &f.Name, &address, &description, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Address = nullableString(address)
	f.Description = nullableString(description)
	return &f, nil
}

func scanCourt(row scanner) (*models.Court, error) {
	var c models.Court
	var surface sql.NullString
	if err := row.Scan(&c.ID, &c.FacilityID, &c.Name, &surface, &c.IsIndoor, &c.Status, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.SurfaceType = nullableString(surface)
	return &c, nil
}

func (r *facilityRepository) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+facilityColumns+` FROM facilities ORDER BY name ASC`)
	if err != nil {
		return nil, wrapPQError(err, "querying facilities")
	}
	defer rows.Close()

	facilities := []models.Facility{}
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning facility: %v", ErrDatabaseError, err)
		}
		facilities = append(facilities, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating facility rows: %v", ErrDatabaseError, err)
	}
	return facilities, nil
}

func (r *facilityRepository) GetFacilityByID(ctx context.Context, id string) (*models.Facility, error) {
	f, err := scanFacility(r.db.QueryRowContext(ctx, `SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, id))
	if err != nil {
		return nil, wrapPQError(err, fmt.Sprintf("getting facility %s", id))
	}
	return f, nil
}

func (r *facilityRepository) CreateFacility(ctx context.Context, facility *models.Facility) (*models.Facility, error) {
	if facility.ID == "" {
		facility.ID = uuid.NewString()
	}
	query := `INSERT INTO facilities (id, name, address, description) VALUES ($1, $2, $3, $4) RETURNING ` + facilityColumns
	f, err := scanFacility(r.db.QueryRowContext(ctx, query, facility.ID, facility.Name, facility.Address, facility.Description))
	if err != nil {
		return nil, wrapPQError(err, "creating facility")
	}
	return f, nil
}

func (r *facilityRepository) ListCourts(ctx context.Context, facilityID string) ([]models.Court, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE facility_id = $1 ORDER BY name ASC`, facilityID)
	if err != nil {
		return nil, wrapPQError(err, "querying courts")
	}
	defer rows.Close()

	courts := []models.Court{}
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning court: %v", ErrDatabaseError, err)
		}
		courts = append(courts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating court rows: %v", ErrDatabaseError, err)
	}
	return courts, nil
}

// CreateCourt inserts a court; an unknown facility surfaces as ErrForeignKey.
func (r *facilityRepository) CreateCourt(ctx context.Context, court *models.Court) (*models.Court, error) {
	if court.ID == "" {
		court.ID = uuid.NewString()
	}
	if court.Status == "" {
		court.Status = "available"
	}
	query := `INSERT INTO courts (id, facility_id, name, surface_type, is_indoor, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING ` + courtColumns
	c, err := scanCourt(r.db.QueryRowContext(ctx, query,
		court.ID, court.FacilityID, court.Name, court.SurfaceType, court.IsIndoor, court.Status,
	))
	if err != nil {
		return nil, wrapPQError(err, "creating court")
	}
	return c, nil
}
