package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"court_booking_backend/internal/models"

	"github.com/google/uuid"
)

// AuthRepository defines the interface for user account database operations.
type AuthRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error) // PasswordHash populated
	FindUserByID(ctx context.Context, userID string) (*models.User, error)
}

// authRepository implements the AuthRepository interface.
type authRepository struct {
	db *sql.DB // The direct database connection pool
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, street_address, role, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var phone, streetAddress sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&phone, &streetAddress, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		user.Phone = &phone.String
	}
	if streetAddress.Valid {
		user.StreetAddress = &streetAddress.String
	}
	return user, nil
}

// CreateUser inserts a new user. Email is stored lower-cased; PasswordHash must
// already be hashed. A taken email surfaces as ErrDuplicateKey.
func (r *authRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RolePlayer
	}
	query := `INSERT INTO users (id, email, password_hash, full_name, phone, street_address, role)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING ` + userColumns

	created, err := scanUser(executor.QueryRowContext(ctx, query,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.FullName,
		user.Phone, user.StreetAddress, user.Role,
	))
	if err != nil {
		return nil, wrapPQError(err, "creating user")
	}
	return created, nil
}

// FindUserByEmail looks the user up case-insensitively.
func (r *authRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = LOWER($1)`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrapPQError(err, "finding user by email")
	}
	return user, nil
}

func (r *authRepository) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrapPQError(err, fmt.Sprintf("finding user by ID %s", userID))
	}
	return user, nil
}
