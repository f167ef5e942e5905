package services

import (
	"context"
	"testing"
	"time"

	"court_booking_backend/internal/models"
	"court_booking_backend/internal/repositories"
	"court_booking_backend/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var svcUserCols = []string{"id", "email", "password_hash", "full_name", "phone", "street_address", "role", "created_at", "updated_at"}

func testTokens() *utils.TokenManager {
	return utils.NewTokenManager("test-secret", time.Hour)
}

func TestDatabaseAuthBackend_Register(t *testing.T) {
	db, mock := newSQLMock(t)
	backend := NewDatabaseAuthBackend(repositories.NewAuthRepository(db), db, testTokens())

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "ann@example.com", sqlmock.AnyArg(), "Ann Lee", nil, "123 Main St", "player").
		WillReturnRows(sqlmock.NewRows(svcUserCols).
			AddRow(testUserA, "ann@example.com", "hash", "Ann Lee", nil, "123 Main St", "player", now, now))

	address := "  123  Main St "
	resp, err := backend.Register(context.Background(), RegisterRequest{
		Email: " Ann@Example.com", Password: "s3cretpass", FullName: "Ann Lee", StreetAddress: &address,
	})
	require.NoError(t, err)
	assert.Equal(t, testUserA, resp.User.ID)
	assert.Empty(t, resp.User.PasswordHash)
	assert.EqualValues(t, 3600, resp.ExpiresIn)

	claims, err := testTokens().ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testUserA, claims.UserID)
	assert.Equal(t, models.RolePlayer, claims.Role)
}

func TestDatabaseAuthBackend_RegisterDuplicateEmail(t *testing.T) {
	db, mock := newSQLMock(t)
	backend := NewDatabaseAuthBackend(repositories.NewAuthRepository(db), db, testTokens())

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := backend.Register(context.Background(), RegisterRequest{Email: "ann@example.com", Password: "s3cretpass", FullName: "Ann"})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestDatabaseAuthBackend_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		wantKind Kind
	}{
		{"correct password", "s3cretpass", ""},
		{"wrong password", "nope-nope", KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMock(t)
			backend := NewDatabaseAuthBackend(repositories.NewAuthRepository(db), db, testTokens())

			now := time.Now()
			mock.ExpectQuery(`FROM users WHERE email = LOWER\(\$1\)`).
				WithArgs("ann@example.com").
				WillReturnRows(sqlmock.NewRows(svcUserCols).
					AddRow(testUserA, "ann@example.com", string(hash), "Ann", nil, nil, "admin", now, now))

			resp, err := backend.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: tt.password})
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Empty(t, resp.User.PasswordHash)
			assert.True(t, resp.User.IsAdmin())
		})
	}
}

func TestMockAuthBackend_RoundTrip(t *testing.T) {
	backend := NewMockAuthBackend(testTokens())
	ctx := context.Background()

	reg, err := backend.Register(ctx, RegisterRequest{Email: "dev@example.com", Password: "whatever1", FullName: "Dev"})
	require.NoError(t, err)

	login, err := backend.Login(ctx, LoginRequest{Email: "DEV@example.com", Password: "anything"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.Equal(t, "Dev", login.User.FullName)

	me, err := backend.GetMe(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", me.Email)

	_, err = backend.GetMe(ctx, testUserB)
	assert.Equal(t, KindNotFound, KindOf(err))
}
