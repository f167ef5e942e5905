package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"court_booking_backend/internal/models"
	"court_booking_backend/internal/repositories"
	"court_booking_backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest DTO
type RegisterRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	FullName      string  `json:"fullName" binding:"required,notblank"`
	Phone         *string `json:"phone"`
	StreetAddress *string `json:"streetAddress"`
}

// AuthResponse DTO
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"` // seconds
}

// AuthBackend is the account capability chosen at startup: the database-backed
// implementation, or a mock that needs no database for local development.
type AuthBackend interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetMe(ctx context.Context, userID string) (*models.User, error)
}

// normalizeRegister tidies a request already checked by its binding tags.
func normalizeRegister(req *RegisterRequest) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = utils.TrimmedOrNil(req.Phone)
	if req.StreetAddress != nil {
		req.StreetAddress = utils.NewNullString(utils.CollapseSpaces(*req.StreetAddress))
	}
}

func normalizeLogin(req *LoginRequest) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
}

func issueToken(tokens *utils.TokenManager, user *models.User) (*AuthResponse, error) {
	token, err := tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, persistenceError(fmt.Errorf("generating access token: %w", err))
	}
	return &AuthResponse{User: user, AccessToken: token, ExpiresIn: int64(tokens.TTL() / time.Second)}, nil
}

// --- databaseAuthBackend Implementation ---
type databaseAuthBackend struct {
	authRepo repositories.AuthRepository
	db       *sql.DB
	tokens   *utils.TokenManager
}

// NewDatabaseAuthBackend stores accounts in the users table with bcrypt hashes.
func NewDatabaseAuthBackend(authRepo repositories.AuthRepository, db *sql.DB, tokens *utils.TokenManager) AuthBackend {
	return &databaseAuthBackend{authRepo: authRepo, db: db, tokens: tokens}
}

// Register creates a player account and logs it in.
func (s *databaseAuthBackend) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	normalizeRegister(&req)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, persistenceError(fmt.Errorf("hashing password: %w", err))
	}

	user, err := s.authRepo.CreateUser(ctx, s.db, &models.User{
		Email:         req.Email,
		PasswordHash:  string(hash),
		FullName:      req.FullName,
		Phone:         req.Phone,
		StreetAddress: req.StreetAddress,
		Role:          models.RolePlayer,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, newError(KindConflict, "Email is already registered")
		}
		return nil, persistenceError(err)
	}
	user.PasswordHash = ""
	return issueToken(s.tokens, user)
}

// Login checks the password; unknown email and wrong password look the same.
func (s *databaseAuthBackend) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	normalizeLogin(&req)
	user, err := s.authRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindUnauthorized, MsgInvalidCredentials)
		}
		return nil, persistenceError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, newError(KindUnauthorized, MsgInvalidCredentials)
	}
	user.PasswordHash = ""
	return issueToken(s.tokens, user)
}

func (s *databaseAuthBackend) GetMe(ctx context.Context, userID string) (*models.User, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	user, err := s.authRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, "User not found")
		}
		return nil, persistenceError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// --- mockAuthBackend Implementation ---

// mockAuthBackend accepts any well-formed credentials and hands out synthetic
// users kept in memory. Ids are derived from the email, so logging in again yields the same id.
type mockAuthBackend struct {
	tokens *utils.TokenManager
	now    func() time.Time

	mu    sync.RWMutex
	users map[string]*models.User // by id
}

// NewMockAuthBackend returns a backend that never touches the database.
func NewMockAuthBackend(tokens *utils.TokenManager) AuthBackend {
	return &mockAuthBackend{tokens: tokens, now: time.Now, users: make(map[string]*models.User)}
}

var mockUserNamespace = uuid.MustParse("5b0c6f1e-2d4a-4c8b-9e7f-3a1b2c4d5e6f")

func (s *mockAuthBackend) upsert(email, fullName string, phone, address *string) *models.User {
	id := uuid.NewSHA1(mockUserNamespace, []byte(email)).String()

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		if fullName != "" {
			u.FullName = fullName
		}
		cp := *u
		return &cp
	}
	if fullName == "" {
		fullName = "Demo Player"
	}
	now := s.now()
	u := &models.User{
		ID: id, Email: email, FullName: fullName, Phone: phone, StreetAddress: address,
		Role: models.RolePlayer, CreatedAt: now, UpdatedAt: now,
	}
	s.users[id] = u
	cp := *u
	return &cp
}

func (s *mockAuthBackend) Register(_ context.Context, req RegisterRequest) (*AuthResponse, error) {
	normalizeRegister(&req)
	return issueToken(s.tokens, s.upsert(req.Email, req.FullName, req.Phone, req.StreetAddress))
}

func (s *mockAuthBackend) Login(_ context.Context, req LoginRequest) (*AuthResponse, error) {
	normalizeLogin(&req)
	return issueToken(s.tokens, s.upsert(req.Email, "", nil, nil))
}

func (s *mockAuthBackend) GetMe(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, newError(KindNotFound, "User not found")
	}
	cp := *u
	return &cp, nil
}
