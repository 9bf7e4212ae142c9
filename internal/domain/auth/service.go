package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stationops/internal/core/apperror"
	appctx "stationops/internal/core/context"
	"stationops/internal/core/entity"
	"stationops/internal/core/id"
	"stationops/internal/domain/audit"
)

// User is an account that can sign in: an admin with a password, or a
// cashier with a PIN. Both secrets are stored as bcrypt hashes.
type User struct {
	entity.BaseEntity

	Username     string `db:"username" json:"username"`
	DisplayName  string `db:"display_name" json:"displayName"`
	Role         string `db:"role" json:"role"`
	BranchID     *id.ID `db:"branch_id" json:"branchId,omitempty"`
	PasswordHash string `db:"password_hash" json:"-"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

// NewUser creates a user with a freshly hashed secret.
func NewUser(username, displayName, role, secret string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   entity.NewBaseEntity(),
		Username:     username,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil
}

// Repository is the storage port for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// LoginResult carries a freshly issued token and its subject.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Actor     *appctx.Actor `json:"actor"`
}

// Service verifies credentials and issues tokens.
type Service struct {
	users Repository
	jwt   *JWTService
	audit audit.Recorder
}

// NewService creates the auth service.
func NewService(users Repository, jwtService *JWTService, recorder audit.Recorder) *Service {
	return &Service{
		users: users,
		jwt:   jwtService,
		audit: recorder,
	}
}

// Login verifies the username/secret pair and issues an access token.
// Unknown users and wrong secrets get the same response.
func (s *Service) Login(ctx context.Context, username, secret string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	actor := &appctx.Actor{
		ID:          user.ID.String(),
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}
	if user.BranchID != nil {
		actor.BranchID = user.BranchID.String()
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(actor)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:      audit.ActionLogin,
		EntityType:  "user",
		EntityID:    user.ID,
		Description: user.Username + " signed in",
		BranchID:    user.BranchID,
	})

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Actor:     actor,
	}, nil
}

// Register creates a new account. Admin-only at the handler level.
func (s *Service) Register(ctx context.Context, username, displayName, role, secret string) (*User, error) {
	if username == "" || secret == "" {
		return nil, apperror.NewValidation("username and secret are required")
	}
	if role != appctx.RoleAdmin && role != appctx.RoleCashier {
		return nil, apperror.NewValidation("unknown role").
			WithDetail("field", "role").
			WithDetail("value", role)
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("username already taken").
			WithDetail("username", username)
	}

	user, err := NewUser(username, displayName, role, secret)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:      audit.ActionCreate,
		EntityType:  "user",
		EntityID:    user.ID,
		Description: "registered " + user.Role + " " + user.Username,
	})
	return user, nil
}
