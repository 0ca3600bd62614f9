package services

import (
	"context"
	"errors"
	"log"
	"time"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/config"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/jwt"
	"coderr-backend/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles registration, login and session tokens
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.AuthTokenRepository
	cfg       *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.AuthTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username         string `json:"username" validate:"required,max=150"`
	Email            string `json:"email" validate:"required,email,max=255"`
	Password         string `json:"password" validate:"required"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
	Type             string `json:"type" validate:"required,oneof=business customer"`
}

// LoginInput represents login input; Username may also be an email
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by registration and login
type AuthResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	UserID   uint        `json:"user_id"`
	Type     domain.Role `json:"type,omitempty"`
}

// Register creates an account and returns its session token
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Password != input.RepeatedPassword {
		return nil, domain.NewValidationError("password", "Passwords do not match.")
	}

	role, err := domain.ParseRole(input.Type)
	if err != nil {
		return nil, domain.NewValidationError("type", err.Error())
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewValidationError("email", "Email already exists.")
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		Type:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewValidationError("email", "Email already exists.")
		}
		return nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s (%s)", user.Username, user.Type)

	return &AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
		Type:     user.Type,
	}, nil
}

// Login authenticates by username or email. Usernames are not unique, so
// every matching account is tried.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	candidates, err := s.userRepo.FindByLogin(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	var user *models.User
	for _, c := range candidates {
		if password.Verify(input.Password, c.Password) {
			user = c
			break
		}
	}
	if user == nil {
		return nil, domain.NewValidationError("non_field_errors", "Invalid username or password.")
	}

	if password.NeedsRehash(user.Password) {
		s.rehash(ctx, user, input.Password)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}

// rehash upgrades a stored hash to the current work factor. Failure only
// costs the upgrade, never the login.
func (s *AuthService) rehash(ctx context.Context, user *models.User, plain string) {
	hashed, err := password.Hash(plain)
	if err == nil {
		err = s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"password": hashed})
	}
	if err != nil {
		log.Printf("⚠️ Failed to rehash password for user %d: %v", user.ID, err)
		return
	}
	user.Password = hashed
}

// Logout ends the caller's session; the next login issues a new token
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	log.Printf("✅ User logged out: %d", userID)
	return nil
}

// Authenticate resolves a session token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := jwt.ValidateSessionToken(token, s.cfg.JWT.Secret, s.cfg.JWT.Issuer)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	session, err := s.tokenRepo.GetByTokenID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	if session.UserID != claims.UserID || claims.IssuedAt == nil ||
		session.CreatedAt.Unix() != claims.IssuedAt.Unix() {
		return nil, domain.ErrTokenInvalid
	}

	return &session.User, nil
}

// issueToken returns the user's current session token, creating the
// session on first use
func (s *AuthService) issueToken(ctx context.Context, user *models.User) (string, error) {
	session, err := s.tokenRepo.GetByUserID(ctx, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = &models.AuthToken{
			UserID:    user.ID,
			TokenID:   uuid.NewString(),
			CreatedAt: time.Now().Truncate(time.Second),
		}
		err = s.tokenRepo.Create(ctx, session)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// concurrent login created it first
			session, err = s.tokenRepo.GetByUserID(ctx, user.ID)
		}
	}
	if err != nil {
		return "", err
	}

	return jwt.GenerateSessionToken(session.UserID, session.TokenID, session.CreatedAt, s.cfg.JWT.Secret, s.cfg.JWT.Issuer)
}
