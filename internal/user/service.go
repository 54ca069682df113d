package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jastip-express/internal/auth"
	"jastip-express/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrValidation         = errors.New("invalid user data")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type DBLayer interface {
	GetProfileByID(ctx context.Context, id string) (*models.UserProfile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, profile models.UserProfile) error
	UpdateProfile(ctx context.Context, profile models.UserProfile) error
}

type ActivityRecorder interface {
	Record(userID, userEmail, action, entityType, entityID, details string)
}

type UserService struct {
	DB        DBLayer
	Activity  ActivityRecorder
	Denylist  *auth.Denylist
	JWTSecret string
	TokenTTL  time.Duration
}

func NewUserService(db DBLayer, activity ActivityRecorder, denylist *auth.Denylist, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		DB:        db,
		Activity:  activity,
		Denylist:  denylist,
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
	}
}

// Signup registers a new account and returns an access token for it.
func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (*models.UserProfile, *models.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || email == "" {
		return nil, nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if existing, _ := s.DB.GetProfileByEmail(ctx, email); existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := models.UserProfile{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		Role:         "user",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.DB.CreateProfile(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.Activity.Record(profile.ID, profile.Email, models.ActionCreate, models.EntityUser, profile.ID,
		fmt.Sprintf("Registered account for %s.", profile.Email))

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, nil, err
	}
	return &profile, token, nil
}

// Login verifies credentials and returns a fresh access token.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.UserProfile, *models.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	profile, err := s.DB.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(*profile)
	if err != nil {
		return nil, nil, err
	}
	return profile, token, nil
}

// Logout revokes the presented token until it expires on its own.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return fmt.Errorf("%w: no token presented", ErrValidation)
	}
	return s.Denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.DB.GetProfileByID(ctx, userID)
}

// UpdateProfile edits the caller's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.ProfileRequest) (*models.UserProfile, error) {
	profile, err := s.DB.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s not found: %w", userID, err)
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != profile.Email {
			if existing, _ := s.DB.GetProfileByEmail(ctx, email); existing != nil {
				return nil, ErrEmailTaken
			}
			profile.Email = email
		}
	}
	profile.Phone = req.Phone
	profile.Address = req.Address

	if err := s.DB.UpdateProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.Activity.Record(userID, profile.Email, models.ActionUpdate, models.EntityUser, userID,
		"Updated profile.")

	return profile, nil
}

func (s *UserService) issueToken(profile models.UserProfile) (*models.TokenResponse, error) {
	token, err := auth.IssueToken(s.JWTSecret, profile.ID, profile.Email, s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.TokenTTL.Seconds()),
		TokenType:   "Bearer",
	}, nil
}
