package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/repositories"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
	"github.com/pathpiper/backend/internal/pkg/auth"
	"github.com/pathpiper/backend/internal/pkg/dberrors"
	"github.com/pathpiper/backend/internal/pkg/sessioncache"
)

// AuthProfileStore is the profile persistence surface used by AuthService
type AuthProfileStore interface {
	CreateProfile(ctx context.Context, profile *models.Profile, student *models.StudentProfile) error
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
}

// TokenStore is the refresh token persistence surface used by AuthService
type TokenStore interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenValue string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenValue string) error
	RevokeAllForProfile(ctx context.Context, profileID string) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, profileID, accessToken string) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	profileRepo  AuthProfileStore
	tokenRepo    TokenStore
	jwtService   *auth.JWTService
	sessionCache sessioncache.Cache
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	profileRepo AuthProfileStore,
	tokenRepo TokenStore,
	jwtService *auth.JWTService,
	sessionCache sessioncache.Cache,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		profileRepo:  profileRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		sessionCache: sessionCache,
		logger:       logger,
	}
}

// Register creates a new profile. Student registrations also create the
// student extension row carrying the birth data used for age banding.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	role := domain.Role(req.Role)
	if !domain.ValidRole(role) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown role: %s", req.Role))
	}

	if _, err := s.profileRepo.GetProfileByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	profile := &models.Profile{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Password:  hashed,
		Role:      role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	var student *models.StudentProfile
	if role == domain.RoleStudent {
		student = &models.StudentProfile{
			ProfileID:  profile.ID,
			BirthMonth: req.BirthMonth,
			BirthYear:  req.BirthYear,
		}
	}

	if err := s.profileRepo.CreateProfile(ctx, profile, student); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	s.logger.Info().
		Str("profileID", profile.ID).
		Str("role", string(role)).
		Msg("Profile registered")

	return &dto.RegisterResponse{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   string(profile.Role),
	}, nil
}

// Login verifies credentials and issues a token pair. The access token is
// primed into the session cache so the first authenticated request skips
// signature validation.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	profile, err := s.profileRepo.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading profile for login: %w", err)
	}

	if !auth.CheckPassword(profile.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, profile)
}

// RefreshToken rotates a refresh token: the presented token is revoked and
// a fresh pair is issued. Revoked and expired tokens are rejected.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error loading refresh token: %w", err)
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	profile, err := s.profileRepo.GetProfileByID(ctx, stored.ProfileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading profile for refresh: %w", err)
	}

	if err := s.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}

	return s.issueTokens(ctx, profile)
}

// Logout revokes every live refresh token of the profile and evicts the
// access token from the session cache so it stops resolving immediately.
func (s *authServiceImpl) Logout(ctx context.Context, profileID, accessToken string) error {
	if err := s.tokenRepo.RevokeAllForProfile(ctx, profileID); err != nil {
		return fmt.Errorf("error revoking tokens on logout: %w", err)
	}

	if accessToken != "" {
		if err := s.sessionCache.Delete(ctx, accessToken); err != nil {
			// Cache eviction failure is not fatal; the entry expires by TTL
			s.logger.Warn().Err(err).Msg("Failed to evict session cache entry on logout")
		}
	}

	s.logger.Info().Str("profileID", profileID).Msg("Profile logged out")
	return nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, profile *models.Profile) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(
		profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		return nil, fmt.Errorf("error generating token pair: %w", err)
	}

	if err := s.tokenRepo.CreateRefreshToken(ctx, &models.RefreshToken{
		ProfileID: profile.ID,
		Token:     refreshToken,
		ExpiresAt: s.jwtService.GetRefreshTokenExpiry(),
	}); err != nil {
		return nil, fmt.Errorf("error persisting refresh token: %w", err)
	}

	if err := s.sessionCache.Set(ctx, accessToken, sessioncache.Identity{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   string(profile.Role),
	}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to prime session cache")
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		UserID:           profile.ID,
		Role:             string(profile.Role),
	}, nil
}
