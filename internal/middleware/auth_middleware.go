package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
	"github.com/pathpiper/backend/internal/pkg/auth"
	"github.com/pathpiper/backend/internal/pkg/sessioncache"
)

// Session cookie names. The two legacy names are still read so sessions
// issued by the previous auth stack keep resolving until they expire.
const (
	AccessTokenCookie  = "pp_access_token"
	RefreshTokenCookie = "pp_refresh_token"
	UserIDCookie       = "pp_user_id"

	legacyAccessCookie   = "sb-access-token"
	fallbackAccessCookie = "access_token"
)

// Context keys set by the authentication middleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// gateProfileStore is the profile read surface the verification gate needs
type gateProfileStore interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetStudentProfile(ctx context.Context, profileID string) (*models.StudentProfile, error)
}

// AuthMiddleware resolves the caller's identity on each request
type AuthMiddleware struct {
	jwtService   *auth.JWTService
	sessionCache sessioncache.Cache
	profileRepo  gateProfileStore
	logger       zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(
	jwtService *auth.JWTService,
	sessionCache sessioncache.Cache,
	profileRepo gateProfileStore,
	logger zerolog.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		sessionCache: sessionCache,
		profileRepo:  profileRepo,
		logger:       logger,
	}
}

// ResolveToken extracts the session token from the request, in priority
// order: Authorization header, current session cookie, legacy cookies.
func ResolveToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	for _, name := range []string{AccessTokenCookie, legacyAccessCookie, fallbackAccessCookie} {
		if token, err := c.Cookie(name); err == nil && token != "" {
			return token
		}
	}
	return ""
}

// Authentication resolves the caller's identity, consulting the session
// cache before falling back to JWT validation. Validated identities are
// written back to the cache so repeat requests within the TTL skip
// signature checks.
func (m *AuthMiddleware) Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ResolveToken(c)
		if token == "" {
			c.JSON(401, dto.APIResponse{
				Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
			})
			c.Abort()
			return
		}

		if identity, err := m.sessionCache.Get(c.Request.Context(), token); err == nil {
			m.setIdentity(c, identity.UserID, identity.Email, identity.Role)
			c.Next()
			return
		} else if !errors.Is(err, sessioncache.ErrNotFound) {
			// Cache backend trouble degrades to direct validation
			m.logger.Warn().Err(err).Msg("Session cache lookup failed")
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(token)
		if err != nil {
			code, message := dto.ErrorCodeInvalidToken, "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code, message = dto.ErrorCodeExpiredToken, "Token expired"
			}
			c.JSON(401, dto.APIResponse{
				Error: dto.NewErrorDetail(code, message),
			})
			c.Abort()
			return
		}

		if err := m.sessionCache.Set(c.Request.Context(), token, sessioncache.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to cache resolved session")
		}

		m.setIdentity(c, claims.UserID, claims.Email, claims.Role)
		c.Next()
	}
}

// RoleRequired allows only callers holding one of the given roles
func (m *AuthMiddleware) RoleRequired(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(ContextRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Insufficient role"),
		})
		c.Abort()
	}
}

// VerificationGate blocks student accounts under the minor age threshold
// until both parent approval and email verification are complete. The 403
// body names which of the two are still missing so clients can route the
// user to the right step.
func (m *AuthMiddleware) VerificationGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		role := domain.Role(c.GetString(ContextRole))
		if role != domain.RoleStudent {
			c.Next()
			return
		}

		profile, err := m.profileRepo.GetProfileByID(c.Request.Context(), userID)
		if err != nil {
			HandleAPIError(c, apperrors.ErrProfileNotFound)
			c.Abort()
			return
		}

		age := -1
		if student, err := m.profileRepo.GetStudentProfile(c.Request.Context(), userID); err == nil {
			age = domain.AgeAt(student.BirthMonth, student.BirthYear, time.Now())
		}

		gate := domain.EvaluateVerificationGate(role, age, profile.ParentVerified, profile.EmailVerified)
		if !gate.Allowed {
			HandleAPIError(c, apperrors.NewVerificationRequiredError(
				gate.NeedsParentApproval, gate.NeedsEmailVerification))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) setIdentity(c *gin.Context, userID, email, role string) {
	c.Set(ContextUserID, userID)
	c.Set(ContextEmail, email)
	c.Set(ContextRole, role)
}
