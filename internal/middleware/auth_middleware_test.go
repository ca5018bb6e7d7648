package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
	"github.com/pathpiper/backend/internal/pkg/auth"
	"github.com/pathpiper/backend/internal/pkg/sessioncache"
)

type fakeCache struct {
	entries map[string]sessioncache.Identity
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]sessioncache.Identity{}}
}

func (f *fakeCache) Get(_ context.Context, token string) (*sessioncache.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	identity, ok := f.entries[token]
	if !ok {
		return nil, sessioncache.ErrNotFound
	}
	return &identity, nil
}

func (f *fakeCache) Set(_ context.Context, token string, identity sessioncache.Identity) error {
	f.entries[token] = identity
	f.sets++
	return nil
}

func (f *fakeCache) Delete(_ context.Context, token string) error {
	delete(f.entries, token)
	return nil
}

func (f *fakeCache) Close() error { return nil }

type fakeGateStore struct {
	profile *models.Profile
	student *models.StudentProfile
}

func (f *fakeGateStore) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	if f.profile == nil || f.profile.ID != id {
		return nil, apperrors.ErrProfileNotFound
	}
	return f.profile, nil
}

func (f *fakeGateStore) GetStudentProfile(_ context.Context, profileID string) (*models.StudentProfile, error) {
	if f.student == nil || f.student.ProfileID != profileID {
		return nil, apperrors.ErrProfileNotFound
	}
	return f.student, nil
}

func newTestMiddleware(t *testing.T, cache sessioncache.Cache, store gateProfileStore) (*AuthMiddleware, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "pathpiper-test",
	})
	return NewAuthMiddleware(jwtService, cache, store, zerolog.Nop()), jwtService
}

func performAuthed(m *AuthMiddleware, prepare func(*http.Request)) (*httptest.ResponseRecorder, map[string]any) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var captured map[string]any
	router.GET("/probe", m.Authentication(), func(c *gin.Context) {
		captured = map[string]any{
			"userID": c.GetString(ContextUserID),
			"email":  c.GetString(ContextEmail),
			"role":   c.GetString(ContextRole),
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	prepare(req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, captured
}

func TestAuthenticationNoToken(t *testing.T) {
	m, _ := newTestMiddleware(t, newFakeCache(), &fakeGateStore{})
	w, _ := performAuthed(m, func(*http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_007")
}

func TestAuthenticationBearerHeader(t *testing.T) {
	cache := newFakeCache()
	m, jwtService := newTestMiddleware(t, cache, &fakeGateStore{})

	token, _, _, _, err := jwtService.GenerateTokenPair("u-1", "maya@pathpiper.dev", "student")
	require.NoError(t, err)

	w, captured := performAuthed(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", captured["userID"])
	assert.Equal(t, "maya@pathpiper.dev", captured["email"])
	assert.Equal(t, "student", captured["role"])
	assert.Equal(t, 1, cache.sets, "validated identity should be written back to the cache")
}

func TestAuthenticationCookieFallbacks(t *testing.T) {
	m, jwtService := newTestMiddleware(t, newFakeCache(), &fakeGateStore{})
	token, _, _, _, err := jwtService.GenerateTokenPair("u-1", "maya@pathpiper.dev", "student")
	require.NoError(t, err)

	for _, cookieName := range []string{AccessTokenCookie, legacyAccessCookie, fallbackAccessCookie} {
		t.Run(cookieName, func(t *testing.T) {
			w, captured := performAuthed(m, func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
			})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "u-1", captured["userID"])
		})
	}
}

func TestAuthenticationHeaderWinsOverCookie(t *testing.T) {
	m, jwtService := newTestMiddleware(t, newFakeCache(), &fakeGateStore{})
	headerToken, _, _, _, err := jwtService.GenerateTokenPair("u-header", "header@pathpiper.dev", "student")
	require.NoError(t, err)
	cookieToken, _, _, _, err := jwtService.GenerateTokenPair("u-cookie", "cookie@pathpiper.dev", "student")
	require.NoError(t, err)

	w, captured := performAuthed(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+headerToken)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookieToken})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-header", captured["userID"])
}

func TestAuthenticationCacheHitSkipsValidation(t *testing.T) {
	cache := newFakeCache()
	// Token is not a valid JWT at all; only the cache can resolve it
	cache.entries["opaque-token"] = sessioncache.Identity{UserID: "u-9", Email: "cached@pathpiper.dev", Role: "mentor"}
	m, _ := newTestMiddleware(t, cache, &fakeGateStore{})

	w, captured := performAuthed(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer opaque-token")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-9", captured["userID"])
	assert.Equal(t, "mentor", captured["role"])
}

func TestAuthenticationCacheErrorDegradesToJWT(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = assert.AnError
	m, jwtService := newTestMiddleware(t, cache, &fakeGateStore{})

	token, _, _, _, err := jwtService.GenerateTokenPair("u-1", "maya@pathpiper.dev", "student")
	require.NoError(t, err)

	w, captured := performAuthed(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", captured["userID"])
}

func TestAuthenticationExpiredToken(t *testing.T) {
	expiredIssuer := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  -time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "pathpiper-test",
	})
	token, _, _, _, err := expiredIssuer.GenerateTokenPair("u-1", "maya@pathpiper.dev", "student")
	require.NoError(t, err)

	m, _ := newTestMiddleware(t, newFakeCache(), &fakeGateStore{})
	w, _ := performAuthed(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_005")
}

func TestRoleRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, _ := newTestMiddleware(t, newFakeCache(), &fakeGateStore{})

	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set(ContextRole, "student")
	}, m.RoleRequired(domain.RoleInstitution), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/campus", func(c *gin.Context) {
		c.Set(ContextRole, "institution")
	}, m.RoleRequired(domain.RoleInstitution), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/campus", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerificationGate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	minorBirthYear := time.Now().Year() - 12

	run := func(t *testing.T, store *fakeGateStore, role string) *httptest.ResponseRecorder {
		t.Helper()
		m, _ := newTestMiddleware(t, newFakeCache(), store)
		router := gin.New()
		router.POST("/gated", func(c *gin.Context) {
			c.Set(ContextUserID, "u-1")
			c.Set(ContextRole, role)
		}, m.VerificationGate(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/gated", nil))
		return w
	}

	t.Run("unverified minor is blocked", func(t *testing.T) {
		store := &fakeGateStore{
			profile: &models.Profile{ID: "u-1", Role: domain.RoleStudent},
			student: &models.StudentProfile{ProfileID: "u-1", BirthMonth: 1, BirthYear: minorBirthYear},
		}
		w := run(t, store, "student")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "AUTHZ_002")
		assert.Contains(t, w.Body.String(), "needsParentApproval")
	})

	t.Run("fully verified minor passes", func(t *testing.T) {
		store := &fakeGateStore{
			profile: &models.Profile{ID: "u-1", Role: domain.RoleStudent, ParentVerified: true, EmailVerified: true},
			student: &models.StudentProfile{ProfileID: "u-1", BirthMonth: 1, BirthYear: minorBirthYear},
		}
		w := run(t, store, "student")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("student without birth data passes", func(t *testing.T) {
		store := &fakeGateStore{
			profile: &models.Profile{ID: "u-1", Role: domain.RoleStudent},
		}
		w := run(t, store, "student")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-student skips the gate entirely", func(t *testing.T) {
		w := run(t, &fakeGateStore{}, "mentor")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
