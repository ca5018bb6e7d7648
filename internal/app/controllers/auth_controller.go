package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/services"
	"github.com/pathpiper/backend/internal/middleware"
)

// AuthController handles authentication operations
type AuthController struct {
	authService    services.AuthService
	profileService services.ProfileService
	cookieDomain   string
	cookieSecure   bool
}

// NewAuthController creates a new AuthController
func NewAuthController(
	authService services.AuthService,
	profileService services.ProfileService,
	cookieDomain string,
	cookieSecure bool,
) *AuthController {
	return &AuthController{
		authService:    authService,
		profileService: profileService,
		cookieDomain:   cookieDomain,
		cookieSecure:   cookieSecure,
	}
}

// Register handles new account registration
// @Summary Register a new account
// @Description Creates a profile with the given role. Student registrations carry birth data used for age banding.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Account created successfully"))
}

// Login handles credential login
// @Summary Log in
// @Description Verifies credentials and issues a token pair. Tokens are returned in the body and also set as session cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Logged in"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookies(ctx, resp)
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Logged in successfully"))
}

// Refresh handles refresh token rotation
// @Summary Refresh tokens
// @Description Rotates the refresh token and issues a fresh pair. The token is read from the body or the refresh cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest false "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Tokens refreshed"
// @Failure 401 {object} dto.ErrorResponse "Token invalid, expired or revoked"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// Fall back to the refresh cookie for browser clients
		cookie, cookieErr := ctx.Cookie(middleware.RefreshTokenCookie)
		if cookieErr != nil || cookie == "" {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}
		req.RefreshToken = cookie
	}

	resp, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookies(ctx, resp)
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Tokens refreshed successfully"))
}

// Logout handles session termination
// @Summary Log out
// @Description Revokes the caller's refresh tokens, evicts the cached session and clears session cookies.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	token := middleware.ResolveToken(ctx)

	if err := c.authService.Logout(ctx.Request.Context(), userID, token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.clearSessionCookies(ctx)
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Logged out successfully"))
}

// Me returns the authenticated caller's profile
// @Summary Get current profile
// @Description Retrieves the caller's profile with student extension, age band and completeness.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	if userID == "" {
		middleware.HandleAPIError(ctx, errors.New("missing user in context"))
		return
	}

	resp, err := c.profileService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Profile retrieved successfully"))
}

func (c *AuthController) setSessionCookies(ctx *gin.Context, tokens *dto.TokenResponse) {
	ctx.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken,
		tokens.ExpiresIn, "/", c.cookieDomain, c.cookieSecure, true)
	ctx.SetCookie(middleware.RefreshTokenCookie, tokens.RefreshToken,
		tokens.RefreshExpiresIn, "/", c.cookieDomain, c.cookieSecure, true)
	// Readable by the client app, carries no secret
	ctx.SetCookie(middleware.UserIDCookie, tokens.UserID,
		tokens.RefreshExpiresIn, "/", c.cookieDomain, c.cookieSecure, false)
}

func (c *AuthController) clearSessionCookies(ctx *gin.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie, middleware.UserIDCookie} {
		ctx.SetCookie(name, "", -1, "/", c.cookieDomain, c.cookieSecure, true)
	}
}
