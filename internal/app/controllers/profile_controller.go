package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/services"
	"github.com/pathpiper/backend/internal/middleware"
)

// ProfileController handles profile operations
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetProfile handles retrieving a profile by id
// @Summary Get a profile
// @Description Retrieves a profile with its student extension, age band, completeness and selections.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile retrieved"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profiles/{id} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	resp, err := c.profileService.GetProfile(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Profile retrieved successfully"))
}

// UpdateProfile handles editing the caller's profile
// @Summary Update own profile
// @Description Applies a partial edit to the caller's profile and recomputes onboarding completeness.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /profiles/me [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.profileService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Profile updated successfully"))
}

// ListInterests handles retrieving the interest taxonomy
// @Summary List interest taxonomy
// @Description Retrieves the selectable interest taxonomy.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Interests retrieved"
// @Router /interests [get]
func (c *ProfileController) ListInterests(ctx *gin.Context) {
	interests, err := c.profileService.ListInterests(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(interests, "Interests retrieved successfully"))
}

// ReplaceInterests handles replacing the caller's interest selection
// @Summary Replace own interests
// @Description Replaces the caller's full interest selection and recomputes onboarding completeness.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReplaceInterestsRequest true "Interest ids"
// @Success 200 {object} dto.APIResponse "Interests replaced"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /profiles/me/interests [put]
func (c *ProfileController) ReplaceInterests(ctx *gin.Context) {
	var req dto.ReplaceInterestsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	if err := c.profileService.ReplaceInterests(ctx.Request.Context(), userID, req.InterestIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Interests replaced successfully"))
}

// ReplaceSkills handles replacing the caller's skill selection
// @Summary Replace own skills
// @Description Replaces the caller's full skill selection.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReplaceSkillsRequest true "Skill ids"
// @Success 200 {object} dto.APIResponse "Skills replaced"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /profiles/me/skills [put]
func (c *ProfileController) ReplaceSkills(ctx *gin.Context) {
	var req dto.ReplaceSkillsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	if err := c.profileService.ReplaceSkills(ctx.Request.Context(), userID, req.SkillIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Skills replaced successfully"))
}

// GetCompleteness handles retrieving the caller's onboarding breakdown
// @Summary Get onboarding completeness
// @Description Retrieves the three-section onboarding breakdown plus the minor verification gate state.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CompletenessResponse} "Completeness retrieved"
// @Router /profiles/me/completeness [get]
func (c *ProfileController) GetCompleteness(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.profileService.GetCompleteness(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Completeness retrieved successfully"))
}
