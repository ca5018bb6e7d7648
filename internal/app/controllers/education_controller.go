package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/services"
	"github.com/pathpiper/backend/internal/middleware"
)

// EducationController handles education history operations
type EducationController struct {
	educationService services.EducationService
}

// NewEducationController creates a new EducationController
func NewEducationController(educationService services.EducationService) *EducationController {
	return &EducationController{educationService: educationService}
}

// CreateEducation handles adding an education record
// @Summary Add an education record
// @Description Adds an education record for the caller and recomputes onboarding completeness. New records start unverified.
// @Tags education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEducationRequest true "Education data"
// @Success 201 {object} dto.APIResponse{data=dto.EducationResponse} "Record created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /education [post]
func (c *EducationController) CreateEducation(ctx *gin.Context) {
	var req dto.CreateEducationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.educationService.CreateEducation(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Education record created successfully"))
}

// ListEducation handles retrieving the caller's education records
// @Summary List education records
// @Description Retrieves the caller's education records with explicit verification status.
// @Tags education
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Records retrieved"
// @Router /education [get]
func (c *EducationController) ListEducation(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.educationService.ListEducation(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Education records retrieved successfully"))
}

// UpdateEducation handles editing an education record
// @Summary Update an education record
// @Description Edits an education record owned by the caller.
// @Tags education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education record ID"
// @Param request body dto.UpdateEducationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.EducationResponse} "Record updated"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /education/{id} [put]
func (c *EducationController) UpdateEducation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEducationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.educationService.UpdateEducation(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Education record updated successfully"))
}

// DeleteEducation handles removing an education record
// @Summary Delete an education record
// @Description Removes an education record owned by the caller and recomputes onboarding completeness.
// @Tags education
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education record ID"
// @Success 200 {object} dto.APIResponse "Record deleted"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /education/{id} [delete]
func (c *EducationController) DeleteEducation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	if err := c.educationService.DeleteEducation(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Education record deleted successfully"))
}

// Verify handles the institution verification decision
// @Summary Verify or reject an education record
// @Description Applies the institution's verify or reject decision. Only the institution the record references may decide, and both outcomes are terminal.
// @Tags education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerificationRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.EducationResponse} "Decision applied"
// @Failure 403 {object} dto.ErrorResponse "Not the referenced institution"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 409 {object} dto.ErrorResponse "Already decided"
// @Router /education/verify [post]
func (c *EducationController) Verify(ctx *gin.Context) {
	var req dto.VerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	institutionID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.educationService.Verify(ctx.Request.Context(), institutionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Verification decision applied successfully"))
}
