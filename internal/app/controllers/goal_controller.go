package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/services"
	"github.com/pathpiper/backend/internal/middleware"
)

// GoalController handles goal operations
type GoalController struct {
	goalService services.GoalService
}

// NewGoalController creates a new GoalController
func NewGoalController(goalService services.GoalService) *GoalController {
	return &GoalController{goalService: goalService}
}

// ListGoals handles retrieving the caller's goals
// @Summary List goals
// @Description Retrieves the caller's goals.
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Goals retrieved"
// @Router /goals [get]
func (c *GoalController) ListGoals(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	goals, err := c.goalService.ListGoals(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(goals, "Goals retrieved successfully"))
}

// SaveGoals handles a full goal list submission
// @Summary Save goals
// @Description Reconciles the submitted full goal list against stored state: negative ids insert, changed fields update, absent ids delete. An identical submission changes nothing.
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveGoalsRequest true "Full goal list"
// @Success 200 {object} dto.APIResponse{data=dto.SaveGoalsResponse} "Goals reconciled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /goals [put]
func (c *GoalController) SaveGoals(ctx *gin.Context) {
	var req dto.SaveGoalsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.goalService.SaveGoals(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Goals saved successfully"))
}

// ListSuggestedGoals handles retrieving the caller's suggested goals
// @Summary List suggested goals
// @Description Retrieves the caller's suggested goals with their added flags.
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Suggested goals retrieved"
// @Router /goals/suggested [get]
func (c *GoalController) ListSuggestedGoals(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	goals, err := c.goalService.ListSuggestedGoals(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(goals, "Suggested goals retrieved successfully"))
}

// SaveSuggestedGoals handles a full suggested goal list submission
// @Summary Save suggested goals
// @Description Runs the same reconciliation as goals over the suggested goal list.
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveGoalsRequest true "Full suggested goal list"
// @Success 200 {object} dto.APIResponse{data=dto.SaveGoalsResponse} "Suggested goals reconciled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /goals/suggested [put]
func (c *GoalController) SaveSuggestedGoals(ctx *gin.Context) {
	var req dto.SaveGoalsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.goalService.SaveSuggestedGoals(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Suggested goals saved successfully"))
}

// UpdateSuggestedGoal handles toggling the added flag
// @Summary Update a suggested goal
// @Description Toggles the added flag on one suggested goal.
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Suggested goal ID"
// @Param request body dto.UpdateSuggestedGoalRequest true "Added flag"
// @Success 200 {object} dto.APIResponse "Suggested goal updated"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Router /goals/suggested/{id} [patch]
func (c *GoalController) UpdateSuggestedGoal(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSuggestedGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	if err := c.goalService.UpdateSuggestedGoal(ctx.Request.Context(), userID, id, req.IsAdded); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Suggested goal updated successfully"))
}

// DeleteSuggestedGoal handles removing a suggested goal
// @Summary Delete a suggested goal
// @Description Removes one suggested goal.
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Suggested goal ID"
// @Success 200 {object} dto.APIResponse "Suggested goal deleted"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Router /goals/suggested/{id} [delete]
func (c *GoalController) DeleteSuggestedGoal(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	if err := c.goalService.DeleteSuggestedGoal(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Suggested goal deleted successfully"))
}
