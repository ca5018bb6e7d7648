package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/services"
	"github.com/pathpiper/backend/internal/middleware"
	"github.com/pathpiper/backend/internal/pkg/helpers"
)

// PostController handles feed post operations
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{postService: postService}
}

// CreatePost handles feed post creation
// @Summary Create a feed post
// @Description Creates a root post. Content over the character limit is rejected with a suggestTrail hint unless forceTrail is set, in which case the overflow becomes an attached trail chain.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post data"
// @Success 201 {object} dto.APIResponse "Post created"
// @Failure 400 {object} dto.ErrorResponse "Content too long or invalid request"
// @Failure 403 {object} dto.ErrorResponse "Account verification required"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	post, err := c.postService.CreatePost(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(post, "Post created successfully"))
}

// ListFeed handles retrieving the feed
// @Summary List the feed
// @Description Retrieves approved root posts with nested trails, filtered and paginated. The trending filter orders by weighted engagement.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by post type"
// @Param subject query string false "Filter by subject"
// @Param filter query string false "One of: trending, achievements, projects, questions"
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Feed retrieved"
// @Router /posts [get]
func (c *PostController) ListFeed(ctx *gin.Context) {
	var query dto.FeedQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)
	userID := ctx.GetString(middleware.ContextUserID)

	posts, pagination, err := c.postService.ListFeed(ctx.Request.Context(), userID, &query, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      posts,
		Pagination: pagination,
	}, "Feed retrieved successfully"))
}

// GetPost handles retrieving one post with its trail chain
// @Summary Get a post
// @Description Retrieves a post with its ordered trails and the caller's reaction state.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post retrieved"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	post, err := c.postService.GetPost(ctx.Request.Context(), userID, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(post, "Post retrieved successfully"))
}

// React handles toggling a reaction on a post
// @Summary React to a post
// @Description Toggles the caller's reaction: first reaction adds, repeating the same type removes, a different type switches without changing the score.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.ReactRequest false "Reaction type, defaults to like"
// @Success 200 {object} dto.APIResponse{data=dto.ReactResponse} "Reaction state"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/react [post]
func (c *PostController) React(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	resp, err := c.postService.React(ctx.Request.Context(), userID, postID, req.ReactionType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Reaction recorded successfully"))
}

// CreateTrail handles appending a trail post
// @Summary Append a trail
// @Description Appends a continuation post under a root post with the next trail order.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Root post ID"
// @Param request body dto.CreateTrailRequest true "Trail content"
// @Success 201 {object} dto.APIResponse "Trail created"
// @Failure 400 {object} dto.ErrorResponse "Parent is not a root post or content too long"
// @Failure 403 {object} dto.ErrorResponse "Not the post owner"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/trails [post]
func (c *PostController) CreateTrail(ctx *gin.Context) {
	parentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateTrailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	trail, err := c.postService.CreateTrail(ctx.Request.Context(), userID, parentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(trail, "Trail created successfully"))
}

// UpdateTrail handles editing a trail post
// @Summary Update a trail
// @Description Edits the content of a trail post owned by the caller.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trail post ID"
// @Param request body dto.UpdateTrailRequest true "New content"
// @Success 200 {object} dto.APIResponse "Trail updated"
// @Failure 404 {object} dto.ErrorResponse "Trail not found"
// @Router /trails/{id} [put]
func (c *PostController) UpdateTrail(ctx *gin.Context) {
	trailID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTrailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	trail, err := c.postService.UpdateTrail(ctx.Request.Context(), userID, trailID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(trail, "Trail updated successfully"))
}

// DeleteTrail handles removing a trail post
// @Summary Delete a trail
// @Description Removes a trail post owned by the caller.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trail post ID"
// @Success 200 {object} dto.APIResponse "Trail deleted"
// @Failure 404 {object} dto.ErrorResponse "Trail not found"
// @Router /trails/{id} [delete]
func (c *PostController) DeleteTrail(ctx *gin.Context) {
	trailID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID := ctx.GetString(middleware.ContextUserID)
	if err := c.postService.DeleteTrail(ctx.Request.Context(), userID, trailID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Trail deleted successfully"))
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id parameter").WithField(name)))
		return 0, false
	}
	return id, true
}
