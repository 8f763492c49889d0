package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stumdgreen/railstutorial/internal/domain"
	"github.com/stumdgreen/railstutorial/internal/middleware"
	"github.com/stumdgreen/railstutorial/internal/service"
	"github.com/stumdgreen/railstutorial/pkg/log"
	"github.com/stumdgreen/railstutorial/pkg/response"
)

// Handler handles HTTP requests for the social service.
type Handler struct {
	users          service.UserService
	graph          service.SocialGraphService
	microposts     service.MicropostService
	feed           service.FeedService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	users service.UserService,
	graph service.SocialGraphService,
	microposts service.MicropostService,
	feed service.FeedService,
	authMiddleware *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		users:          users,
		graph:          graph,
		microposts:     microposts,
		feed:           feed,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.authMiddleware.RequireAuth(), h.Logout)
		}

		users := api.Group("/users")
		{
			users.GET("/:id", h.GetUser)
			users.GET("/:id/microposts", h.ListMicroposts)
			users.GET("/:id/followers", h.ListFollowers)
			users.GET("/:id/following", h.ListFollowing)
			users.GET("/:id/follow_stats", h.FollowStats)

			// Protected follow actions
			users.GET("/:id/relationship", h.authMiddleware.RequireAuth(), h.Relationship)
			users.POST("/:id/follow", h.authMiddleware.RequireAuth(), h.Follow)
			users.DELETE("/:id/follow", h.authMiddleware.RequireAuth(), h.Unfollow)
		}

		// Protected routes for the current user
		profile := api.Group("/profile")
		profile.Use(h.authMiddleware.RequireAuth())
		{
			profile.GET("", h.GetMe)
			profile.PUT("", h.UpdateMe)
			profile.PUT("/password", h.ChangePassword)
			profile.DELETE("", h.DeleteMe)
		}

		protected := api.Group("")
		protected.Use(h.authMiddleware.RequireAuth())
		{
			protected.GET("/feed", h.Feed)
			protected.POST("/microposts", h.CreateMicropost)
			protected.DELETE("/microposts/:id", h.DeleteMicropost)
		}
	}
}

// Register handles user signup.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Register(ctx, &req)
	if err != nil {
		var ve domain.ValidationErrors
		if errors.As(err, &ve) {
			response.ValidationFailed(c, ve)
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, result)
}

// Login handles user login.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, result)
}

// Logout handles user logout.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	if err := h.users.Logout(ctx, userID); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("logout failed")
		response.InternalError(c, "failed to logout")
		return
	}

	response.Success(c, gin.H{"message": "logged out successfully"})
}

// GetUser returns a user's public profile.
func (h *Handler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.users.GetUser(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to get user")
		return
	}

	response.Success(c, user)
}

// GetMe returns the authenticated user's profile.
func (h *Handler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.users.GetUser(ctx, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to get user")
		return
	}

	response.Success(c, user)
}

// UpdateMe updates the authenticated user's profile.
func (h *Handler) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid update request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.UpdateUser(ctx, userID, &req)
	if err != nil {
		var ve domain.ValidationErrors
		if errors.As(err, &ve) {
			response.ValidationFailed(c, ve)
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("update failed")
		response.InternalError(c, "failed to update user")
		return
	}

	response.Success(c, result)
}

// ChangePassword changes the authenticated user's password.
func (h *Handler) ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid change password request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.ChangePassword(ctx, userID, &req)
	if err != nil {
		var ve domain.ValidationErrors
		if errors.As(err, &ve) {
			response.ValidationFailed(c, ve)
			return
		}
		if errors.Is(err, service.ErrWrongPassword) {
			response.Unauthorized(c, "current password is incorrect")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("change password failed")
		response.InternalError(c, "failed to change password")
		return
	}

	response.Success(c, result)
}

// DeleteMe deletes the authenticated user's account, cascading to their
// microposts and follow edges.
func (h *Handler) DeleteMe(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	if err := h.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("delete account failed")
		response.InternalError(c, "failed to delete account")
		return
	}

	response.Success(c, gin.H{"message": "account deleted"})
}

// Follow makes the authenticated user follow the target user.
func (h *Handler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	targetID := c.Param("id")

	if err := h.graph.Follow(ctx, userID, targetID); err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			response.BadRequest(c, "cannot follow yourself")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("follow failed")
		response.InternalError(c, "failed to follow user")
		return
	}

	response.Success(c, domain.RelationshipResponse{Following: true})
}

// Unfollow makes the authenticated user unfollow the target user.
func (h *Handler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	targetID := c.Param("id")

	if err := h.graph.Unfollow(ctx, userID, targetID); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("unfollow failed")
		response.InternalError(c, "failed to unfollow user")
		return
	}

	response.Success(c, domain.RelationshipResponse{Following: false})
}

// Relationship reports whether the authenticated user follows the target.
func (h *Handler) Relationship(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	targetID := c.Param("id")

	following, err := h.graph.IsFollowing(ctx, userID, targetID)
	if err != nil {
		response.InternalError(c, "failed to check relationship")
		return
	}

	response.Success(c, domain.RelationshipResponse{Following: following})
}

// FollowStats returns follower/following counts for a user.
func (h *Handler) FollowStats(c *gin.Context) {
	ctx := c.Request.Context()
	targetID := c.Param("id")

	followers, err := h.graph.GetFollowersCount(ctx, targetID)
	if err != nil {
		response.InternalError(c, "failed to get followers count")
		return
	}
	following, err := h.graph.GetFollowingCount(ctx, targetID)
	if err != nil {
		response.InternalError(c, "failed to get following count")
		return
	}

	response.Success(c, domain.FollowStatsResponse{
		Followers: followers,
		Following: following,
	})
}

// ListFollowers returns a page of the target user's followers.
func (h *Handler) ListFollowers(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := pagination(c)

	users, total, err := h.graph.ListFollowers(ctx, c.Param("id"), page, pageSize)
	if err != nil {
		response.InternalError(c, "failed to list followers")
		return
	}

	response.Success(c, pagedData(users, total, page, pageSize))
}

// ListFollowing returns a page of users the target user follows.
func (h *Handler) ListFollowing(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := pagination(c)

	users, total, err := h.graph.ListFollowing(ctx, c.Param("id"), page, pageSize)
	if err != nil {
		response.InternalError(c, "failed to list following")
		return
	}

	response.Success(c, pagedData(users, total, page, pageSize))
}

// ListMicroposts returns a page of the target user's posts, newest-first.
func (h *Handler) ListMicroposts(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := pagination(c)

	posts, total, err := h.microposts.ListByUser(ctx, c.Param("id"), page, pageSize)
	if err != nil {
		response.InternalError(c, "failed to list microposts")
		return
	}

	response.Success(c, pagedData(posts, total, page, pageSize))
}

// Feed returns a page of the authenticated user's feed.
func (h *Handler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	page, pageSize := pagination(c)

	posts, total, err := h.feed.Feed(ctx, userID, page, pageSize)
	if err != nil {
		response.InternalError(c, "failed to assemble feed")
		return
	}

	response.Success(c, pagedData(posts, total, page, pageSize))
}

// CreateMicropost creates a post owned by the authenticated user.
func (h *Handler) CreateMicropost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.CreateMicropostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid micropost request")
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.microposts.Create(ctx, userID, req.Content)
	if err != nil {
		var ve domain.ValidationErrors
		if errors.As(err, &ve) {
			response.ValidationFailed(c, ve)
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("create micropost failed")
		response.InternalError(c, "failed to create micropost")
		return
	}

	response.Created(c, post)
}

// DeleteMicropost deletes a post owned by the authenticated user.
func (h *Handler) DeleteMicropost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid micropost id")
		return
	}

	if err := h.microposts.Delete(ctx, userID, uint(postID)); err != nil {
		if errors.Is(err, service.ErrMicropostNotFound) {
			response.NotFound(c, "micropost not found")
			return
		}
		if errors.Is(err, service.ErrNotPostOwner) {
			response.Forbidden(c, "cannot delete another user's micropost")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("delete micropost failed")
		response.InternalError(c, "failed to delete micropost")
		return
	}

	response.Success(c, gin.H{"message": "micropost deleted"})
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "30"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 30
	}
	return page, pageSize
}

func pagedData(items interface{}, total, page, pageSize int) gin.H {
	return gin.H{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
}
