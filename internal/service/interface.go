package service

import (
	"context"
	"errors"

	"github.com/stumdgreen/railstutorial/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session token")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrMicropostNotFound  = errors.New("micropost not found")
	ErrNotPostOwner       = errors.New("micropost belongs to another user")
)

// UserService defines the business logic for identity management.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Logout(ctx context.Context, userID string) error
	AuthenticateToken(ctx context.Context, sessionToken string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.AuthResponse, error)
	ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) (*domain.AuthResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}

// SocialGraphService defines the business logic for follow relationships.
type SocialGraphService interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowersCount(ctx context.Context, userID string) (int64, error)
	GetFollowingCount(ctx context.Context, userID string) (int64, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]domain.UserResponse, int, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]domain.UserResponse, int, error)
}

// MicropostService defines the business logic for posts.
type MicropostService interface {
	Create(ctx context.Context, userID, content string) (*domain.Micropost, error)
	Delete(ctx context.Context, actorID string, postID uint) error
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Micropost, int, error)
}

// FeedService assembles a user's feed from their own posts and the posts
// of every user they follow.
type FeedService interface {
	Feed(ctx context.Context, userID string, page, pageSize int) ([]domain.Micropost, int, error)
}
