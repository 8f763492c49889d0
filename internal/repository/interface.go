package repository

import (
	"context"
	"errors"

	"github.com/stumdgreen/railstutorial/internal/domain"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailExists       = errors.New("email already exists")
	ErrFollowNotFound    = errors.New("follow relationship not found")
	ErrAlreadyFollowing  = errors.New("already following")
	ErrMicropostNotFound = errors.New("micropost not found")
)

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetBySessionToken(ctx context.Context, token string) (*domain.User, error)
	// Update persists name, email, password hash and session token.
	Update(ctx context.Context, user *domain.User) error
	// UpdateSessionToken rotates just the session token.
	UpdateSessionToken(ctx context.Context, id, sessionToken string) error
	// Delete removes the user together with their microposts and
	// follow edges in both directions, in one transaction.
	Delete(ctx context.Context, id string) error
}

// FollowRepository defines persistence operations for follow relationships.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowersCount(ctx context.Context, userID string) (int64, error)
	GetFollowingCount(ctx context.Context, userID string) (int64, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]domain.User, int, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]domain.User, int, error)
}

// MicropostRepository defines persistence operations for microposts.
type MicropostRepository interface {
	Create(ctx context.Context, post *domain.Micropost) error
	GetByID(ctx context.Context, id uint) (*domain.Micropost, error)
	Delete(ctx context.Context, id uint) error
	// ListByUser returns the user's posts newest-first.
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Micropost, int, error)
	// Feed returns posts by the user and everyone they follow, newest-first.
	Feed(ctx context.Context, userID string, page, pageSize int) ([]domain.Micropost, int, error)
}
