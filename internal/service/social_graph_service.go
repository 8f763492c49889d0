package service

import (
	"context"
	"errors"

	"github.com/stumdgreen/railstutorial/internal/audit"
	"github.com/stumdgreen/railstutorial/internal/domain"
	"github.com/stumdgreen/railstutorial/internal/repository"
	"github.com/stumdgreen/railstutorial/pkg/log"
)

// socialGraphService implements SocialGraphService.
type socialGraphService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

// NewSocialGraphService creates a new SocialGraphService instance.
func NewSocialGraphService(follows repository.FollowRepository, users repository.UserRepository) SocialGraphService {
	return &socialGraphService{
		follows: follows,
		users:   users,
	}
}

// Follow creates a follow relationship from followerID to followingID.
// Following a user twice is a no-op: exactly one edge exists afterwards.
func (s *socialGraphService) Follow(ctx context.Context, followerID, followingID string) error {
	l := log.Ctx(ctx)

	if followerID == followingID {
		return ErrSelfFollow
	}

	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.follows.Follow(ctx, followerID, followingID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			// Idempotent: the edge already exists.
			return nil
		}
		l.Error().Err(err).
			Str("follower_id", followerID).
			Str("following_id", followingID).
			Msg("failed to follow user")
		return err
	}

	audit.LogWithTarget(ctx, audit.ActionFollow, followerID, followingID, "user followed")
	return nil
}

// Unfollow removes the follow relationship from followerID to followingID.
// Unfollowing an absent edge is a no-op.
func (s *socialGraphService) Unfollow(ctx context.Context, followerID, followingID string) error {
	l := log.Ctx(ctx)

	if err := s.follows.Unfollow(ctx, followerID, followingID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return nil
		}
		l.Error().Err(err).
			Str("follower_id", followerID).
			Str("following_id", followingID).
			Msg("failed to unfollow user")
		return err
	}

	audit.LogWithTarget(ctx, audit.ActionUnfollow, followerID, followingID, "user unfollowed")
	return nil
}

// IsFollowing checks if followerID follows followingID.
func (s *socialGraphService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, followingID)
}

// GetFollowersCount returns the number of followers for userID.
func (s *socialGraphService) GetFollowersCount(ctx context.Context, userID string) (int64, error) {
	l := log.Ctx(ctx)

	count, err := s.follows.GetFollowersCount(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get followers count")
		return 0, err
	}
	return count, nil
}

// GetFollowingCount returns how many users userID follows.
func (s *socialGraphService) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	l := log.Ctx(ctx)

	count, err := s.follows.GetFollowingCount(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get following count")
		return 0, err
	}
	return count, nil
}

// ListFollowers returns a page of users following userID.
func (s *socialGraphService) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]domain.UserResponse, int, error) {
	users, total, err := s.follows.ListFollowers(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return toUserResponses(users), total, nil
}

// ListFollowing returns a page of users that userID follows.
func (s *socialGraphService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]domain.UserResponse, int, error) {
	users, total, err := s.follows.ListFollowing(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return toUserResponses(users), total, nil
}

func toUserResponses(users []domain.User) []domain.UserResponse {
	resp := make([]domain.UserResponse, len(users))
	for i := range users {
		resp[i] = users[i].ToResponse()
	}
	return resp
}

// Ensure interface is satisfied at compile time.
var _ SocialGraphService = (*socialGraphService)(nil)
