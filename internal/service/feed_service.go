package service

import (
	"context"

	"github.com/stumdgreen/railstutorial/internal/domain"
	"github.com/stumdgreen/railstutorial/internal/repository"
	"github.com/stumdgreen/railstutorial/pkg/log"
)

// feedService implements FeedService on top of the micropost store.
type feedService struct {
	posts           repository.MicropostRepository
	defaultPageSize int
}

// NewFeedService creates a new FeedService instance. defaultPageSize is
// used when the caller passes a non-positive page size.
func NewFeedService(posts repository.MicropostRepository, defaultPageSize int) FeedService {
	if defaultPageSize < 1 {
		defaultPageSize = 30
	}
	return &feedService{
		posts:           posts,
		defaultPageSize: defaultPageSize,
	}
}

// Feed returns one page of the user's feed: their own posts plus the
// posts of everyone they follow, newest-first. The underlying query keeps
// a stable total order so page slicing is deterministic.
func (s *feedService) Feed(ctx context.Context, userID string, page, pageSize int) ([]domain.Micropost, int, error) {
	l := log.Ctx(ctx)

	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}

	posts, total, err := s.posts.Feed(ctx, userID, page, pageSize)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to assemble feed")
		return nil, 0, err
	}
	return posts, total, nil
}

// Ensure interface is satisfied at compile time.
var _ FeedService = (*feedService)(nil)
