package service

import (
	"context"
	"errors"

	"github.com/stumdgreen/railstutorial/internal/audit"
	"github.com/stumdgreen/railstutorial/internal/domain"
	"github.com/stumdgreen/railstutorial/internal/repository"
	"github.com/stumdgreen/railstutorial/pkg/log"
)

// micropostService implements MicropostService.
type micropostService struct {
	posts repository.MicropostRepository
	users repository.UserRepository
}

// NewMicropostService creates a new MicropostService instance.
func NewMicropostService(posts repository.MicropostRepository, users repository.UserRepository) MicropostService {
	return &micropostService{
		posts: posts,
		users: users,
	}
}

// Create validates the content, checks the owner exists, and persists
// the post.
func (s *micropostService) Create(ctx context.Context, userID, content string) (*domain.Micropost, error) {
	l := log.Ctx(ctx)

	if ve := domain.ValidateMicropostContent(content); len(ve) > 0 {
		return nil, ve
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	post := &domain.Micropost{
		UserID:  userID,
		Content: content,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to create micropost")
		return nil, err
	}

	audit.Log(ctx, audit.ActionCreateMicropost, userID, "micropost created")
	return post, nil
}

// Delete removes a post owned by actorID.
func (s *micropostService) Delete(ctx context.Context, actorID string, postID uint) error {
	l := log.Ctx(ctx)

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrMicropostNotFound) {
			return ErrMicropostNotFound
		}
		return err
	}
	if post.UserID != actorID {
		return ErrNotPostOwner
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrMicropostNotFound) {
			return ErrMicropostNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, actorID).Uint("micropost_id", postID).Msg("failed to delete micropost")
		return err
	}

	audit.Log(ctx, audit.ActionDeleteMicropost, actorID, "micropost deleted")
	return nil
}

// ListByUser returns a user's posts newest-first.
func (s *micropostService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Micropost, int, error) {
	return s.posts.ListByUser(ctx, userID, page, pageSize)
}

// Ensure interface is satisfied at compile time.
var _ MicropostService = (*micropostService)(nil)
