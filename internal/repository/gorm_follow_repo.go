package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/stumdgreen/railstutorial/internal/domain"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// GORM translates these to gorm.ErrDuplicatedKey when TranslateError is
// enabled; string matching covers drivers that miss the translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "Duplicate entry")
}

// GormFollowRepository implements FollowRepository using GORM.
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GORM-backed follow repository.
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// Follow creates a follow relationship between two users.
// If a soft-deleted record already exists for the (follower, following)
// pair, it is restored rather than inserting a new row, so the composite
// unique index holds across unfollow/re-follow cycles.
func (r *GormFollowRepository) Follow(ctx context.Context, followerID, followingID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: attempt to restore any existing soft-deleted record.
		result := tx.Unscoped().
			Model(&domain.FollowModel{}).
			Where("follower_id = ? AND following_id = ? AND deleted_at IS NOT NULL", followerID, followingID).
			Update("deleted_at", nil)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		// Step 2: no soft-deleted record found — insert a fresh row.
		model := domain.FollowModel{
			FollowerID:  followerID,
			FollowingID: followingID,
		}
		if err := tx.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyFollowing
			}
			return err
		}
		return nil
	})
}

// Unfollow removes a follow relationship between two users.
func (r *GormFollowRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&domain.FollowModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// IsFollowing checks if followerID follows followingID.
func (r *GormFollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowersCount returns the total number of followers for a given user.
func (r *GormFollowRepository) GetFollowersCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetFollowingCount returns how many users the given user follows.
func (r *GormFollowRepository) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListFollowers returns a page of users following userID, most recent
// follow first. The join must exclude soft-deleted edges explicitly since
// the soft-delete scope only applies to the primary model.
func (r *GormFollowRepository) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]domain.User, int, error) {
	return r.listRelated(ctx, userID, "follows.follower_id = users.id", "follows.following_id = ?", page, pageSize)
}

// ListFollowing returns a page of users that userID follows.
func (r *GormFollowRepository) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]domain.User, int, error) {
	return r.listRelated(ctx, userID, "follows.following_id = users.id", "follows.follower_id = ?", page, pageSize)
}

func (r *GormFollowRepository) listRelated(ctx context.Context, userID, joinCond, whereCond string, page, pageSize int) ([]domain.User, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 30
	}
	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Joins("JOIN follows ON "+joinCond+" AND follows.deleted_at IS NULL").
		Where(whereCond, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []domain.UserModel
	if err := query.Order("follows.created_at DESC").Offset(offset).Limit(pageSize).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	users := make([]domain.User, len(models))
	for i, model := range models {
		users[i] = *model.ToDomain()
	}
	return users, int(total), nil
}

// Ensure interface is satisfied at compile time.
var _ FollowRepository = (*GormFollowRepository)(nil)
