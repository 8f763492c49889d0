package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stumdgreen/railstutorial/internal/domain"
)

// GormMicropostRepository implements MicropostRepository using GORM.
type GormMicropostRepository struct {
	db *gorm.DB
}

// NewGormMicropostRepository creates a new GORM-based micropost repository.
func NewGormMicropostRepository(db *gorm.DB) *GormMicropostRepository {
	return &GormMicropostRepository{db: db}
}

// Create creates a new micropost.
func (r *GormMicropostRepository) Create(ctx context.Context, post *domain.Micropost) error {
	model := domain.MicropostModel{
		UserID:  post.UserID,
		Content: post.Content,
	}
	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	post.ID = model.ID
	post.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves a micropost by ID.
func (r *GormMicropostRepository) GetByID(ctx context.Context, id uint) (*domain.Micropost, error) {
	var model domain.MicropostModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMicropostNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Delete removes a micropost.
func (r *GormMicropostRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.MicropostModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMicropostNotFound
	}
	return nil
}

// ListByUser retrieves a user's microposts newest-first.
func (r *GormMicropostRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Micropost, int, error) {
	query := r.db.WithContext(ctx).Model(&domain.MicropostModel{}).
		Where("user_id = ?", userID)
	return r.paginate(query, page, pageSize)
}

// Feed retrieves posts by userID and every user they follow, newest-first.
// The subquery excludes soft-deleted edges through the follow model's
// default scope.
func (r *GormMicropostRepository) Feed(ctx context.Context, userID string, page, pageSize int) ([]domain.Micropost, int, error) {
	followed := r.db.Model(&domain.FollowModel{}).
		Select("following_id").
		Where("follower_id = ?", userID)

	query := r.db.WithContext(ctx).Model(&domain.MicropostModel{}).
		Where("user_id = ? OR user_id IN (?)", userID, followed)
	return r.paginate(query, page, pageSize)
}

// paginate applies the shared newest-first ordering and page slicing.
// The id tiebreaker keeps the total order stable when timestamps collide.
func (r *GormMicropostRepository) paginate(query *gorm.DB, page, pageSize int) ([]domain.Micropost, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 30
	}
	offset := (page - 1) * pageSize

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []domain.MicropostModel
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]domain.Micropost, len(models))
	for i, model := range models {
		posts[i] = *model.ToDomain()
	}
	return posts, int(total), nil
}

// Ensure interface is satisfied at compile time.
var _ MicropostRepository = (*GormMicropostRepository)(nil)
