package domain

import (
	"time"

	"gorm.io/gorm"
)

// MicropostModel is the GORM model for the microposts table.
type MicropostModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	UserID    string         `gorm:"type:varchar(36);index;not null"`
	Content   string         `gorm:"type:varchar(140);not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (MicropostModel) TableName() string { return "microposts" }

// Micropost is the domain representation of a short post.
type Micropost struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDomain converts MicropostModel to domain Micropost.
func (m *MicropostModel) ToDomain() *Micropost {
	return &Micropost{
		ID:        m.ID,
		UserID:    m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// CreateMicropostRequest represents a post creation request.
type CreateMicropostRequest struct {
	Content string `json:"content" binding:"required"`
}
