package domain

import (
	"time"

	"gorm.io/gorm"
)

// FollowModel is the GORM model for the follows table.
// The composite unique index keeps at most one edge per
// (follower, following) pair.
type FollowModel struct {
	ID          uint           `gorm:"primaryKey;autoIncrement"`
	FollowerID  string         `gorm:"column:follower_id;type:varchar(36);index;uniqueIndex:idx_follow_pair;not null"`
	FollowingID string         `gorm:"column:following_id;type:varchar(36);index;uniqueIndex:idx_follow_pair;not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (FollowModel) TableName() string { return "follows" }

// RelationshipResponse reports the follow state between two users.
type RelationshipResponse struct {
	Following bool `json:"following"`
}

// FollowStatsResponse carries a user's follower/following counts.
type FollowStatsResponse struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
