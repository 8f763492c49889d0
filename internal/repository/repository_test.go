package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stumdgreen/railstutorial/internal/domain"
	"github.com/stumdgreen/railstutorial/internal/token"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.UserModel{},
		&domain.MicropostModel{},
		&domain.FollowModel{},
	))
	return db
}

func createTestUser(t *testing.T, repo *GormUserRepository, name, email string) *domain.User {
	t.Helper()

	sessionToken, err := token.New()
	require.NoError(t, err)

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
		SessionToken: sessionToken,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createTestUserValue(name, email string) *domain.User {
	return &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
		SessionToken: name + "-token",
	}
}

func testPost(userID, content string) *domain.Micropost {
	return &domain.Micropost{UserID: userID, Content: content}
}
