package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stumdgreen/railstutorial/internal/domain"
	"github.com/stumdgreen/railstutorial/internal/repository"
)

type testEnv struct {
	users      UserService
	graph      SocialGraphService
	microposts MicropostService
	feed       FeedService

	userRepo repository.UserRepository
}

func setupTestEnv(t *testing.T) *testEnv {
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

	userRepo := repository.NewGormUserRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	micropostRepo := repository.NewGormMicropostRepository(db)

	return &testEnv{
		users:      NewUserService(userRepo),
		graph:      NewSocialGraphService(followRepo, userRepo),
		microposts: NewMicropostService(micropostRepo, userRepo),
		feed:       NewFeedService(micropostRepo, 30),
		userRepo:   userRepo,
	}
}

func registerUser(t *testing.T, env *testEnv, name, email, password string) *domain.AuthResponse {
	t.Helper()

	resp, err := env.users.Register(context.Background(), &domain.RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
	})
	require.NoError(t, err)
	return resp
}
