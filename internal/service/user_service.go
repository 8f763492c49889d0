package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/stumdgreen/railstutorial/internal/audit"
	"github.com/stumdgreen/railstutorial/internal/domain"
	"github.com/stumdgreen/railstutorial/internal/repository"
	"github.com/stumdgreen/railstutorial/internal/token"
	"github.com/stumdgreen/railstutorial/pkg/log"
)

// userServiceImpl implements UserService interface.
type userServiceImpl struct {
	repo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository) UserService {
	return &userServiceImpl{repo: repo}
}

// Register creates a new user after validating the signup constraints.
// The stored email is always the lower-cased form, and a fresh session
// token is minted with the record.
func (s *userServiceImpl) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	if ve := domain.ValidateSignup(req); len(ve) > 0 {
		return nil, ve
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	sessionToken, err := token.New()
	if err != nil {
		l.Error().Err(err).Msg("failed to generate session token")
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        domain.NormalizeEmail(req.Email),
		PasswordHash: string(hashedPassword),
		SessionToken: sessionToken,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, domain.ValidationErrors{{Field: "email", Message: "has already been taken"}}
		}
		l.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	audit.Log(ctx, audit.ActionRegister, user.ID, "user registered")

	return &domain.AuthResponse{
		User:         user.ToResponse(),
		SessionToken: user.SessionToken,
	}, nil
}

// Login authenticates a user by email and password. On success the
// session token is rotated so each login hands out a fresh one.
func (s *userServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			audit.LogWithDetail(ctx, audit.ActionLoginFailed, "", req.Email, "login failed: user not found")
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.LogWithDetail(ctx, audit.ActionLoginFailed, user.ID, req.Email, "login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	sessionToken, err := s.rotateSessionToken(ctx, user.ID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to rotate session token on login")
		return nil, err
	}
	user.SessionToken = sessionToken

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")

	return &domain.AuthResponse{
		User:         user.ToResponse(),
		SessionToken: sessionToken,
	}, nil
}

// Logout rotates the session token, invalidating any outstanding one.
func (s *userServiceImpl) Logout(ctx context.Context, userID string) error {
	l := log.Ctx(ctx)

	if _, err := s.rotateSessionToken(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to rotate session token on logout")
		return err
	}

	audit.Log(ctx, audit.ActionLogout, userID, "user logged out")
	return nil
}

// AuthenticateToken resolves a session token to its user.
func (s *userServiceImpl) AuthenticateToken(ctx context.Context, sessionToken string) (*domain.User, error) {
	if sessionToken == "" {
		return nil, ErrInvalidSession
	}

	user, err := s.repo.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *userServiceImpl) GetUser(ctx context.Context, userID string) (*domain.UserResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get user")
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

// UpdateUser updates a user's profile. All constraints are re-validated,
// a changed email is re-lowercased, and the session token rotates with
// the save.
func (s *userServiceImpl) UpdateUser(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get user for update")
		return nil, err
	}

	var ve domain.ValidationErrors
	if req.Name != nil {
		user.Name = *req.Name
		ve = append(ve, domain.ValidateName(user.Name)...)
	}
	if req.Email != nil {
		ve = append(ve, domain.ValidateEmail(*req.Email)...)
		user.Email = domain.NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		confirmation := ""
		if req.PasswordConfirmation != nil {
			confirmation = *req.PasswordConfirmation
		}
		ve = append(ve, domain.ValidatePassword(*req.Password, confirmation)...)
	}
	if len(ve) > 0 {
		return nil, ve
	}

	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			l.Error().Err(err).Msg("failed to hash password")
			return nil, err
		}
		user.PasswordHash = string(hashedPassword)
	}

	sessionToken, err := token.New()
	if err != nil {
		l.Error().Err(err).Msg("failed to generate session token")
		return nil, err
	}
	user.SessionToken = sessionToken

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, domain.ValidationErrors{{Field: "email", Message: "has already been taken"}}
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to update user")
		return nil, err
	}

	audit.Log(ctx, audit.ActionUpdateProfile, userID, "profile updated")

	return &domain.AuthResponse{
		User:         user.ToResponse(),
		SessionToken: sessionToken,
	}, nil
}

// ChangePassword changes user password after verifying current password.
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get user for password change")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return nil, ErrWrongPassword
	}

	if ve := domain.ValidatePassword(req.NewPassword, req.NewPasswordConfirmation); len(ve) > 0 {
		return nil, ve
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash new password")
		return nil, err
	}
	user.PasswordHash = string(hashedPassword)

	sessionToken, err := token.New()
	if err != nil {
		l.Error().Err(err).Msg("failed to generate session token")
		return nil, err
	}
	user.SessionToken = sessionToken

	if err := s.repo.Update(ctx, user); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to update password")
		return nil, err
	}

	audit.Log(ctx, audit.ActionChangePassword, userID, "password changed")

	return &domain.AuthResponse{
		User:         user.ToResponse(),
		SessionToken: sessionToken,
	}, nil
}

// DeleteUser deletes a user along with their microposts and follow edges.
func (s *userServiceImpl) DeleteUser(ctx context.Context, userID string) error {
	l := log.Ctx(ctx)

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to delete user")
		return err
	}

	audit.Log(ctx, audit.ActionDeleteAccount, userID, "account deleted")
	return nil
}

func (s *userServiceImpl) rotateSessionToken(ctx context.Context, userID string) (string, error) {
	sessionToken, err := token.New()
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateSessionToken(ctx, userID, sessionToken); err != nil {
		return "", err
	}
	return sessionToken, nil
}

// Ensure interface is satisfied at compile time.
var _ UserService = (*userServiceImpl)(nil)
