package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/service/auth"
	"github.com/reelgen/reelgen-api/internal/store"
)

// ProfileUpdate carries the fields a user may change on their profile.
// Empty fields are left unchanged.
type ProfileUpdate struct {
	Username  string
	AvatarURL string
}

// UserService provides profile operations for authenticated users.
type UserService interface {
	// GetProfile retrieves the user's profile.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile applies a profile update. Returns ErrUsernameTaken
	// if the requested username is already in use.
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error)

	// ChangePassword replaces the user's password after verifying the
	// old one. Returns ErrIncorrectPassword on a failed check.
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error

	// DeleteAccount removes the user after a password confirmation.
	// The user's videos are removed by the store's cascade rules.
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	db               *sql.DB
	userStore        store.UserStore
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewUserService creates a new UserService. The db handle is used to run
// account deletion in a transaction; it may be nil, in which case
// operations run directly against the store.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	db *sql.DB,
	userStore store.UserStore,
	passwordVerifier auth.PasswordVerifier,
	log *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if passwordVerifier == nil {
		return nil, fmt.Errorf("passwordVerifier cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		db:               db,
		userStore:        userStore,
		passwordVerifier: passwordVerifier,
		logger:           log.With("component", "user_service"),
	}, nil
}

// GetProfile implements UserService.GetProfile
func (s *userServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateProfile implements UserService.UpdateProfile
func (s *userServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update ProfileUpdate,
) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != "" {
		user.Username = update.Username
	}
	if update.AvatarURL != "" {
		user.AvatarURL = update.AvatarURL
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user profile updated",
		"user_id", userID)
	return user, nil
}

// ChangePassword implements UserService.ChangePassword
func (s *userServiceImpl) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	oldPassword, newPassword string,
) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwordVerifier.Compare(user.HashedPassword, oldPassword); err != nil {
		return ErrIncorrectPassword
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	user.Password = newPassword
	if err := s.userStore.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("user password changed",
		"user_id", userID)
	return nil
}

// DeleteAccount implements UserService.DeleteAccount
// The password check and the delete run in one transaction so a
// concurrent credential change cannot slip between them.
func (s *userServiceImpl) DeleteAccount(
	ctx context.Context,
	userID uuid.UUID,
	password string,
) error {
	deleteFn := func(userStore store.UserStore) error {
		user, err := userStore.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to retrieve user: %w", err)
		}

		if err := s.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
			return ErrIncorrectPassword
		}

		if err := userStore.Delete(ctx, userID); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	}

	var err error
	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return deleteFn(s.userStore.WithTx(tx))
		})
	} else {
		err = deleteFn(s.userStore)
	}
	if err != nil {
		return err
	}

	s.logger.Info("user account deleted",
		"user_id", userID)
	return nil
}
