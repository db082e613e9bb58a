package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// UserServiceImpl implements the UserService interface. Each operation runs
// in its own scoped session: reads on a pooled connection, writes in a transaction.
type UserServiceImpl struct {
	sessions SessionProvider
	store    UserStore
	logger   *zap.Logger
}

// NewUserService creates a new user service instance
func NewUserService(sessions SessionProvider, store UserStore, logger *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

// CreateUser creates a new user
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req == nil {
		return nil, fmt.Errorf("create request is required")
	}

	var user *User
	err := s.sessions.WriteSession(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		user, err = s.store.CreateUser(ctx, db, req)
		return err
	})
	if err != nil {
		return nil, sessionError("create", err)
	}

	s.logger.Info("User created", zap.Int64("user_id", user.ID))
	return user, nil
}

// ListUsers returns a range of users in creation order
func (s *UserServiceImpl) ListUsers(ctx context.Context, req *ListUsersRequest) ([]*User, error) {
	if req == nil {
		req = &ListUsersRequest{Limit: DefaultListLimit}
	}

	var users []*User
	err := s.sessions.ReadSession(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		users, err = s.store.ListUsers(ctx, db, req)
		return err
	})
	if err != nil {
		return nil, sessionError("list", err)
	}
	return users, nil
}

// GetUser retrieves a user by id
func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*User, error) {
	var user *User
	err := s.sessions.ReadSession(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		user, err = s.store.GetUser(ctx, db, userID)
		return err
	})
	if err != nil {
		return nil, sessionError("get", err)
	}
	return user, nil
}

// UpdateUser replaces a user's name. Concurrent updates are last write wins.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, req *UpdateUserRequest) (*User, error) {
	if req == nil {
		return nil, fmt.Errorf("update request is required")
	}

	var user *User
	err := s.sessions.WriteSession(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		user, err = s.store.UpdateUser(ctx, db, req)
		return err
	})
	if err != nil {
		return nil, sessionError("update", err)
	}

	s.logger.Info("User updated", zap.Int64("user_id", user.ID))
	return user, nil
}

// DeleteUser deletes a user
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID int64) error {
	err := s.sessions.WriteSession(ctx, func(ctx context.Context, db bun.IDB) error {
		return s.store.DeleteUser(ctx, db, userID)
	})
	if err != nil {
		return sessionError("delete", err)
	}

	s.logger.Info("User deleted", zap.Int64("user_id", userID))
	return nil
}

// sessionError keeps errors raised by the store as they are and wraps anything
// else (acquire, commit, rollback failures) as a storage error
func sessionError(operation string, err error) error {
	var (
		userErr    *UserError
		storageErr *StorageError
	)
	if errors.As(err, &userErr) || errors.As(err, &storageErr) {
		return err
	}
	return NewStorageTransactionError(operation, usersResource, err)
}
