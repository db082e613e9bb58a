package users

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/artem-evko/docker-Linux/internal/database"
)

// UserStore defines single-statement user storage operations. Every method runs
// on the session it is given and never commits on its own.
type UserStore interface {
	CreateUser(ctx context.Context, db bun.IDB, req *CreateUserRequest) (*User, error)
	ListUsers(ctx context.Context, db bun.IDB, req *ListUsersRequest) ([]*User, error)
	GetUser(ctx context.Context, db bun.IDB, userID int64) (*User, error)
	UpdateUser(ctx context.Context, db bun.IDB, req *UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, db bun.IDB, userID int64) error
}

// UserService defines the interface for user service operations
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error)
	ListUsers(ctx context.Context, req *ListUsersRequest) ([]*User, error)
	GetUser(ctx context.Context, userID int64) (*User, error)
	UpdateUser(ctx context.Context, req *UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// SessionProvider hands out scoped datastore sessions. *database.Gateway implements it.
type SessionProvider interface {
	ReadSession(ctx context.Context, fn database.SessionFunc) error
	WriteSession(ctx context.Context, fn database.SessionFunc) error
}
