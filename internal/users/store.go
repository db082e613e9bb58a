package users

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/uptrace/bun"
)

const usersResource = "users"

// UserSchema represents the users table schema
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

// Models lists the tables owned by this package, for schema initialization
func Models() []interface{} {
	return []interface{}{
		(*UserSchema)(nil),
	}
}

// UserStoreImpl implements the UserStore interface
type UserStoreImpl struct{}

// NewUserStore creates a new user store instance
func NewUserStore() *UserStoreImpl {
	return &UserStoreImpl{}
}

// CreateUser inserts a new row and returns it with the id assigned by the store
func (s *UserStoreImpl) CreateUser(ctx context.Context, db bun.IDB, req *CreateUserRequest) (*User, error) {
	schema := &UserSchema{Name: req.Name}

	_, err := db.NewInsert().
		Model(schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, NewStorageQueryError("create", usersResource, err)
	}

	return UserSchemaToUser(schema), nil
}

// ListUsers returns at most req.Limit users in primary key order, skipping the first req.Skip
func (s *UserStoreImpl) ListUsers(ctx context.Context, db bun.IDB, req *ListUsersRequest) ([]*User, error) {
	// bun omits LIMIT 0 entirely, which would mean "no limit"
	if req.Limit == 0 {
		return []*User{}, nil
	}

	offset, limit := listBounds(req)

	var rows []UserSchema
	err := db.NewSelect().
		Model(&rows).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, NewStorageQueryError("list", usersResource, err)
	}

	users := make([]*User, 0, len(rows))
	for i := range rows {
		users = append(users, UserSchemaToUser(&rows[i]))
	}
	return users, nil
}

// listBounds maps a list request onto the range bun can express. bun keeps
// limit and offset as int32 and leaves out non-positive values, and sqlite
// cannot take an OFFSET without a LIMIT. A negative limit means no limit and
// a negative skip means zero, as in sqlite; both hold on every backend.
func listBounds(req *ListUsersRequest) (offset, limit int) {
	offset = min(max(req.Skip, 0), math.MaxInt32)
	limit = req.Limit
	if limit < 0 || limit > math.MaxInt32 {
		limit = math.MaxInt32
	}
	return offset, limit
}

// GetUser retrieves a user by id
func (s *UserStoreImpl) GetUser(ctx context.Context, db bun.IDB, userID int64) (*User, error) {
	schema, err := s.getUserSchema(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	return UserSchemaToUser(schema), nil
}

// UpdateUser replaces the name of an existing user
func (s *UserStoreImpl) UpdateUser(ctx context.Context, db bun.IDB, req *UpdateUserRequest) (*User, error) {
	schema, err := s.getUserSchema(ctx, db, req.UserID)
	if err != nil {
		return nil, err
	}

	schema.Name = req.Name
	_, err = db.NewUpdate().
		Model(schema).
		Column("name").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, NewStorageQueryError("update", usersResource, err)
	}

	return UserSchemaToUser(schema), nil
}

// DeleteUser removes a user row (hard delete)
func (s *UserStoreImpl) DeleteUser(ctx context.Context, db bun.IDB, userID int64) error {
	result, err := db.NewDelete().
		Model((*UserSchema)(nil)).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return NewStorageQueryError("delete", usersResource, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return NewStorageQueryError("delete", usersResource, err)
	}
	if rowsAffected == 0 {
		return NewUserNotFoundError(userID)
	}
	return nil
}

func (s *UserStoreImpl) getUserSchema(ctx context.Context, db bun.IDB, userID int64) (*UserSchema, error) {
	schema := new(UserSchema)
	err := db.NewSelect().
		Model(schema).
		Where("id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(userID)
		}
		return nil, NewStorageQueryError("get", usersResource, err)
	}
	return schema, nil
}

// Helper conversion functions
func UserSchemaToUser(schema *UserSchema) *User {
	return &User{
		ID:   schema.ID,
		Name: schema.Name,
	}
}
