package users

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/artem-evko/docker-Linux/internal/database/databasetest"
)

func newTestDB(t *testing.T) bun.IDB {
	t.Helper()
	return databasetest.New(t, Models()...).DB()
}

func TestStoreCreateAssignsIDs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewUserStore()

	first, err := store.CreateUser(ctx, db, &CreateUserRequest{Name: "Alice"})
	require.NoError(t, err)
	second, err := store.CreateUser(ctx, db, &CreateUserRequest{Name: "Alice"})
	require.NoError(t, err, "duplicate names are allowed")

	assert.Equal(t, "Alice", first.Name)
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestStoreListRange(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewUserStore()

	var created []*User
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		user, err := store.CreateUser(ctx, db, &CreateUserRequest{Name: name})
		require.NoError(t, err)
		created = append(created, user)
	}

	t.Run("skip and limit", func(t *testing.T) {
		users, err := store.ListUsers(ctx, db, &ListUsersRequest{Skip: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, created[1:3], users)
	})

	t.Run("limit larger than table", func(t *testing.T) {
		users, err := store.ListUsers(ctx, db, &ListUsersRequest{Skip: 0, Limit: 100})
		require.NoError(t, err)
		assert.Equal(t, created, users)
	})

	t.Run("skip past the end", func(t *testing.T) {
		users, err := store.ListUsers(ctx, db, &ListUsersRequest{Skip: 10, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.NotNil(t, users)
	})

	t.Run("negative limit with skip", func(t *testing.T) {
		users, err := store.ListUsers(ctx, db, &ListUsersRequest{Skip: 1, Limit: -1})
		require.NoError(t, err)
		assert.Equal(t, created[1:], users)
	})

	t.Run("negative skip", func(t *testing.T) {
		users, err := store.ListUsers(ctx, db, &ListUsersRequest{Skip: -1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, created[:2], users)
	})

	t.Run("negative skip and limit", func(t *testing.T) {
		users, err := store.ListUsers(ctx, db, &ListUsersRequest{Skip: -3, Limit: -3})
		require.NoError(t, err)
		assert.Equal(t, created, users)
	})

	t.Run("skip at the int32 bound", func(t *testing.T) {
		users, err := store.ListUsers(ctx, db, &ListUsersRequest{Skip: math.MaxInt32, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("zero limit", func(t *testing.T) {
		users, err := store.ListUsers(ctx, db, &ListUsersRequest{Skip: 0, Limit: 0})
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.NotNil(t, users)
	})
}

func TestStoreGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewUserStore()

	user, err := store.CreateUser(ctx, db, &CreateUserRequest{Name: "Alice"})
	require.NoError(t, err)

	got, err := store.GetUser(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	updated, err := store.UpdateUser(ctx, db, &UpdateUserRequest{UserID: user.ID, Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, &User{ID: user.ID, Name: "Bob"}, updated)

	got, err = store.GetUser(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	require.NoError(t, store.DeleteUser(ctx, db, user.ID))

	_, err = store.GetUser(ctx, db, user.ID)
	assert.True(t, IsNotFound(err))
}

func TestStoreMissingUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewUserStore()
	const missing = int64(999999)

	_, err := store.GetUser(ctx, db, missing)
	assert.True(t, IsNotFound(err))

	_, err = store.UpdateUser(ctx, db, &UpdateUserRequest{UserID: missing, Name: "x"})
	assert.True(t, IsNotFound(err))

	err = store.DeleteUser(ctx, db, missing)
	assert.True(t, IsNotFound(err))
}
