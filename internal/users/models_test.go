package users

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewCreateUserRequest(t *testing.T) {
	req, err := NewCreateUserRequest(&UserPayload{Name: strPtr("Alice")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", req.Name)

	_, err = NewCreateUserRequest(&UserPayload{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{{
		Location: []string{"body", "name"},
		Message:  "field required",
		Type:     FieldErrorTypeMissing,
	}}, verr.Fields)
}

func TestNewUpdateUserRequest(t *testing.T) {
	req, err := NewUpdateUserRequest(7, &UserPayload{Name: strPtr("")})
	require.NoError(t, err, "an empty name is still a present name")
	assert.Equal(t, int64(7), req.UserID)
	assert.Equal(t, "", req.Name)

	_, err = NewUpdateUserRequest(7, nil)
	assert.True(t, IsValidationError(err))
}

func TestParseUserID(t *testing.T) {
	id, err := ParseUserID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "", "1.5", "99999999999999999999"} {
		_, err := ParseUserID(raw)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, raw)
		assert.Equal(t, []string{"path", "user_id"}, verr.Fields[0].Location)
	}
}

func TestNewListUsersRequest(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req, err := NewListUsersRequest(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, &ListUsersRequest{Skip: 0, Limit: DefaultListLimit}, req)
	})

	t.Run("explicit values", func(t *testing.T) {
		req, err := NewListUsersRequest(url.Values{"skip": {"5"}, "limit": {"2"}})
		require.NoError(t, err)
		assert.Equal(t, &ListUsersRequest{Skip: 5, Limit: 2}, req)
	})

	t.Run("negative values pass through", func(t *testing.T) {
		req, err := NewListUsersRequest(url.Values{"skip": {"-1"}, "limit": {"-3"}})
		require.NoError(t, err)
		assert.Equal(t, &ListUsersRequest{Skip: -1, Limit: -3}, req)
	})

	t.Run("every bad field is reported", func(t *testing.T) {
		_, err := NewListUsersRequest(url.Values{"skip": {"x"}, "limit": {""}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 2)
		assert.Equal(t, []string{"query", "skip"}, verr.Fields[0].Location)
		assert.Equal(t, []string{"query", "limit"}, verr.Fields[1].Location)
	})
}

func TestBodyDecodeError(t *testing.T) {
	decode := func(body string) error {
		var p UserPayload
		return json.NewDecoder(strings.NewReader(body)).Decode(&p)
	}

	tests := []struct {
		name     string
		body     string
		location []string
		errType  string
	}{
		{"empty body", "", []string{"body"}, FieldErrorTypeMissing},
		{"name is a number", `{"name": 5}`, []string{"body", "name"}, FieldErrorTypeString},
		{"body is an array", `["Alice"]`, []string{"body"}, FieldErrorTypeObject},
		{"malformed json", `{"name": }`, nil, FieldErrorTypeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decode(tt.body)
			require.Error(t, err)

			verr := BodyDecodeError(err)
			require.Len(t, verr.Fields, 1)
			if tt.location != nil {
				assert.Equal(t, tt.location, verr.Fields[0].Location)
			} else {
				assert.Equal(t, "body", verr.Fields[0].Location[0])
			}
			assert.Equal(t, tt.errType, verr.Fields[0].Type)
		})
	}
}

func TestErrorClassification(t *testing.T) {
	notFound := NewUserNotFoundError(3)
	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(NewStorageTransactionError("get", "users", notFound)))
	assert.False(t, IsNotFound(NewValidationError("bad", FieldErrorTypeMissing, "body")))
	assert.Contains(t, notFound.Error(), "user 3")

	var empty *ValidationError
	assert.NoError(t, empty.OrNil())
	assert.NoError(t, (&ValidationError{}).OrNil())
}
