package users

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strconv"
)

// DefaultListLimit is used when a list request does not specify a limit
const DefaultListLimit = 10

// DeletedDetail is the acknowledgment returned after a successful delete
const DeletedDetail = "User deleted"

// User represents a user record
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserPayload is the JSON body accepted by create and update.
// Name is a pointer so a missing field can be told apart from an empty one.
type UserPayload struct {
	Name *string `json:"name"`
}

// CreateUserRequest represents a validated request to create a user
type CreateUserRequest struct {
	Name string `json:"name"`
}

// UpdateUserRequest represents a validated request to replace a user's name
type UpdateUserRequest struct {
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}

// ListUsersRequest represents a validated offset/limit range request.
// Negative values are passed through to the datastore untouched.
type ListUsersRequest struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// DeleteUserResponse acknowledges a delete
type DeleteUserResponse struct {
	Detail string `json:"detail"`
}

// NewCreateUserRequest validates a decoded payload into a create request
func NewCreateUserRequest(p *UserPayload) (*CreateUserRequest, error) {
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	return &CreateUserRequest{Name: name}, nil
}

// NewUpdateUserRequest validates a decoded payload into an update request
func NewUpdateUserRequest(userID int64, p *UserPayload) (*UpdateUserRequest, error) {
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	return &UpdateUserRequest{UserID: userID, Name: name}, nil
}

func (p *UserPayload) name() (string, error) {
	if p == nil || p.Name == nil {
		return "", NewValidationError("field required", FieldErrorTypeMissing, "body", "name")
	}
	return *p.Name, nil
}

// ParseUserID validates a user id taken from the request path
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewValidationError("value is not a valid integer", FieldErrorTypeInteger, "path", "user_id")
	}
	return id, nil
}

// NewListUsersRequest validates the skip and limit query parameters.
// Absent parameters take their defaults; present ones must be integers.
func NewListUsersRequest(query url.Values) (*ListUsersRequest, error) {
	req := &ListUsersRequest{Skip: 0, Limit: DefaultListLimit}
	verr := &ValidationError{}

	if query.Has("skip") {
		skip, err := strconv.Atoi(query.Get("skip"))
		if err != nil {
			verr.Add("value is not a valid integer", FieldErrorTypeInteger, "query", "skip")
		}
		req.Skip = skip
	}

	if query.Has("limit") {
		limit, err := strconv.Atoi(query.Get("limit"))
		if err != nil {
			verr.Add("value is not a valid integer", FieldErrorTypeInteger, "query", "limit")
		}
		req.Limit = limit
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return req, nil
}

// BodyDecodeError converts a JSON decoding failure of a UserPayload into a
// validation error that points at the offending part of the body
func BodyDecodeError(err error) *ValidationError {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.Is(err, io.EOF):
		return NewValidationError("field required", FieldErrorTypeMissing, "body")
	case errors.As(err, &typeErr) && typeErr.Field == "name":
		return NewValidationError("str type expected", FieldErrorTypeString, "body", "name")
	case errors.As(err, &typeErr):
		return NewValidationError("value is not a valid dict", FieldErrorTypeObject, "body")
	case errors.As(err, &syntaxErr):
		return NewValidationError("Expecting value", FieldErrorTypeJSON, "body", strconv.FormatInt(syntaxErr.Offset, 10))
	default:
		return NewValidationError(err.Error(), FieldErrorTypeJSON, "body")
	}
}
