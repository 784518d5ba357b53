package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a directory user as returned by the directory server.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Avatar       string      `json:"avatar,omitempty"`
	DisplayName  string      `json:"displayName"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	CreationDate time.Time   `json:"creationDate"`
	UUID         uuid.UUID   `json:"uuid"`
	Attributes   []Attribute `json:"attributes,omitempty"`
	Groups       []GroupRef  `json:"groups,omitempty"`
}

// UserRef is the lightweight projection of a user used for references and
// autocomplete options.
type UserRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// CreateUserInput is the payload of the createUser mutation.
type CreateUserInput struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Password    string `json:"password,omitempty"`
}

// UpdateUserInput is the payload of the updateUser mutation. Only the
// editable scalar fields are ever sent.
type UpdateUserInput struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

// EqualityConstraint matches a single user field against a value.
type EqualityConstraint struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// RequestFilter is the optional filter accepted by the users query.
type RequestFilter struct {
	Any        []RequestFilter     `json:"any,omitempty"`
	All        []RequestFilter     `json:"all,omitempty"`
	Not        *RequestFilter      `json:"not,omitempty"`
	Eq         *EqualityConstraint `json:"eq,omitempty"`
	MemberOf   string              `json:"memberOf,omitempty"`
	MemberOfID *int                `json:"memberOfId,omitempty"`
}

// GroupIDs returns the ids of the groups the user belongs to, in order.
func (u User) GroupIDs() []int {
	ids := make([]int, 0, len(u.Groups))
	for _, g := range u.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}
