package models

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a directory group.
type Group struct {
	ID           int         `json:"id"`
	DisplayName  string      `json:"displayName"`
	CreationDate time.Time   `json:"creationDate"`
	UUID         uuid.UUID   `json:"uuid"`
	Attributes   []Attribute `json:"attributes,omitempty"`
	Users        []UserRef   `json:"users,omitempty"`
}

// GroupRef is the projection of a group embedded in a user's membership list.
type GroupRef struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
}

// Ref returns the membership projection of the group.
func (g Group) Ref() GroupRef {
	return GroupRef{ID: g.ID, DisplayName: g.DisplayName}
}
