package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageURL(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,AAAA", ImageURL("AAAA"))
	assert.Equal(t, "", ImageURL(""))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AS", Initials("alice", "smith"))
	assert.Equal(t, "É", Initials("élodie", ""))
	assert.Equal(t, "", Initials("", ""))
}

func TestGroupIDs(t *testing.T) {
	user := User{Groups: []GroupRef{{ID: 3}, {ID: 1}}}
	assert.Equal(t, []int{3, 1}, user.GroupIDs())
}
