package editor

import (
	"testing"

	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/stretchr/testify/assert"
)

func refs(ids ...int) []models.GroupRef {
	groups := make([]models.GroupRef, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, models.GroupRef{ID: id})
	}
	return groups
}

func ids(groups []models.GroupRef) map[int]bool {
	set := make(map[int]bool, len(groups))
	for _, g := range groups {
		set[g.ID] = true
	}
	return set
}

func TestDiff(t *testing.T) {
	diff := Diff(refs(1, 2), refs(2, 3))

	assert.Equal(t, refs(3), diff.Added)
	assert.Equal(t, refs(1), diff.Removed)
	assert.False(t, diff.Empty())
	assert.True(t, Diff(refs(1), refs(1)).Empty())
}

func TestDiffProperties(t *testing.T) {
	cases := []struct {
		initial []int
		current []int
	}{
		{nil, nil},
		{[]int{1, 2, 3}, nil},
		{nil, []int{4, 5}},
		{[]int{1, 2}, []int{2, 3}},
		{[]int{5, 1, 9}, []int{9, 7, 5, 2}},
	}

	for _, tc := range cases {
		initial, current := refs(tc.initial...), refs(tc.current...)
		diff := Diff(initial, current)

		added, removed := ids(diff.Added), ids(diff.Removed)
		for id := range added {
			assert.False(t, removed[id], "group %d both added and removed", id)
		}

		// current = (initial - removed) + added
		rebuilt := map[int]bool{}
		for id := range ids(initial) {
			if !removed[id] {
				rebuilt[id] = true
			}
		}
		for id := range added {
			rebuilt[id] = true
		}
		assert.Equal(t, ids(current), rebuilt)
	}
}
