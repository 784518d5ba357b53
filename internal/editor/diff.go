package editor

import "github.com/EO-DataHub/eodhp-directory-admin/models"

// MembershipDiff is the set of group changes a save issues.
type MembershipDiff struct {
	Added   []models.GroupRef `json:"added"`
	Removed []models.GroupRef `json:"removed"`
}

// Empty reports whether the diff changes nothing.
func (d MembershipDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff returns added = current - initial, in current order, and
// removed = initial - current, in initial order.
func Diff(initial, current []models.GroupRef) MembershipDiff {
	initialIDs := make(map[int]bool, len(initial))
	for _, g := range initial {
		initialIDs[g.ID] = true
	}
	currentIDs := make(map[int]bool, len(current))
	for _, g := range current {
		currentIDs[g.ID] = true
	}

	diff := MembershipDiff{Added: []models.GroupRef{}, Removed: []models.GroupRef{}}
	for _, g := range current {
		if !initialIDs[g.ID] {
			diff.Added = append(diff.Added, g)
		}
	}
	for _, g := range initial {
		if !currentIDs[g.ID] {
			diff.Removed = append(diff.Removed, g)
		}
	}
	return diff
}
