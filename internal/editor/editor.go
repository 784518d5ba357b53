// Package editor implements the user detail view: a locally edited copy of a
// user reconciled with the server on save.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrReadOnlyField = errors.New("field is read-only")
	ErrUnknownField  = errors.New("unknown field")
	ErrNotEditing    = errors.New("user is not loaded for editing")
	ErrUnknownGroup  = errors.New("unknown group")
)

// State is the lifecycle state of a UserEditor.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateEditing State = "editing"
	StateSaving  State = "saving"
)

// Catalog is the subset of catalog operations the editor issues.
type Catalog interface {
	GetUserDetails(ctx context.Context, id string) (*catalog.UserDetails, error)
	GetGroupList(ctx context.Context) ([]models.Group, error)
	UpdateUser(ctx context.Context, input models.UpdateUserInput) error
	AddUserToGroup(ctx context.Context, userID string, groupID int) error
	RemoveUserFromGroup(ctx context.Context, userID string, groupID int) error
}

// UserEditor holds the server snapshot of one user, the group catalog and
// the local edit buffer. The buffer is seeded from the first successful
// load only; later refreshes update the snapshot but never the buffer.
type UserEditor struct {
	catalog Catalog
	userID  string

	state  State
	err    error
	banner string

	initial  *models.User
	snapshot *models.User
	schema   models.Schema
	groups   []models.Group
	edit     *models.User
}

// New returns an editor for the user with the given id, in the loading state.
func New(c Catalog, userID string) *UserEditor {
	return &UserEditor{catalog: c, userID: userID, state: StateLoading}
}

// Load fetches the user and the group catalog concurrently. If either fails
// the editor enters the error state with that failure.
func (e *UserEditor) Load(ctx context.Context) error {
	if e.edit == nil {
		e.state = StateLoading
	}

	details, groups, err := e.fetch(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user_id", e.userID).Msg("failed to load user")
		e.state = StateError
		e.err = err
		return err
	}

	e.apply(details, groups)
	e.err = nil
	e.state = StateEditing
	return nil
}

// Refresh refetches the user and the group catalog. The edit buffer is kept.
// A failure is shown in the banner and leaves the editor usable.
func (e *UserEditor) Refresh(ctx context.Context) error {
	if e.edit == nil {
		return e.Load(ctx)
	}

	details, groups, err := e.fetch(ctx)
	if err != nil {
		e.banner = err.Error()
		return err
	}
	e.apply(details, groups)
	return nil
}

func (e *UserEditor) fetch(ctx context.Context) (*catalog.UserDetails, []models.Group, error) {
	var details *catalog.UserDetails
	var groups []models.Group

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = e.catalog.GetUserDetails(gctx, e.userID)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = e.catalog.GetGroupList(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return details, groups, nil
}

func (e *UserEditor) apply(details *catalog.UserDetails, groups []models.Group) {
	user := details.User
	e.snapshot = &user
	e.schema = details.Schema
	e.groups = groups

	if e.edit == nil {
		initial := cloneUser(user)
		edit := cloneUser(user)
		e.initial = &initial
		e.edit = &edit
	}
}

// State returns the current state.
func (e *UserEditor) State() State {
	return e.state
}

// Err returns the load failure while in the error state.
func (e *UserEditor) Err() error {
	return e.err
}

// Banner returns the message of the last failure shown to the user.
func (e *UserEditor) Banner() string {
	return e.banner
}

// ClearError dismisses the banner.
func (e *UserEditor) ClearError() {
	e.banner = ""
}

// Editable returns a copy of the edit buffer.
func (e *UserEditor) Editable() (models.User, error) {
	if e.edit == nil {
		return models.User{}, ErrNotEditing
	}
	return cloneUser(*e.edit), nil
}

// Snapshot returns the most recently fetched server copy of the user.
func (e *UserEditor) Snapshot() (models.User, error) {
	if e.snapshot == nil {
		return models.User{}, ErrNotEditing
	}
	return cloneUser(*e.snapshot), nil
}

// Schema returns the user attribute schema fetched with the user.
func (e *UserEditor) Schema() models.Schema {
	return e.schema
}

// AllGroups returns the group catalog.
func (e *UserEditor) AllGroups() []models.Group {
	return e.groups
}

// AvailableGroups returns the groups the edited user is not a member of, in
// catalog order.
func (e *UserEditor) AvailableGroups() []models.GroupRef {
	var member []models.GroupRef
	if e.edit != nil {
		member = e.edit.Groups
	}
	return AvailableGroups(e.groups, member)
}

// AvailableGroups returns all minus the groups listed in member.
func AvailableGroups(all []models.Group, member []models.GroupRef) []models.GroupRef {
	in := make(map[int]bool, len(member))
	for _, g := range member {
		in[g.ID] = true
	}

	available := make([]models.GroupRef, 0, len(all))
	for _, g := range all {
		if !in[g.ID] {
			available = append(available, g.Ref())
		}
	}
	return available
}

// AddGroup adds g to the local membership. Adding a group twice is a no-op.
func (e *UserEditor) AddGroup(g models.GroupRef) error {
	if err := e.editable(); err != nil {
		return err
	}
	for _, existing := range e.edit.Groups {
		if existing.ID == g.ID {
			return nil
		}
	}
	e.edit.Groups = append(e.edit.Groups, g)
	return nil
}

// RemoveGroup removes the group with the given id from the local membership.
func (e *UserEditor) RemoveGroup(id int) error {
	if err := e.editable(); err != nil {
		return err
	}
	groups := make([]models.GroupRef, 0, len(e.edit.Groups))
	for _, g := range e.edit.Groups {
		if g.ID != id {
			groups = append(groups, g)
		}
	}
	e.edit.Groups = groups
	return nil
}

// SetGroups makes ids the complete local membership. Groups the user does
// not belong to yet must exist in the group catalog; nothing changes if one
// does not.
func (e *UserEditor) SetGroups(ids []int) error {
	if err := e.editable(); err != nil {
		return err
	}

	current := make(map[int]models.GroupRef, len(e.edit.Groups))
	for _, g := range e.edit.Groups {
		current[g.ID] = g
	}
	known := make(map[int]models.GroupRef, len(e.groups))
	for _, g := range e.groups {
		known[g.ID] = g.Ref()
	}

	groups := make([]models.GroupRef, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if g, ok := current[id]; ok {
			groups = append(groups, g)
			continue
		}
		g, ok := known[id]
		if !ok {
			return fmt.Errorf("%d: %w", id, ErrUnknownGroup)
		}
		groups = append(groups, g)
	}
	e.edit.Groups = groups
	return nil
}

// SetField sets one editable scalar field of the buffer. Identifiers,
// timestamps and the avatar cannot be edited here.
func (e *UserEditor) SetField(field, value string) error {
	if err := e.editable(); err != nil {
		return err
	}
	switch field {
	case "firstName":
		e.edit.FirstName = value
	case "lastName":
		e.edit.LastName = value
	case "displayName":
		e.edit.DisplayName = value
	case "email":
		e.edit.Email = value
	case "id", "creationDate", "uuid", "avatar":
		return fmt.Errorf("%s: %w", field, ErrReadOnlyField)
	default:
		return fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	return nil
}

// Diff returns the membership changes of the buffer against the membership
// loaded first.
func (e *UserEditor) Diff() MembershipDiff {
	if e.edit == nil {
		return MembershipDiff{}
	}
	return Diff(e.initial.Groups, e.edit.Groups)
}

// Avatar returns the avatar data URL, or the initials of the edited user when
// there is no avatar.
func (e *UserEditor) Avatar() string {
	if e.edit == nil {
		return "U"
	}
	if url := models.ImageURL(e.edit.Avatar); url != "" {
		return url
	}
	if initials := models.Initials(e.edit.FirstName, e.edit.LastName); initials != "" {
		return initials
	}
	return "U"
}

func (e *UserEditor) editable() error {
	if e.edit == nil || (e.state != StateEditing && e.state != StateSaving) {
		return ErrNotEditing
	}
	return nil
}

func cloneUser(u models.User) models.User {
	u.Groups = append([]models.GroupRef(nil), u.Groups...)
	u.Attributes = append([]models.Attribute(nil), u.Attributes...)
	return u
}
