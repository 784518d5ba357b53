package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/rs/zerolog"
)

// DateFormat is the layout used to display creation dates.
const DateFormat = "2006-01-02 15:04"

// State is the lifecycle state of a ListView.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

// UserLister fetches the full user list.
type UserLister interface {
	ListUsers(ctx context.Context, filter *models.RequestFilter) ([]models.User, error)
}

// searchKeys are the user fields the filter matches against.
var searchKeys = []func(models.User) string{
	func(u models.User) string { return u.DisplayName },
	func(u models.User) string { return u.Email },
	func(u models.User) string { return u.FirstName },
	func(u models.User) string { return u.LastName },
}

// ListView is the searchable user list. The user list is fetched once by
// Load; filtering happens locally and never calls the server.
type ListView struct {
	lister  UserLister
	matcher Matcher

	state State
	err   error
	users []models.User
	query string
}

// NewListView returns a view in the loading state.
func NewListView(lister UserLister, matcher Matcher) *ListView {
	return &ListView{lister: lister, matcher: matcher, state: StateLoading}
}

// Load fetches the user list. On failure the view enters the error state and
// keeps the raw server message.
func (v *ListView) Load(ctx context.Context) error {
	v.state = StateLoading
	v.err = nil

	users, err := v.lister.ListUsers(ctx, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to load user list")
		v.state = StateError
		v.err = err
		return err
	}

	v.users = users
	v.state = StateReady
	return nil
}

// Reload repeats Load. It is the only way out of the error state.
func (v *ListView) Reload(ctx context.Context) error {
	return v.Load(ctx)
}

// State returns the current state.
func (v *ListView) State() State {
	return v.state
}

// Err returns the load error while in the error state.
func (v *ListView) Err() error {
	return v.err
}

// Users returns the unfiltered list.
func (v *ListView) Users() []models.User {
	return v.users
}

// Query returns the current filter query.
func (v *ListView) Query() string {
	return v.query
}

// Filter sets the query and returns the matching users.
func (v *ListView) Filter(query string) []models.User {
	v.query = query
	return v.Results()
}

// Results returns the users matching the current query, best match first.
// An empty query returns the full list in its original order and a query
// matching nothing returns an empty list.
func (v *ListView) Results() []models.User {
	if v.state != StateReady {
		return nil
	}
	query := v.query
	if query == "" {
		return v.users
	}

	type scored struct {
		user  models.User
		score float64
	}
	var matches []scored
	for _, user := range v.users {
		if score, ok := v.bestScore(query, user); ok {
			matches = append(matches, scored{user: user, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score < matches[j].score
	})

	results := make([]models.User, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.user)
	}
	return results
}

func (v *ListView) bestScore(query string, user models.User) (float64, bool) {
	best, matched := 1.0, false
	for _, key := range searchKeys {
		score, ok := v.matcher.Score(query, key(user))
		if ok && score <= best {
			best, matched = score, true
		}
	}
	return best, matched
}

// Select returns the id of the user behind a row, used to open its detail
// view.
func (v *ListView) Select(row Row) string {
	return row.ID
}

// Row is a display row of the user table.
type Row struct {
	ID          string   `json:"id"`
	Avatar      string   `json:"avatar,omitempty"`
	Initials    string   `json:"initials"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Created     string   `json:"created"`
	Groups      []string `json:"groups"`
}

// Rows returns the display rows of the current results.
func (v *ListView) Rows() []Row {
	results := v.Results()
	rows := make([]Row, 0, len(results))
	for _, user := range results {
		rows = append(rows, NewRow(user))
	}
	return rows
}

// NewRow builds the display row of user.
func NewRow(user models.User) Row {
	groups := make([]string, 0, len(user.Groups))
	for _, g := range user.Groups {
		groups = append(groups, g.DisplayName)
	}

	var created string
	if !user.CreationDate.IsZero() {
		created = user.CreationDate.UTC().Format(DateFormat)
	}

	return Row{
		ID:          user.ID,
		Avatar:      models.ImageURL(user.Avatar),
		Initials:    models.Initials(user.FirstName, user.LastName),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Created:     created,
		Groups:      groups,
	}
}

// Columns lists the sortable columns of the user table.
var Columns = []string{"id", "email", "displayName", "firstName", "lastName", "created"}

// SortBy orders rows in place by column. Rows with equal values keep their
// relative order.
func SortBy(rows []Row, column string, descending bool) error {
	value, err := columnValue(column)
	if err != nil {
		return err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := strings.ToLower(value(rows[i])), strings.ToLower(value(rows[j]))
		if descending {
			return a > b
		}
		return a < b
	})
	return nil
}

func columnValue(column string) (func(Row) string, error) {
	switch column {
	case "id":
		return func(r Row) string { return r.ID }, nil
	case "email":
		return func(r Row) string { return r.Email }, nil
	case "displayName":
		return func(r Row) string { return r.DisplayName }, nil
	case "firstName":
		return func(r Row) string { return r.FirstName }, nil
	case "lastName":
		return func(r Row) string { return r.LastName }, nil
	case "created":
		return func(r Row) string { return r.Created }, nil
	}
	return nil, fmt.Errorf("unknown column %q", column)
}
