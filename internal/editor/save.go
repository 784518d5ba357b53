package editor

import (
	"context"
	"fmt"

	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// OutcomeKind tells which call of a save an Outcome belongs to.
type OutcomeKind string

const (
	OutcomeUpdate OutcomeKind = "update"
	OutcomeAdd    OutcomeKind = "add"
	OutcomeRemove OutcomeKind = "remove"
)

// Outcome is the result of one call issued by Save.
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	GroupID   int         `json:"groupId,omitempty"`
	GroupName string      `json:"groupName,omitempty"`
	Error     string      `json:"error,omitempty"`
	Err       error       `json:"-"`
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Message describes a failed call, or returns "" on success.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	switch o.Kind {
	case OutcomeAdd:
		return fmt.Sprintf("Error adding user to group %s: %s", o.GroupName, o.Err)
	case OutcomeRemove:
		return fmt.Sprintf("Error removing user from group %s: %s", o.GroupName, o.Err)
	}
	return fmt.Sprintf("Error updating user details: %s", o.Err)
}

// SaveReport collects the outcome of every call of a save, in issue order:
// the field update first, then each addition, then each removal.
type SaveReport struct {
	UserID   string    `json:"userId"`
	Outcomes []Outcome `json:"outcomes"`
}

// OK reports whether every call succeeded.
func (r SaveReport) OK() bool {
	for _, o := range r.Outcomes {
		if !o.OK() {
			return false
		}
	}
	return true
}

// Failures returns the failed outcomes in issue order.
func (r SaveReport) Failures() []Outcome {
	var failures []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failures = append(failures, o)
		}
	}
	return failures
}

// LastError returns the message of the last failure in issue order, or "".
func (r SaveReport) LastError() string {
	failures := r.Failures()
	if len(failures) == 0 {
		return ""
	}
	return failures[len(failures)-1].Message()
}

// Save writes the buffer back: one field update plus one membership call per
// added and removed group. The calls run concurrently and independently; a
// failing call neither cancels nor rolls back the others. The calls are
// detached from ctx cancellation so leaving mid-save does not abort them.
func (e *UserEditor) Save(ctx context.Context) (SaveReport, error) {
	if e.edit == nil || e.state != StateEditing {
		return SaveReport{}, ErrNotEditing
	}

	logger := zerolog.Ctx(ctx).With().Str("user_id", e.userID).Logger()
	e.state = StateSaving
	defer func() { e.state = StateEditing }()

	edit := cloneUser(*e.edit)
	diff := e.Diff()
	detached := context.WithoutCancel(ctx)

	type call struct {
		outcome Outcome
		run     func(context.Context) error
	}

	calls := []call{{
		outcome: Outcome{Kind: OutcomeUpdate},
		run: func(ctx context.Context) error {
			return e.catalog.UpdateUser(ctx, models.UpdateUserInput{
				ID:          edit.ID,
				Email:       edit.Email,
				DisplayName: edit.DisplayName,
				FirstName:   edit.FirstName,
				LastName:    edit.LastName,
			})
		},
	}}
	for _, g := range diff.Added {
		groupID := g.ID
		calls = append(calls, call{
			outcome: Outcome{Kind: OutcomeAdd, GroupID: g.ID, GroupName: g.DisplayName},
			run: func(ctx context.Context) error {
				return e.catalog.AddUserToGroup(ctx, edit.ID, groupID)
			},
		})
	}
	for _, g := range diff.Removed {
		groupID := g.ID
		calls = append(calls, call{
			outcome: Outcome{Kind: OutcomeRemove, GroupID: g.ID, GroupName: g.DisplayName},
			run: func(ctx context.Context) error {
				return e.catalog.RemoveUserFromGroup(ctx, edit.ID, groupID)
			},
		})
	}

	outcomes := make([]Outcome, len(calls))
	var g errgroup.Group
	for i, c := range calls {
		g.Go(func() error {
			outcome := c.outcome
			if err := c.run(detached); err != nil {
				outcome.Err = err
				outcome.Error = err.Error()
			}
			outcomes[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	report := SaveReport{UserID: edit.ID, Outcomes: outcomes}
	for _, failure := range report.Failures() {
		logger.Error().Err(failure.Err).
			Str("kind", string(failure.Kind)).
			Int("group_id", failure.GroupID).
			Msg("save call failed")
	}

	if report.OK() {
		e.banner = ""
		logger.Info().Int("calls", len(outcomes)).Msg("user saved")
	} else {
		e.banner = report.LastError()
	}
	return report, nil
}
