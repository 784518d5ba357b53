package editor

import (
	"context"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
)

// Events returns one change event per successful call of the save.
func (r SaveReport) Events() []events.DirectoryEvent {
	var published []events.DirectoryEvent
	for _, outcome := range r.Outcomes {
		if outcome.OK() {
			published = append(published, outcomeEvent(r.UserID, outcome))
		}
	}
	return published
}

func outcomeEvent(userID string, outcome Outcome) events.DirectoryEvent {
	var event events.DirectoryEvent
	switch outcome.Kind {
	case OutcomeAdd:
		event = events.NewEvent(events.ActionAddMember, events.EntityUser, userID)
	case OutcomeRemove:
		event = events.NewEvent(events.ActionRemoveMember, events.EntityUser, userID)
	default:
		event = events.NewEvent(events.ActionUpdate, events.EntityUser, userID)
	}
	event.GroupID = outcome.GroupID
	return event
}

// NotifySaved publishes the events of report. Like the save calls it follows,
// publication is detached from ctx cancellation: the changes were made, so
// their events are sent even when the caller has gone away.
func NotifySaved(ctx context.Context, notifier events.Notifier, report SaveReport) {
	detached := context.WithoutCancel(ctx)
	for _, event := range report.Events() {
		events.Notify(detached, notifier, event)
	}
}
