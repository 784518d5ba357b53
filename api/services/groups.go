package services

import (
	"net/http"
	"path"
	"strconv"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/creation"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ListGroupsService returns every group.
func ListGroupsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	groups, err := svc.Catalog.GetGroupList(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to list groups")
		HandleErrResponse(w, err)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, groups)
}

// GetGroupService returns a group with its members and attributes.
func GetGroupService(svc *Service, w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDVar(mux.Vars(r)["group-id"])
	if err != nil {
		HandleErrResponse(w, err)
		return
	}
	logger := zerolog.Ctx(r.Context()).With().Int("group_id", groupID).Logger()

	group, err := svc.Catalog.GetGroupDetails(r.Context(), groupID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get group")
		HandleErrResponse(w, err)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, group)
}

// GetGroupMembersService returns the id and display name of each member of a
// group.
func GetGroupMembersService(svc *Service, w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDVar(mux.Vars(r)["group-id"])
	if err != nil {
		HandleErrResponse(w, err)
		return
	}

	members, err := svc.Catalog.ListUserNames(r.Context(), &models.RequestFilter{MemberOfID: &groupID})
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("group_id", groupID).Msg("failed to list group members")
		HandleErrResponse(w, err)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, members)
}

// CreateGroupService creates a group from the group fields of the creation
// form.
func CreateGroupService(svc *Service, w http.ResponseWriter, r *http.Request) {
	var fields creation.GroupFields
	if err := decodeBody(r, &fields); err != nil {
		HandleErrResponse(w, err)
		return
	}

	form := creation.Form{Mode: creation.ModeGroup, Group: fields}
	result, err := form.Submit(r.Context(), svc.Catalog)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("group_name", fields.GroupName).Msg("failed to create group")
		HandleErrResponse(w, err)
		return
	}

	groupID := strconv.Itoa(result.GroupID)
	events.Notify(r.Context(), svc.Notifier, events.NewEvent(events.ActionCreate, events.EntityGroup, groupID))

	location := path.Join(svc.basePath(), "groups", groupID)
	HandleSuccessResponse(w, http.StatusCreated, result, location)
}

// DeleteGroupService deletes a group.
func DeleteGroupService(svc *Service, w http.ResponseWriter, r *http.Request) {
	groupID, err := groupIDVar(mux.Vars(r)["group-id"])
	if err != nil {
		HandleErrResponse(w, err)
		return
	}
	logger := zerolog.Ctx(r.Context()).With().Int("group_id", groupID).Logger()

	if err := svc.Catalog.DeleteGroup(r.Context(), groupID); err != nil {
		logger.Error().Err(err).Msg("failed to delete group")
		HandleErrResponse(w, err)
		return
	}

	logger.Info().Msg("group deleted")
	events.Notify(r.Context(), svc.Notifier, events.NewEvent(events.ActionDelete, events.EntityGroup, strconv.Itoa(groupID)))

	WriteResponse(w, http.StatusNoContent, nil)
}
