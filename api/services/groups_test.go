package services

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/creation"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGroupsService(t *testing.T) {
	svc, server, _ := newTestService(t)
	server.Handle("GetGroupList", groupListBody)

	w := serve(svc, ListGroupsService, http.MethodGet, "/groups", "/groups", "")
	require.Equal(t, http.StatusOK, w.Code)

	var groups []models.Group
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &groups))
	require.Len(t, groups, 3)
	assert.Equal(t, "operators", groups[2].DisplayName)
}

func TestGetGroupService(t *testing.T) {
	svc, server, _ := newTestService(t)
	server.Handle("GetGroupDetails", `{"data": {"group": {"__typename": "Group", "id": 2, "displayName": "developers",
		"creationDate": "2024-01-02T00:00:00+00:00", "uuid": "0f0d8c1e-9a55-4f6b-8d3e-1e2f3a4b5c6d",
		"users": [{"__typename": "User", "id": "alice", "displayName": "Alice Smith"}], "attributes": []}}}`)

	w := serve(svc, GetGroupService, http.MethodGet, "/groups/{group-id}", "/groups/2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var group models.Group
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &group))
	assert.Equal(t, "developers", group.DisplayName)
	assert.Equal(t, []models.UserRef{{ID: "alice", DisplayName: "Alice Smith"}}, group.Users)

	// numbers in stub variables decode as float64
	assert.Equal(t, float64(2), server.CallsTo("GetGroupDetails")[0].Variables["id"])
}

func TestGetGroupServiceInvalidID(t *testing.T) {
	svc, server, _ := newTestService(t)

	w := serve(svc, GetGroupService, http.MethodGet, "/groups/{group-id}", "/groups/admins", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, server.Calls())
}

func TestGetGroupMembersService(t *testing.T) {
	svc, server, _ := newTestService(t)
	server.Handle("ListUserNames", `{"data": {"users": [{"__typename": "User", "id": "alice", "displayName": "Alice Smith"}]}}`)

	w := serve(svc, GetGroupMembersService, http.MethodGet, "/groups/{group-id}/members", "/groups/2/members", "")
	require.Equal(t, http.StatusOK, w.Code)

	var members []models.UserRef
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &members))
	assert.Equal(t, []models.UserRef{{ID: "alice", DisplayName: "Alice Smith"}}, members)
	assert.Equal(t,
		map[string]any{"filters": map[string]any{"memberOfId": float64(2)}},
		server.CallsTo("ListUserNames")[0].Variables)
}

func TestCreateGroupService(t *testing.T) {
	svc, server, notifier := newTestService(t)
	server.Handle("CreateGroup", `{"data": {"createGroup": {"__typename": "Group", "id": 7, "displayName": "auditors"}}}`)

	w := serve(svc, CreateGroupService, http.MethodPost, "/groups", "/groups", `{"groupName": "auditors"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/admin/groups/7", w.Header().Get("Location"))

	var result creation.Result
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.Equal(t, 7, result.GroupID)

	published := publishedEvents(notifier)
	require.Len(t, published, 1)
	assert.Equal(t, events.EntityGroup, published[0].Entity)
	assert.Equal(t, "7", published[0].EntityID)
}

func TestCreateGroupServiceRequiresName(t *testing.T) {
	svc, server, _ := newTestService(t)

	w := serve(svc, CreateGroupService, http.MethodPost, "/groups", "/groups", `{"groupName": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"groupName is required"}, decodeEnvelope(t, w).Violations)
	assert.Empty(t, server.Calls())
}

func TestDeleteGroupServiceRejected(t *testing.T) {
	svc, server, notifier := newTestService(t)
	server.Handle("DeleteGroupQuery", `{"data": {"deleteGroup": {"ok": false}}}`)

	w := serve(svc, DeleteGroupService, http.MethodDelete, "/groups/{group-id}", "/groups/3", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "DeleteGroupQuery: server reported failure", decodeEnvelope(t, w).ErrorDetails)
	assert.Empty(t, publishedEvents(notifier))
}

func TestDeleteGroupService(t *testing.T) {
	svc, server, notifier := newTestService(t)
	server.Handle("DeleteGroupQuery", `{"data": {"deleteGroup": {"ok": true}}}`)

	w := serve(svc, DeleteGroupService, http.MethodDelete, "/groups/{group-id}", "/groups/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, float64(3), server.CallsTo("DeleteGroupQuery")[0].Variables["groupId"])
	assert.Len(t, publishedEvents(notifier), 1)
}
