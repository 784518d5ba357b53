package catalog

import (
	"context"
	"testing"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory/directorytest"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
)

func TestOperationsAreValidAgainstSchema(t *testing.T) {
	require.NotNil(t, Schema)

	names := map[string]bool{}
	for _, op := range Operations() {
		doc, errs := gqlparser.LoadQuery(Schema, op.Document)
		require.Empty(t, errs, op.Name)
		require.Len(t, doc.Operations, 1, op.Name)
		assert.Equal(t, op.Name, doc.Operations[0].Name)
		names[op.Name] = true
	}
	assert.Len(t, names, 16)
}

func TestGetUserDetails(t *testing.T) {
	server := directorytest.NewServer(t)
	server.Handle("GetUserDetails", `{"data": {
		"user": {"__typename": "User", "id": "alice", "email": "alice@example.com", "displayName": "Alice Smith",
			"firstName": "Alice", "lastName": "Smith", "creationDate": "2024-03-01T10:20:00+00:00",
			"uuid": "7b1b7a5e-3c1f-4d2a-9d7e-2f7e1b0c5a11",
			"groups": [{"__typename": "Group", "id": 1, "displayName": "admins"}],
			"attributes": [{"name": "mail", "value": ["alice@example.com"]}]},
		"schema": {"userSchema": {"attributes": [{"name": "mail", "attributeType": "STRING", "isList": false,
			"isVisible": true, "isEditable": true, "isHardcoded": true, "isReadonly": false}]}}}}`)

	details, err := New(server.DirectoryClient()).GetUserDetails(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", details.User.Email)
	assert.Equal(t, []models.GroupRef{{ID: 1, DisplayName: "admins"}}, details.User.Groups)
	assert.Equal(t, 2024, details.User.CreationDate.Year())
	assert.Equal(t, "7b1b7a5e-3c1f-4d2a-9d7e-2f7e1b0c5a11", details.User.UUID.String())
	require.Len(t, details.Schema.UserSchema.Attributes, 1)
	assert.Equal(t, models.AttributeString, details.Schema.UserSchema.Attributes[0].AttributeType)

	calls := server.CallsTo("GetUserDetails")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"id": "alice"}, calls[0].Variables)
}

func TestListUsersWithAndWithoutFilter(t *testing.T) {
	server := directorytest.NewServer(t)
	server.Handle("ListUsersQuery", `{"data": {"users": [{"__typename": "User", "id": "alice", "email": "a@example.com"}]}}`)
	server.Handle("ListUserNames", `{"data": {"users": [{"__typename": "User", "id": "alice", "displayName": "Alice"}]}}`)

	c := New(server.DirectoryClient())

	users, err := c.ListUsers(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Nil(t, server.CallsTo("ListUsersQuery")[0].Variables)

	names, err := c.ListUserNames(context.Background(), &models.RequestFilter{MemberOf: "admins"})
	require.NoError(t, err)
	assert.Equal(t, []models.UserRef{{ID: "alice", DisplayName: "Alice"}}, names)
	assert.Equal(t,
		map[string]any{"filters": map[string]any{"memberOf": "admins"}},
		server.CallsTo("ListUserNames")[0].Variables)
}

func TestMembershipMutationVariables(t *testing.T) {
	server := directorytest.NewServer(t)
	server.Handle("AddUserToGroup", `{"data": {"addUserToGroup": {"ok": true}}}`)
	server.Handle("RemoveUserFromGroup", `{"data": {"removeUserFromGroup": {"ok": true}}}`)

	c := New(server.DirectoryClient())
	require.NoError(t, c.AddUserToGroup(context.Background(), "alice", 3))
	require.NoError(t, c.RemoveUserFromGroup(context.Background(), "alice", 1))

	assert.Equal(t, map[string]any{"user": "alice", "group": float64(3)}, server.CallsTo("AddUserToGroup")[0].Variables)
	assert.Equal(t, map[string]any{"user": "alice", "group": float64(1)}, server.CallsTo("RemoveUserFromGroup")[0].Variables)
}

func TestMutationNotOK(t *testing.T) {
	server := directorytest.NewServer(t)
	server.Handle("DeleteUserQuery", `{"data": {"deleteUser": {"ok": false}}}`)

	err := New(server.DirectoryClient()).DeleteUser(context.Background(), "alice")

	var operationErr *directory.OperationError
	require.ErrorAs(t, err, &operationErr)
	assert.Equal(t, "DeleteUserQuery", operationErr.Operation)
	assert.Equal(t, "DeleteUserQuery: server reported failure", err.Error())
}

func TestUpdateUserSendsScalarFieldsOnly(t *testing.T) {
	server := directorytest.NewServer(t)
	server.Handle("UpdateUser", `{"data": {"updateUser": {"ok": true}}}`)

	err := New(server.DirectoryClient()).UpdateUser(context.Background(), models.UpdateUserInput{
		ID: "alice", Email: "a@example.com", DisplayName: "Alice", FirstName: "Alice", LastName: "Smith",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"user": map[string]any{
		"id": "alice", "email": "a@example.com", "displayName": "Alice", "firstName": "Alice", "lastName": "Smith",
	}}, server.CallsTo("UpdateUser")[0].Variables)
}

func TestCreateGroupAttributeIsNeverEditable(t *testing.T) {
	server := directorytest.NewServer(t)
	server.Handle("CreateGroupAttribute", `{"data": {"addGroupAttribute": {"ok": true}}}`)

	err := New(server.DirectoryClient()).CreateGroupAttribute(context.Background(), AttributeDefinition{
		Name: "location", Type: models.AttributeString, IsVisible: true, IsEditable: true,
	})
	require.NoError(t, err)

	call := server.CallsTo("CreateGroupAttribute")[0]
	assert.NotContains(t, call.Variables, "isEditable")
	assert.Contains(t, call.Query, "isEditable: false")
}

func TestCreateAttributeRejectsUnknownType(t *testing.T) {
	server := directorytest.NewServer(t)

	err := New(server.DirectoryClient()).CreateUserAttribute(context.Background(), AttributeDefinition{
		Name: "shoe", Type: "SHOE_SIZE",
	})
	assert.ErrorIs(t, err, ErrInvalidAttributeType)
	assert.Empty(t, server.Calls())
}

func TestCreateUserAndGroup(t *testing.T) {
	server := directorytest.NewServer(t)
	server.Handle("CreateUser", `{"data": {"createUser": {"__typename": "User", "id": "bob", "creationDate": "2024-05-01T00:00:00+00:00"}}}`)
	server.Handle("CreateGroup", `{"data": {"createGroup": {"__typename": "Group", "id": 9, "displayName": "ops"}}}`)

	c := New(server.DirectoryClient())

	user, err := c.CreateUser(context.Background(), models.CreateUserInput{ID: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.ID)

	group, err := c.CreateGroup(context.Background(), "ops")
	require.NoError(t, err)
	assert.Equal(t, 9, group.ID)
}
