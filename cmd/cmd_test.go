package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/EO-DataHub/eodhp-directory-admin/api/services"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/creation"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/credentials"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory/directorytest"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/editor"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const userDetailsBody = `{"data": {
	"user": {"__typename": "User", "id": "alice", "email": "alice@example.com", "displayName": "Alice Smith",
		"firstName": "Alice", "lastName": "Smith", "creationDate": "2024-03-01T10:20:00+00:00",
		"uuid": "7b1b7a5e-3c1f-4d2a-9d7e-2f7e1b0c5a11",
		"groups": [{"__typename": "Group", "id": 1, "displayName": "admins"}, {"__typename": "Group", "id": 2, "displayName": "developers"}],
		"attributes": []},
	"schema": {"userSchema": {"attributes": []}}}}`

const groupListBody = `{"data": {"groups": [
	{"__typename": "Group", "id": 1, "displayName": "admins", "creationDate": "2024-01-01T00:00:00+00:00"},
	{"__typename": "Group", "id": 2, "displayName": "developers", "creationDate": "2024-01-02T00:00:00+00:00"},
	{"__typename": "Group", "id": 3, "displayName": "operators", "creationDate": "2024-01-03T00:00:00+00:00"}]}}`

const usersBody = `{"data": {"users": [
	{"__typename": "User", "id": "alice", "email": "alice@example.com", "displayName": "Alice Smith", "firstName": "Alice", "lastName": "Smith", "creationDate": "2024-03-01T10:20:00+00:00", "groups": []},
	{"__typename": "User", "id": "bob", "email": "bob@example.com", "displayName": "Bob Jones", "firstName": "Bob", "lastName": "Jones", "creationDate": "2024-03-02T10:20:00+00:00", "groups": []}]}}`

func newStub(t *testing.T) (*directorytest.Server, *catalog.Catalog, *events.MockNotifier) {
	t.Helper()

	server := directorytest.NewServer(t)
	notifier := &events.MockNotifier{}
	notifier.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return server, catalog.New(server.DirectoryClient()), notifier
}

func stubEditor(server *directorytest.Server, addResponse string) {
	server.Handle("GetUserDetails", userDetailsBody)
	server.Handle("GetGroupList", groupListBody)
	server.Handle("UpdateUser", `{"data": {"updateUser": {"ok": true}}}`)
	server.Handle("AddUserToGroup", addResponse)
	server.Handle("RemoveUserFromGroup", `{"data": {"removeUserFromGroup": {"ok": true}}}`)
}

func TestListUsers(t *testing.T) {
	server, c, _ := newStub(t)
	server.Handle("ListUsersQuery", usersBody)

	var out bytes.Buffer
	require.NoError(t, listUsers(context.Background(), c, &out, "bob", "", false))
	assert.Contains(t, out.String(), "bob@example.com")
	assert.NotContains(t, out.String(), "alice@example.com")
}

func TestListUsersNoMatch(t *testing.T) {
	server, c, _ := newStub(t)
	server.Handle("ListUsersQuery", usersBody)

	var out bytes.Buffer
	require.NoError(t, listUsers(context.Background(), c, &out, "zzzzzzzz", "", false))
	assert.Equal(t, "No users match \"zzzzzzzz\"\n", out.String())
}

func TestListUsersUnknownColumn(t *testing.T) {
	server, c, _ := newStub(t)
	server.Handle("ListUsersQuery", usersBody)

	err := listUsers(context.Background(), c, &bytes.Buffer{}, "", "shoeSize", false)
	assert.Error(t, err)
}

func TestEditUser(t *testing.T) {
	server, c, notifier := newStub(t)
	stubEditor(server, `{"data": {"addUserToGroup": {"ok": true}}}`)

	edits := userEdits{
		fields: map[string]string{"lastName": "Jones"},
		add:    []int{3},
		remove: []int{2},
	}
	var out bytes.Buffer
	require.NoError(t, editUser(context.Background(), c, notifier, &out, "alice", edits))

	updates := server.CallsTo("UpdateUser")
	require.Len(t, updates, 1)
	user := updates[0].Variables["user"].(map[string]any)
	assert.Equal(t, "Jones", user["lastName"])

	adds := server.CallsTo("AddUserToGroup")
	require.Len(t, adds, 1)
	assert.Equal(t, float64(3), adds[0].Variables["group"])

	removes := server.CallsTo("RemoveUserFromGroup")
	require.Len(t, removes, 1)
	assert.Equal(t, float64(2), removes[0].Variables["group"])

	notifier.AssertNumberOfCalls(t, "Publish", 3)
}

func TestEditUserPartialFailure(t *testing.T) {
	server, c, notifier := newStub(t)
	stubEditor(server, `{"data": null, "errors": [{"message": "Permission denied"}]}`)

	var out bytes.Buffer
	err := editUser(context.Background(), c, notifier, &out, "alice", userEdits{add: []int{3}})
	require.Error(t, err)
	assert.Contains(t, out.String(), "Error adding user to group operators: Permission denied")

	// Only the field update succeeded
	notifier.AssertNumberOfCalls(t, "Publish", 1)
}

func TestEditUserUnknownGroup(t *testing.T) {
	server, c, notifier := newStub(t)
	stubEditor(server, `{"data": {"addUserToGroup": {"ok": true}}}`)

	err := editUser(context.Background(), c, notifier, &bytes.Buffer{}, "alice", userEdits{add: []int{42}})
	assert.ErrorIs(t, err, editor.ErrUnknownGroup)
	assert.Empty(t, server.CallsTo("UpdateUser"))
}

func TestReconcileDryRun(t *testing.T) {
	server, c, notifier := newStub(t)
	stubEditor(server, `{"data": {"addUserToGroup": {"ok": true}}}`)

	m := &Membership{Users: map[string][]string{"alice": {"admins", "operators"}}}
	var out bytes.Buffer
	require.NoError(t, reconcile(context.Background(), c, notifier, &out, m, true))

	assert.Equal(t, "alice: + operators\nalice: - developers\n", out.String())
	assert.Empty(t, server.CallsTo("UpdateUser"))
	notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestReconcileSaves(t *testing.T) {
	server, c, notifier := newStub(t)
	stubEditor(server, `{"data": {"addUserToGroup": {"ok": true}}}`)

	m := &Membership{Users: map[string][]string{"alice": {"admins", "operators"}}}
	require.NoError(t, reconcile(context.Background(), c, notifier, &bytes.Buffer{}, m, false))

	assert.Len(t, server.CallsTo("AddUserToGroup"), 1)
	assert.Len(t, server.CallsTo("RemoveUserFromGroup"), 1)
}

func TestReconcileUpToDate(t *testing.T) {
	server, c, notifier := newStub(t)
	stubEditor(server, `{"data": {"addUserToGroup": {"ok": true}}}`)

	m := &Membership{Users: map[string][]string{"alice": {"developers", "admins"}}}
	var out bytes.Buffer
	require.NoError(t, reconcile(context.Background(), c, notifier, &out, m, false))
	assert.Equal(t, "alice: up to date\n", out.String())
	assert.Empty(t, server.CallsTo("UpdateUser"))
}

func TestReconcileUnknownGroupName(t *testing.T) {
	server, c, notifier := newStub(t)
	stubEditor(server, `{"data": {"addUserToGroup": {"ok": true}}}`)

	m := &Membership{Users: map[string][]string{"alice": {"astronauts"}}}
	err := reconcile(context.Background(), c, notifier, &bytes.Buffer{}, m, false)
	assert.EqualError(t, err, "1 of 1 users could not be reconciled")
}

func TestLoadMembership(t *testing.T) {
	path := filepath.Join(t.TempDir(), "membership.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  alice: [admins, developers]\n  bob: []\n"), 0o600))

	m, err := loadMembership(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"admins", "developers"}, m.Users["alice"])
	assert.Empty(t, m.Users["bob"])
}

func TestGroupIDsByName(t *testing.T) {
	all := []models.Group{{ID: 1, DisplayName: "admins"}, {ID: 2, DisplayName: "developers"}}

	ids, err := groupIDsByName(all, []string{"developers", "admins"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, ids)

	_, err = groupIDsByName(all, []string{"nobody"})
	assert.ErrorIs(t, err, editor.ErrUnknownGroup)
}

func TestSubmitFormInvalid(t *testing.T) {
	server, c, notifier := newStub(t)

	form := creation.Form{Mode: creation.ModeUser, User: creation.UserFields{ID: "bob", Password: "a", ConfirmPassword: "b"}}
	var out bytes.Buffer
	err := submitForm(context.Background(), form, c, notifier, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "email is required")
	assert.Contains(t, out.String(), "confirmPassword does not match password")
	assert.Empty(t, server.Calls())
}

func TestSubmitFormGroup(t *testing.T) {
	server, c, notifier := newStub(t)
	server.Handle("CreateGroup", `{"data": {"createGroup": {"__typename": "Group", "id": 7, "displayName": "auditors"}}}`)

	form := creation.Form{Mode: creation.ModeGroup, Group: creation.GroupFields{GroupName: "auditors"}}
	var out bytes.Buffer
	require.NoError(t, submitForm(context.Background(), form, c, notifier, &out))
	assert.Equal(t, "Group auditors created with id 7\n", out.String())

	event := notifier.Calls[0].Arguments.Get(1).(events.DirectoryEvent)
	assert.Equal(t, events.ActionCreate, event.Action)
	assert.Equal(t, "7", event.EntityID)
}

func TestParseGroupID(t *testing.T) {
	id, err := parseGroupID("12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, arg := range []string{"", "abc", "0", "-3"} {
		_, err := parseGroupID(arg)
		assert.Error(t, err, arg)
	}
}

func TestNewServerRoutes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer backend.Close()
	target, err := url.Parse(backend.URL)
	require.NoError(t, err)

	_, c, notifier := newStub(t)
	cfg := appconfig.Default()
	handler := newServer(cfg, services.NewService(cfg, c, notifier), target, promhttp.Handler())

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"api without token", http.MethodGet, "/api/admin/users", http.StatusUnauthorized},
		{"proxied graphql", http.MethodPost, "/api/graphql", http.StatusTeapot},
		{"proxied login", http.MethodPost, "/auth/simple/login", http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func stubAuth(t *testing.T) *directorytest.Server {
	t.Helper()

	server := directorytest.NewServer(t)
	server.HandlePath("/auth/simple/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) && body["password"] != "pw" {
			http.Error(w, "invalid password", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token": "t1", "refreshToken": "r1"}`))
	})
	server.HandlePath("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("refresh_token"); assert.NoError(t, err) {
			assert.Equal(t, "r1", cookie.Value)
		}
		_, _ = w.Write([]byte(`{"token": "t2"}`))
	})
	return server
}

func TestLoginStoresTokens(t *testing.T) {
	server := stubAuth(t)
	tokenFile := credentials.File{Path: filepath.Join(t.TempDir(), "token")}

	var out bytes.Buffer
	require.NoError(t, login(context.Background(), server.DirectoryClient(), tokenFile, "admin", "pw", &out))
	assert.Equal(t, "Logged in as admin\n", out.String())

	token, err := tokenFile.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	refresh, err := refreshFile(tokenFile).Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r1", refresh)

	info, err := os.Stat(tokenFile.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoginRejected(t *testing.T) {
	server := stubAuth(t)
	tokenFile := credentials.File{Path: filepath.Join(t.TempDir(), "token")}

	err := login(context.Background(), server.DirectoryClient(), tokenFile, "admin", "wrong", &bytes.Buffer{})
	require.Error(t, err)

	_, statErr := os.Stat(tokenFile.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoginRequiresUsername(t *testing.T) {
	server := stubAuth(t)
	tokenFile := credentials.File{Path: filepath.Join(t.TempDir(), "token")}

	assert.Error(t, login(context.Background(), server.DirectoryClient(), tokenFile, "", "pw", &bytes.Buffer{}))
}

func TestRefreshToken(t *testing.T) {
	server := stubAuth(t)
	tokenFile := credentials.File{Path: filepath.Join(t.TempDir(), "token")}

	// nothing stored yet
	assert.Error(t, refreshToken(context.Background(), server.DirectoryClient(), tokenFile, &bytes.Buffer{}))

	require.NoError(t, login(context.Background(), server.DirectoryClient(), tokenFile, "admin", "pw", &bytes.Buffer{}))
	require.NoError(t, refreshToken(context.Background(), server.DirectoryClient(), tokenFile, &bytes.Buffer{}))

	token, err := tokenFile.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t2", token)
}

func TestFormatEvent(t *testing.T) {
	event := events.DirectoryEvent{
		Action:    events.ActionAddMember,
		Entity:    events.EntityUser,
		EntityID:  "alice",
		GroupID:   3,
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "2024-05-01T12:00:00Z add_member user alice group=3", formatEvent(event))

	event.GroupID = 0
	assert.Equal(t, "2024-05-01T12:00:00Z add_member user alice", formatEvent(event))
}

func TestNewProxyServerRoutes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer backend.Close()
	target, err := url.Parse(backend.URL)
	require.NoError(t, err)

	handler := newProxyServer(target)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/refresh", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	// the admin API is not served by the proxy
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
