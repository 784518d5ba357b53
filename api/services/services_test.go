package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory/directorytest"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/gorilla/mux"
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
	{"__typename": "User", "id": "bob", "email": "bob@example.com", "displayName": "Bob Jones", "firstName": "Bob", "lastName": "Jones", "creationDate": "2024-03-02T10:20:00+00:00", "groups": []},
	{"__typename": "User", "id": "carol", "email": "carol@example.com", "displayName": "Carol White", "firstName": "Carol", "lastName": "White", "creationDate": "2024-03-03T10:20:00+00:00", "groups": []}]}}`

type envelope struct {
	Success      int             `json:"success"`
	ErrorCode    string          `json:"error_code"`
	ErrorDetails string          `json:"error_details"`
	Violations   []string        `json:"violations"`
	Data         json.RawMessage `json:"data"`
}

func newTestService(t *testing.T) (*Service, *directorytest.Server, *events.MockNotifier) {
	t.Helper()

	server := directorytest.NewServer(t)
	notifier := &events.MockNotifier{}
	notifier.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(appconfig.Default(), catalog.New(server.DirectoryClient()), notifier)
	return svc, server, notifier
}

// serve routes a single request through a router holding route, so mux
// variables are populated as in production.
func serve(svc *Service, fn func(*Service, http.ResponseWriter, *http.Request), method, route, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		fn(svc, w, r)
	}).Methods(method)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func publishedEvents(notifier *events.MockNotifier) []events.DirectoryEvent {
	var published []events.DirectoryEvent
	for _, call := range notifier.Calls {
		if call.Method == "Publish" {
			published = append(published, call.Arguments.Get(1).(events.DirectoryEvent))
		}
	}
	return published
}
