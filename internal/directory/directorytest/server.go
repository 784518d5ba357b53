// Package directorytest provides a stub directory GraphQL server for tests.
package directorytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
)

// Request is a GraphQL request received by the stub.
type Request struct {
	OperationName string
	Query         string
	Variables     map[string]any
	Authorization string
}

// Responder produces the status and body answering a request.
type Responder func(req Request) (int, string)

// Server answers GraphQL requests by operation name.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	calls      []Request
	responders map[string]Responder
	paths      map[string]http.HandlerFunc
}

// NewServer starts a stub server closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{responders: make(map[string]Responder), paths: make(map[string]http.HandlerFunc)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)
	return s
}

// Handle answers every request for operation with a 200 and body.
func (s *Server) Handle(operation, body string) {
	s.HandleFunc(operation, func(Request) (int, string) {
		return http.StatusOK, body
	})
}

// HandleFunc answers every request for operation with fn.
func (s *Server) HandleFunc(operation string, fn Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responders[operation] = fn
}

// HandlePath serves every request for path with fn instead of the GraphQL
// responders, as for the authentication endpoints.
func (s *Server) HandlePath(path string, fn http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[path] = fn
}

// Calls returns the requests received so far, in arrival order.
func (s *Server) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.calls...)
}

// CallsTo returns the requests received for operation.
func (s *Server) CallsTo(operation string) []Request {
	var calls []Request
	for _, call := range s.Calls() {
		if call.OperationName == operation {
			calls = append(calls, call)
		}
	}
	return calls
}

// DirectoryClient returns a directory client pointed at the stub.
func (s *Server) DirectoryClient() *directory.Client {
	return directory.NewClient(s.URL, nil)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	handler, ok := s.paths[r.URL.Path]
	s.mu.Unlock()
	if ok {
		handler(w, r)
		return
	}

	var body struct {
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := Request{
		OperationName: body.OperationName,
		Query:         body.Query,
		Variables:     body.Variables,
		Authorization: r.Header.Get("Authorization"),
	}

	s.mu.Lock()
	s.calls = append(s.calls, req)
	responder, ok := s.responders[req.OperationName]
	s.mu.Unlock()

	if !ok {
		responder = func(req Request) (int, string) {
			return http.StatusOK, fmt.Sprintf(`{"data": null, "errors": [{"message": "unexpected operation %s"}]}`, req.OperationName)
		}
	}

	status, payload := responder(req)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(payload))
}
