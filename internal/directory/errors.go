package directory

import (
	"fmt"
	"strings"
)

// TransportError is returned when the directory server could not be reached
// or answered with a non-2xx status. Status is 0 when no response arrived.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.Status == 0:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// GraphQLError is a single entry of a GraphQL errors payload.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// OperationError is returned when the server processed the request but
// reported a failure, either as a GraphQL errors payload or an ok=false
// result. Messages are kept verbatim.
type OperationError struct {
	Operation string
	Messages  []string
}

func (e *OperationError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s: server reported failure", e.Operation)
	}
	return strings.Join(e.Messages, "; ")
}
