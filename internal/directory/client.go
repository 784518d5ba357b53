package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultGraphQLPath is the path of the GraphQL endpoint on the directory
// server.
const DefaultGraphQLPath = "/api/graphql"

// CredentialSource supplies the bearer credential attached to each request.
// An empty credential means the request is sent without Authorization.
type CredentialSource interface {
	Credential(ctx context.Context) (string, error)
}

// Operation is a named GraphQL document.
type Operation struct {
	Name     string
	Document string
}

// Client is a client for the directory's GraphQL API.
type Client struct {
	BaseURL     string
	GraphQLPath string
	HTTPClient  *http.Client
	Metrics     *Metrics

	credentials CredentialSource
	cache       *Cache
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// NewClient creates a new instance of Client.
func NewClient(baseURL string, credentials CredentialSource) *Client {
	return &Client{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		GraphQLPath: DefaultGraphQLPath,
		HTTPClient:  &http.Client{},
		credentials: credentials,
		cache:       NewCache(),
	}
}

// Cache returns the normalized entity cache of the client.
func (c *Client) Cache() *Cache {
	return c.cache
}

// cacheFor returns the cache scoped to ctx, or the client's own.
func (c *Client) cacheFor(ctx context.Context) *Cache {
	if cache, ok := CacheFromContext(ctx); ok {
		return cache
	}
	return c.cache
}

// Execute runs op with the given variables and decodes the data of the
// response, as read back from the cache, into out. out may be nil.
func (c *Client) Execute(ctx context.Context, op Operation, variables map[string]any, out any) error {
	start := time.Now()
	err := c.execute(ctx, op, variables, out)
	c.Metrics.observe(op.Name, time.Since(start), err)

	logger := zerolog.Ctx(ctx).With().Str("operation", op.Name).Logger()
	if err != nil {
		logger.Debug().Err(err).Msg("directory operation failed")
	} else {
		logger.Debug().Dur("elapsed", time.Since(start)).Msg("directory operation completed")
	}
	return err
}

func (c *Client) execute(ctx context.Context, op Operation, variables map[string]any, out any) error {
	token, err := c.credential(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(graphQLRequest{
		Query:         op.Document,
		OperationName: op.Name,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op.Name, err)
	}

	respBody, err := c.makeRequest(ctx, http.MethodPost, c.BaseURL+c.GraphQLPath, token, body, nil)
	if err != nil {
		return err
	}

	var resp graphQLResponse
	decoder := json.NewDecoder(bytes.NewReader(respBody))
	decoder.UseNumber()
	if err := decoder.Decode(&resp); err != nil {
		return &TransportError{Message: "failed to decode response", Err: err}
	}

	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		return &OperationError{Operation: op.Name, Messages: messages}
	}
	if resp.Data == nil {
		return &OperationError{Operation: op.Name, Messages: []string{"response carried no data"}}
	}

	result := c.cacheFor(ctx).Apply(resp.Data)
	if out == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cached result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", op.Name, err)
	}
	return nil
}

func (c *Client) credential(ctx context.Context) (string, error) {
	if c.credentials == nil {
		return "", nil
	}
	token, err := c.credentials.Credential(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain credential: %w", err)
	}
	return token, nil
}

// Helper function for making HTTP requests to the directory server.
func (c *Client) makeRequest(ctx context.Context, method, url, token string, body []byte, cookies []*http.Cookie) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Message: "failed to make request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(respBody))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &TransportError{Status: resp.StatusCode, Message: message}
	}

	return respBody, nil
}

// StatusOf returns the HTTP status carried by a transport error in err's
// chain, or 0.
func StatusOf(err error) int {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Status
	}
	return 0
}
