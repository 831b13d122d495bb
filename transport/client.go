package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"github.com/pkg/errors"
)

// Client is a condensed HTTP client for the requester-side CLI: just enough
// of dolly's xhttp/retriable idiom (a thin wrapper over http.Client with a
// fixed timeout) to create and fetch authorizations, without that
// package's full retry/backoff machinery — the CLI issues exactly one
// request per invocation and surfaces the outcome via its own exit code.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client talking to the server at baseURL (e.g.
// "http://localhost:7891").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is returned for a non-2xx response, carrying the HTTP status so
// the CLI can distinguish "forbidden" (403) from any other failure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

// CreateAuthorization posts req to /api/v1/authorizations and returns the id
// of the Authorization the Checker minted, decoded from the server's
// idResponse body (declared in server.go). Callers fetch the full
// Authorization (including its token) separately via GetAuthorization.
func (c *Client) CreateAuthorization(req gatekeeper.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.WithMessage(err, "marshal request")
	}

	resp, err := c.http.Post(c.baseURL+"/api/v1/authorizations", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", errors.WithMessage(err, "post authorization request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", statusError(resp)
	}

	var created idResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", errors.WithMessage(err, "decode authorization response")
	}
	return created.ID, nil
}

// GetAuthorization fetches /api/v1/authorizations/{id}.
func (c *Client) GetAuthorization(id string) (gatekeeper.Authorization, error) {
	resp, err := c.http.Get(c.baseURL + "/api/v1/authorizations/" + id)
	if err != nil {
		return gatekeeper.Authorization{}, errors.WithMessage(err, "get authorization")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gatekeeper.Authorization{}, statusError(resp)
	}

	var auth gatekeeper.Authorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return gatekeeper.Authorization{}, errors.WithMessage(err, "decode authorization response")
	}
	return auth, nil
}

func statusError(resp *http.Response) error {
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	return &StatusError{StatusCode: resp.StatusCode, Body: body.String()}
}
