package engage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/conn-castle/engagectl/internal/faults"
	"github.com/conn-castle/engagectl/internal/messages"
)

const userAgent = "engagectl"

// TokenSource supplies the credential used to establish a session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource backed by a fixed credential, typically from
// the config file or environment.
type StaticToken string

// Token returns the static credential.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Config holds what a Client needs to reach the policy service.
type Config struct {
	BaseURL string
	Tenant  string
	Tokens  TokenSource
	// Client overrides the default HTTP client when non-nil.
	Client *http.Client
}

// Client talks to the policy service. It is not safe for concurrent use; the
// CLI drives it strictly sequentially.
type Client struct {
	baseURL      string
	tenant       string
	tokens       TokenSource
	http         *http.Client
	sessionToken string
}

// NewClient validates cfg and returns a disconnected client.
func NewClient(cfg Config) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		if err == nil {
			err = fmt.Errorf("missing scheme or host")
		}
		return nil, fmt.Errorf("invalid policy service URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("a token source is required")
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tenant:  cfg.Tenant,
		tokens:  cfg.Tokens,
		http:    httpClient,
	}, nil
}

type sessionRequest struct {
	Tenant string `json:"tenant"`
}

type sessionResponse struct {
	SessionToken string `json:"sessionToken"`
}

// EnsureConnected establishes an authenticated session when none exists. It
// is idempotent and safe to call before every operation.
func (c *Client) EnsureConnected(ctx context.Context) error {
	if c.sessionToken != "" {
		return nil
	}
	credential, err := c.tokens.Token(ctx)
	if err != nil {
		return faults.Wrap(faults.KindConnection, "connect_failed", err, "connect to policy service at %s", c.baseURL)
	}

	body, err := json.Marshal(sessionRequest{Tenant: c.tenant})
	if err != nil {
		return faults.Wrap(faults.KindConnection, "connect_failed", err, "connect to policy service at %s", c.baseURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return faults.Wrap(faults.KindConnection, "connect_failed", err, "connect to policy service at %s", c.baseURL)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.http.Do(req)
	if err != nil {
		return faults.Wrap(faults.KindConnection, "connect_failed", err, "connect to policy service at %s", c.baseURL)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return faults.New(faults.KindConnection, "connect_failed", messages.EngageConnectStatusFmt, c.baseURL, resp.Status)
	}
	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return faults.Wrap(faults.KindConnection, "connect_failed", err, "connect to policy service at %s", c.baseURL)
	}
	if session.SessionToken == "" {
		return faults.New(faults.KindConnection, "connect_failed", messages.EngageSessionTokenMissing)
	}
	c.sessionToken = session.SessionToken
	return nil
}

// ListFeatures returns the feature catalog for module.
func (c *Client) ListFeatures(ctx context.Context, module string) ([]Feature, error) {
	var payload struct {
		Features []Feature `json:"features"`
	}
	path := fmt.Sprintf("/v1/modules/%s/features", url.PathEscape(module))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Features, nil
}

// ListPolicies returns all policies bound to featureID within module.
func (c *Client) ListPolicies(ctx context.Context, module string, featureID string) ([]Policy, error) {
	var payload struct {
		Policies []Policy `json:"policies"`
	}
	path := fmt.Sprintf("/v1/modules/%s/features/%s/policies", url.PathEscape(module), url.PathEscape(featureID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Policies, nil
}

// CreatePolicy creates a policy within module. A conflict with an existing
// tenant-wide policy is returned as an error matching ErrTenantPolicyExists.
func (c *Client) CreatePolicy(ctx context.Context, module string, req CreatePolicyRequest) (Policy, error) {
	var created Policy
	path := fmt.Sprintf("/v1/modules/%s/policies", url.PathEscape(module))
	if err := c.doJSON(ctx, http.MethodPost, path, req, &created); err != nil {
		return Policy{}, err
	}
	return created, nil
}

// UpdatePolicy applies an enablement-state update to an existing policy.
func (c *Client) UpdatePolicy(ctx context.Context, policyID string, req UpdatePolicyRequest) (Policy, error) {
	var updated Policy
	path := fmt.Sprintf("/v1/policies/%s", url.PathEscape(policyID))
	if err := c.doJSON(ctx, http.MethodPatch, path, req, &updated); err != nil {
		return Policy{}, err
	}
	return updated, nil
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// doJSON issues one request against the session and decodes the response into
// out. Non-2xx responses become *APIError.
func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf(messages.EngageEncodeBodyErrFmt, err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf(messages.EngageCreateRequestFmt, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.sessionToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf(messages.EngageRequestErrFmt, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var payload errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Error.Message != "" {
			apiErr.Code = payload.Error.Code
			apiErr.Message = payload.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf(messages.EngageDecodeErrFmt, path, err)
	}
	return nil
}
