package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/domain"
)

// DefaultBaseURL is the public Webex API host.
const DefaultBaseURL = "https://webexapis.com"

// Client implements ports.Webex over plain HTTPS/JSON. Every call carries
// the bearer token and classifies its outcome into ports.APIError kinds.
type Client struct {
	client  *http.Client
	baseURL string
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client (default: 10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(w *Client) {
		w.client = c
	}
}

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(u string) Option {
	return func(w *Client) {
		w.baseURL = u
	}
}

// NewClient returns a provider client for the given API host.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Webex = (*Client)(nil)

// do issues one call and decodes a 2xx body into out (io discard when out is
// nil). Non-2xx and transport failures come back as *ports.APIError.
func (c *Client) do(ctx context.Context, creds ports.Credentials, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &ports.APIError{Kind: ports.KindDecode, Status: http.StatusInternalServerError, Detail: err.Error()}
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &ports.APIError{Kind: ports.KindClientRejected, Status: http.StatusBadRequest, Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts, DNS failures, TLS handshakes, refused connections.
		return &ports.APIError{Kind: ports.KindConnectivity, Status: http.StatusServiceUnavailable, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := readErrorDetail(resp.Body)
		kind := ports.KindProviderFault
		if resp.StatusCode < 500 {
			kind = ports.KindClientRejected
		}
		return &ports.APIError{Kind: kind, Status: resp.StatusCode, Detail: detail}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ports.APIError{Kind: ports.KindDecode, Status: http.StatusInternalServerError, Detail: "unexpected response shape: " + err.Error()}
	}
	return nil
}

// readErrorDetail pulls a human-readable message out of an error body. The
// provider uses both {"message": ...} and plain text.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return string(raw)
}

type listLicensesResponse struct {
	Items []domain.License `json:"items"`
}

// ListLicenses returns all licenses owned by the organization.
func (c *Client) ListLicenses(ctx context.Context, creds ports.Credentials) ([]domain.License, error) {
	var out listLicensesResponse
	path := "/v1/licenses?orgId=" + url.QueryEscape(creds.OrgID)
	if err := c.do(ctx, creds, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

type listLocationsResponse struct {
	Items []domain.Location `json:"items"`
}

// ListLocations returns all locations of the organization.
func (c *Client) ListLocations(ctx context.Context, creds ports.Credentials) ([]domain.Location, error) {
	var out listLocationsResponse
	path := "/v1/locations?orgId=" + url.QueryEscape(creds.OrgID)
	if err := c.do(ctx, creds, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

type listFloorsResponse struct {
	Items []ports.Floor `json:"items"`
}

// ListFloors returns the floors of one location.
func (c *Client) ListFloors(ctx context.Context, creds ports.Credentials, locationID string) ([]ports.Floor, error) {
	var out listFloorsResponse
	path := fmt.Sprintf("/v1/locations/%s/floors", url.PathEscape(locationID))
	if err := c.do(ctx, creds, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// SubmitBulk posts the batched creation envelope to the SCIM bulk endpoint.
func (c *Client) SubmitBulk(ctx context.Context, creds ports.Credentials, req *ports.BulkRequest) (*ports.BulkResponse, error) {
	if req == nil || len(req.Operations) == 0 {
		return nil, &ports.APIError{Kind: ports.KindClientRejected, Status: http.StatusBadRequest, Detail: "bulk request has no operations"}
	}
	var out ports.BulkResponse
	path := fmt.Sprintf("/identity/scim/%s/v2/Bulk", url.PathEscape(creds.OrgID))
	if err := c.do(ctx, creds, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers fetches the organization's full user listing in one unbounded
// page. The result may lag writes made moments earlier; callers poll.
func (c *Client) SearchUsers(ctx context.Context, creds ports.Credentials) (*ports.UserSearchPage, error) {
	var out ports.UserSearchPage
	path := fmt.Sprintf("/identity/scim/%s/v2/Users", url.PathEscape(creds.OrgID))
	if err := c.do(ctx, creds, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignLicense patches one user's license set. One call per user per
// license; idempotent by license id.
func (c *Client) AssignLicense(ctx context.Context, creds ports.Credentials, req *ports.LicenseAssignment) error {
	if req == nil || req.PersonID == "" {
		return &ports.APIError{Kind: ports.KindClientRejected, Status: http.StatusBadRequest, Detail: "license assignment needs a person id"}
	}
	var out json.RawMessage
	return c.do(ctx, creds, http.MethodPatch, "/v1/licenses/users", req, &out)
}

// GetOrganization reads the authorized organization's details.
func (c *Client) GetOrganization(ctx context.Context, creds ports.Credentials) (*ports.OrganizationDetails, error) {
	var out ports.OrganizationDetails
	path := fmt.Sprintf("/v1/organizations/%s", url.PathEscape(creds.OrgID))
	if err := c.do(ctx, creds, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMe reads the caller's own profile. Only the token is needed, so this is
// usable during login before the organization is known.
func (c *Client) GetMe(ctx context.Context, accessToken string) (*ports.Person, error) {
	var out ports.Person
	creds := ports.Credentials{AccessToken: accessToken}
	if err := c.do(ctx, creds, http.MethodGet, "/v1/people/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
