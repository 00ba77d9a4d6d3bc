// Package client is the HTTP client for the Muse Contracts service. It speaks
// the service's JSON API, maps response statuses onto sentinel errors and
// adapts itself to the draft workflow's store interface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paulster44/Muse-Contracts/draft"
)

const defaultTimeout = 15 * time.Second

// Contract is a contract record as the service returns it.
type Contract struct {
	ID                    uuid.UUID            `json:"id"`
	Status                string               `json:"status"`
	ApplicableLocal       string               `json:"applicable_local"`
	ApplicableScale       string               `json:"applicable_scale"`
	EngagementDate        string               `json:"engagement_date"`
	StartTime             string               `json:"start_time"`
	EndTime               string               `json:"end_time"`
	LeaderName            string               `json:"leader_name"`
	LeaderCardNo          string               `json:"leader_card_no"`
	LeaderSSNEIN          string               `json:"leader_ssn_ein"`
	LeaderAddress         string               `json:"leader_address"`
	LeaderPhone           string               `json:"leader_phone"`
	BandName              string               `json:"band_name"`
	VenueName             string               `json:"venue_name"`
	LocationBorough       string               `json:"location_borough"`
	EngagementType        string               `json:"engagement_type"`
	NumMusicians          int                  `json:"num_musicians"`
	PreHeatHours          float64              `json:"pre_heat_hours"`
	ActualHoursEngagement float64              `json:"actual_hours_engagement"`
	ActualHoursRehearsal  float64              `json:"actual_hours_rehearsal"`
	HasRehearsal          bool                 `json:"has_rehearsal"`
	IsRecorded            bool                 `json:"is_recorded"`
	LeaderIsIncorporated  bool                 `json:"leader_is_incorporated"`
	TotalGrossComp        float64              `json:"total_gross_comp"`
	TotalWorkDues         float64              `json:"total_work_dues"`
	TotalPension          float64              `json:"total_pension"`
	TotalHealth           float64              `json:"total_health"`
	SideMusicians         []draft.SideMusician `json:"side_musicians"`
}

// ContractSummary is one row of the contract list.
type ContractSummary struct {
	ID             uuid.UUID `json:"id"`
	Status         string    `json:"status"`
	EngagementDate string    `json:"engagement_date"`
	LeaderName     string    `json:"leader_name"`
	BandName       string    `json:"band_name"`
	VenueName      string    `json:"venue_name"`
	EngagementType string    `json:"engagement_type"`
	NumMusicians   int       `json:"num_musicians"`
	TotalGrossComp float64   `json:"total_gross_comp"`
}

// User is the account record returned by register and login.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithToken sets a previously obtained access token, skipping Login.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client talks to one Muse Contracts service on behalf of one user. It is not
// safe for concurrent use while logging in or out.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current access token, empty when logged out.
func (c *Client) Token() string {
	return c.token
}

type authPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register creates an account and logs the client in.
func (c *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var out authPayload
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

// Login authenticates and stores the access token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var out authPayload
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

// Logout invalidates the session cookie server-side and drops the token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.token = ""
	return err
}

// CreateDraft registers an empty draft and returns its server identifier.
func (c *Client) CreateDraft(ctx context.Context) (uuid.UUID, error) {
	var out struct {
		ID uuid.UUID `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/contracts", nil, &out); err != nil {
		return uuid.Nil, err
	}
	return out.ID, nil
}

// UpdateContract persists the full draft under the given identifier and
// returns the saved record with server-computed totals.
func (c *Client) UpdateContract(ctx context.Context, id uuid.UUID, d draft.ContractDraft) (*Contract, error) {
	var out Contract
	if err := c.do(ctx, http.MethodPut, "/api/contracts/"+id.String(), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetContract fetches one contract with its side musicians.
func (c *Client) GetContract(ctx context.Context, id uuid.UUID) (*Contract, error) {
	var out Contract
	if err := c.do(ctx, http.MethodGet, "/api/contracts/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListContracts fetches the caller's contracts, most recently saved first.
func (c *Client) ListContracts(ctx context.Context) ([]ContractSummary, error) {
	var out struct {
		Contracts []ContractSummary `json:"contracts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/contracts", nil, &out); err != nil {
		return nil, err
	}
	return out.Contracts, nil
}

// DeleteContract removes a contract and its side musicians.
func (c *Client) DeleteContract(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/contracts/"+id.String(), nil, nil)
}

// FinalizeContract marks a draft as completed.
func (c *Client) FinalizeContract(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/contracts/"+id.String()+"/finalize", nil, nil)
}

// ReopenContract returns a completed contract to draft.
func (c *Client) ReopenContract(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/contracts/"+id.String()+"/reopen", nil, nil)
}

// ContractPDF downloads the rendered contract document.
func (c *Client) ContractPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return c.download(ctx, "/api/contracts/"+id.String()+"/pdf")
}

// ExportContracts downloads the contract list spreadsheet.
func (c *Client) ExportContracts(ctx context.Context) ([]byte, error) {
	return c.download(ctx, "/api/exports/contracts")
}

// Store adapts the client to the draft workflow's store interface. The record
// returned by the save is discarded; the workflow only needs the outcome.
func (c *Client) Store() draft.ContractStore {
	return storeAdapter{client: c}
}

type storeAdapter struct {
	client *Client
}

func (a storeAdapter) CreateDraft(ctx context.Context) (uuid.UUID, error) {
	return a.client.CreateDraft(ctx)
}

func (a storeAdapter) UpdateContract(ctx context.Context, id uuid.UUID, d draft.ContractDraft) error {
	_, err := a.client.UpdateContract(ctx, id, d)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func statusError(resp *http.Response) error {
	message := serverMessage(resp)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel = ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrAuthorization
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, message)
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}

func serverMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}
