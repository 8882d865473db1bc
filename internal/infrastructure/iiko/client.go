package iiko

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bobashop/backend/internal/domain/possync"
)

// maxResponseSize is the maximum allowed response size from the IIKO API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// defaultTokenTTL is the documented token lifetime, used when the token
// exchange response does not declare one
const defaultTokenTTL = time.Hour

// defaultRequestTimeout bounds every call to the POS; a timed-out call is a
// transport failure subject to the normal retry policy
const defaultRequestTimeout = 30 * time.Second

// API paths
const (
	pathAccessToken    = "/api/1/access_token"
	pathOrganizations  = "/api/1/organizations"
	pathTerminalGroups = "/api/1/terminal_groups"
	pathCreateDelivery = "/api/1/deliveries/create"
	pathNomenclature   = "/api/1/nomenclature"
	pathStopLists      = "/api/1/stop_lists"
)

// Client is the low-level HTTP client for the IIKO Cloud API
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new IIKO API client. A non-positive timeout falls back
// to the default.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// postJSON performs a bearer-authenticated POST and decodes the response into
// out. Token may be empty for the token exchange itself.
func (c *Client) postJSON(ctx context.Context, baseURL, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("iiko: failed to encode request: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("iiko: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", possync.ErrPosUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("iiko: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d: %s", possync.ErrPosRequestFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %v", possync.ErrPosInvalidResponse, err)
		}
	}
	return nil
}

// Authenticate exchanges the API login for a bearer token and its lifetime
func (c *Client) Authenticate(ctx context.Context, baseURL, apiLogin string) (string, time.Duration, error) {
	var resp AccessTokenResponse
	err := c.postJSON(ctx, baseURL, pathAccessToken, "", &AccessTokenRequest{APILogin: apiLogin}, &resp)
	if err != nil {
		return "", 0, err
	}
	if resp.Token == "" {
		return "", 0, fmt.Errorf("%w: empty token", possync.ErrPosInvalidResponse)
	}
	ttl := defaultTokenTTL
	if resp.TokenTTLSeconds > 0 {
		ttl = time.Duration(resp.TokenTTLSeconds) * time.Second
	}
	return resp.Token, ttl, nil
}

// Organizations lists the organizations visible to the API login
func (c *Client) Organizations(ctx context.Context, baseURL, token string) ([]Organization, error) {
	var resp OrganizationsResponse
	err := c.postJSON(ctx, baseURL, pathOrganizations, token, &OrganizationsRequest{}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Organizations, nil
}

// TerminalGroups lists the terminal groups of an organization
func (c *Client) TerminalGroups(ctx context.Context, baseURL, token, organizationID string) ([]TerminalGroup, error) {
	var resp TerminalGroupsResponse
	err := c.postJSON(ctx, baseURL, pathTerminalGroups, token, &TerminalGroupsRequest{OrganizationIDs: []string{organizationID}}, &resp)
	if err != nil {
		return nil, err
	}
	groups := make([]TerminalGroup, 0)
	for _, org := range resp.TerminalGroups {
		groups = append(groups, org.Items...)
	}
	return groups, nil
}

// CreateDelivery creates a delivery order on the POS and normalizes the
// outcome. Transport failures and domain rejections both come back inside
// the result; no error return carries call outcomes.
func (c *Client) CreateDelivery(ctx context.Context, baseURL, token string, req *CreateDeliveryRequest) *possync.CreateOrderResult {
	var resp CreateDeliveryResponse
	if err := c.postJSON(ctx, baseURL, pathCreateDelivery, token, req, &resp); err != nil {
		return &possync.CreateOrderResult{
			Outcome:      possync.OutcomeTransportError,
			ErrorMessage: err.Error(),
		}
	}

	if resp.OrderInfo == nil {
		return &possync.CreateOrderResult{
			Outcome:      possync.OutcomeTransportError,
			ErrorMessage: possync.ErrPosInvalidResponse.Error() + ": missing orderInfo",
		}
	}

	// creationStatus is the domain-level verdict, distinct from HTTP status.
	// "Error" is a business rejection, not a transport failure.
	if resp.OrderInfo.CreationStatus == creationStatusError {
		result := &possync.CreateOrderResult{Outcome: possync.OutcomeRejected}
		if info := resp.OrderInfo.ErrorInfo; info != nil {
			result.ErrorMessage = info.Message
			if result.ErrorMessage == "" {
				result.ErrorMessage = info.Description
			}
			result.ErrorCode = info.Code
		}
		if result.ErrorMessage == "" {
			result.ErrorMessage = "order rejected by POS"
		}
		return result
	}

	return &possync.CreateOrderResult{
		Outcome:           possync.OutcomeSuccess,
		PosOrderID:        resp.OrderInfo.ID,
		PosExternalNumber: resp.OrderInfo.ExternalNumber,
	}
}

// Nomenclature pulls the catalog snapshot for an organization
func (c *Client) Nomenclature(ctx context.Context, baseURL, token, organizationID string) (*NomenclatureResponse, error) {
	var resp NomenclatureResponse
	err := c.postJSON(ctx, baseURL, pathNomenclature, token, &NomenclatureRequest{OrganizationID: organizationID}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopLists returns the POS product IDs with no remaining balance for the
// given organization
func (c *Client) StopLists(ctx context.Context, baseURL, token, organizationID string) ([]string, error) {
	var resp StopListsResponse
	err := c.postJSON(ctx, baseURL, pathStopLists, token, &StopListsRequest{OrganizationIDs: []string{organizationID}}, &resp)
	if err != nil {
		return nil, err
	}

	stopped := make([]string, 0)
	seen := make(map[string]struct{})
	for _, org := range resp.TerminalGroupStopLists {
		for _, terminal := range org.Items {
			for _, item := range terminal.Items {
				if item.Balance > 0 {
					continue
				}
				if _, ok := seen[item.ProductID]; ok {
					continue
				}
				seen[item.ProductID] = struct{}{}
				stopped = append(stopped, item.ProductID)
			}
		}
	}
	return stopped, nil
}
