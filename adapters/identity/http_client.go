package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pasar-labs/pasar/core"
)

const defaultRequestTimeout = 10 * time.Second

// HTTPClient talks to a GoTrue-style identity store over its admin REST API
// using a service-role key. Every call is a single bounded request.
type HTTPClient struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewHTTPClient(baseURL, serviceKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: defaultRequestTimeout},
	}
}

type identityUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *HTTPClient) FindUserByKey(ctx context.Context, loginKey string) (string, error) {
	endpoint := c.baseURL + "/admin/users?email=" + url.QueryEscape(loginKey)
	var resp struct {
		Users []identityUser `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return "", err
	}
	for _, u := range resp.Users {
		if strings.EqualFold(u.Email, loginKey) {
			return u.ID, nil
		}
	}
	return "", core.ErrNotFound
}

func (c *HTTPClient) CreateUser(ctx context.Context, loginKey string, preconfirm bool) (string, error) {
	body := map[string]any{
		"email":         loginKey,
		"email_confirm": preconfirm,
	}
	var resp identityUser
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/admin/users", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("identity store returned no user id")
	}
	return resp.ID, nil
}

func (c *HTTPClient) GenerateMagicLink(ctx context.Context, loginKey string) (string, error) {
	body := map[string]any{
		"type":  "magiclink",
		"email": loginKey,
	}
	var resp struct {
		HashedToken string `json:"hashed_token"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/admin/generate_link", body, &resp); err != nil {
		return "", err
	}
	return resp.HashedToken, nil
}

func (c *HTTPClient) VerifyOneTimeToken(ctx context.Context, hashedToken string) (core.Session, error) {
	body := map[string]any{
		"type":       "email",
		"token_hash": hashedToken,
	}
	var resp struct {
		AccessToken  string       `json:"access_token"`
		RefreshToken string       `json:"refresh_token"`
		User         identityUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/verify", body, &resp); err != nil {
		return core.Session{}, err
	}
	return core.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID,
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var payload *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewBuffer(encoded)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return core.ErrNotFound
	}
	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		// GoTrue reports an already-registered key this way.
		return core.ErrConflict
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("identity store responded with status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode identity store response: %w", err)
	}
	return nil
}
