package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/sethvargo/go-retry"
)

const (
	maxGetRetries = 2
	retryBase     = 100 * time.Millisecond
)

// Client calls the PassVault REST API. The bearer token is attached to every
// request once set. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	backoff    func() retry.Backoff

	mu    sync.RWMutex
	token string
}

// New returns a Client for the API mounted at baseURL (for example
// "http://127.0.0.1:5001/api"). A non-positive timeout means no timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(maxGetRetries, retry.NewExponential(retryBase))
		},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates an account and keeps the returned session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var res AuthResponse
	req := registerRequest{Name: name, Email: email, Password: password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", req, &res, false); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Login authenticates and keeps the returned session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var res AuthResponse
	req := loginRequest{Email: email, Password: password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", req, &res, false); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	req := changePasswordRequest{CurrentPassword: current, NewPassword: next}
	_, err := c.do(ctx, http.MethodPut, "/auth/password", req, nil, true)
	return err
}

// DeleteAccount disables the account and forgets the token.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, "/auth", nil, nil, true); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if _, err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListPasswords returns the caller's credentials, newest first.
func (c *Client) ListPasswords(ctx context.Context) ([]Credential, error) {
	items := make([]Credential, 0)
	if _, err := c.get(ctx, "/passwords", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SavePassword stores a credential. created is false when an existing
// (product, login) entry had its password replaced.
func (c *Client) SavePassword(ctx context.Context, product, login, password string) (cred *Credential, created bool, err error) {
	var out Credential
	req := saveRequest{Product: product, Login: login, Password: password}
	status, err := c.do(ctx, http.MethodPost, "/passwords", req, &out, true)
	if err != nil {
		return nil, false, err
	}
	return &out, status == http.StatusCreated, nil
}

func (c *Client) DeletePassword(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/passwords/"+url.PathEscape(id), nil, nil, true)
	return err
}

// get performs an authenticated GET, retrying gateway errors and
// unreachable servers.
func (c *Client) get(ctx context.Context, path string, out any) (int, error) {
	var status int
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		var err error
		status, err = c.do(ctx, http.MethodGet, path, nil, out, true)
		if errors.Is(err, ErrUnavailable) || isGatewayError(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	return status, err
}

func isGatewayError(err error) bool {
	return IsStatus(err, http.StatusBadGateway) ||
		IsStatus(err, http.StatusServiceUnavailable) ||
		IsStatus(err, http.StatusGatewayTimeout)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := c.Token()
		if token == "" {
			return 0, ErrNoToken
		}
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func decodeAPIError(resp *http.Response) error {
	var msg messageResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&msg)
	return &APIError{Status: resp.StatusCode, Message: msg.Message}
}
