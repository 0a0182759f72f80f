// Package client is the daemon's HTTP consumer: typed JSON calls for the
// UI and CLI, SSE watch streams, and daemon lifecycle helpers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"syscall"
	"time"

	"corkboard/internal/config"
	"corkboard/internal/store"
	"corkboard/internal/types"
)

type Client struct {
	baseURL   string
	tokenPath string
	token     string
	http      *http.Client
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
	PID     int    `json:"pid"`
}

type notesResponse struct {
	Notes []*types.Note `json:"notes"`
}

type messagesResponse struct {
	Messages []*types.Message `json:"messages"`
}

func New() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   cfg.DaemonBaseURL(),
		tokenPath: tokenPath,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	_ = c.loadToken()
	return c, nil
}

func NewWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListNotes(ctx context.Context) ([]*types.Note, error) {
	var resp notesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/notes", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

func (c *Client) CreateNote(ctx context.Context, note *types.Note) (*types.Note, error) {
	if note == nil {
		return nil, errors.New("note is required")
	}
	var resp types.Note
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notes", note, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PatchNote(ctx context.Context, id string, patch store.NotePatch) (*types.Note, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("note id is required")
	}
	var resp types.Note
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/notes/"+id, patch, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("note id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/v1/notes/"+id, nil, true, nil)
}

func (c *Client) Messages(ctx context.Context) ([]*types.Message, error) {
	var resp messagesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/messages", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) ShutdownDaemon(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/shutdown", nil, true, nil)
}

// EnsureDaemon verifies a healthy daemon is reachable, starting one in the
// background when it is not.
func (c *Client) EnsureDaemon(ctx context.Context) error {
	resp, err := c.Health(ctx)
	if err == nil && resp.OK {
		return nil
	}

	if err := StartBackgroundDaemon(); err != nil {
		return err
	}

	deadline := time.Now().Add(4 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := c.Health(ctx)
		if err == nil && resp.OK {
			_ = c.loadToken()
			return nil
		}
		lastErr = err
		time.Sleep(150 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = errors.New("daemon not healthy after start")
	}
	return lastErr
}

// KillDaemon asks the daemon to exit; force falls back to a signal when
// the API is unreachable but the health endpoint still reports a pid.
func (c *Client) KillDaemon(ctx context.Context, force bool) error {
	err := c.ShutdownDaemon(ctx)
	if err == nil {
		return nil
	}
	if !force {
		return err
	}
	resp, healthErr := c.Health(ctx)
	if healthErr != nil || resp.PID <= 0 {
		return err
	}
	return killProcess(resp.PID)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, requireAuth bool, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requireAuth {
		if err := c.ensureToken(); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) ensureToken() error {
	if strings.TrimSpace(c.token) == "" {
		if err := c.loadToken(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.token) == "" {
		return errors.New("token not found; is the daemon running?")
	}
	return nil
}

func (c *Client) loadToken() error {
	if c.tokenPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.token = ""
			return nil
		}
		return err
	}
	c.token = strings.TrimSpace(string(data))
	return nil
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

var killProcess = terminateProcess

func terminateProcess(pid int) error {
	if pid <= 0 {
		return errors.New("invalid pid")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if runtime.GOOS == "windows" {
		return proc.Kill()
	}
	return proc.Signal(syscall.SIGTERM)
}
