// Package api is the agent's HTTP client for the clipboard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clipsentry/clipsentry/internal/models"
	"github.com/clipsentry/clipsentry/internal/policy"
)

// Client talks JSON over HTTP to the backend. All requests carry the shared
// bearer token and the agent's identity headers.
type Client struct {
	http     *http.Client
	baseURL  string
	token    string
	userID   string
	orgID    string
	deviceID string
}

// New builds a Client for the given backend and identity.
func New(baseURL, token, userID, orgID, deviceID string) *Client {
	return &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		baseURL:  baseURL,
		token:    token,
		userID:   userID,
		orgID:    orgID,
		deviceID: deviceID,
	}
}

// CreateEntry uploads an encrypted clipboard entry and returns the stored
// entry with its server-assigned ID and timestamp.
func (c *Client) CreateEntry(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error) {
	payload := struct {
		Ciphertext         string                    `json:"ciphertext"`
		ContentType        string                    `json:"content_type"`
		EncryptionMetadata models.EncryptionMetadata `json:"encryption_metadata"`
		ExpiresAt          *time.Time                `json:"expires_at,omitempty"`
	}{e.Ciphertext, e.ContentType, e.EncryptionMetadata, e.ExpiresAt}

	resp, err := c.do(ctx, http.MethodPost, "/api/clipboard", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, unexpectedStatus(resp)
	}

	var created models.ClipboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode created entry: %w", err)
	}
	return &created, nil
}

// LatestEntry fetches the newest unexpired entry for this user. Returns
// nil with no error when the server has nothing.
func (c *Client) LatestEntry(ctx context.Context) (*models.ClipboardEntry, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/clipboard/latest", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(resp)
	}

	var entry models.ClipboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("decode latest entry: %w", err)
	}
	return &entry, nil
}

// ValidatePaste asks the server whether pasting to the destination is
// allowed. The decision is audited server-side.
func (c *Client) ValidatePaste(ctx context.Context, dest policy.Destination, contentHash string) (policy.Verdict, error) {
	payload := struct {
		Domain      string `json:"domain,omitempty"`
		Application string `json:"application,omitempty"`
		ContentHash string `json:"content_hash"`
	}{dest.Domain, dest.Application, contentHash}

	resp, err := c.do(ctx, http.MethodPost, "/api/paste/validate", payload)
	if err != nil {
		return policy.Verdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return policy.Verdict{}, unexpectedStatus(resp)
	}

	var verdict policy.Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return policy.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return verdict, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-User-ID", c.userID)
	req.Header.Set("X-Org-ID", c.orgID)
	req.Header.Set("X-Device-ID", c.deviceID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func unexpectedStatus(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s %s: unexpected status %d: %s",
		resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, bytes.TrimSpace(msg))
}
