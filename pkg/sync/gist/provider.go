// Package gist implements the sync.Provider interface against the GitHub
// Gist API: one secret gist is the backup container, its files are the
// latest pointer plus the timestamped versions.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cmdvault/cmdvault/pkg/sync"
)

// DefaultBaseURL is the GitHub API root. Tests point this at a local server.
const DefaultBaseURL = "https://api.github.com"

// Provider talks to the Gist API with a personal access token.
type Provider struct {
	token       string
	description string
	baseURL     string
	client      *http.Client
}

// Option customizes the provider.
type Option func(*Provider)

// WithBaseURL overrides the API root.
func WithBaseURL(url string) Option {
	return func(p *Provider) { p.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// NewProvider creates a gist provider. The token must have the gist scope.
func NewProvider(token, description string, opts ...Option) *Provider {
	p := &Provider{
		token:       token,
		description: description,
		baseURL:     DefaultBaseURL,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name identifies the provider.
func (p *Provider) Name() string { return "gist" }

// gistFile mirrors the API's file object. A nil entry in a PATCH payload
// deletes the file.
type gistFile struct {
	Content   string `json:"content,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
	Size      int    `json:"size,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

type gistResponse struct {
	ID    string               `json:"id"`
	Files map[string]*gistFile `json:"files"`
}

func (p *Provider) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gist request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gist response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, sync.ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return nil, sync.ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("gist API: %s (status %d)", apiErr.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("gist API: status %d", resp.StatusCode)
	}
	return data, nil
}

// Upload creates the gist (POST) when containerID is empty, else updates it
// (PATCH) in a single request carrying every file.
func (p *Provider) Upload(ctx context.Context, containerID string, files map[string]string) (string, error) {
	payload := map[string]interface{}{
		"files": toFilePayload(files),
	}
	method := http.MethodPatch
	path := "/gists/" + containerID
	if containerID == "" {
		method = http.MethodPost
		path = "/gists"
		payload["description"] = p.description
		payload["public"] = false
	}

	data, err := p.do(ctx, method, path, payload)
	if err != nil {
		return "", err
	}
	var resp gistResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("parse gist response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("gist response missing id")
	}
	return resp.ID, nil
}

func toFilePayload(files map[string]string) map[string]*gistFile {
	payload := make(map[string]*gistFile, len(files))
	for name, content := range files {
		payload[name] = &gistFile{Content: content}
	}
	return payload
}

// List enumerates the gist's files.
func (p *Provider) List(ctx context.Context, containerID string) ([]sync.BackupFile, error) {
	data, err := p.do(ctx, http.MethodGet, "/gists/"+containerID, nil)
	if err != nil {
		return nil, err
	}
	var resp gistResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse gist response: %w", err)
	}
	files := make([]sync.BackupFile, 0, len(resp.Files))
	for name, f := range resp.Files {
		size := 0
		if f != nil {
			size = f.Size
		}
		files = append(files, sync.BackupFile{Name: name, Size: size})
	}
	return files, nil
}

// Fetch returns one file's contents. Large gist files come back truncated
// inline, in which case the raw URL is followed.
func (p *Provider) Fetch(ctx context.Context, containerID, name string) ([]byte, error) {
	data, err := p.do(ctx, http.MethodGet, "/gists/"+containerID, nil)
	if err != nil {
		return nil, err
	}
	var resp gistResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse gist response: %w", err)
	}
	f, ok := resp.Files[name]
	if !ok || f == nil {
		return nil, fmt.Errorf("file %s not in backup container", name)
	}
	if !f.Truncated {
		return []byte(f.Content), nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.RawURL, nil)
	if err != nil {
		return nil, err
	}
	rawResp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch raw file: %w", err)
	}
	defer rawResp.Body.Close()
	if rawResp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch raw file: status %d", rawResp.StatusCode)
	}
	return io.ReadAll(rawResp.Body)
}

// Delete removes files by patching them to null.
func (p *Provider) Delete(ctx context.Context, containerID string, names []string) error {
	files := make(map[string]interface{}, len(names))
	for _, name := range names {
		files[name] = nil
	}
	_, err := p.do(ctx, http.MethodPatch, "/gists/"+containerID, map[string]interface{}{"files": files})
	return err
}

// Locate scans the account's gists for the one holding the latest pointer
// file.
func (p *Provider) Locate(ctx context.Context) (string, error) {
	data, err := p.do(ctx, http.MethodGet, "/gists", nil)
	if err != nil {
		return "", err
	}
	var gists []gistResponse
	if err := json.Unmarshal(data, &gists); err != nil {
		return "", fmt.Errorf("parse gist list: %w", err)
	}
	for _, g := range gists {
		if _, ok := g.Files[sync.LatestFile]; ok {
			return g.ID, nil
		}
	}
	return "", sync.ErrNotFound
}
