// Package repoclient treats one branch of a GitHub repository as a tiny
// document database: each collection is a JSON file and each media asset
// a binary file, both addressed by path and versioned by the blob SHA the
// contents API returns. The SHA is the optimistic-concurrency token: a
// write carrying a stale SHA is rejected instead of clobbering the file.
package repoclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"extynct-community/internal/model"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"

	requestTimeout = 30 * time.Second
)

// Client talks to the contents API for a single configured repository.
type Client struct {
	cfg  model.RepoConfig
	http *http.Client

	// APIBase and RawBase exist so tests can point the client at a
	// local server. Zero values mean the public GitHub endpoints.
	APIBase string
	RawBase string
}

// New validates the configuration gate: owner, repo, and a real token
// are required before any remote operation runs.
func New(cfg model.RepoConfig) (*Client, error) {
	cfg = cfg.Normalize()
	if !cfg.IsConfigured() {
		return nil, model.ErrNotConfigured
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: requestTimeout},
		APIBase: defaultAPIBase,
		RawBase: defaultRawBase,
	}, nil
}

// Config returns the normalized repository configuration.
func (c *Client) Config() model.RepoConfig { return c.cfg }

// CollectionPath maps a table name to its repository path.
func (c *Client) CollectionPath(table string) string {
	return path.Join(c.cfg.DataDir, table+".json")
}

type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type apiError struct {
	Message string `json:"message"`
}

// FetchCollection GETs the file at repoPath on the configured branch and
// returns its decoded bytes plus the current blob SHA. A 404 is not an
// error: it means the collection does not exist yet, reported as nil
// content and an empty SHA.
func (c *Client) FetchCollection(ctx context.Context, repoPath string) ([]byte, string, error) {
	u := fmt.Sprintf("%s?ref=%s", c.contentsURL(repoPath), url.QueryEscape(c.cfg.Branch))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", repoPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", c.statusError("fetch", repoPath, resp)
	}

	var body contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("decode contents response for %s: %w", repoPath, err)
	}

	raw, err := decodeBase64(body.Content)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s content: %w", repoPath, err)
	}
	return raw, body.SHA, nil
}

// SaveCollection PUTs the JSON-serialized items (pretty-printed with a
// trailing newline). The sha is included iff known, which makes the API
// reject the write when the file changed concurrently. At most one write
// is attempted; retrying after model.ErrVersionConflict is the caller's
// decision.
func (c *Client) SaveCollection(ctx context.Context, repoPath string, items any, sha, message string) (string, error) {
	text, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", repoPath, err)
	}
	return c.put(ctx, repoPath, append(text, '\n'), sha, message)
}

// UploadMedia writes attachment bytes to a fresh unique path under the
// configured media directory. No SHA is needed since the path never
// exists yet. Size limits are tighter than the API server's: every byte
// becomes a git blob on the hosting side.
func (c *Client) UploadMedia(ctx context.Context, name, mimeType string, data []byte) (*model.Media, error) {
	limit := int64(model.MaxRepoImageSize)
	if strings.HasPrefix(strings.ToLower(mimeType), "video/") {
		limit = model.MaxRepoVideoSize
	}
	if int64(len(data)) > limit {
		return nil, model.ErrMediaTooLarge
	}

	mediaPath := path.Join(c.cfg.MediaDir, uuid.NewString()[:8]+"-"+SlugifyFileName(name))
	if _, err := c.put(ctx, mediaPath, data, "", "Upload community media "+name); err != nil {
		return nil, err
	}

	return &model.Media{
		Type:         model.MediaTypeFile,
		URL:          c.rawURL(mediaPath),
		Path:         mediaPath,
		OriginalName: name,
		MimeType:     mimeType,
		Size:         int64(len(data)),
	}, nil
}

func (c *Client) put(ctx context.Context, repoPath string, data []byte, sha, message string) (string, error) {
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  c.cfg.Branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(repoPath), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("update %s: %w", repoPath, err)
	}
	defer resp.Body.Close()

	// 409 and 422 are how the contents API reports a stale SHA.
	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		return "", fmt.Errorf("update %s: %w", repoPath, model.ErrVersionConflict)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", c.statusError("update", repoPath, resp)
	}

	var result putResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode update response for %s: %w", repoPath, err)
	}
	return result.Content.SHA, nil
}

func (c *Client) contentsURL(repoPath string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.APIBase, c.cfg.Owner, c.cfg.Repo, repoPath)
}

func (c *Client) rawURL(repoPath string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.RawBase, c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, repoPath)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
}

// statusError surfaces the API's own message when one is present.
func (c *Client) statusError(op, repoPath string, resp *http.Response) error {
	detail := ""
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			detail = ": " + apiErr.Message
		} else if len(raw) > 0 {
			detail = ": " + strings.TrimSpace(string(raw))
		}
	}
	return fmt.Errorf("%s %s failed (%d)%s", op, repoPath, resp.StatusCode, detail)
}

func decodeBase64(content string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, content)
	if clean == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(clean)
}

// SlugifyFileName lowercases the base name and collapses anything outside
// [a-z0-9] into hyphens, keeping the extension.
func SlugifyFileName(name string) string {
	trimmed := strings.TrimSpace(name)
	ext := strings.ToLower(path.Ext(trimmed))
	base := strings.TrimSuffix(trimmed, path.Ext(trimmed))

	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "file"
	}
	return slug + ext
}
