// Package api is the HTTP collaborator for the preservation portal backend.
// It owns the base URL and credential attachment; everything above it deals
// in documents and users, never in requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"preserva/internal/document"
)

// TokenSource supplies the stored credential token. An empty string means
// no credential; requests are still sent and the backend answers 401.
type TokenSource interface {
	Token() string
}

// User is the authenticated identity returned by GET /auth/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client talks to the backend REST API. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
}

// NewClient builds a Client for the given base URL. No retry policy: a
// failed call fails, and polling callers just wait for their next tick.
func NewClient(baseURL string, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: trimSlash(baseURL),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		log:     log,
	}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request with credentials attached and decodes the JSON
// response into out (when out is non-nil). Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if tok := c.tokens.Token(); tok != "" {
		// The browser front end sends the credential as a cookie; keep that
		// and add a bearer header for backends that read either.
		req.Header.Set("Authorization", "Bearer "+tok)
		req.AddCookie(&http.Cookie{Name: "token", Value: tok})
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	c.log.Debug("request done", zap.String("method", method), zap.String("path", path),
		zap.String("request_id", reqID), zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		return newError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json", out)
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	return resp.Token, err
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.postJSON(ctx, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	return resp.Token, err
}

// Me resolves the current user from the stored token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, "", &u)
	return u, err
}

// ListDocuments fetches the full document collection.
func (c *Client) ListDocuments(ctx context.Context) ([]document.Document, error) {
	var docs []document.Document
	err := c.do(ctx, http.MethodGet, "/documents", nil, "", &docs)
	return docs, err
}

// GetDocument fetches a single document.
func (c *Client) GetDocument(ctx context.Context, id string) (document.Document, error) {
	var doc document.Document
	err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, "", &doc)
	return doc, err
}

// DeleteDocument removes a document server-side.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, "", nil)
}

// Upload is the multipart payload for creating a document.
type Upload struct {
	Name     string
	FilePath string
	Metadata document.Metadata
}

// UploadDocument sends the PDF plus its descriptive metadata and returns the
// created document (status INICIADO until the pipeline progresses).
func (c *Client) UploadDocument(ctx context.Context, up Upload) (document.Document, error) {
	var doc document.Document

	f, err := os.Open(up.FilePath)
	if err != nil {
		return doc, fmt.Errorf("open %s: %w", up.FilePath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(up.FilePath))
	if err != nil {
		return doc, fmt.Errorf("encode upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return doc, fmt.Errorf("read %s: %w", up.FilePath, err)
	}
	if err := w.WriteField("name", up.Name); err != nil {
		return doc, fmt.Errorf("encode upload: %w", err)
	}
	meta := up.Metadata
	if meta == nil {
		meta = document.Metadata{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return doc, fmt.Errorf("encode metadata: %w", err)
	}
	if err := w.WriteField("metadata", string(metaJSON)); err != nil {
		return doc, fmt.Errorf("encode upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return doc, fmt.Errorf("encode upload: %w", err)
	}

	err = c.do(ctx, http.MethodPost, "/documents", &buf, w.FormDataContentType(), &doc)
	return doc, err
}

// ViewToken requests a short-lived viewing token for the document's PDF.
func (c *Client) ViewToken(ctx context.Context, id string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/token", nil, "", &resp)
	return resp.Token, err
}

// ViewURL builds the embedded-viewer URL for a document with its viewing token.
func (c *Client) ViewURL(id, viewToken string) string {
	return fmt.Sprintf("%s/documents/%s/view?token=%s",
		c.baseURL, url.PathEscape(id), url.QueryEscape(viewToken))
}

// Download fetches a viewing token and streams the preserved PDF into w.
func (c *Client) Download(ctx context.Context, id string, w io.Writer) error {
	tok, err := c.ViewToken(ctx, id)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ViewURL(id, tok), nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return newError(resp.StatusCode, data)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download %s: %w", id, err)
	}
	return nil
}
