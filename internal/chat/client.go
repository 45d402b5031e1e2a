package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/calendargpt/calendargpt/internal/domain"
)

// HTTPBackend implements Backend over the CalendarGPT server's JSON API.
type HTTPBackend struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (b *HTTPBackend) CheckCredentials(ctx context.Context, userID string) (bool, error) {
	var result struct {
		HasCredentials bool `json:"has_credentials"`
	}
	u := b.baseURL + "/api/auth/check-credentials?user_id=" + userID
	if err := b.getJSON(ctx, u, &result); err != nil {
		return false, err
	}
	return result.HasCredentials, nil
}

func (b *HTTPBackend) InitAI(ctx context.Context, userID string) (string, error) {
	var result struct {
		Response string `json:"response"`
	}
	if err := b.postJSON(ctx, "/api/ai/init", map[string]string{"user_id": userID}, &result); err != nil {
		return "", err
	}
	return result.Response, nil
}

func (b *HTTPBackend) ProcessText(ctx context.Context, text, userID string) (*domain.ResponsePayload, error) {
	payload := &domain.ResponsePayload{}
	body := map[string]string{"text": text, "user_id": userID}
	if err := b.postJSON(ctx, "/api/ai/process", body, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (b *HTTPBackend) ExtractFile(ctx context.Context, filename string, data []byte, userID, note string) (*domain.ResponsePayload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := w.WriteField("user_id", userID); err != nil {
		return nil, fmt.Errorf("write user_id field: %w", err)
	}
	if note != "" {
		if err := w.WriteField("user_message", note); err != nil {
			return nil, fmt.Errorf("write user_message field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/api/file/extract", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	payload := &domain.ResponsePayload{}
	if err := b.do(req, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SignOut tells the server the session is over. Local cleanup does not
// depend on this call succeeding.
func (b *HTTPBackend) SignOut(ctx context.Context) error {
	return b.postJSON(ctx, "/api/auth/sign-out", map[string]string{}, nil)
}

func (b *HTTPBackend) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return b.do(req, out)
}

func (b *HTTPBackend) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(req, out)
}

func (b *HTTPBackend) do(req *http.Request, out any) error {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
