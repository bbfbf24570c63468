package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrNotConfigured means no API key is present; callers degrade to
	// manual entry instead of failing the request.
	ErrNotConfigured = errors.New("recognition not configured")
	ErrUnrecognized  = errors.New("no recognizable package fields in response")
)

// PackageFields is what the vision model extracts from a package flyer image
type PackageFields struct {
	Net      string `json:"net"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Code     string `json:"code"`
	Validity string `json:"validity"`
	Internet string `json:"internet"`
	OnNet    string `json:"onNet"`
	OffNet   string `json:"offNet"`
	SMS      string `json:"sms"`
}

// Client calls an image-understanding API to autofill catalog forms
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a recognition client. An empty apiKey produces a client
// that reports ErrNotConfigured on use.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Configured reports whether an API key is available
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.baseURL != ""
}

type analyzeRequest struct {
	Prompt    string `json:"prompt"`
	ImageData string `json:"image_data"`
	MimeType  string `json:"mime_type"`
}

type analyzeResponse struct {
	Text string `json:"text"`
}

const extractionPrompt = `Extract the telecom bundle details from this image and reply with a single JSON object with keys: net (one of telenor, jazz, zong, ufone), name, price (digits only), code, validity, internet, onNet, offNet, sms. Use empty strings for unreadable fields.`

// Analyze sends the image and parses the extracted package fields. The model
// reply may be wrapped in a markdown code fence.
func (c *Client) Analyze(ctx context.Context, image []byte, mimeType string) (*PackageFields, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(analyzeRequest{
		Prompt:    extractionPrompt,
		ImageData: base64.StdEncoding.EncodeToString(image),
		MimeType:  mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("recognition request error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("recognition request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognition call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition call failed: status %d", resp.StatusCode)
	}

	var body analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("recognition response error: %w", err)
	}

	return ParseFields(body.Text)
}

// ParseFields extracts PackageFields from model output, tolerating markdown
// code fences around the JSON.
func ParseFields(text string) (*PackageFields, error) {
	cleaned := StripFence(text)

	var fields PackageFields
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("recognition response error: %w", err)
	}

	if fields == (PackageFields{}) {
		return nil, ErrUnrecognized
	}
	return &fields, nil
}

// StripFence removes a surrounding ```json ... ``` (or plain ```) fence
func StripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx != -1 && !strings.HasPrefix(s, "{") {
		// drop the language tag line, e.g. "json"
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
