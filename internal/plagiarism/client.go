package plagiarism

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TextResult is the upstream verdict for a text submission plus local stats.
type TextResult struct {
	PlagiarismResult any       `json:"plagiarismResult"`
	TextStats        TextStats `json:"textStats"`
	ProcessedAt      string    `json:"processedAt"`
}

// URLResult is the upstream verdict for a web page plus where it lives.
type URLResult struct {
	PlagiarismResult any    `json:"plagiarismResult"`
	InputURL         string `json:"inputUrl"`
	Domain           string `json:"domain"`
	ProcessedAt      string `json:"processedAt"`
}

// ClientConfig configures the GoWinston client.
type ClientConfig struct {
	Endpoint    string
	Token       string
	TextTimeout time.Duration
	URLTimeout  time.Duration
	Language    string
	Country     string

	// HTTPClient defaults to a client without its own timeout; per call
	// timeouts come from TextTimeout and URLTimeout.
	HTTPClient *http.Client
	Clock      func() time.Time
}

// Client talks to the GoWinston plagiarism detection API.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	token       string
	textTimeout time.Duration
	urlTimeout  time.Duration
	language    string
	country     string
	now         func() time.Time
}

// NewClient builds a Client, filling unset fields with defaults.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		httpClient:  cfg.HTTPClient,
		endpoint:    cfg.Endpoint,
		token:       cfg.Token,
		textTimeout: cfg.TextTimeout,
		urlTimeout:  cfg.URLTimeout,
		language:    cfg.Language,
		country:     cfg.Country,
		now:         cfg.Clock,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.textTimeout <= 0 {
		c.textTimeout = 45 * time.Second
	}
	if c.urlTimeout <= 0 {
		c.urlTimeout = 60 * time.Second
	}
	if c.language == "" {
		c.language = "en"
	}
	if c.country == "" {
		c.country = "us"
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Configured reports whether an API token is present.
func (c *Client) Configured() bool {
	return c.token != ""
}

type checkPayload struct {
	Language string `json:"language"`
	Country  string `json:"country"`
	Text     string `json:"text,omitempty"`
	File     string `json:"file,omitempty"`
}

// CheckText submits raw text.
func (c *Client) CheckText(ctx context.Context, text string) (*TextResult, error) {
	result, err := c.post(ctx, checkPayload{
		Language: c.language,
		Country:  c.country,
		Text:     text,
	}, c.textTimeout)
	if err != nil {
		return nil, err
	}
	return &TextResult{
		PlagiarismResult: result,
		TextStats:        ComputeTextStats(text),
		ProcessedAt:      isoTime(c.now()),
	}, nil
}

// CheckURL asks the API to fetch and check a web page.
func (c *Client) CheckURL(ctx context.Context, rawURL string) (*URLResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, setupError(err)
	}
	result, err := c.post(ctx, checkPayload{
		Language: c.language,
		Country:  c.country,
		File:     rawURL,
	}, c.urlTimeout)
	if err != nil {
		return nil, err
	}
	return &URLResult{
		PlagiarismResult: result,
		InputURL:         rawURL,
		Domain:           u.Hostname(),
		ProcessedAt:      isoTime(c.now()),
	}, nil
}

// post sends one request and returns the decoded upstream body. The call is
// detached from ctx cancellation and bounded only by timeout.
func (c *Client) post(ctx context.Context, payload checkPayload, timeout time.Duration) (any, error) {
	if c.endpoint == "" {
		return nil, setupError(errors.New("plagiarism API URL is not configured"))
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, setupError(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, setupError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, connectivityError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectivityError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, upstreamMessage(data))
	}
	return decodeBody(data), nil
}

// decodeBody passes JSON through untouched and anything else as a string.
func decodeBody(data []byte) any {
	if json.Valid(data) {
		return json.RawMessage(data)
	}
	return string(data)
}

// upstreamMessage extracts {"message": "..."} from an error body.
func upstreamMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}
