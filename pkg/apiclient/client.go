package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/quka-ai/course-console/pkg/errors"
)

const (
	DefaultTimeout = 30 * time.Second
	userAgent      = "course-console/1.0"
)

// Observer receives one call per finished request. status is 0 when the
// request never got a response.
type Observer interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// Client performs calls against the backend with uniform headers and error
// handling. It never retries.
type Client struct {
	baseURL  string
	client   *http.Client
	header   http.Header
	limiter  *rate.Limiter
	observer Observer
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cli *Client) {
		cli.client = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cli *Client) {
		if d > 0 {
			cli.client.Timeout = d
		}
	}
}

func WithHeader(key, value string) Option {
	return func(cli *Client) {
		cli.header.Set(key, value)
	}
}

// WithRateLimit caps outgoing requests per second. A zero limit disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cli *Client) {
		if perSecond <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		cli.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithObserver(o Observer) Option {
	return func(cli *Client) {
		cli.observer = o
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		header:  http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Result is a successful response body.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r *Result) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.Contains(r.ContentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func (r *Result) Text() string {
	return string(r.Body)
}

// Decode stores the body into out: JSON bodies are unmarshalled, anything else
// is only accepted by a *string.
func (r *Result) Decode(out any) error {
	if out == nil || len(r.Body) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok && !r.IsJSON() {
		*s = r.Text()
		return nil
	}
	if !r.IsJSON() {
		return errors.New("Result.Decode", fmt.Sprintf("unexpected content type %q", r.ContentType), nil).Kind(errors.KindDecode)
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return errors.New("Result.Decode", "failed to decode response body", err).Kind(errors.KindDecode)
	}
	return nil
}

type errorBody struct {
	Detail any `json:"detail"`
}

// Request sends one request. path is appended to the base URL as is.
func (c *Client) Request(ctx context.Context, method, path string, body io.Reader, header http.Header) (*Result, error) {
	res, status, err := c.do(ctx, method, path, body, header)
	if err != nil {
		slog.Error("api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
			slog.String("component", "apiclient.Request"))
		return nil, err
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*Result, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, errors.New("Client.Request.Limiter", err.Error(), err).Kind(errors.KindTransport)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, errors.New("Client.Request.NewRequest", fmt.Sprintf("failed to create request: %s", err), err).Kind(errors.KindTransport)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range c.header {
		req.Header[k] = v
	}
	for k, v := range header {
		req.Header[k] = v
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		return nil, 0, errors.New("Client.Request.Do", err.Error(), err).Kind(errors.KindTransport)
	}
	defer resp.Body.Close()
	c.observe(method, resp.StatusCode, start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.New("Client.Request.ReadBody", fmt.Sprintf("failed to read response body: %s", err), err).Kind(errors.KindTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, errors.New("Client.Request.Status", statusMessage(resp.StatusCode, resp.Status, raw), nil).
			Kind(errors.KindHTTP).
			Code(resp.StatusCode)
	}

	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        raw,
	}, resp.StatusCode, nil
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, status, time.Since(start))
	}
}

// statusMessage prefers the backend's string detail over the status line.
// status is the raw "599 Reason" line; known codes fill in an empty reason.
func statusMessage(code int, status string, raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if detail, ok := body.Detail.(string); ok && detail != "" {
			return detail
		}
	}
	_, reason, _ := strings.Cut(status, " ")
	if reason = strings.TrimSpace(reason); reason == "" {
		reason = http.StatusText(code)
	}
	return fmt.Sprintf("HTTP %d: %s", code, reason)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, header http.Header, out any) error {
	res, err := c.Request(ctx, method, path, body, header)
	if err != nil {
		return err
	}
	if err = res.Decode(out); err != nil {
		slog.Error("api response decode failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

func jsonHeader() http.Header {
	return http.Header{"Content-Type": []string{"application/json"}}
}

func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}
	return c.send(ctx, http.MethodGet, path, nil, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPost, path, body, jsonHeader(), out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPut, path, body, jsonHeader(), out)
}

func (c *Client) Delete(ctx context.Context, path string, params url.Values, out any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}
	return c.send(ctx, http.MethodDelete, path, nil, nil, out)
}

// PostForm sends a multipart form. The content type, boundary included, comes
// from the form encoder rather than the JSON default.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out any) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return errors.New("Client.PostForm.Encode", fmt.Sprintf("failed to encode form: %s", err), err).Kind(errors.KindValidation)
	}
	return c.send(ctx, http.MethodPost, path, body, http.Header{"Content-Type": []string{contentType}}, out)
}

func encodeJSON(in any) (io.Reader, error) {
	if in == nil {
		in = struct{}{}
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, errors.New("Client.EncodeJSON", fmt.Sprintf("failed to encode request body: %s", err), err).Kind(errors.KindValidation)
	}
	return bytes.NewReader(raw), nil
}
