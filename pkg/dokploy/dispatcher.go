package dokploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/etdofresh/dokploy-probe/pkg/httpclient"
)

// ErrUnsupportedMethod is returned for any method other than GET or POST.
var ErrUnsupportedMethod = errors.New("dokploy: unsupported method")

const (
	headerAccept      = "accept"
	headerAPIKey      = "x-api-key"
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"

	// DefaultTimeout bounds every dispatched call.
	DefaultTimeout = 10 * time.Second
)

// Outcome classifies how a dispatch ended.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeHTTPError      Outcome = "http_error"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeOffline        Outcome = "offline"
)

// Dispatch describes one finished call. Observers receive it after the console output.
type Dispatch struct {
	Method     string
	Endpoint   string
	URL        string
	StatusCode int
	Outcome    Outcome
	Err        string
	Elapsed    time.Duration
}

// Observer is notified of every dispatched request, including offline ones.
type Observer interface {
	Observe(ctx context.Context, d Dispatch)
}

// Response is a successful (HTTP 200) API reply.
type Response struct {
	StatusCode int
	// Raw is the response body as text.
	Raw string
	// Value holds the decoded JSON body when Structured reports true.
	Value any

	structured bool
}

// Structured reports whether the body was valid JSON.
func (r *Response) Structured() bool { return r != nil && r.structured }

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if r == nil {
		return errors.New("dokploy: nil response")
	}
	if !r.structured {
		return errors.New("dokploy: response body is not json")
	}
	return json.Unmarshal([]byte(r.Raw), v)
}

// Pretty returns the body reindented as it was received, or the raw text
// when the body is not JSON.
func (r *Response) Pretty() string {
	if r == nil {
		return ""
	}
	if !r.structured {
		return r.Raw
	}
	out, err := indentRaw([]byte(r.Raw))
	if err != nil {
		return r.Raw
	}
	return out
}

// Config describes the target Dokploy instance.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Offline disables the HTTP client; requests are only described.
	Offline bool
}

// Dispatcher builds, sends and interprets single requests against the Dokploy API.
// A Dispatcher without an HTTP client runs in degraded mode.
type Dispatcher struct {
	baseURL  string
	apiKey   string
	client   httpclient.Client
	out      io.Writer
	log      Logger
	observer Observer
}

// NewDispatcher returns a dispatcher for cfg.
func NewDispatcher(cfg Config, opts ...Option) *Dispatcher {
	o := buildOptions(opts)

	d := &Dispatcher{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:   cfg.APIKey,
		out:      o.out,
		log:      o.log,
		observer: o.observer,
	}
	if cfg.Offline {
		return d
	}

	d.client = o.httpClient
	if d.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		d.client = httpclient.NewRestyClient(timeout)
	}
	return d
}

// Offline reports whether the dispatcher only describes requests.
func (d *Dispatcher) Offline() bool { return d.client == nil }

// BaseURL returns the normalized base URL.
func (d *Dispatcher) BaseURL() string { return d.baseURL }

// URL joins the base URL and endpoint with exactly one slash.
func (d *Dispatcher) URL(endpoint string) string {
	return d.baseURL + "/" + strings.TrimLeft(strings.TrimSpace(endpoint), "/")
}

// Headers returns the headers a request with or without a JSON body carries.
func (d *Dispatcher) Headers(withBody bool) map[string]string {
	list := d.headerList(withBody)
	headers := make(map[string]string, len(list))
	for _, h := range list {
		headers[h.name] = h.value
	}
	return headers
}

func (d *Dispatcher) headerList(withBody bool) []header {
	list := []header{
		{name: headerAccept, value: mimeJSON},
		{name: headerAPIKey, value: d.apiKey},
	}
	if withBody {
		list = append(list, header{name: headerContentType, value: mimeJSON})
	}
	return list
}

// Dispatch sends method to endpoint. The payload is only sent with POST.
//
// A nil response with a nil error means the call produced no result: the API
// answered with a non-200 status, the transport failed, or the dispatcher is
// offline. Each case is reported on the console instead of returned.
func (d *Dispatcher) Dispatch(ctx context.Context, method, endpoint string, payload any) (*Response, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	if method == http.MethodGet {
		payload = nil
	}

	var body []byte
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = raw
	}

	url := d.URL(endpoint)
	withBody := body != nil
	headers := d.Headers(withBody)
	record := Dispatch{Method: method, Endpoint: endpoint, URL: url}

	d.printf("Request: %s %s\n", method, url)

	if d.client == nil {
		d.describe(withBody, payload)
		record.Outcome = OutcomeOffline
		d.notify(ctx, record)
		return nil, nil
	}

	start := time.Now()
	var (
		resp httpclient.Response
		err  error
	)
	if method == http.MethodGet {
		resp, err = d.client.Get(ctx, url, headers)
	} else {
		resp, err = d.client.Post(ctx, url, headers, body)
	}
	record.Elapsed = time.Since(start)

	if err != nil {
		d.printf("Request failed: %v\n", err)
		d.log.WarnObj("dokploy request failed", "dokploy_transport_error", map[string]any{
			"method": method,
			"url":    url,
			"error":  err.Error(),
		})
		record.Outcome = OutcomeTransportError
		record.Err = err.Error()
		d.notify(ctx, record)
		return nil, nil
	}

	record.StatusCode = resp.StatusCode()
	d.printf("Status Code: %d\n", resp.StatusCode())

	if resp.StatusCode() != http.StatusOK {
		d.printf("Error: %s\n", string(resp.Body()))
		d.log.WarnObj("dokploy request rejected", "dokploy_http_error", map[string]any{
			"method":      method,
			"url":         url,
			"status_code": resp.StatusCode(),
			"body":        bodySnippet(resp.Body()),
		})
		record.Outcome = OutcomeHTTPError
		record.Err = bodySnippet(resp.Body())
		d.notify(ctx, record)
		return nil, nil
	}

	out := &Response{StatusCode: resp.StatusCode(), Raw: string(resp.Body())}
	var value any
	if err := json.Unmarshal(resp.Body(), &value); err == nil {
		out.Value = value
		out.structured = true
	}

	d.log.DebugObj("dokploy request completed", "dokploy_response", map[string]any{
		"method":     method,
		"url":        url,
		"structured": out.structured,
		"elapsed_ms": record.Elapsed.Milliseconds(),
	})
	record.Outcome = OutcomeOK
	d.notify(ctx, record)
	return out, nil
}

// describe prints what an offline dispatch would have sent.
func (d *Dispatcher) describe(withBody bool, payload any) {
	d.printf("Would make request with headers: %s\n", headersJSON(d.headerList(withBody)))
	if payload != nil {
		d.printf("With data: %s\n", IndentJSON(payload))
	}
	d.printf("(Skipping actual request - HTTP client not available)\n")
}

func (d *Dispatcher) notify(ctx context.Context, rec Dispatch) {
	if d.observer == nil {
		return
	}
	d.observer.Observe(ctx, rec)
}

func (d *Dispatcher) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
