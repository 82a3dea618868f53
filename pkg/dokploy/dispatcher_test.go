package dokploy

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/etdofresh/dokploy-probe/pkg/httpclient"
)

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) Get(context.Context, string, map[string]string) (httpclient.Response, error) {
	c.calls++
	return nil, c.err
}

func (c *countingClient) Post(context.Context, string, map[string]string, []byte) (httpclient.Response, error) {
	c.calls++
	return nil, c.err
}

type recordingObserver struct {
	got []Dispatch
}

func (r *recordingObserver) Observe(_ context.Context, d Dispatch) {
	r.got = append(r.got, d)
}

func TestDispatcherURLJoinsWithSingleSlash(t *testing.T) {
	d := NewDispatcher(Config{BaseURL: "https://example.com/", Offline: true}, WithOutput(io.Discard))

	if got := d.URL("api/x"); got != "https://example.com/api/x" {
		t.Fatalf("URL = %q", got)
	}
	if got := d.URL("/api/x"); got != "https://example.com/api/x" {
		t.Fatalf("URL with leading slash = %q", got)
	}
}

func TestDispatchRejectsUnsupportedMethod(t *testing.T) {
	client := &countingClient{}
	var out bytes.Buffer
	d := NewDispatcher(Config{BaseURL: "https://example.com"}, WithHTTPClient(client), WithOutput(&out))

	for _, method := range []string{"PUT", "DELETE", "PATCH", ""} {
		resp, err := d.Dispatch(context.Background(), method, "api/x", nil)
		if !errors.Is(err, ErrUnsupportedMethod) {
			t.Fatalf("method %q: expected ErrUnsupportedMethod, got %v", method, err)
		}
		if resp != nil {
			t.Fatalf("method %q: expected nil response", method)
		}
	}
	if client.calls != 0 {
		t.Fatalf("expected no network calls, got %d", client.calls)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestDispatchOfflineDescribesRequest(t *testing.T) {
	var out bytes.Buffer
	obs := &recordingObserver{}
	d := NewDispatcher(Config{BaseURL: "https://example.com/", APIKey: "key-1", Offline: true},
		WithOutput(&out), WithObserver(obs))

	if !d.Offline() {
		t.Fatalf("expected offline dispatcher")
	}

	resp, err := d.Dispatch(context.Background(), "post", "api/trpc/mysql.start", trpcInput("mysqlId", "m1"))
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp != nil {
		t.Fatalf("expected absent response, got %#v", resp)
	}

	text := out.String()
	for _, want := range []string{
		"Request: POST https://example.com/api/trpc/mysql.start",
		"Would make request with headers:",
		`"x-api-key": "key-1"`,
		`"Content-Type": "application/json"`,
		"With data:",
		`"mysqlId": "m1"`,
		"(Skipping actual request",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	if len(obs.got) != 1 || obs.got[0].Outcome != OutcomeOffline {
		t.Fatalf("expected one offline observation, got %#v", obs.got)
	}
}

func TestDispatchOfflineGetOmitsData(t *testing.T) {
	var out bytes.Buffer
	d := NewDispatcher(Config{BaseURL: "https://example.com", Offline: true}, WithOutput(&out))

	if _, err := d.Dispatch(context.Background(), http.MethodGet, EndpointProjectAll, map[string]string{"ignored": "x"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if strings.Contains(out.String(), "With data") || strings.Contains(out.String(), "Content-Type") {
		t.Fatalf("GET must not describe a body:\n%s", out.String())
	}
}

func TestDispatchParsesJSONOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/x" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("accept"); got != "application/json" {
			t.Fatalf("accept = %q", got)
		}
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Fatalf("x-api-key = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "" {
			t.Fatalf("GET should not carry Content-Type, got %q", got)
		}
		_, _ = w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	d := NewDispatcher(Config{BaseURL: srv.URL + "/", APIKey: "secret", Timeout: time.Second},
		WithOutput(io.Discard), WithObserver(obs))

	resp, err := d.Dispatch(context.Background(), http.MethodGet, "api/x", nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !resp.Structured() {
		t.Fatalf("expected structured response, raw=%q", resp.Raw)
	}
	if want := map[string]any{"a": float64(1)}; !reflect.DeepEqual(resp.Value, want) {
		t.Fatalf("Value = %#v", resp.Value)
	}

	var decoded struct {
		A int `json:"a"`
	}
	if err := resp.Decode(&decoded); err != nil || decoded.A != 1 {
		t.Fatalf("Decode = %+v, %v", decoded, err)
	}
	if len(obs.got) != 1 || obs.got[0].Outcome != OutcomeOK || obs.got[0].StatusCode != 200 {
		t.Fatalf("unexpected observations %#v", obs.got)
	}
}

func TestDispatchFallsBackToText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	d := NewDispatcher(Config{BaseURL: srv.URL}, WithOutput(io.Discard))
	resp, err := d.Dispatch(context.Background(), http.MethodGet, "api/x", nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp.Structured() {
		t.Fatalf("expected raw text response")
	}
	if resp.Raw != "ok" {
		t.Fatalf("Raw = %q", resp.Raw)
	}
	if err := resp.Decode(&struct{}{}); err == nil {
		t.Fatalf("expected Decode error for text body")
	}
}

func TestDispatchPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("Content-Type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"json":{"applicationId":"app-1"}}` {
			t.Fatalf("body = %s", body)
		}
		_, _ = w.Write([]byte(`{"result":{"data":{"json":true}}}`))
	}))
	defer srv.Close()

	d := NewDispatcher(Config{BaseURL: srv.URL}, WithOutput(io.Discard))
	resp, err := d.Dispatch(context.Background(), http.MethodPost, EndpointApplicationDeploy, DeployPayload("app-1"))
	if err != nil || resp == nil {
		t.Fatalf("Dispatch: resp=%v err=%v", resp, err)
	}
}

func TestDispatchNon200ReturnsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	var out bytes.Buffer
	obs := &recordingObserver{}
	d := NewDispatcher(Config{BaseURL: srv.URL}, WithOutput(&out), WithObserver(obs))

	resp, err := d.Dispatch(context.Background(), http.MethodGet, "api/x", nil)
	if err != nil {
		t.Fatalf("Dispatch should not error on 500: %v", err)
	}
	if resp != nil {
		t.Fatalf("expected absent response")
	}
	if !strings.Contains(out.String(), "Status Code: 500") || !strings.Contains(out.String(), "Error: boom") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if len(obs.got) != 1 || obs.got[0].Outcome != OutcomeHTTPError || obs.got[0].StatusCode != 500 {
		t.Fatalf("unexpected observations %#v", obs.got)
	}
}

func TestDispatchTransportFailureReturnsAbsent(t *testing.T) {
	client := &countingClient{err: errors.New("dial tcp: connection refused")}
	var out bytes.Buffer
	obs := &recordingObserver{}
	d := NewDispatcher(Config{BaseURL: "https://example.com"}, WithHTTPClient(client), WithOutput(&out), WithObserver(obs))

	resp, err := d.Dispatch(context.Background(), http.MethodPost, "api/x", map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("Dispatch should not error on transport failure: %v", err)
	}
	if resp != nil {
		t.Fatalf("expected absent response")
	}
	if client.calls != 1 {
		t.Fatalf("expected one call, got %d", client.calls)
	}
	if !strings.Contains(out.String(), "Request failed: dial tcp: connection refused") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if len(obs.got) != 1 || obs.got[0].Outcome != OutcomeTransportError {
		t.Fatalf("unexpected observations %#v", obs.got)
	}
}

func TestDispatchRejectsUnencodablePayload(t *testing.T) {
	d := NewDispatcher(Config{BaseURL: "https://example.com", Offline: true}, WithOutput(io.Discard))
	if _, err := d.Dispatch(context.Background(), http.MethodPost, "api/x", make(chan int)); err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestNewDispatcherTimeout(t *testing.T) {
	cases := []struct {
		timeout time.Duration
		want    time.Duration
	}{
		{0, DefaultTimeout},
		{-time.Second, DefaultTimeout},
		{3 * time.Second, 3 * time.Second},
	}
	for _, c := range cases {
		d := NewDispatcher(Config{BaseURL: "https://example.com", Timeout: c.timeout}, WithOutput(io.Discard))
		rc, ok := d.client.(*httpclient.RestyClient)
		if !ok {
			t.Fatalf("expected resty transport, got %T", d.client)
		}
		if got := rc.Timeout(); got != c.want {
			t.Fatalf("Timeout(%s) = %s, want %s", c.timeout, got, c.want)
		}
	}
	if DefaultTimeout != 10*time.Second {
		t.Fatalf("DefaultTimeout = %s", DefaultTimeout)
	}
}
