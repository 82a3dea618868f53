package publishers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etdofresh/dokploy-probe/pkg/dokploy"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadConfigEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: hook1
    type: http
    enabled: false
    http:
      url: " https://example.com "
  - id: queue
    type: SQS
    sqs:
      uri: https://sqs.eu-west-1.amazonaws.com/123/dispatches
      region: eu-west-1
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	enabled := cfg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "queue" || enabled[0].Type != TypeSQS {
		t.Fatalf("expected only queue enabled, got %#v", enabled)
	}

	hook := cfg.Publishers[0].HTTP
	if hook.URL != "https://example.com" || hook.Method != httpDefaultMethod || hook.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %+v", hook)
	}
}

func TestLoadConfigRejectsBadFiles(t *testing.T) {
	cases := map[string]string{
		"dup.json": `{"publishers":[
			{"id":"a","type":"http","http":{"url":"https://example.com"}},
			{"id":"a","type":"http","http":{"url":"https://example.com/2"}}
		]}`,
		"publishers.toml": `publishers = []`,
		"broken.yaml":     "publishers: [",
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeFile(t, name, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := LoadConfig(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestPublisherConfigValidate(t *testing.T) {
	cases := []PublisherConfig{
		{Type: TypeHTTP},
		{ID: "h1"},
		{ID: "h1", Type: TypeHTTP},
		{ID: "k1", Type: "kafka"},
		{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "q"}},
		{ID: "q2", Type: TypeSQS},
		{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-west-1"}},
		{ID: "g1", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubConfig{ProjectID: "p"}},
	}
	for i, cfg := range cases {
		if err := cfg.validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, cfg)
		}
	}

	ok := PublisherConfig{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn", Region: "eu-west-1"}}
	if err := ok.validate(); err != nil {
		t.Fatalf("valid sns config rejected: %v", err)
	}
}

func TestEventMessageSkipsEmptyAttributes(t *testing.T) {
	body, attrs, err := Event{Endpoint: "api/project.all"}.message()
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if len(attrs) != 1 || attrs["endpoint"] != "api/project.all" {
		t.Fatalf("attrs = %#v", attrs)
	}
	if len(body) == 0 {
		t.Fatalf("empty body")
	}
}

func TestNewEventFromDispatch(t *testing.T) {
	evt := NewEvent(dokploy.Dispatch{
		Method:     "POST",
		Endpoint:   "api/trpc/redis.start",
		URL:        "https://example.com/api/trpc/redis.start",
		StatusCode: 401,
		Outcome:    dokploy.OutcomeHTTPError,
		Err:        "unauthorized",
		Elapsed:    1500 * time.Millisecond,
	})
	if evt.Outcome != "http_error" || evt.ElapsedMs != 1500 || evt.Error != "unauthorized" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt.DispatchedAt.IsZero() {
		t.Fatalf("DispatchedAt not set")
	}
}
