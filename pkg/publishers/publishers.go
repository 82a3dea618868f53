package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sink types accepted in the publishers file.
const (
	TypeHTTP      = "http"
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeGCPPubSub = "gcp_pubsub"
)

const (
	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// Config is the decoded publishers file.
type Config struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig declares one dispatch-event sink. Exactly the block
// matching Type is read.
type PublisherConfig struct {
	ID        string               `json:"id" yaml:"id"`
	Type      string               `json:"type" yaml:"type"`
	Enabled   *bool                `json:"enabled" yaml:"enabled"`
	HTTP      *HTTPPublisherConfig `json:"http" yaml:"http"`
	SQS       *SQSPublisherConfig  `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig  `json:"sns" yaml:"sns"`
	GCPPubSub *GCPPubSubConfig     `json:"gcp_pubsub" yaml:"gcp_pubsub"`
}

// AWSCredentials pins static credentials instead of the default chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

type GCPPubSubConfig struct {
	ProjectID string `json:"project_id" yaml:"project_id"`
	Topic     string `json:"topic" yaml:"topic"`
}

// HTTPPublisherConfig describes a webhook receiving every dispatch event.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoadConfig reads the publishers file. The format follows the extension:
// .yaml/.yml or .json.
func LoadConfig(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	default:
		return nil, fmt.Errorf("publishers file %q: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.Publishers))
	for i := range cfg.Publishers {
		pc := &cfg.Publishers[i]
		pc.normalize()
		if err := pc.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[pc.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", pc.ID)
		}
		seen[pc.ID] = struct{}{}
	}
	return &cfg, nil
}

// Enabled returns the sinks that are not switched off. A missing enabled
// flag means on.
func (c *Config) Enabled() []PublisherConfig {
	if c == nil {
		return nil
	}
	var out []PublisherConfig
	for _, pc := range c.Publishers {
		if pc.Enabled == nil || *pc.Enabled {
			out = append(out, pc)
		}
	}
	return out
}

func (c *PublisherConfig) normalize() {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))

	if h := c.HTTP; h != nil {
		h.URL = strings.TrimSpace(h.URL)
		h.Method = strings.ToUpper(strings.TrimSpace(h.Method))
		if h.Method == "" {
			h.Method = httpDefaultMethod
		}
		if h.TimeoutSeconds <= 0 {
			h.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
	}
}

// validate checks the block required by the sink type.
func (c PublisherConfig) validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}

	var missing []string
	switch c.Type {
	case "":
		return fmt.Errorf("publisher %q: type is required", c.ID)
	case TypeHTTP:
		if c.HTTP == nil || c.HTTP.URL == "" {
			missing = append(missing, "http.url")
		}
	case TypeSQS:
		if c.SQS == nil {
			c.SQS = &SQSPublisherConfig{}
		}
		missing = required(missing, "sqs.uri", c.SQS.QueueURL, "sqs.region", c.SQS.Region)
	case TypeSNS:
		if c.SNS == nil {
			c.SNS = &SNSPublisherConfig{}
		}
		missing = required(missing, "sns.topic_arn", c.SNS.TopicARN, "sns.region", c.SNS.Region)
	case TypeGCPPubSub:
		if c.GCPPubSub == nil {
			c.GCPPubSub = &GCPPubSubConfig{}
		}
		missing = required(missing, "gcp_pubsub.project_id", c.GCPPubSub.ProjectID, "gcp_pubsub.topic", c.GCPPubSub.Topic)
	default:
		return fmt.Errorf("publisher %q: unknown type %q", c.ID, c.Type)
	}

	if len(missing) > 0 {
		return fmt.Errorf("publisher %q: %s required", c.ID, strings.Join(missing, ", "))
	}
	return nil
}

// required appends the names whose paired value is blank.
func required(missing []string, pairs ...string) []string {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	return missing
}
