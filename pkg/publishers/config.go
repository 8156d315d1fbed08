package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported sink types.
const (
	TypeHTTP      = "http"
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeGCPPubSub = "gcp_pubsub"
)

const defaultHTTPTimeoutSeconds = 5

// PublisherConfig declares one sink in the publishers file. Exactly the block
// matching Type is read.
type PublisherConfig struct {
	ID        string                    `json:"id" yaml:"id"`
	Type      string                    `json:"type" yaml:"type"`
	Enabled   *bool                     `json:"enabled" yaml:"enabled"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http"`
	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub"`
}

// HTTPPublisherConfig configures a webhook sink.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// AWSCredentials pins static credentials instead of the default chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig configures an SQS queue sink. Queue URLs ending in
// ".fifo" get FIFO group and deduplication ids.
type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// SNSPublisherConfig configures an SNS topic sink.
type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// GCPPubSubPublisherConfig configures a Pub/Sub topic sink.
type GCPPubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// EnabledValue reports the enabled flag, defaulting to true.
func (c PublisherConfig) EnabledValue() bool {
	return c.Enabled == nil || *c.Enabled
}

// Configs is the validated content of a publishers file.
type Configs []PublisherConfig

// Enabled returns the enabled entries in file order.
func (cs Configs) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, c := range cs {
		if c.EnabledValue() {
			out = append(out, c)
		}
	}
	return out
}

// ByID looks up an entry by id.
func (cs Configs) ByID(id string) (PublisherConfig, bool) {
	id = strings.TrimSpace(id)
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return PublisherConfig{}, false
}

// LoadConfigs reads a YAML or JSON publishers file. ${VAR} references are
// expanded from the environment before decoding so credentials can stay out
// of the file.
func LoadConfigs(path string) (Configs, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}
	return ParseConfigs([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
}

// ParseConfigs decodes and validates publishers file content. ext selects
// the decoder (".json", ".yaml", ".yml"); anything else is read as YAML.
func ParseConfigs(data []byte, ext string) (Configs, error) {
	var file struct {
		Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
	}
	var err error
	if strings.EqualFold(ext, ".json") {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	seen := make(map[string]struct{}, len(file.Publishers))
	out := make(Configs, 0, len(file.Publishers))
	for i, c := range file.Publishers {
		c.normalize()
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func (c *PublisherConfig) normalize() {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if c.HTTP != nil {
		h := *c.HTTP
		h.URL = strings.TrimSpace(h.URL)
		h.Method = strings.ToUpper(strings.TrimSpace(h.Method))
		if h.Method == "" {
			h.Method = http.MethodPost
		}
		if h.TimeoutSeconds <= 0 {
			h.TimeoutSeconds = defaultHTTPTimeoutSeconds
		}
		h.Headers = trimHeaders(h.Headers)
		c.HTTP = &h
	}
	if c.SQS != nil {
		q := *c.SQS
		q.QueueURL = strings.TrimSpace(q.QueueURL)
		q.Region = strings.TrimSpace(q.Region)
		c.SQS = &q
	}
	if c.SNS != nil {
		s := *c.SNS
		s.TopicARN = strings.TrimSpace(s.TopicARN)
		s.Region = strings.TrimSpace(s.Region)
		c.SNS = &s
	}
	if c.GCPPubSub != nil {
		g := *c.GCPPubSub
		g.ProjectID = strings.TrimSpace(g.ProjectID)
		g.Topic = strings.TrimSpace(g.Topic)
		g.CredentialsFile = strings.TrimSpace(g.CredentialsFile)
		c.GCPPubSub = &g
	}
}

// validate reports every missing field for the entry's type at once.
func (c PublisherConfig) validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	var missing []string
	require := func(field, value string) {
		if value == "" {
			missing = append(missing, field)
		}
	}

	switch c.Type {
	case "":
		return fmt.Errorf("publisher %q: type is required", c.ID)
	case TypeHTTP:
		if c.HTTP == nil {
			return fmt.Errorf("publisher %q: http block is required", c.ID)
		}
		require("http.url", c.HTTP.URL)
	case TypeSQS:
		if c.SQS == nil {
			return fmt.Errorf("publisher %q: sqs block is required", c.ID)
		}
		require("sqs.uri", c.SQS.QueueURL)
		require("sqs.region", c.SQS.Region)
	case TypeSNS:
		if c.SNS == nil {
			return fmt.Errorf("publisher %q: sns block is required", c.ID)
		}
		require("sns.topic_arn", c.SNS.TopicARN)
		require("sns.region", c.SNS.Region)
	case TypeGCPPubSub:
		if c.GCPPubSub == nil {
			return fmt.Errorf("publisher %q: gcp_pubsub block is required", c.ID)
		}
		require("gcp_pubsub.project_id", c.GCPPubSub.ProjectID)
		require("gcp_pubsub.topic", c.GCPPubSub.Topic)
	}
	if len(missing) > 0 {
		return fmt.Errorf("publisher %q: missing %s", c.ID, strings.Join(missing, ", "))
	}
	return nil
}

func trimHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
