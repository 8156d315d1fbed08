package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigsEnabledFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    http:
      url: " https://example.com/2 "
      headers:
        Authorization: "Bearer ${STATS_HOOK_TOKEN}"
        X-Empty: " "
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	t.Setenv("STATS_HOOK_TOKEN", "s3cret")

	cfgs, err := LoadConfigs(path)
	if err != nil {
		t.Fatalf("LoadConfigs: %v", err)
	}
	enabled := cfgs.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	h := enabled[0].HTTP
	if enabled[0].Type != TypeHTTP || h.URL != "https://example.com/2" || h.Method != "POST" || h.TimeoutSeconds != defaultHTTPTimeoutSeconds {
		t.Fatalf("http entry not normalized: %+v", h)
	}
	if h.Headers["Authorization"] != "Bearer s3cret" {
		t.Fatalf("env reference not expanded: %v", h.Headers)
	}
	if _, ok := h.Headers["X-Empty"]; ok {
		t.Fatalf("blank headers should be dropped: %v", h.Headers)
	}
	if _, ok := cfgs.ByID("http1"); !ok {
		t.Fatalf("disabled entries stay addressable by id")
	}
}

func TestParseConfigsJSON(t *testing.T) {
	raw := `{"publishers":[{"id":"q","type":"sqs","sqs":{"uri":"https://sqs/q.fifo","region":"us-east-1"}}]}`
	cfgs, err := ParseConfigs([]byte(raw), ".json")
	if err != nil {
		t.Fatalf("ParseConfigs: %v", err)
	}
	if c, ok := cfgs.ByID("q"); !ok || c.SQS.Region != "us-east-1" {
		t.Fatalf("unexpected configs %+v", cfgs)
	}
}

func TestParseConfigsRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"empty":     "publishers: []",
		"no id":     "publishers:\n  - type: http\n    http: {url: x}",
		"no type":   "publishers:\n  - id: a",
		"no block":  "publishers:\n  - id: h1\n    type: http",
		"duplicate": "publishers:\n  - {id: a, type: http, http: {url: x}}\n  - {id: a, type: http, http: {url: y}}",
		"bad yaml":  "publishers: [",
	}
	for name, raw := range cases {
		if _, err := ParseConfigs([]byte(raw), ".yaml"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestValidateCloudSinksListsMissingFields(t *testing.T) {
	cases := []struct {
		cfg  PublisherConfig
		want string
	}{
		{PublisherConfig{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{}}, "sns.topic_arn, sns.region"},
		{PublisherConfig{ID: "s2", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn:aws:sns:us-east-1:1:t"}}, "sns.region"},
		{PublisherConfig{ID: "g1", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{Topic: "t"}}, "gcp_pubsub.project_id"},
		{PublisherConfig{ID: "g2", Type: TypeGCPPubSub}, "gcp_pubsub block"},
		{PublisherConfig{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}}, "sqs.region"},
	}
	for _, tc := range cases {
		tc.cfg.normalize()
		err := tc.cfg.validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %q, got %v", tc.cfg.ID, tc.want, err)
		}
	}

	ok := PublisherConfig{
		ID:   " topic ",
		Type: "SNS",
		SNS:  &SNSPublisherConfig{TopicARN: " arn:aws:sns:us-east-1:1:t ", Region: "us-east-1"},
	}
	ok.normalize()
	if err := ok.validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if ok.ID != "topic" || ok.Type != TypeSNS || ok.SNS.TopicARN != "arn:aws:sns:us-east-1:1:t" {
		t.Fatalf("config not normalized: %+v", ok)
	}
}
