package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/samvad-hq/crawlstats/internal/domain"
	"github.com/samvad-hq/crawlstats/internal/logger"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestSNSPublisherPublishes(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:us-east-1:123456789012:stats",
		client:   client,
		log:      logger.NopLogger{},
	}

	if err := pub.Publish(context.Background(), Event{Scope: domain.ScopeAll}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:us-east-1:123456789012:stats" {
		t.Fatalf("TopicArn = %s", got)
	}
	if !strings.Contains(aws.ToString(client.input.Message), `"scope":"all"`) {
		t.Fatalf("Message missing scope: %s", aws.ToString(client.input.Message))
	}
	if got := aws.ToString(client.input.Subject); got != "crawl statistics all" {
		t.Fatalf("Subject = %q", got)
	}
	if client.input.MessageGroupId != nil {
		t.Fatalf("standard topic must not set MessageGroupId")
	}
}

func TestSNSPublisherFIFOTopicGroupsBySeries(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		id:       "fifo",
		topicARN: "arn:aws:sns:us-east-1:123456789012:stats.fifo",
		client:   client,
		log:      logger.NopLogger{},
	}

	evt := Event{Scope: domain.ScopeAll, Digest: "d1"}
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.MessageGroupId); got != "all" {
		t.Fatalf("MessageGroupId = %q", got)
	}
	if got := aws.ToString(client.input.MessageDeduplicationId); got != "d1" {
		t.Fatalf("MessageDeduplicationId = %q", got)
	}
}

func TestSNSPublisherWrapsError(t *testing.T) {
	boom := errors.New("throttled")
	pub := &snsPublisher{id: "topic", client: &fakeSNSClient{err: boom}, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), Event{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
