package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const fifoSuffix = ".fifo"

// loadAWSConfig resolves the AWS config for region, using static credentials when given.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil && creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	return awscfg.LoadDefaultConfig(ctx, opts...)
}

// awsMessage is the body and FIFO routing shared by the SQS and SNS sinks.
type awsMessage struct {
	body    *string
	groupID *string
	dedupID *string
}

// newAWSMessage encodes evt. For FIFO destinations snapshots of one website
// share a message group and the digest becomes the deduplication id.
func newAWSMessage(evt Event, fifo bool) (awsMessage, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return awsMessage{}, fmt.Errorf("marshal event: %w", err)
	}
	msg := awsMessage{body: aws.String(string(payload))}
	if fifo {
		msg.groupID = aws.String(evt.key())
		if evt.Digest != "" {
			msg.dedupID = aws.String(evt.Digest)
		}
	}
	return msg, nil
}

func isFIFO(target string) bool {
	return strings.HasSuffix(target, fifoSuffix)
}

func stringAttribute(v string) (dataType, value *string) {
	return aws.String("String"), aws.String(v)
}
