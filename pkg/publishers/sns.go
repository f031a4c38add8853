package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
)

// snsClient is the subset of the SNS client the sender uses.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type awsSNSSender struct {
	id       string
	topicARN string
	client   snsClient
	log      logger.Logger
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.AWSAuthConfig)
	if err != nil {
		return nil, err
	}
	endpoint := cfg.SNS.Endpoint
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &queuePublisher{
		id:  cfg.ID,
		typ: TypeSNS,
		sender: &awsSNSSender{
			id:       cfg.ID,
			topicARN: cfg.SNS.TopicARN,
			client:   client,
			log:      logger.Ensure(log),
		},
	}, nil
}

// Send publishes evt to the topic tagged with the source id.
func (s *awsSNSSender) Send(ctx context.Context, evt Event) error {
	payload, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	dataType, value := stringAttribute(evt.SourceID)
	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			attributeSourceID: {DataType: dataType, StringValue: value},
		},
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		s.log.ErrorObj("sns publisher send failed", "publisher_sns_error", map[string]any{
			"publisher_id": s.id,
			"source_id":    evt.SourceID,
			"error":        err.Error(),
		})
		return fmt.Errorf("publish to sns: %w", err)
	}
	s.log.DebugObj("sns publisher delivered event", "publisher_sns_delivery", map[string]any{
		"publisher_id": s.id,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}
