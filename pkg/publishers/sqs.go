package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
)

// sqsClient is the subset of the SQS client the sender uses.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type awsSQSSender struct {
	id       string
	queueURL string
	client   sqsClient
	log      logger.Logger
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.AWSAuthConfig)
	if err != nil {
		return nil, err
	}
	endpoint := cfg.SQS.Endpoint
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &queuePublisher{
		id:  cfg.ID,
		typ: TypeSQS,
		sender: &awsSQSSender{
			id:       cfg.ID,
			queueURL: cfg.SQS.QueueURL,
			client:   client,
			log:      logger.Ensure(log),
		},
	}, nil
}

// Send delivers evt as one SQS message tagged with the source id.
func (s *awsSQSSender) Send(ctx context.Context, evt Event) error {
	payload, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	dataType, value := stringAttribute(evt.SourceID)
	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			attributeSourceID: {DataType: dataType, StringValue: value},
		},
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		s.log.ErrorObj("sqs publisher send failed", "publisher_sqs_error", map[string]any{
			"publisher_id": s.id,
			"source_id":    evt.SourceID,
			"error":        err.Error(),
		})
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.log.DebugObj("sqs publisher delivered event", "publisher_sqs_delivery", map[string]any{
		"publisher_id": s.id,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}
