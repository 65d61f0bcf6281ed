// Package randomness talks to the verifiable randomness provider.
package randomness

import (
	"context"
	"encoding/json"

	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/pubsub"
)

type Provider interface {
	// Request asks the provider for entropy. The answer arrives later as a
	// model.RandomnessFulfillment.
	Request(ctx context.Context, req model.RandomnessRequest) error
}

type kafkaProvider struct {
	publisher pubsub.Publisher
	topic     string
}

func NewKafkaProvider(publisher pubsub.Publisher, topic string) *kafkaProvider {
	return &kafkaProvider{publisher: publisher, topic: topic}
}

func (p *kafkaProvider) Request(ctx context.Context, req model.RandomnessRequest) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}

	return p.publisher.Publish(ctx, p.topic, &pubsub.Pack{Key: []byte(req.RequestID), Msg: b})
}
