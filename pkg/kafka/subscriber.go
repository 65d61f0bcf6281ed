package kafka

import (
	"context"
	"errors"

	"github.com/Shopify/sarama"
	"github.com/questx-lab/cardlottery/pkg/pubsub"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

type subscriber struct {
	groupID     string
	brokerAddrs []string
	topics      []string
	client      sarama.ConsumerGroup
	handler     pubsub.SubscribeHandler
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) (*subscriber, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		groupID:     groupID,
		brokerAddrs: brokerAddrs,
		topics:      topics,
		client:      client,
		handler:     handler,
	}, nil
}

func (s *subscriber) Stop(ctx context.Context) error {
	return s.client.Close()
}

// Subscribe blocks until ctx is done or the consumer group is closed.
func (s *subscriber) Subscribe(ctx context.Context) {
	consumer := consumerGroupHandler{ctx: ctx, fn: s.handler}
	for {
		// Consume returns on every server-side rebalance, the session must be
		// recreated to get the new claims.
		err := s.client.Consume(ctx, s.topics, &consumer)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("Error from consumer: %v", err)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

type consumerGroupHandler struct {
	ctx context.Context
	fn  pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim,
) error {
	for message := range claim.Messages() {
		pack := &pubsub.Pack{Key: message.Key, Msg: message.Value}
		if err := h.fn(h.ctx, message.Topic, pack, message.Timestamp); err != nil {
			xcontext.Logger(h.ctx).Errorf("Cannot handle message at offset %d of %s: %v",
				message.Offset, message.Topic, err)
		}

		session.MarkMessage(message, "")
	}

	return nil
}
