package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/pubsub"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

type FulfillmentSubscribeHandler interface {
	Subscribe(ctx context.Context, topic string, pack *pubsub.Pack, t time.Time) error
}

type fulfillmentSubscribeHandler struct {
	lotteryDomain LotteryDomain
}

func NewFulfillmentSubscribeHandler(lotteryDomain LotteryDomain) *fulfillmentSubscribeHandler {
	return &fulfillmentSubscribeHandler{lotteryDomain: lotteryDomain}
}

// Subscribe reveals the request answered by a provider fulfillment. Rejected
// fulfillments are logged and dropped.
func (h *fulfillmentSubscribeHandler) Subscribe(
	ctx context.Context, topic string, pack *pubsub.Pack, t time.Time,
) error {
	var fulfillment model.RandomnessFulfillment
	if err := json.Unmarshal(pack.Msg, &fulfillment); err != nil {
		xcontext.Logger(ctx).Errorf("Unable to unmarshal fulfillment: %v", err)
		return err
	}

	if fulfillment.RequestID == "" {
		fulfillment.RequestID = string(pack.Key)
	}

	resp, err := h.lotteryDomain.Reveal(ctx, &model.RevealLotteryRequest{
		RequestID:  fulfillment.RequestID,
		Randomness: fulfillment.Randomness,
		Signature:  fulfillment.Signature,
	})
	if err != nil {
		if errorx.Is(err, errorx.InvalidVrfCallback) {
			xcontext.Logger(ctx).Warnf("Dropped forged fulfillment of %s", fulfillment.RequestID)
		} else {
			xcontext.Logger(ctx).Errorf("Cannot reveal request %s: %v", fulfillment.RequestID, err)
		}

		return err
	}

	xcontext.Logger(ctx).Infof("Revealed request %s with reward %s after %s",
		fulfillment.RequestID, resp.TotalReward, time.Since(t))
	return nil
}
