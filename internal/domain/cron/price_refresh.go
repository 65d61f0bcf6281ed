package cron

import (
	"context"
	"time"

	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

type PriceRefresher interface {
	Refresh(ctx context.Context) (*model.NativePrice, error)
}

// PriceRefreshCronJob keeps the cached native price warm so that requests rarely
// wait for the price service.
type PriceRefreshCronJob struct {
	refresher PriceRefresher
	feedID    string
	interval  time.Duration
	now       func() time.Time
}

func NewPriceRefreshCronJob(refresher PriceRefresher, feedID string, interval time.Duration) *PriceRefreshCronJob {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &PriceRefreshCronJob{
		refresher: refresher,
		feedID:    feedID,
		interval:  interval,
		now:       time.Now,
	}
}

func (job *PriceRefreshCronJob) Do(ctx context.Context) {
	price, err := job.refresher.Refresh(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot refresh native price: %v", err)
		return
	}

	age := job.now().Unix() - price.PublishTime
	common.PromGauges[common.OraclePriceAgeSeconds].WithLabelValues(job.feedID).Set(float64(age))
}

func (job *PriceRefreshCronJob) RunNow() bool {
	return true
}

func (job *PriceRefreshCronJob) Next() time.Time {
	return job.now().Add(job.interval)
}
