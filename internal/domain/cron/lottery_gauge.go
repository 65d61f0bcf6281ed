package cron

import (
	"context"
	"time"

	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/enum"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

const maxTimedOutScan = 1000

type LotteryGaugeCronJob struct {
	globalConfigRepo   repository.GlobalConfigRepository
	lotteryRequestRepo repository.LotteryRequestRepository
	interval           time.Duration
	now                func() time.Time
}

func NewLotteryGaugeCronJob(
	globalConfigRepo repository.GlobalConfigRepository,
	lotteryRequestRepo repository.LotteryRequestRepository,
	interval time.Duration,
) *LotteryGaugeCronJob {
	if interval <= 0 {
		interval = time.Minute
	}

	return &LotteryGaugeCronJob{
		globalConfigRepo:   globalConfigRepo,
		lotteryRequestRepo: lotteryRequestRepo,
		interval:           interval,
		now:                time.Now,
	}
}

func (job *LotteryGaugeCronJob) Do(ctx context.Context) {
	counts, err := job.lotteryRequestRepo.CountByStatus(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count lottery requests: %v", err)
		return
	}

	byStatus := map[string]int64{}
	for _, name := range enum.Names[entity.LotteryStatus]() {
		byStatus[name] = 0
	}

	for _, c := range counts {
		byStatus[string(c.Status)] = c.Count
	}

	for status, count := range byStatus {
		common.PromGauges[common.LotteryRequestsByStatus].WithLabelValues(status).Set(float64(count))
	}

	cfg, err := job.globalConfigRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get global config: %v", err)
		return
	}

	timedOut, err := job.lotteryRequestRepo.GetPendingCreatedBefore(
		ctx, job.now().Add(-cfg.RequestTimeout()), maxTimedOutScan)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get timed out requests: %v", err)
		return
	}

	common.PromGauges[common.LotteryTimedOutPending].WithLabelValues().Set(float64(len(timedOut)))
	if len(timedOut) > 0 {
		xcontext.Logger(ctx).Infof("%d pending requests can be refunded, oldest is %s",
			len(timedOut), timedOut[0].ID)
	}
}

func (job *LotteryGaugeCronJob) RunNow() bool {
	return false
}

func (job *LotteryGaugeCronJob) Next() time.Time {
	return job.now().Add(job.interval)
}
