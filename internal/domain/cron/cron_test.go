package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	prometheustestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	count atomic.Int32
}

func (job *countingJob) Do(context.Context) { job.count.Add(1) }
func (job *countingJob) RunNow() bool       { return true }
func (job *countingJob) Next() time.Time    { return time.Now().Add(10 * time.Millisecond) }

func Test_CronJobManager(t *testing.T) {
	ctx := testutil.MockContext()
	job := &countingJob{}

	m := NewCronJobManager()
	m.Register(job)

	stopped := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return job.count.Load() >= 3 }, time.Second, 5*time.Millisecond)

	m.Cancel(ctx)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
}

type panicJob struct {
	count atomic.Int32
}

func (job *panicJob) Do(context.Context) {
	job.count.Add(1)
	panic("boom")
}

func (job *panicJob) RunNow() bool    { return true }
func (job *panicJob) Next() time.Time { return time.Now().Add(10 * time.Millisecond) }

func Test_CronJobManager_Panic(t *testing.T) {
	ctx := testutil.MockContext()
	job := &panicJob{}

	m := NewCronJobManager()
	m.Register(job)
	go m.Start(ctx)
	defer m.Cancel(ctx)

	// A panicking run is recovered and the job keeps its schedule.
	counter := common.PromCounters[common.CronJobPanicTotal].WithLabelValues("panic_job")
	require.Eventually(t, func() bool {
		return prometheustestutil.ToFloat64(counter) >= 2
	}, time.Second, 5*time.Millisecond)
}

func Test_jobName(t *testing.T) {
	require.Equal(t, "price_refresh", jobName(&PriceRefreshCronJob{}))
	require.Equal(t, "lottery_gauge", jobName(&LotteryGaugeCronJob{}))
	require.Equal(t, "counting_job", jobName(&countingJob{}))
}

type mockRefresher struct {
	price *model.NativePrice
	err   error
}

func (m *mockRefresher) Refresh(context.Context) (*model.NativePrice, error) {
	return m.price, m.err
}

func Test_PriceRefreshCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	now := time.Unix(1_700_000_000, 0)

	job := NewPriceRefreshCronJob(&mockRefresher{
		price: &model.NativePrice{Price: 15_000_000_000, Expo: -8, PublishTime: now.Unix() - 4},
	}, "sol-usd-test", time.Second)
	job.now = func() time.Time { return now }

	job.Do(ctx)
	gauge := common.PromGauges[common.OraclePriceAgeSeconds].WithLabelValues("sol-usd-test")
	require.Equal(t, float64(4), prometheustestutil.ToFloat64(gauge))
	require.Equal(t, now.Add(time.Second), job.Next())

	// A failed refresh keeps the last age.
	job.refresher = &mockRefresher{err: errors.New("hermes is down")}
	job.Do(ctx)
	require.Equal(t, float64(4), prometheustestutil.ToFloat64(gauge))
}

func Test_LotteryGaugeCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertGlobalConfig(ctx)

	lotteryRequestRepo := repository.NewLotteryRequestRepository()
	created := time.Now().Add(-time.Hour)
	requests := []entity.LotteryRequest{
		{Base: entity.Base{ID: "a", CreatedAt: created}, Owner: "u", Status: entity.LotteryPending},
		{Base: entity.Base{ID: "b", CreatedAt: created}, Owner: "u", Status: entity.LotteryPending},
		{Base: entity.Base{ID: "c"}, Owner: "u", Status: entity.LotteryPending},
		{Base: entity.Base{ID: "d"}, Owner: "u", Status: entity.LotteryRevealed},
	}
	for i := range requests {
		require.NoError(t, lotteryRequestRepo.Create(ctx, &requests[i]))
	}

	job := NewLotteryGaugeCronJob(repository.NewGlobalConfigRepository(), lotteryRequestRepo, time.Minute)
	job.Do(ctx)

	byStatus := common.PromGauges[common.LotteryRequestsByStatus]
	require.Equal(t, float64(3), prometheustestutil.ToFloat64(byStatus.WithLabelValues("pending")))
	require.Equal(t, float64(1), prometheustestutil.ToFloat64(byStatus.WithLabelValues("revealed")))
	require.Equal(t, float64(0), prometheustestutil.ToFloat64(byStatus.WithLabelValues("claimed")))

	timedOut := common.PromGauges[common.LotteryTimedOutPending].WithLabelValues()
	require.Equal(t, float64(2), prometheustestutil.ToFloat64(timedOut))
	require.False(t, job.RunNow())
}
