package cron

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

// CronJobManager runs every registered job on its own timer. A job is never run
// concurrently with itself, the next run is scheduled after the current one ends.
type CronJobManager struct {
	mutex   sync.Mutex
	wait    sync.WaitGroup
	started bool

	// A nil timer means the job is running or not started yet.
	jobs map[CronJob]*time.Timer
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{jobs: make(map[CronJob]*time.Timer)}
}

func (m *CronJobManager) Register(job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.jobs[job] = nil
}

// Start blocks until Cancel is called.
func (m *CronJobManager) Start(ctx context.Context) {
	m.mutex.Lock()
	jobs := make([]CronJob, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.wait.Add(len(jobs))
	m.started = true
	m.mutex.Unlock()

	xcontext.Logger(ctx).Infof("Cron job manager started with %d jobs", len(jobs))
	for _, job := range jobs {
		if job.RunNow() {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	m.wait.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

// Cancel stops all timers. A running job finishes its current run and is not
// scheduled again.
func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for job, timer := range m.jobs {
		if timer != nil {
			timer.Stop()
		} else {
			xcontext.Logger(ctx).Warnf("Cancel %s while it is running", jobName(job))
		}

		if m.started {
			m.wait.Done()
		}
	}

	m.jobs = make(map[CronJob]*time.Timer)
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	name := jobName(job)
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		common.PromHistograms[common.CronJobDurationSeconds].WithLabelValues(name).Observe(elapsed.Seconds())

		if r := recover(); r != nil {
			common.PromCounters[common.CronJobPanicTotal].WithLabelValues(name).Inc()
			xcontext.Logger(ctx).Errorf("Job %s panicked: %v", name, r)
		} else {
			xcontext.Logger(ctx).Debugf("Job %s finished in %s", name, elapsed)
		}

		m.schedule(ctx, job)
	}()

	job.Do(ctx)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.jobs[job]; !ok {
		return
	}

	m.jobs[job] = time.AfterFunc(time.Until(job.Next()), func() {
		m.mutex.Lock()
		_, ok := m.jobs[job]
		if ok {
			m.jobs[job] = nil
		}
		m.mutex.Unlock()

		if ok {
			m.run(ctx, job)
		}
	})
}

// jobName turns *cron.PriceRefreshCronJob into price_refresh.
func jobName(job CronJob) string {
	name := fmt.Sprintf("%T", job)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "CronJob")

	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}

	return b.String()
}
