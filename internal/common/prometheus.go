package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	LotteryTransitionTotal     = "lottery_transition_total"
	LotteryRewardMicroUSD      = "lottery_reward_micro_usd"
	SettlementFailureTotal     = "settlement_failure_total"
	LotteryRequestsByStatus    = "lottery_requests_by_status"
	LotteryTimedOutPending     = "lottery_timed_out_pending"
	OraclePriceAgeSeconds      = "oracle_price_age_seconds"
	CronJobDurationSeconds     = "cron_job_duration_seconds"
	CronJobPanicTotal          = "cron_job_panic_total"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		LotteryRequestsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: LotteryRequestsByStatus,
			Help: "Number of stored lottery requests per status",
		}, []string{"status"}),
		LotteryTimedOutPending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: LotteryTimedOutPending,
			Help: "Number of pending lottery requests which are refundable",
		}, []string{}),
		OraclePriceAgeSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: OraclePriceAgeSeconds,
			Help: "Age of the last fetched native price",
		}, []string{"feed"}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		LotteryTransitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: LotteryTransitionTotal,
			Help: "Count of lottery request transitions",
		}, []string{"transition"}),
		SettlementFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SettlementFailureTotal,
			Help: "Count of failed claim settlements",
		}, []string{"route"}),
		CronJobPanicTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CronJobPanicTotal,
			Help: "Count of cron job runs which panicked",
		}, []string{"job"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
		LotteryRewardMicroUSD: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    LotteryRewardMicroUSD,
			Help:    "Total reward of revealed lottery requests",
			Buckets: []float64{5e6, 7e6, 14e6, 50e6, 1e8, 1e9, 1e10},
		}, []string{}),
		CronJobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: CronJobDurationSeconds,
			Help: "Duration of cron job runs",
		}, []string{"job"}),
	}
)

// PromCollectors returns every metric of the service, to be served by the metric
// server.
func PromCollectors() []prometheus.Collector {
	var result []prometheus.Collector
	for _, counter := range PromCounters {
		result = append(result, counter)
	}

	for _, gauge := range PromGauges {
		result = append(result, gauge)
	}

	for _, histogram := range PromHistograms {
		result = append(result, histogram)
	}

	return result
}
