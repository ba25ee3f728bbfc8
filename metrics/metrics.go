package metrics

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	pollCounter           prometheus.Counter
	pollErrorCounter      prometheus.Counter
	admittedCounter       prometheus.Counter
	duplicateCounter      prometheus.Counter
	invalidCounter        prometheus.Counter
	compactionCounter     prometheus.Counter
	evictedCounter        prometheus.Counter
	droppedUpdatesCounter prometheus.Counter
	dispatchErrors        *prometheus.CounterVec
	dedupSizeGauge        prometheus.Gauge
	liveEntitiesGauge     prometheus.Gauge
	liveMistsGauge        prometheus.Gauge
	blockHeightGauge      prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	m := Metrics{
		// ingestion
		pollCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_polls_total", namespace),
			Help: "The total number of upstream polls",
		}),
		pollErrorCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_poll_errors_total", namespace),
			Help: "The total number of polls that degraded to an empty batch",
		}),
		admittedCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_admitted_transactions_total", namespace),
			Help: "The total number of transactions seen for the first time",
		}),
		duplicateCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_duplicate_transactions_total", namespace),
			Help: "The total number of transactions skipped as already seen",
		}),
		invalidCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_invalid_transactions_total", namespace),
			Help: "The total number of upstream records without id",
		}),
		compactionCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_dedup_compactions_total", namespace),
			Help: "The total number of dedup window compactions that evicted ids",
		}),
		evictedCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_dedup_evicted_ids_total", namespace),
			Help: "The total number of ids evicted from the dedup window",
		}),
		// publishing
		droppedUpdatesCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_dropped_updates_total", namespace),
			Help: "The total number of poll updates dropped because the dispatch queue was full",
		}),
		dispatchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_dispatch_errors_total", namespace),
			Help: "The total number of failed poll update publications",
		}, []string{"publisher"}),
		// state
		dedupSizeGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_dedup_size", namespace),
			Help: "The current number of ids in the dedup window",
		}),
		liveEntitiesGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_live_entities", namespace),
			Help: "The current number of live simulation entities",
		}),
		liveMistsGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_live_mists", namespace),
			Help: "The current number of live ambient entities",
		}),
		blockHeightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_block_height", namespace),
			Help: "The latest known block height",
		}),
	}
	return &m
}

func (metrics *Metrics) IncPolls() {
	metrics.pollCounter.Inc()
}

func (metrics *Metrics) IncPollErrors() {
	metrics.pollErrorCounter.Inc()
}

func (metrics *Metrics) AddAdmitted(admitted, duplicates, invalid int) {
	metrics.admittedCounter.Add(float64(admitted))
	metrics.duplicateCounter.Add(float64(duplicates))
	metrics.invalidCounter.Add(float64(invalid))
}

func (metrics *Metrics) AddEvicted(evicted int) {
	if evicted > 0 {
		metrics.compactionCounter.Inc()
		metrics.evictedCounter.Add(float64(evicted))
	}
}

func (metrics *Metrics) IncDroppedUpdates() {
	metrics.droppedUpdatesCounter.Inc()
}

func (metrics *Metrics) IncDispatchErrors(publisher string) {
	metrics.dispatchErrors.WithLabelValues(publisher).Inc()
}

func (metrics *Metrics) SetDedupSize(size int) {
	metrics.dedupSizeGauge.Set(float64(size))
}

func (metrics *Metrics) SetLiveEntities(entities, mists int) {
	metrics.liveEntitiesGauge.Set(float64(entities))
	metrics.liveMistsGauge.Set(float64(mists))
}

func (metrics *Metrics) SetBlockHeight(height uint64) {
	metrics.blockHeightGauge.Set(float64(height))
}
