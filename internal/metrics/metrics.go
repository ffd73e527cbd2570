package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"moviesearch/internal/eventbus"
)

// Recorder turns search lifecycle events into prometheus metrics and log lines
type Recorder struct {
	requests  *prometheus.CounterVec
	duration  prometheus.Histogram
	hits      prometheus.Histogram
	discarded prometheus.Counter
	cleared   prometheus.Counter
	opened    *prometheus.CounterVec

	logger *zap.Logger
	unsubs []func()
}

// NewRecorder registers the search collectors on reg
func NewRecorder(reg prometheus.Registerer, logger *zap.Logger) (*Recorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moviesearch",
			Name:      "search_requests_total",
			Help:      "Settled search requests by status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "moviesearch",
			Name:      "search_duration_seconds",
			Help:      "Search round-trip duration in seconds.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		hits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "moviesearch",
			Name:      "search_hits",
			Help:      "Hits returned per successful search.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "moviesearch",
			Name:      "search_discarded_total",
			Help:      "Completions dropped because a newer search was dispatched.",
		}),
		cleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "moviesearch",
			Name:      "search_cleared_total",
			Help:      "Empty queries that reset the results without a backend call.",
		}),
		opened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moviesearch",
			Name:      "hit_opened_total",
			Help:      "Result cards opened in the detail pager by status.",
		}, []string{"status"}),
		logger: logger.Named("metrics"),
	}

	for _, c := range []prometheus.Collector{r.requests, r.duration, r.hits, r.discarded, r.cleared, r.opened} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return r, nil
}

// Attach subscribes the recorder to the bus
func (r *Recorder) Attach(bus eventbus.EventBus) {
	r.unsubs = append(r.unsubs,
		bus.Subscribe(eventbus.EventSearchDispatched, r.handle),
		bus.Subscribe(eventbus.EventSearchSettled, r.handle),
		bus.Subscribe(eventbus.EventSearchDiscarded, r.handle),
		bus.Subscribe(eventbus.EventSearchCleared, r.handle),
		bus.Subscribe(eventbus.EventHitOpened, r.handle),
	)
}

// Detach removes every subscription made by Attach
func (r *Recorder) Detach() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}

func (r *Recorder) handle(e eventbus.DomainEvent) {
	switch ev := e.(type) {
	case eventbus.SearchDispatchedEvent:
		r.logger.Debug("search dispatched",
			zap.Uint64("seq", ev.Request.Seq),
			zap.String("index", ev.Request.Index),
			zap.String("query", ev.Request.Query),
		)

	case eventbus.SearchSettledEvent:
		r.duration.Observe(ev.Duration.Seconds())
		if ev.Err != nil {
			r.requests.WithLabelValues("error").Inc()
			r.logger.Warn("search failed",
				zap.Uint64("seq", ev.Request.Seq),
				zap.String("query", ev.Request.Query),
				zap.Duration("duration", ev.Duration),
				zap.Error(ev.Err),
			)
			return
		}
		r.requests.WithLabelValues("ok").Inc()
		r.hits.Observe(float64(ev.Hits))
		r.logger.Info("search settled",
			zap.Uint64("seq", ev.Request.Seq),
			zap.String("query", ev.Request.Query),
			zap.Int("hits", ev.Hits),
			zap.Duration("duration", ev.Duration),
		)

	case eventbus.SearchDiscardedEvent:
		r.discarded.Inc()
		r.logger.Debug("stale search discarded",
			zap.Uint64("seq", ev.Request.Seq),
			zap.Uint64("latest", ev.Latest),
		)

	case eventbus.SearchClearedEvent:
		r.cleared.Inc()

	case eventbus.HitOpenedEvent:
		if ev.Err != nil {
			r.opened.WithLabelValues("error").Inc()
			r.logger.Warn("detail pager failed", zap.String("id", ev.ID), zap.Error(ev.Err))
			return
		}
		r.opened.WithLabelValues("ok").Inc()
	}
}
