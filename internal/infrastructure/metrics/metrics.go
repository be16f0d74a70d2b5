package metrics

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "burnroom"

// StatsFunc reports the live room and participant counts at scrape time.
type StatsFunc func(ctx context.Context) chat.Stats

type Metrics struct {
	registry *prometheus.Registry

	events          *prometheus.CounterVec
	messagesRemoved *prometheus.CounterVec
	sweepDuration   prometheus.Histogram
	roomsReaped     prometheus.Counter
	httpDuration    *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	wsClients       prometheus.Gauge
}

func New(stats StatsFunc) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_events_total",
			Help:      "Room events emitted, by kind.",
		}, []string{"kind"}),
		messagesRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_removed_total",
			Help:      "Messages removed from rooms, by reason.",
		}, []string{"reason"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reaper_sweep_duration_seconds",
			Help:      "Time spent in one reaper sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		roomsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_reaped_total",
			Help:      "Idle rooms deleted by the reaper.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by status code.",
		}, []string{"method", "route", "status"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Currently connected WebSocket clients.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.events,
		m.messagesRemoved,
		m.sweepDuration,
		m.roomsReaped,
		m.httpDuration,
		m.httpRequests,
		m.wsClients,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "go_routines",
			Help:      "Goroutines at scrape time.",
		}, func() float64 { return float64(runtime.NumGoroutine()) }),
	)

	if stats != nil {
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rooms",
				Help:      "Live rooms.",
			}, func() float64 { return float64(stats(context.Background()).Rooms) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "participants",
				Help:      "Active participants across all rooms.",
			}, func() float64 { return float64(stats(context.Background()).Participants) }),
		)
	}

	return m
}

// Notify counts events. It satisfies chat.Notifier.
func (m *Metrics) Notify(_ context.Context, events []domain.RoomEvent) {
	for _, e := range events {
		m.events.WithLabelValues(string(e.Kind)).Inc()
		if e.Kind == domain.EventMessageRemoved {
			m.messagesRemoved.WithLabelValues(e.Reason).Add(float64(len(e.MessageIDs)))
		}
	}
}

// ObserveSweep satisfies reaper.Recorder.
func (m *Metrics) ObserveSweep(report chat.SweepReport) {
	m.sweepDuration.Observe(report.Elapsed.Seconds())
	m.roomsReaped.Add(float64(report.Reaped))
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ClientConnected() {
	m.wsClients.Inc()
}

func (m *Metrics) ClientDisconnected() {
	m.wsClients.Dec()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
