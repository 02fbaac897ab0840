package metrics

import (
	"time"

	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "goxlr2mqtt_"

	RESULT_SUCCESS = "success"
	RESULT_ERROR   = "error"
)

// Metrics groups the bridge collectors. A nil *Metrics records nothing.
type Metrics struct {
	utilityRequests *prometheus.CounterVec
	utilityLatency  *prometheus.HistogramVec
	polls           *prometheus.CounterVec
	lightCommands   *prometheus.CounterVec
	mqttPublishes   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		utilityRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "utility_requests_total",
				Help: "Total GoXLR Utility requests by request name and result",
			},
			[]string{"request", "result"},
		),
		utilityLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "utility_request_latency_seconds",
				Help:    "GoXLR Utility request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"request"},
		),
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "polls_total",
				Help: "Total mixer status polls by result",
			},
			[]string{"result"},
		),
		lightCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "light_commands_total",
				Help: "Total light commands by result",
			},
			[]string{"result"},
		),
		mqttPublishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "mqtt_publish_total",
				Help: "Total MQTT publishes by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(
		m.utilityRequests,
		m.utilityLatency,
		m.polls,
		m.lightCommands,
		m.mqttPublishes,
	)
	return m
}

// Instrument hooks the utility client request timer into the collectors.
func (m *Metrics) Instrument() goxlr.Instrument {
	return goxlr.Instrument{
		RecordTime: func(fnName string, elapsed time.Duration, err error) {
			m.ObserveUtilityRequest(fnName, elapsed, err)
		},
	}
}

func (m *Metrics) ObserveUtilityRequest(request string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.utilityRequests.WithLabelValues(request, result(err)).Inc()
	m.utilityLatency.WithLabelValues(request).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePoll(err error) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveLightCommand(err error) {
	if m == nil {
		return
	}
	m.lightCommands.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveMQTTPublish(err error) {
	if m == nil {
		return
	}
	m.mqttPublishes.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return RESULT_ERROR
	}
	return RESULT_SUCCESS
}
