package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/metrics"
	"github.com/berfenger/goxlr2mqtt/internal/util"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
)

type healthActor struct {
	healthy bool
}

func (a *healthActor) Receive(ctx actor.Context) {
	if _, ok := ctx.Message().(domain.ActorHealthRequest); ok {
		ctx.Respond(domain.ActorHealthResponse{Id: domain.ACTOR_ID_MASTER, Healthy: a.healthy})
	}
}

func newTestHandler(t *testing.T, healthy bool) http.Handler {
	as := actor.NewActorSystem()
	t.Cleanup(as.Shutdown)
	pid := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return &healthActor{healthy: healthy} }))

	reg := prometheus.NewRegistry()
	metrics.New(reg).ObservePoll(nil)

	s := &Server{
		rootContext:    as.Root,
		masterActor:    pid,
		metricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	return s.RegisterRoutes()
}

func TestHealthCheck(t *testing.T) {

	rec := httptest.NewRecorder()
	newTestHandler(t, true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "health_check: OK", rec.Body.String())

	rec = httptest.NewRecorder()
	newTestHandler(t, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRoute(t *testing.T) {

	rec := httptest.NewRecorder()
	newTestHandler(t, true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `goxlr2mqtt_polls_total{result="success"} 1`)
}

func TestNewServer(t *testing.T) {

	cfg := util.LoadTestConfig()
	srv := NewServer(cfg, nil, nil, nil)
	assert.Equal(t, ":8080", srv.Addr)
}
