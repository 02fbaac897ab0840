package actor

import (
	"testing"
	"time"

	"github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/util"
	"github.com/berfenger/goxlr2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// publishProbe spawns the dummy MQTT actor as its child and forwards what it
// would publish to a channel.
type publishProbe struct {
	producer  func() actor.Actor
	child     *actor.PID
	ready     chan *actor.PID
	published chan TestMQTTPublished
}

func (p *publishProbe) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.child = ctx.Spawn(actor.PropsFromProducer(p.producer))
		p.ready <- p.child
	case TestMQTTPublished:
		p.published <- msg
	}
}

func TestMQTTActor(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	defer as.Shutdown()

	es := &eventstream.EventStream{}

	probe := &publishProbe{
		producer:  func() actor.Actor { return NewTestMQTTActor(&cfg, es, logger) },
		ready:     make(chan *actor.PID, 1),
		published: make(chan TestMQTTPublished, 16),
	}
	as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return probe }))
	pid := <-probe.ready

	result, err := as.Root.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	resp, ok := result.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.True(t, resp.Healthy)

	es.Publish(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "tc-helicon_goxlr_volume_mic",
		},
		Value: 100,
	})
	es.Publish(domain.BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "tc-helicon_goxlr_fader_2_mute_button",
		},
		Value: true,
	})
	es.Publish(domain.TextSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "tc-helicon_goxlr_profile",
		},
		Value: "Default",
	})
	es.Publish(domain.LightUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "tc-helicon_goxlr_accent",
		},
		On:    true,
		Green: 255,
		Blue:  255,
	})
	// not a state update
	es.Publish("ignored")

	select {
	case msg := <-probe.published:
		assert.Equal(t, "goxlr/sensor/tc-helicon_goxlr_volume_mic/state", msg.Topic)
		assert.Equal(t, "100", msg.Payload)
		assert.True(t, msg.Retain)
	case <-time.After(2 * time.Second):
		t.Fatal("sensor state not published")
	}

	select {
	case msg := <-probe.published:
		assert.Equal(t, "goxlr/binary_sensor/tc-helicon_goxlr_fader_2_mute_button/state", msg.Topic)
		assert.Equal(t, "on", msg.Payload)
		assert.True(t, msg.Retain)
	case <-time.After(2 * time.Second):
		t.Fatal("binary sensor state not published")
	}

	select {
	case msg := <-probe.published:
		assert.Equal(t, "goxlr/sensor/tc-helicon_goxlr_profile/state", msg.Topic)
		assert.Equal(t, "Default", msg.Payload)
		assert.True(t, msg.Retain)
	case <-time.After(2 * time.Second):
		t.Fatal("text sensor state not published")
	}

	select {
	case msg := <-probe.published:
		assert.Equal(t, "goxlr/light/tc-helicon_goxlr_accent/state", msg.Topic)
		assert.JSONEq(t, `{"state":"ON","color_mode":"rgb","color":{"r":0,"g":255,"b":255},"brightness":255}`, msg.Payload)
		assert.True(t, msg.Retain)
	case <-time.After(2 * time.Second):
		t.Fatal("light state not published")
	}
}

func TestMQTTActorDiscovery(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	defer as.Shutdown()

	probe := &publishProbe{
		producer:  func() actor.Actor { return NewTestMQTTActor(&cfg, nil, logger) },
		ready:     make(chan *actor.PID, 1),
		published: make(chan TestMQTTPublished, 16),
	}
	as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return probe }))
	pid := <-probe.ready

	device := domain.Device{Id: "S201200586CQK"}
	_, err := as.Root.RequestFuture(pid, domain.PublishDiscoveryRequest{
		Sensors: []domain.GenericSensor{{Device: device, Id: "tc-helicon_goxlr_profile", SensorType: "sensor"}},
		Lights:  []domain.GenericLight{{Device: device, Id: "tc-helicon_goxlr_accent"}},
	}, 2*time.Second).Result()
	require.NoError(t, err)

	var topics []string
	for range 2 {
		select {
		case msg := <-probe.published:
			topics = append(topics, msg.Topic)
		case <-time.After(2 * time.Second):
			t.Fatal("discovery not published")
		}
	}
	assert.Equal(t, []string{
		"homeassistant/sensor/S201200586CQK/tc-helicon_goxlr_profile/config",
		"homeassistant/light/S201200586CQK/tc-helicon_goxlr_accent/config",
	}, topics)
}
