package actor

import (
	"fmt"
	"time"

	"github.com/berfenger/goxlr2mqtt/internal/config"
	"github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/core/entity"
	"github.com/berfenger/goxlr2mqtt/internal/core/events"
	"github.com/berfenger/goxlr2mqtt/internal/util/actorutil"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const HADISCOVERY_RETRY_INTERVAL = 5 * time.Second

// HADiscoveryActor publishes the Home Assistant discovery configs once MQTT
// is up, and again for every mixer the coordinator attaches.
type HADiscoveryActor struct {
	config           *config.Config
	behavior         actor.Behavior
	stash            *actorutil.Stash
	scheduler        *scheduler.TimerScheduler
	mqttActor        *actor.PID
	coordinatorActor *actor.PID
	eventStream      *eventstream.EventStream
	eventStreamSub   *eventstream.Subscription
	bridgeDevice     domain.Device
	conn             entity.Connection

	logger *zap.Logger
}

type checkMQTTHealth struct {
}

func NewHADiscoveryActor(config *config.Config, mqttActor *actor.PID, coordinatorActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:           config,
		mqttActor:        mqttActor,
		coordinatorActor: coordinatorActor,
		eventStream:      eventStream,
		bridgeDevice:     events.BridgeDevice(config.MQTT.BaseTopic),
		conn: entity.Connection{
			Host: config.GoXLR.Host,
			Port: config.GoXLR.Port,
		},
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")
		state.scheduler = scheduler.NewTimerScheduler(ctx)

		root := ctx.ActorSystem().Root
		self := ctx.Self()
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			if ev, ok := value.(domain.MixerAttachedEvent); ok {
				root.Send(self, ev)
			}
		})
		ctx.Send(self, checkMQTTHealth{})
	case checkMQTTHealth:
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@starting ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		if !msg.Healthy {
			state.scheduler.SendOnce(HADISCOVERY_RETRY_INTERVAL, ctx.Self(), checkMQTTHealth{})
			return
		}
		state.publish(ctx, nil)

		// the mixer may have been attached before we subscribed
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.coordinatorActor, domain.GetMixerStatusRequest{}, 2*time.Second), func(err error) any {
			return domain.GetMixerStatusResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			}
		})
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.MixerAttachedEvent:
		state.publish(ctx, msg.Mixer)
	case domain.GetMixerStatusResponse:
		if msg.HasResponseError() {
			state.logger.Debug("hadiscovery@default no mixer yet", zap.Error(msg.GetResponseError()))
			return
		}
		state.publish(ctx, msg.Mixer)
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@default: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// publish sends the bridge discovery configs, plus the mixer ones if any.
func (state *HADiscoveryActor) publish(ctx actor.Context, mixer *goxlr.MixerStatus) {
	sensors := events.BridgeSensors(state.bridgeDevice)
	var lights []domain.GenericLight

	if mixer != nil {
		mixerSensors, mixerLights, err := events.MixerEntities(mixer, state.conn, state.bridgeDevice.Id)
		if err != nil {
			state.logger.Warn("hadiscovery@publish skipped entities", zap.String("serial", mixer.Serial()), zap.Error(err))
		}
		sensors = append(sensors, mixerSensors...)
		lights = mixerLights
	}

	state.logger.Info("hadiscovery@publish", zap.Int("sensors", len(sensors)), zap.Int("lights", len(lights)))
	ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
		Sensors: sensors,
		Lights:  lights,
	})
}

func (state *HADiscoveryActor) unsubscribe() {
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
}
