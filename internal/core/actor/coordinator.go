package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/goxlr2mqtt/internal/config"
	"github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/core/entity"
	"github.com/berfenger/goxlr2mqtt/internal/core/events"
	"github.com/berfenger/goxlr2mqtt/internal/metrics"
	. "github.com/berfenger/goxlr2mqtt/internal/util/actorutil"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const (
	COORDINATOR_STATE_POLLING  = "polling"
	COORDINATOR_STATE_NO_MIXER = "no_mixer"

	// colour used when a light is turned on without a colour and none was seen
	DEFAULT_ON_COLOUR = "FFFFFF"
)

var ErrUnknownLight = errors.New("unknown light")

// CoordinatorActor polls the mixer, publishes state changes to the event
// stream and turns light commands into utility commands.
type CoordinatorActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler
	nextTick  scheduler.CancelFunc

	config      *config.Config
	conn        entity.Connection
	goxlrActor  *actor.PID
	eventStream *eventstream.EventStream
	metrics     *metrics.Metrics

	mixer     *goxlr.MixerStatus
	published map[string]any
	lastLit   map[string]string

	logger *zap.Logger
}

type pollTick struct {
}

type commandResult struct {
	response domain.ExecuteCommandResponse
	replyTo  *actor.PID
}

func NewCoordinatorActor(config *config.Config, goxlrActor *actor.PID, eventStream *eventstream.EventStream, m *metrics.Metrics, logger *zap.Logger) *CoordinatorActor {
	act := &CoordinatorActor{
		config: config,
		conn: entity.Connection{
			Host: config.GoXLR.Host,
			Port: config.GoXLR.Port,
		},
		goxlrActor:  goxlrActor,
		eventStream: eventStream,
		metrics:     m,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		published:   map[string]any{},
		lastLit:     map[string]string{},
		logger:      ActorLogger(domain.ACTOR_ID_COORDINATOR, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *CoordinatorActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *CoordinatorActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("coordinator@starting started")
		state.scheduler = scheduler.NewTimerScheduler(ctx)
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
		ctx.Send(ctx.Self(), pollTick{})
	default:
		state.logger.Debug("coordinator@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case pollTick:
		state.poll(ctx)
	case domain.RefreshRequest:
		state.logger.Debug("coordinator@default RefreshRequest", zap.Bool("full", msg.Full))
		if msg.Full {
			state.published = map[string]any{}
		}
		state.poll(ctx)
	case domain.ActorHealthRequest:
		resp := domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_COORDINATOR,
			Healthy: true,
			State:   COORDINATOR_STATE_POLLING,
		}
		if state.mixer == nil {
			resp.State = COORDINATOR_STATE_NO_MIXER
		}
		ctx.Respond(resp)
	case domain.GetMixerStatusRequest:
		resp := domain.GetMixerStatusResponse{Mixer: state.mixer}
		if state.mixer == nil {
			resp.ActorResponseMixIn = domain.ErrorResponse(goxlr.ErrNoMixer)
		}
		ForRequest(msg).Respond(ctx, resp)
	case domain.LightCommandRequest:
		state.logger.Debug("coordinator@default LightCommandRequest", zap.String("key", msg.Key), zap.Bool("on", msg.On), zap.String("hex", msg.Hex))
		state.lightCommand(ctx, msg)
	case *actor.Stopping:
		state.cancelTick()
	default:
		state.logger.Debug("coordinator@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *CoordinatorActor) WaitingStatusReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetMixerStatusResponse:
		state.metrics.ObservePoll(msg.GetResponseError())
		if msg.HasResponseError() || msg.Mixer == nil {
			state.logger.Warn("coordinator@poll could not get mixer status", zap.Error(msg.GetResponseError()))
			state.mixer = nil
		} else {
			state.onMixerStatus(msg.Mixer)
		}
		state.scheduleTick(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case pollTick:
		// a poll is already in flight
	case domain.RefreshRequest:
		if msg.Full {
			state.published = map[string]any{}
		}
	case *actor.Stopping:
		state.cancelTick()
	default:
		state.logger.Debug("coordinator@poll stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) WaitingCommandReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case commandResult:
		err := msg.response.GetResponseError()
		state.metrics.ObserveLightCommand(err)
		if err != nil {
			state.logger.Error("coordinator@command failed", zap.Error(err))
		}
		RespondTo(ctx, msg.replyTo, domain.LightCommandResponse{
			ActorResponseMixIn: domain.ErrorResponse(err),
			Changed:            err == nil,
		})
		state.behavior.UnbecomeStacked()
		// reflect the new colours without waiting for the next tick
		state.poll(ctx)
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.cancelTick()
	default:
		state.logger.Debug("coordinator@command stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) poll(ctx actor.Context) {
	state.cancelTick()
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.goxlrActor, domain.GetMixerStatusRequest{}, state.requestTimeout()), func(err error) any {
		return domain.GetMixerStatusResponse{
			ActorResponseMixIn: domain.ErrorResponse(err),
		}
	})
	state.behavior.BecomeStacked(state.WaitingStatusReceive)
}

func (state *CoordinatorActor) onMixerStatus(mixer *goxlr.MixerStatus) {
	if state.mixer == nil || state.mixer.Serial() != mixer.Serial() {
		state.logger.Info("coordinator@poll mixer attached", zap.String("serial", mixer.Serial()))
		state.published = map[string]any{}
		state.eventStream.Publish(domain.MixerAttachedEvent{Mixer: mixer})
	}
	state.mixer = mixer

	for _, ev := range events.MixerStatusToUpdateEvents(mixer, state.conn) {
		update, ok := ev.(domain.SensorUpdateEvent)
		if !ok {
			continue
		}
		if light, ok := ev.(domain.LightUpdateEvent); ok && light.On {
			state.lastLit[light.Id] = entity.RGBToHex(light.Red, light.Green, light.Blue)
		}
		if last, ok := state.published[update.SensorId()]; ok && last == ev {
			continue
		}
		state.published[update.SensorId()] = ev
		state.eventStream.Publish(ev)
	}
}

func (state *CoordinatorActor) lightCommand(ctx actor.Context, msg domain.LightCommandRequest) {
	replyTo := ForRequest(msg).ReplyTo(ctx)
	respond := func(resp domain.LightCommandResponse) {
		state.metrics.ObserveLightCommand(resp.GetResponseError())
		RespondTo(ctx, replyTo, resp)
	}

	if state.mixer == nil {
		respond(domain.LightCommandResponse{ActorResponseMixIn: domain.ErrorResponse(goxlr.ErrNoMixer)})
		return
	}
	desc, ok := events.LightForUniqueId(state.mixer, state.conn, msg.Key)
	if !ok {
		respond(domain.LightCommandResponse{ActorResponseMixIn: domain.ErrorResponse(fmt.Errorf("%w: %s", ErrUnknownLight, msg.Key))})
		return
	}
	current, _ := desc.Colour(state.mixer)

	target, err := state.targetColour(msg, current)
	if err != nil {
		respond(domain.LightCommandResponse{ActorResponseMixIn: domain.ErrorResponse(err)})
		return
	}
	if target == current {
		respond(domain.LightCommandResponse{})
		return
	}

	cmd, err := desc.Command(state.mixer, target)
	if err != nil {
		respond(domain.LightCommandResponse{ActorResponseMixIn: domain.ErrorResponse(err)})
		return
	}

	future := ctx.RequestFuture(state.goxlrActor, domain.ExecuteCommandRequest{
		Serial:  state.mixer.Serial(),
		Command: cmd,
	}, state.requestTimeout())
	ctx.ReenterAfter(future, func(res any, err error) {
		result := commandResult{replyTo: replyTo}
		if err != nil {
			result.response = domain.ExecuteCommandResponse{ActorResponseMixIn: domain.ErrorResponse(err)}
		} else if resp, ok := res.(domain.ExecuteCommandResponse); ok {
			result.response = resp
		}
		ctx.Send(ctx.Self(), result)
	})
	state.behavior.BecomeStacked(state.WaitingCommandReceive)
}

// targetColour resolves the colour a light command asks for. A light turned
// on without a colour gets back its last lit colour. A brightness scales the
// resolved colour.
func (state *CoordinatorActor) targetColour(msg domain.LightCommandRequest, current string) (string, error) {
	if !msg.On {
		return entity.COLOUR_OFF, nil
	}
	target, err := state.onColour(msg, current)
	if err != nil || msg.Brightness == nil {
		return target, err
	}
	return entity.ScaleHex(target, *msg.Brightness)
}

func (state *CoordinatorActor) onColour(msg domain.LightCommandRequest, current string) (string, error) {
	if msg.Hex != "" {
		return entity.NormalizeHex(msg.Hex)
	}
	if current != entity.COLOUR_OFF {
		return current, nil
	}
	if last, ok := state.lastLit[msg.Key]; ok {
		return last, nil
	}
	return DEFAULT_ON_COLOUR, nil
}

func (state *CoordinatorActor) scheduleTick(ctx actor.Context) {
	state.cancelTick()
	state.nextTick = state.scheduler.RequestOnce(state.config.GoXLR.PollInterval(), ctx.Self(), pollTick{})
}

func (state *CoordinatorActor) cancelTick() {
	if state.nextTick != nil {
		state.nextTick()
		state.nextTick = nil
	}
}

func (state *CoordinatorActor) requestTimeout() time.Duration {
	// the utility actor applies its own timeout, leave room for its answer
	return state.config.GoXLR.RequestTimeout() + 500*time.Millisecond
}
