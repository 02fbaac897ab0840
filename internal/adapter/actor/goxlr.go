package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/util/actorutil"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const (
	GOXLR_STATE_CONNECTED    = "connected"
	GOXLR_STATE_DISCONNECTED = "disconnected"
)

// GoXLRActor owns the connection to the GoXLR Utility daemon. Requests are
// run one at a time in background tasks; messages arriving meanwhile are
// stashed.
type GoXLRActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	reader   goxlr.StatusReader
	serial   string
	timeout  time.Duration
	logger   *zap.Logger

	connected bool
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewGoXLRActor(reader goxlr.StatusReader, serial string, timeout time.Duration, logger *zap.Logger) *GoXLRActor {
	act := &GoXLRActor{
		reader:   reader,
		serial:   serial,
		timeout:  timeout,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_GOXLR, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *GoXLRActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *GoXLRActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("goxlr@starting started")
		// the daemon may not be running yet, requests dial again
		if err := state.reader.Open(); err != nil {
			state.logger.Warn("goxlr@starting could not connect", zap.Error(err))
		} else {
			state.connected = true
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.reader.Close()
	default:
		state.logger.Debug("goxlr@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *GoXLRActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("goxlr@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_GOXLR,
			Healthy: state.connected,
			State:   state.connectionState(),
		})
	case domain.GetMixerStatusRequest:
		state.logger.Debug("goxlr@default: GetMixerStatusRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getMixerStatus),
			mapTaskResult[domain.GetMixerStatusResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetMixerStatusResponse{
					ActorResponseMixIn: domain.ErrorResponse(err),
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingGoXLR)
	case domain.ExecuteCommandRequest:
		state.logger.Debug("goxlr@default: ExecuteCommandRequest", zap.String("command", msg.Command.Name))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, func() *domain.ExecuteCommandResponse {
			resp := state.execute(msg.Serial, msg.Command)
			return &resp
		}), mapTaskResult[domain.ExecuteCommandResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.ExecuteCommandResponse{
					ActorResponseMixIn: domain.ErrorResponse(err),
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingGoXLR)
	case *actor.Stopping:
		state.reader.Close()
	default:
		state.logger.Debug("goxlr@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *GoXLRActor) WaitingGoXLR(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("goxlr@WaitingGoXLR backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		state.connected = !isConnectionError(msg.message)
		actorutil.RespondTo(ctx, msg.replyTo, msg.message.(domain.ActorResponse))
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.reader.Close()
	default:
		state.logger.Debug("goxlr@WaitingGoXLR stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *GoXLRActor) connectionState() string {
	if state.connected {
		return GOXLR_STATE_CONNECTED
	}
	return GOXLR_STATE_DISCONNECTED
}

func (state *GoXLRActor) getMixerStatus() (*domain.GetMixerStatusResponse, error) {
	if err := state.reader.Open(); err != nil {
		return nil, err
	}
	status, err := state.reader.GetStatus()
	if err != nil {
		state.logger.Error("goxlr: get status", zap.Error(err))
		return nil, err
	}
	mixer, err := status.Mixer(state.serial)
	if err != nil {
		return &domain.GetMixerStatusResponse{
			ActorResponseMixIn: domain.ErrorResponse(err),
		}, nil
	}
	return &domain.GetMixerStatusResponse{
		Mixer: mixer,
	}, nil
}

func (state *GoXLRActor) execute(serial string, cmd goxlr.Command) domain.ExecuteCommandResponse {
	if err := state.reader.Open(); err != nil {
		return domain.ExecuteCommandResponse{ActorResponseMixIn: domain.ErrorResponse(err)}
	}
	if err := state.reader.Execute(serial, cmd); err != nil {
		state.logger.Error("goxlr: execute", zap.String("command", cmd.Name), zap.Error(err))
		return domain.ExecuteCommandResponse{ActorResponseMixIn: domain.ErrorResponse(err)}
	}
	return domain.ExecuteCommandResponse{}
}

// isConnectionError tells transport failures from daemon-side rejections.
func isConnectionError(message any) bool {
	resp, ok := message.(domain.ActorResponse)
	if !ok || !resp.HasResponseError() {
		return false
	}
	var daemonErr *goxlr.DaemonError
	err := resp.GetResponseError()
	return !errors.As(err, &daemonErr) && !errors.Is(err, goxlr.ErrNoMixer)
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
