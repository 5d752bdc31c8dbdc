package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wfunc/settlers/game"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/network"
)

// ErrNotSeated is returned when an unseated client submits an action.
var ErrNotSeated = errors.New("client holds no seat in this room")

// PlayingState 对局进行状态。进入时在独立协程上启动引擎会话，
// 玩家动作经 HandleAction 投递到对应座位的门。
type PlayingState struct {
	RoomStateBase
	match     *game.Session
	cancel    context.CancelFunc
	startedAt time.Time
	failed    bool
}

// NewPlayingState 创建对局状态
func NewPlayingState(room RoomContext) *PlayingState {
	return &PlayingState{
		RoomStateBase: RoomStateBase{
			ID:   "playing",
			Room: room,
		},
	}
}

// OnEnter 启动对局
func (s *PlayingState) OnEnter() {
	match, err := s.Room.NewMatch()
	if err != nil {
		// OnEnter runs under the state machine lock; the transition
		// back to waiting happens on the next tick.
		logger.Log.Errorf("房间 %s 开局失败: %v", s.Room.GetID(), err)
		s.failed = true
		return
	}
	s.match = match
	s.startedAt = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.notifyStart()
	logger.Log.Infof("房间 %s 开局，%d 名玩家", s.Room.GetID(), len(s.Room.GetPlayers()))

	go func() {
		err := match.Run(ctx)
		switch {
		case err == nil:
			s.Room.ChangeState(NewSettlementState(s.Room, match, s.startedAt))
		case errors.Is(err, context.Canceled):
			logger.Log.Infof("房间 %s 对局被中止", s.Room.GetID())
		default:
			logger.Log.Errorf("房间 %s 对局异常结束: %v", s.Room.GetID(), err)
			data, _ := json.Marshal(map[string]string{"error": err.Error()})
			s.Room.Broadcast(network.MsgTypeError, data)
		}
	}()
}

// OnUpdate backs out of a failed start.
func (s *PlayingState) OnUpdate() {
	if s.failed {
		s.failed = false
		s.Room.ChangeState(NewWaitingState(s.Room))
	}
}

// OnExit 停止对局协程
func (s *PlayingState) OnExit() {
	if s.cancel != nil {
		s.cancel()
	}
}

// HandleAction decodes a wire action and hands it to the player's gate.
// Rejections surface as engine events, not as errors here; an error
// means the submission itself was impossible.
func (s *PlayingState) HandleAction(player Player, actionData []byte) error {
	if s.match == nil {
		return game.ErrIllegalState
	}
	seat, seated := player.Seat()
	if !seated {
		return fmt.Errorf("%w: session %s", ErrNotSeated, player.GetID())
	}

	action, err := game.UnmarshalAction(actionData)
	if err != nil {
		return err
	}

	gate, ok := s.match.Gate(seat)
	if !ok {
		return fmt.Errorf("%w: seat %d has no gate", ErrNotSeated, seat)
	}
	return gate.TriggerAction(action)
}

func (s *PlayingState) notifyStart() {
	start := map[string]interface{}{
		"room_id": s.Room.GetID(),
		"rules":   s.Room.Rules(),
		"board":   s.match.Grid().Tiles(),
	}
	data, err := json.Marshal(start)
	if err != nil {
		logger.Log.Errorf("marshalling the start notice failed: %v", err)
		return
	}
	s.Room.Broadcast(network.MsgTypeGameStart, data)
}
