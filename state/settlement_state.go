package state

import (
	"encoding/json"
	"time"

	"github.com/wfunc/settlers/game"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/network"
)

// SettlementState 结算状态：广播终局结果并持久化对局记录。
// 结算完成后房间等待清理协程回收。
type SettlementState struct {
	RoomStateBase
	match     *game.Session
	startedAt time.Time
}

// NewSettlementState 创建结算状态
func NewSettlementState(room RoomContext, match *game.Session, startedAt time.Time) *SettlementState {
	return &SettlementState{
		RoomStateBase: RoomStateBase{
			ID:   "settlement",
			Room: room,
		},
		match:     match,
		startedAt: startedAt,
	}
}

func (s *SettlementState) OnEnter() {
	s.notifyResults()

	if err := s.Room.SaveMatch(s.match, s.startedAt); err != nil {
		logger.Log.Errorf("房间 %s 对局记录保存失败: %v", s.Room.GetID(), err)
	}
}

func (s *SettlementState) notifyResults() {
	winner, _ := s.match.State().Winner()
	info := s.match.Info()

	results := make([]map[string]interface{}, 0, len(s.match.State().Players()))
	for _, p := range s.match.State().Players() {
		results = append(results, map[string]interface{}{
			"player_id":      p.ID,
			"name":           p.Name,
			"victory_points": p.VictoryPoints(),
			"knights_played": p.KnightsPlayed(),
			"winner":         winner != nil && p.ID == winner.ID,
		})
	}

	summary := map[string]interface{}{
		"room_id": s.Room.GetID(),
		"rounds":  info.Round,
		"results": results,
	}
	data, err := json.Marshal(summary)
	if err != nil {
		logger.Log.Errorf("marshalling the settlement summary failed: %v", err)
		return
	}
	s.Room.Broadcast(network.MsgTypeGameEnd, data)
}
