package state

// waitingTicks is the join window before a partially filled room starts
// anyway: 10 seconds at the room's 10 ticks per second.
const waitingTicks = 100

// 等待状态：收集玩家，满员立即开局，否则等待窗口结束后够开局人数就开局
type WaitingState struct {
	RoomStateBase
	timer int
}

// NewWaitingState creates a new waiting state.
func NewWaitingState(room RoomContext) *WaitingState {
	return &WaitingState{
		RoomStateBase: RoomStateBase{
			ID:   "waiting",
			Room: room,
		},
	}
}

func (s *WaitingState) OnEnter() {
	s.timer = waitingTicks
}

func (s *WaitingState) OnUpdate() {
	players := len(s.Room.GetPlayers())

	if players >= s.Room.GetMaxPlayers() {
		s.Room.ChangeState(NewPlayingState(s.Room))
		return
	}

	s.timer--
	if s.timer > 0 {
		return
	}
	if players >= s.Room.Rules().MinPlayers {
		s.Room.ChangeState(NewPlayingState(s.Room))
		return
	}
	// Not enough players yet; open a fresh join window.
	s.timer = waitingTicks
}
