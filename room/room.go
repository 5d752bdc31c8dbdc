// room/room.go
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/game"
	"github.com/wfunc/settlers/models"
	"github.com/wfunc/settlers/monitor"
	"github.com/wfunc/settlers/session"
	"github.com/wfunc/settlers/state"
)

var ErrNoRecorder = errors.New("room has no match recorder")

// RoomStatus 表示房间的业务状态，例如等待、对局中、结算
type RoomStatus int

const (
	StatusIdle RoomStatus = iota
	StatusWaiting
	StatusPlaying
	StatusSettlement
)

// Room 是游戏房间的核心结构：收齐玩家后在状态机的对局状态里
// 启动一个引擎会话，并把会话事件广播给所有座位。
type Room struct {
	ID           string
	Name         string
	Layout       board.Layout
	StateMachine state.StateMachine
	CreatedAt    time.Time

	rules       config.GameConfig
	broadcaster Broadcaster
	recorder    MatchRecorder
	metrics     *monitor.Monitor

	statusMutex sync.RWMutex
	status      RoomStatus

	playerMutex sync.RWMutex
	players     map[string]*session.Session // sessionID -> session
	seats       []*session.Session          // seat index -> session

	ticker    *time.Ticker
	closeChan chan bool
	closeOnce sync.Once
}

// NewRoom 创建一个新房间并启动它的主循环
func NewRoom(id, name string, rules config.GameConfig, layout board.Layout, broadcaster Broadcaster, recorder MatchRecorder, metrics *monitor.Monitor) *Room {
	room := &Room{
		ID:          id,
		Name:        name,
		Layout:      layout,
		CreatedAt:   time.Now(),
		rules:       rules,
		broadcaster: broadcaster,
		recorder:    recorder,
		metrics:     metrics,
		status:      StatusIdle,
		players:     make(map[string]*session.Session),
		closeChan:   make(chan bool),
	}

	// 初始化状态机，将房间自身作为上下文传入
	room.StateMachine = state.NewBaseStateMachine(state.NewWaitingState(room))
	room.SetStatus(StatusWaiting)

	// 启动房间心跳
	room.ticker = time.NewTicker(100 * time.Millisecond) // 10 FPS
	go room.loop()

	return room
}

// --- 实现 state.RoomContext 接口 ---

// GetID 返回房间ID
func (r *Room) GetID() string {
	return r.ID
}

// Rules 返回房间使用的规则集
func (r *Room) Rules() config.GameConfig {
	return r.rules
}

// GetMaxPlayers returns the maximum number of players in the room.
func (r *Room) GetMaxPlayers() int {
	return r.rules.MaxPlayers
}

// GetPlayers 获取房间中的所有玩家，返回的map值为 state.Player 接口
func (r *Room) GetPlayers() map[string]state.Player {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	// 返回副本以避免并发修改
	players := make(map[string]state.Player)
	for k, v := range r.players {
		players[k] = v // session.Session 实现了 state.Player 接口
	}
	return players
}

// ChangeState 改变房间的状态机状态
func (r *Room) ChangeState(newState state.State) error {
	return r.StateMachine.ChangeState(newState)
}

// Broadcast sends a message to all players in the room.
func (r *Room) Broadcast(msgID uint16, data []byte) error {
	return r.broadcaster.BroadcastToRoom(r.ID, msgID, data)
}

// NewMatch builds the engine session over the current seats, wired to
// broadcast its events to the room.
func (r *Room) NewMatch() (*game.Session, error) {
	grid, err := board.NewMapGrid(r.Layout)
	if err != nil {
		return nil, err
	}

	r.playerMutex.RLock()
	configs := make([]models.PlayerConfig, 0, len(r.seats))
	for seat, s := range r.seats {
		configs = append(configs, models.PlayerConfig{ID: seat, Name: s.Name})
	}
	r.playerMutex.RUnlock()

	return game.NewSession(r.rules, grid, configs, game.Options{
		Sink: &eventSink{room: r, startedAt: time.Now()},
	})
}

// SaveMatch hands the finished match to the recorder.
func (r *Room) SaveMatch(match *game.Session, startedAt time.Time) error {
	if r.recorder == nil {
		return ErrNoRecorder
	}
	return r.recorder.RecordMatch(r.ID, match, startedAt)
}

// --- 房间核心逻辑 ---

// AddPlayer seats a player. Joining fails once the room is full or the
// match has started.
func (r *Room) AddPlayer(s *session.Session) bool {
	if r.GetStatus() != StatusWaiting {
		return false
	}

	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	if len(r.players) >= r.rules.MaxPlayers {
		return false
	}

	r.players[s.ID] = s
	r.seats = append(r.seats, s)
	s.BindSeat(len(r.seats) - 1)
	s.RoomID = r.ID
	return true
}

// RemovePlayer 从房间移除一个玩家。对局中座位保留，只解除连接绑定。
func (r *Room) RemovePlayer(sessionID string) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	player, exists := r.players[sessionID]
	if !exists {
		return
	}
	player.RoomID = ""
	player.ClearSeat()
	delete(r.players, sessionID)

	if r.GetStatus() == StatusWaiting {
		for i, s := range r.seats {
			if s.ID == sessionID {
				r.seats = append(r.seats[:i], r.seats[i+1:]...)
				break
			}
		}
		// Reseat the remaining players.
		for seat, s := range r.seats {
			s.BindSeat(seat)
		}
	}
}

// GetPlayer 获取单个玩家
func (r *Room) GetPlayer(sessionID string) (*session.Session, bool) {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	player, exists := r.players[sessionID]
	return player, exists
}

// GetSessions returns a slice of all sessions in the room (thread-safe).
func (r *Room) GetSessions() []*session.Session {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(r.players))
	for _, s := range r.players {
		sessions = append(sessions, s)
	}
	return sessions
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	return len(r.players)
}

// SubmitAction routes a client's wire action into the current state.
func (r *Room) SubmitAction(s *session.Session, actionData []byte) error {
	currentState := r.StateMachine.GetCurrentState()
	if currentState == nil {
		return game.ErrIllegalState
	}
	return currentState.HandleAction(s, actionData)
}

// SetStatus 设置房间的业务状态
func (r *Room) SetStatus(status RoomStatus) {
	r.statusMutex.Lock()
	defer r.statusMutex.Unlock()
	r.status = status
}

// GetStatus 获取房间的业务状态
func (r *Room) GetStatus() RoomStatus {
	r.statusMutex.RLock()
	defer r.statusMutex.RUnlock()
	return r.status
}

// loop 是房间的主循环，定时驱动状态更新
func (r *Room) loop() {
	for {
		select {
		case <-r.ticker.C:
			r.Update()
		case <-r.closeChan:
			r.ticker.Stop()
			return
		}
	}
}

// Update 由主循环调用，驱动状态机更新并同步业务状态
func (r *Room) Update() {
	currentState := r.StateMachine.GetCurrentState()
	if currentState == nil {
		return
	}
	currentState.OnUpdate()

	switch r.StateMachine.GetCurrentState().GetID() {
	case "waiting":
		r.SetStatus(StatusWaiting)
	case "playing":
		r.SetStatus(StatusPlaying)
	case "settlement":
		r.SetStatus(StatusSettlement)
	}
}

// Close 关闭房间，停止主循环并中止进行中的对局
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		if current := r.StateMachine.GetCurrentState(); current != nil {
			current.OnExit()
		}
		close(r.closeChan)
	})
}
