package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/game"
	"github.com/wfunc/settlers/logger"
)

func init() {
	logger.Init()
}

// MockState is a test double for the State interface.
// It helps us track which methods have been called.
type MockState struct {
	ID             string
	OnEnterCalled  bool
	OnExitCalled   bool
	OnUpdateCalled bool
}

func (m *MockState) OnEnter() {
	m.OnEnterCalled = true
}

func (m *MockState) OnExit() {
	m.OnExitCalled = true
}

func (m *MockState) OnUpdate() {
	m.OnUpdateCalled = true
}

func (m *MockState) GetID() string {
	return m.ID
}

func (m *MockState) HandleAction(player Player, actionData []byte) error {
	return nil
}

// reset clears the call tracking flags.
func (m *MockState) reset() {
	m.OnEnterCalled = false
	m.OnExitCalled = false
	m.OnUpdateCalled = false
}

func TestStateMachine_InitialState(t *testing.T) {
	initialState := &MockState{ID: "initial"}
	sm := NewBaseStateMachine(initialState)

	if !initialState.OnEnterCalled {
		t.Error("Expected OnEnter to be called on the initial state")
	}

	if sm.GetCurrentState() != initialState {
		t.Error("GetCurrentState should return the initial state")
	}
}

func TestStateMachine_ChangeState(t *testing.T) {
	initialState := &MockState{ID: "initial"}
	nextState := &MockState{ID: "next"}

	sm := NewBaseStateMachine(initialState)
	initialState.reset() // Reset after initialization

	err := sm.ChangeState(nextState)
	if err != nil {
		t.Fatalf("ChangeState should not return an error, but got: %v", err)
	}

	if !initialState.OnExitCalled {
		t.Error("Expected OnExit to be called on the old state")
	}

	if !nextState.OnEnterCalled {
		t.Error("Expected OnEnter to be called on the new state")
	}

	if sm.GetCurrentState() != nextState {
		t.Error("GetCurrentState should return the new state")
	}
}

func TestStateMachine_AddAndUseTransition(t *testing.T) {
	stateA := &MockState{ID: "A"}
	stateB := &MockState{ID: "B"}
	stateC := &MockState{ID: "C"}

	sm := NewBaseStateMachine(stateA)

	if err := sm.AddTransition(stateA, stateB, func() bool { return true }); err != nil {
		t.Fatalf("AddTransition failed: %v", err)
	}
	if err := sm.AddTransition(stateB, stateC, func() bool { return false }); err != nil {
		t.Fatalf("AddTransition failed: %v", err)
	}

	// --- Test valid transition ---
	stateA.reset()
	if err := sm.ChangeState(stateB); err != nil {
		t.Errorf("Expected transition from A to B to be allowed, but got error: %v", err)
	}
	if sm.GetCurrentState().GetID() != "B" {
		t.Errorf("Expected current state to be B, but got %s", sm.GetCurrentState().GetID())
	}

	// --- Test blocked transition ---
	stateB.reset()
	if err := sm.ChangeState(stateC); err != ErrTransitionNotAllowed {
		t.Errorf("Expected ErrTransitionNotAllowed, but got: %v", err)
	}
	if sm.GetCurrentState().GetID() != "B" {
		t.Errorf("Expected current state to remain B after a blocked transition, but got %s", sm.GetCurrentState().GetID())
	}
	if stateB.OnExitCalled {
		t.Error("OnExit should not be called on the current state if transition is blocked")
	}
	if stateC.OnEnterCalled {
		t.Error("OnEnter should not be called on the new state if transition is blocked")
	}
}

// MockRoom is a test double for the RoomContext interface.
type MockRoom struct {
	id      string
	rules   config.GameConfig
	players map[string]Player
	sm      StateMachine

	matchErr   error
	newMatches int
	saved      int
	broadcasts []uint16
}

func newMockRoom(players int) *MockRoom {
	r := &MockRoom{
		id:      "room_test",
		rules:   config.DefaultGame(),
		players: make(map[string]Player),
	}
	for i := 0; i < players; i++ {
		id := fmt.Sprintf("session%d", i)
		r.players[id] = &mockPlayer{id: id, seat: i}
	}
	return r
}

type mockPlayer struct {
	id   string
	seat int
}

func (p *mockPlayer) GetID() string     { return p.id }
func (p *mockPlayer) Seat() (int, bool) { return p.seat, p.seat >= 0 }

func (r *MockRoom) GetID() string                 { return r.id }
func (r *MockRoom) Rules() config.GameConfig      { return r.rules }
func (r *MockRoom) GetPlayers() map[string]Player { return r.players }
func (r *MockRoom) GetMaxPlayers() int            { return r.rules.MaxPlayers }
func (r *MockRoom) ChangeState(newState State) error {
	return r.sm.ChangeState(newState)
}
func (r *MockRoom) Broadcast(msgID uint16, data []byte) error {
	r.broadcasts = append(r.broadcasts, msgID)
	return nil
}
func (r *MockRoom) NewMatch() (*game.Session, error) {
	r.newMatches++
	return nil, r.matchErr
}
func (r *MockRoom) SaveMatch(match *game.Session, startedAt time.Time) error {
	r.saved++
	return nil
}

func TestWaitingState_StartsWhenFull(t *testing.T) {
	room := newMockRoom(0)
	room.rules.MaxPlayers = 2
	room.matchErr = fmt.Errorf("no match in this test")

	waiting := NewWaitingState(room)
	room.sm = NewBaseStateMachine(waiting)

	waiting.OnUpdate()
	if room.sm.GetCurrentState().GetID() != "waiting" {
		t.Fatal("an empty room should keep waiting")
	}

	room.players["a"] = &mockPlayer{id: "a", seat: 0}
	room.players["b"] = &mockPlayer{id: "b", seat: 1}

	waiting.OnUpdate()
	if got := room.sm.GetCurrentState().GetID(); got != "playing" {
		t.Fatalf("a full room should start playing, state is %s", got)
	}
	if room.newMatches != 1 {
		t.Errorf("expected one match start attempt, got %d", room.newMatches)
	}
}

func TestWaitingState_StartsAfterWindowWithMinimum(t *testing.T) {
	room := newMockRoom(2) // MinPlayers is 2 in the default rules
	room.matchErr = fmt.Errorf("no match in this test")

	waiting := NewWaitingState(room)
	room.sm = NewBaseStateMachine(waiting)

	// Burn down the join window; the room is below MaxPlayers the
	// whole time.
	for i := 0; i < waitingTicks; i++ {
		waiting.OnUpdate()
	}
	if got := room.sm.GetCurrentState().GetID(); got != "playing" {
		t.Fatalf("the join window expiring should start the match, state is %s", got)
	}
}

func TestWaitingState_WindowRestartsBelowMinimum(t *testing.T) {
	room := newMockRoom(1)
	waiting := NewWaitingState(room)
	room.sm = NewBaseStateMachine(waiting)

	for i := 0; i < waitingTicks*2; i++ {
		waiting.OnUpdate()
	}
	if got := room.sm.GetCurrentState().GetID(); got != "waiting" {
		t.Fatalf("one player is not enough to start, state is %s", got)
	}
}

func TestPlayingState_FailedStartFallsBackToWaiting(t *testing.T) {
	room := newMockRoom(2)
	room.matchErr = fmt.Errorf("layout missing")

	waiting := NewWaitingState(room)
	room.sm = NewBaseStateMachine(waiting)

	if err := room.ChangeState(NewPlayingState(room)); err != nil {
		t.Fatal(err)
	}

	// The failure is deferred to the next tick.
	playing := room.sm.GetCurrentState()
	if playing.GetID() != "playing" {
		t.Fatalf("state is %s", playing.GetID())
	}
	playing.OnUpdate()

	if got := room.sm.GetCurrentState().GetID(); got != "waiting" {
		t.Errorf("a failed start should fall back to waiting, state is %s", got)
	}
}
