package game

import (
	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/models"
)

// EventSink receives session events. Implementations must not block:
// events are published from the session's logic goroutine.
type EventSink interface {
	Publish(event Event)
}

// Event 会话对外发布的事件
type Event interface {
	EventType() string
}

type EventObjectiveChanged struct {
	PlayerID  int            `json:"player_id"`
	Objective Objective      `json:"objective"`
	Snapshot  PlayerSnapshot `json:"snapshot"`
}

func (EventObjectiveChanged) EventType() string { return "objective_changed" }

// EventActivePlayer reports the player currently holding control.
// PlayerID is -1 when no player is active.
type EventActivePlayer struct {
	PlayerID int `json:"player_id"`
}

func (EventActivePlayer) EventType() string { return "active_player" }

type EventRoundStarted struct {
	Round int `json:"round"`
}

func (EventRoundStarted) EventType() string { return "round_started" }

type EventDiceRolled struct {
	PlayerID int `json:"player_id"`
	Value    int `json:"value"`
}

func (EventDiceRolled) EventType() string { return "dice_rolled" }

type EventActionApplied struct {
	PlayerID int        `json:"player_id"`
	Action   ActionKind `json:"action"`
}

func (EventActionApplied) EventType() string { return "action_applied" }

type EventActionRejected struct {
	PlayerID int        `json:"player_id"`
	Action   ActionKind `json:"action"`
	Reason   string     `json:"reason"`
}

func (EventActionRejected) EventType() string { return "action_rejected" }

type EventResourcesGranted struct {
	PlayerID  int                `json:"player_id"`
	Resources models.ResourceSet `json:"resources"`
}

func (EventResourcesGranted) EventType() string { return "resources_granted" }

type EventRobberMoved struct {
	PlayerID int          `json:"player_id"`
	Tile     board.TileID `json:"tile"`
}

func (EventRobberMoved) EventType() string { return "robber_moved" }

type EventTradeOffered struct {
	Offer models.TradeOffer `json:"offer"`
	To    int               `json:"to"`
}

func (EventTradeOffered) EventType() string { return "trade_offered" }

type EventTradeResolved struct {
	Offer      models.TradeOffer `json:"offer"`
	Accepted   bool              `json:"accepted"`
	AcceptedBy int               `json:"accepted_by"`
}

func (EventTradeResolved) EventType() string { return "trade_resolved" }

type EventGameEnded struct {
	WinnerID int `json:"winner_id"`
	Rounds   int `json:"rounds"`
}

func (EventGameEnded) EventType() string { return "game_ended" }

// nopSink drops every event. Used when no sink is configured.
type nopSink struct{}

func (nopSink) Publish(Event) {}
