// state/interfaces.go
package state

import (
	"time"

	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/game"
)

// Player defines the minimal interface for a seated client that a state
// needs to interact with.
type Player interface {
	GetID() string
	Seat() (int, bool)
}

// RoomContext defines the interface that a Room must implement to be
// managed by the state machine. This breaks the import cycle between
// room and state.
type RoomContext interface {
	GetID() string
	Rules() config.GameConfig
	GetPlayers() map[string]Player
	GetMaxPlayers() int
	ChangeState(newState State) error
	Broadcast(msgID uint16, data []byte) error

	// Match hooks. NewMatch builds the engine session over the room's
	// seats; SaveMatch persists the finished one.
	NewMatch() (*game.Session, error)
	SaveMatch(match *game.Session, startedAt time.Time) error
}
