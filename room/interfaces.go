package room

import (
	"time"

	"github.com/wfunc/settlers/game"
)

// Broadcaster defines the interface for broadcasting messages to a room.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
}

// MatchRecorder persists finished matches. Implemented by
// services.MatchService; defined here to break the import cycle.
type MatchRecorder interface {
	RecordMatch(roomID string, match *game.Session, startedAt time.Time) error
}
