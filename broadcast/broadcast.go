// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/settlers/room"
	"github.com/wfunc/settlers/session"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	BroadcastToAll(msgID uint16, data []byte) error
	BroadcastToSessions(sessionIDs []string, msgID uint16, data []byte) error
}

// 基于房间的广播器
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.GetRoom(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	// Get a thread-safe copy of the sessions
	for _, s := range r.GetSessions() {
		if err := s.Send(msgID, data); err != nil {
			// A dead connection is reaped by its read loop; keep
			// delivering to the rest of the room.
			continue
		}
	}

	return nil
}

func (b *RoomBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	for _, s := range b.sessionManager.All() {
		if err := s.Send(msgID, data); err != nil {
			continue
		}
	}
	return nil
}

func (b *RoomBroadcaster) BroadcastToSessions(sessionIDs []string, msgID uint16, data []byte) error {
	for _, id := range sessionIDs {
		s, exists := b.sessionManager.Get(id)
		if !exists {
			continue
		}
		if err := s.Send(msgID, data); err != nil {
			continue
		}
	}
	return nil
}
