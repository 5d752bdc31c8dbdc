// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/settlers/network"
)

const unseated = -1

// Session 一个 websocket 客户端连接。加入房间后绑定一个座位号，
// 该座位号就是引擎里的玩家ID。
type Session struct {
	ID         string
	Conn       network.Connection
	Name       string
	RoomID     string
	CreatedAt  time.Time
	LastActive time.Time

	mutex sync.RWMutex
	seat  int
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
		seat:       unseated,
	}
}

// BindSeat assigns the engine seat for this client.
func (s *Session) BindSeat(seat int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.seat = seat
}

// ClearSeat unbinds the seat, e.g. on leaving a room.
func (s *Session) ClearSeat() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.seat = unseated
}

// Seat returns the bound seat and whether one is bound.
func (s *Session) Seat() (int, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.seat, s.seat != unseated
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(msgID, data)
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// All returns a snapshot of every live session.
func (m *Manager) All() []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

// GetByRoom returns every session currently bound to the room.
func (m *Manager) GetByRoom(roomID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.RoomID == roomID {
			result = append(result, session)
		}
	}
	return result
}
