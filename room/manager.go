package room

import (
	"sync"
	"time"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/monitor"
)

// Manager 管理所有房间
type Manager struct {
	rooms       map[string]*Room
	mutex       sync.RWMutex
	rules       config.GameConfig
	layout      board.Layout
	broadcaster Broadcaster
	recorder    MatchRecorder
	metrics     *monitor.Monitor
}

// NewRoomManager 创建一个新的房间管理器
func NewRoomManager(rules config.GameConfig, layout board.Layout, recorder MatchRecorder, metrics *monitor.Monitor) *Manager {
	return &Manager{
		rooms:    make(map[string]*Room),
		rules:    rules,
		layout:   layout,
		recorder: recorder,
		metrics:  metrics,
	}
}

// SetBroadcaster wires the broadcaster after construction; the
// broadcaster itself needs the manager to resolve rooms.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// CreateRoom 创建一个新房间并添加到管理器
func (m *Manager) CreateRoom(id, name string) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room := NewRoom(id, name, m.rules, m.layout, m.broadcaster, m.recorder, m.metrics)
	m.rooms[id] = room
	if m.metrics != nil {
		m.metrics.SetActiveRooms(len(m.rooms))
	}
	return room
}

// RemoveRoom 从管理器中移除并关闭一个房间
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		room.Close()
		delete(m.rooms, id)
		if m.metrics != nil {
			m.metrics.SetActiveRooms(len(m.rooms))
		}
	}
}

// GetRoom 从管理器中获取一个房间
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// FindAvailableRoom 查找一个可加入的房间
func (m *Manager) FindAvailableRoom() *Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, room := range m.rooms {
		if room.GetStatus() == StatusWaiting && room.PlayerCount() < room.GetMaxPlayers() {
			return room
		}
	}
	return nil
}

// Sweep closes rooms that finished their match or sat empty longer
// than maxIdle. Returns how many rooms were closed. Driven by a
// periodic timer task.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	closed := 0
	now := time.Now()
	for id, room := range m.rooms {
		finished := room.GetStatus() == StatusSettlement
		abandoned := room.PlayerCount() == 0 && now.Sub(room.CreatedAt) > maxIdle
		if !finished && !abandoned {
			continue
		}
		logger.Log.Infof("sweeping room %s (finished=%v)", id, finished)
		room.Close()
		delete(m.rooms, id)
		closed++
	}
	if closed > 0 && m.metrics != nil {
		m.metrics.SetActiveRooms(len(m.rooms))
	}
	return closed
}
