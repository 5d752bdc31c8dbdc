package models

import (
	"errors"
	"sync"
	"time"
)

var ErrWinnerAlreadySet = errors.New("winner already set")

// GameState 共享游戏状态：按座位顺序排列的玩家列表和最终胜者。
// 胜者最多被设置一次。
type GameState struct {
	mu      sync.RWMutex
	players []*Player
	winner  *Player
}

func NewGameState(players []*Player) *GameState {
	return &GameState{players: players}
}

// Players returns the players in seat order. The returned slice must
// not be modified.
func (s *GameState) Players() []*Player {
	return s.players
}

func (s *GameState) PlayerByID(id int) (*Player, bool) {
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (s *GameState) SetWinner(p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.winner != nil {
		return ErrWinnerAlreadySet
	}
	s.winner = p
	return nil
}

func (s *GameState) Winner() (*Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.winner, s.winner != nil
}

// TradeOffer 交易报价，仅在一次广播期间存活
type TradeOffer struct {
	From    int         `json:"from"`
	Offer   ResourceSet `json:"offer"`
	Request ResourceSet `json:"request"`
}

// MatchResult 单个玩家的对局结果
type MatchResult struct {
	PlayerID      int    `json:"player_id"`
	Name          string `json:"name"`
	VictoryPoints int    `json:"victory_points"`
	KnightsPlayed int    `json:"knights_played"`
	Winner        bool   `json:"winner"`
}

// MatchRecord 一局结束后写入持久层的记录
type MatchRecord struct {
	RoomID    string        `json:"room_id"`
	Rounds    int           `json:"rounds"`
	Results   []MatchResult `json:"results"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
}
