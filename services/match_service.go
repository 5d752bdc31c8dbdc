// services/match_service.go
package services

import (
	"time"

	"github.com/wfunc/settlers/game"
	"github.com/wfunc/settlers/models"
	"github.com/wfunc/settlers/persistence"
)

// MatchService persists finished matches and serves aggregated player
// stats. It satisfies room.MatchRecorder.
type MatchService struct {
	db persistence.Database
}

func NewMatchService(db persistence.Database) *MatchService {
	return &MatchService{db: db}
}

// RecordMatch 落库一局结束后的对局记录
func (s *MatchService) RecordMatch(roomID string, match *game.Session, startedAt time.Time) error {
	record := buildRecord(roomID, match, startedAt)
	return s.db.SaveMatchRecord(record)
}

// GetPlayerStats 查询玩家战绩
func (s *MatchService) GetPlayerStats(name string) (models.PlayerStats, error) {
	return s.db.PlayerStats(name)
}

func buildRecord(roomID string, match *game.Session, startedAt time.Time) models.MatchRecord {
	state := match.State()
	winner, _ := state.Winner()

	results := make([]models.MatchResult, 0, len(state.Players()))
	for _, p := range state.Players() {
		results = append(results, models.MatchResult{
			PlayerID:      p.ID,
			Name:          p.Name,
			VictoryPoints: p.VictoryPoints(),
			KnightsPlayed: p.KnightsPlayed(),
			Winner:        winner != nil && winner.ID == p.ID,
		})
	}

	return models.MatchRecord{
		RoomID:    roomID,
		Rounds:    match.Info().Round,
		Results:   results,
		StartedAt: startedAt,
		EndedAt:   time.Now(),
	}
}
