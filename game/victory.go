package game

import (
	"github.com/wfunc/settlers/models"
)

// largestArmyMinimum 最大骑士团奖励所需的最少骑士数
const largestArmyMinimum = 3

// largestArmyBonus 奖励分值
const largestArmyBonus = 2

// VictoryEvaluator computes the winner set for the current state.
// The longest road bonus is not modeled; the board collaborator exposes
// no road network metric.
type VictoryEvaluator struct {
	required int
}

func NewVictoryEvaluator(requiredPoints int) *VictoryEvaluator {
	return &VictoryEvaluator{required: requiredPoints}
}

// Winners returns every player whose victory points, including the
// largest army bonus, reach the threshold. The result is in seat
// order, so index 0 is the deterministic tie-break winner.
func (e *VictoryEvaluator) Winners(state *models.GameState) []*models.Player {
	armyHolder := e.largestArmyHolder(state)

	var winners []*models.Player
	for _, p := range state.Players() {
		points := p.VictoryPoints()
		if p == armyHolder {
			points += largestArmyBonus
		}
		if points >= e.required {
			winners = append(winners, p)
		}
	}
	return winners
}

// largestArmyHolder returns the player with the most played knights,
// minimum three. Ties go to the earlier seat.
func (e *VictoryEvaluator) largestArmyHolder(state *models.GameState) *models.Player {
	var holder *models.Player
	best := largestArmyMinimum - 1
	for _, p := range state.Players() {
		if n := p.KnightsPlayed(); n > best {
			best = n
			holder = p
		}
	}
	return holder
}
