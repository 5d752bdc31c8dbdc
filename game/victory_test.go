package game

import (
	"testing"

	"github.com/wfunc/settlers/models"
)

func victoryState(t *testing.T, n int) *models.GameState {
	t.Helper()
	var players []*models.Player
	for i := 0; i < n; i++ {
		p, err := models.NewPlayer(models.PlayerConfig{ID: i})
		if err != nil {
			t.Fatal(err)
		}
		players = append(players, p)
	}
	return models.NewGameState(players)
}

func playKnights(p *models.Player, n int) {
	for i := 0; i < n; i++ {
		p.AddDevelopmentCard(models.CardKnight)
		p.PlayDevelopmentCard(models.CardKnight)
	}
}

func TestVictory_ThresholdAndSeatOrder(t *testing.T) {
	state := victoryState(t, 3)
	e := NewVictoryEvaluator(3)

	if got := e.Winners(state); len(got) != 0 {
		t.Fatalf("fresh game has winners: %v", got)
	}

	// Seats 1 and 2 both reach the threshold; seat order decides.
	for i := 0; i < 3; i++ {
		state.Players()[1].RecordVillage()
		state.Players()[2].RecordVillage()
	}
	winners := e.Winners(state)
	if len(winners) != 2 {
		t.Fatalf("expected 2 winners, got %d", len(winners))
	}
	if winners[0].ID != 1 || winners[1].ID != 2 {
		t.Errorf("winners should come in seat order, got %d then %d", winners[0].ID, winners[1].ID)
	}
}

func TestVictory_LargestArmyBonus(t *testing.T) {
	state := victoryState(t, 2)
	e := NewVictoryEvaluator(4)

	p := state.Players()[0]
	p.RecordVillage()
	p.RecordVillage()

	// Two knights are below the minimum, no bonus.
	playKnights(p, 2)
	if got := e.Winners(state); len(got) != 0 {
		t.Fatalf("two knights should grant no bonus, winners: %v", got)
	}

	// The third knight grants +2 and pushes the player to 4 points.
	playKnights(p, 1)
	winners := e.Winners(state)
	if len(winners) != 1 || winners[0].ID != 0 {
		t.Fatalf("expected player 0 to win on the army bonus, got %v", winners)
	}
}

func TestVictory_ArmyTieKeepsEarlierSeat(t *testing.T) {
	state := victoryState(t, 2)
	e := NewVictoryEvaluator(2)

	playKnights(state.Players()[0], 3)
	playKnights(state.Players()[1], 3)

	winners := e.Winners(state)
	if len(winners) != 1 || winners[0].ID != 0 {
		t.Fatalf("tied armies should leave the bonus with the earlier seat, got %v", winners)
	}
}

func TestVictory_CityAndCardPoints(t *testing.T) {
	state := victoryState(t, 1)
	p := state.Players()[0]

	p.RecordVillage()
	p.RecordVillage()
	p.RecordCityUpgrade()
	p.AddDevelopmentCard(models.CardVictoryPoint)

	// One village, one city, one victory point card.
	if got := p.VictoryPoints(); got != 4 {
		t.Errorf("victory points = %d, want 4", got)
	}

	if got := NewVictoryEvaluator(4).Winners(state); len(got) != 1 {
		t.Errorf("player should reach 4 points, winners: %v", got)
	}
}
