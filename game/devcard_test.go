package game

import (
	"context"
	"testing"
	"time"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/models"
)

// startTurn runs a regular turn for player 0 on its own goroutine and
// waits for the turn prompt, so the test can script actions against it.
func startTurn(t *testing.T, s *Session, sink *recordingSink) (*PlayerGate, chan error) {
	t.Helper()
	gate := s.Gates()[0]
	done := make(chan error, 1)
	go func() {
		done <- s.regularTurn(context.Background(), gate)
	}()
	awaitObjective(t, sink, 0, ObjectiveRegularTurn)
	return gate, done
}

func endTurn(t *testing.T, gate *PlayerGate, done chan error) {
	t.Helper()
	if err := gate.TriggerAction(EndTurn{}); err != nil {
		t.Fatalf("TriggerAction failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("regularTurn failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("the turn never ended")
	}
}

func mustTrigger(t *testing.T, gate *PlayerGate, action Action) {
	t.Helper()
	if err := gate.TriggerAction(action); err != nil {
		t.Fatalf("TriggerAction(%s) failed: %v", action.Kind(), err)
	}
}

// TestDevCard_Knight plays a knight: the robber moves to the chosen
// tile and one card transfers from the adjacent victim.
func TestDevCard_Knight(t *testing.T) {
	sink := newRecordingSink()
	grid := flowGrid()
	grid.settlements[2] = board.Settlement{Owner: 1, Kind: board.Village, At: 2}
	s := mustSession(t, testRules(), grid, 2, Options{Sink: sink})

	thief := s.State().Players()[0]
	victim := s.State().Players()[1]
	thief.AddDevelopmentCard(models.CardKnight)
	// A one-card hand makes the steal deterministic.
	victim.AddResource(models.ResourceGrain, 1)

	gate, done := startTurn(t, s, sink)
	mustTrigger(t, gate, PlayDevelopmentCard{Card: models.CardKnight})

	awaitObjective(t, sink, 0, ObjectiveSelectRobberTile)
	mustTrigger(t, gate, SelectRobberTile{Tile: 1})

	awaitObjective(t, sink, 0, ObjectiveSelectCardToSteal)
	mustTrigger(t, gate, StealCard{Victim: 1})

	awaitObjective(t, sink, 0, ObjectiveRegularTurn)
	endTurn(t, gate, done)

	if grid.robber != 1 {
		t.Errorf("expected the robber on tile 1, got %d", grid.robber)
	}
	if got := thief.Resources()[models.ResourceGrain]; got != 1 {
		t.Errorf("thief should hold the stolen grain, has %d", got)
	}
	if got := victim.TotalResources(); got != 0 {
		t.Errorf("victim should be empty-handed, has %d cards", got)
	}
	if thief.KnightsPlayed() != 1 {
		t.Errorf("expected 1 knight played, got %d", thief.KnightsPlayed())
	}
	if thief.HasDevelopmentCard(models.CardKnight) {
		t.Error("the knight should have moved to the played pile")
	}
}

// TestDevCard_RoadBuilding grants two roads without charging any
// resources.
func TestDevCard_RoadBuilding(t *testing.T) {
	sink := newRecordingSink()
	grid := flowGrid()
	grid.settlements[1] = board.Settlement{Owner: 0, Kind: board.Village, At: 1}
	s := mustSession(t, testRules(), grid, 2, Options{Sink: sink})

	builder := s.State().Players()[0]
	builder.AddDevelopmentCard(models.CardRoadBuilding)

	gate, done := startTurn(t, s, sink)
	mustTrigger(t, gate, PlayDevelopmentCard{Card: models.CardRoadBuilding})

	awaitObjective(t, sink, 0, ObjectivePlaceRoad)
	mustTrigger(t, gate, BuildRoad{Edge: 1})
	awaitObjective(t, sink, 0, ObjectivePlaceRoad)
	mustTrigger(t, gate, BuildRoad{Edge: 2})

	awaitObjective(t, sink, 0, ObjectiveRegularTurn)
	endTurn(t, gate, done)

	for _, edge := range []board.EdgeID{1, 2} {
		road, ok := grid.roads[edge]
		if !ok || road.Owner != 0 {
			t.Errorf("expected a road for player 0 at edge %d, got %v", edge, road)
		}
	}
	if builder.RoadsBuilt() != 2 {
		t.Errorf("expected 2 roads built, got %d", builder.RoadsBuilt())
	}
	if got := builder.TotalResources(); got != 0 {
		t.Errorf("road building roads must be free, player paid down to %d cards from 0", got)
	}
}

// TestDevCard_Invention lets the player pick any two cards from the
// bank.
func TestDevCard_Invention(t *testing.T) {
	sink := newRecordingSink()
	s := mustSession(t, testRules(), flowGrid(), 2, Options{Sink: sink})

	inventor := s.State().Players()[0]
	inventor.AddDevelopmentCard(models.CardInvention)

	gate, done := startTurn(t, s, sink)
	mustTrigger(t, gate, PlayDevelopmentCard{Card: models.CardInvention})

	awaitObjective(t, sink, 0, ObjectiveSelectCards)
	mustTrigger(t, gate, SelectCards{Cards: models.ResourceSet{models.ResourceGrain: 2}})

	awaitObjective(t, sink, 0, ObjectiveRegularTurn)
	endTurn(t, gate, done)

	if got := inventor.Resources()[models.ResourceGrain]; got != 2 {
		t.Errorf("expected 2 grain from the invention, got %d", got)
	}
	if got := inventor.TotalResources(); got != 2 {
		t.Errorf("invention should grant exactly 2 cards, hand holds %d", got)
	}
}

// TestDevCard_Monopoly takes every card of exactly the named kind. A
// selection padded with a second zero-count kind is rejected rather
// than monopolizing both kinds.
func TestDevCard_Monopoly(t *testing.T) {
	sink := newRecordingSink()
	s := mustSession(t, testRules(), flowGrid(), 2, Options{Sink: sink})

	thief := s.State().Players()[0]
	victim := s.State().Players()[1]
	thief.AddDevelopmentCard(models.CardMonopoly)
	victim.AddResource(models.ResourceBrick, 1)
	victim.AddResource(models.ResourceWood, 5)

	gate, done := startTurn(t, s, sink)
	mustTrigger(t, gate, PlayDevelopmentCard{Card: models.CardMonopoly})

	awaitObjective(t, sink, 0, ObjectiveSelectCards)
	mustTrigger(t, gate, SelectCards{Cards: models.ResourceSet{
		models.ResourceBrick: 1,
		models.ResourceWood:  0,
	}})
	awaitRejection(t, sink, 0, ActionSelectCards)

	mustTrigger(t, gate, SelectCards{Cards: models.ResourceSet{models.ResourceBrick: 1}})

	awaitObjective(t, sink, 0, ObjectiveRegularTurn)
	endTurn(t, gate, done)

	if got := thief.Resources()[models.ResourceBrick]; got != 1 {
		t.Errorf("expected the monopolized brick, got %d", got)
	}
	if got := thief.Resources()[models.ResourceWood]; got != 0 {
		t.Errorf("monopoly must only touch the named kind, thief took %d wood", got)
	}
	if got := victim.Resources()[models.ResourceWood]; got != 5 {
		t.Errorf("victim should keep all 5 wood, has %d", got)
	}
	if got := victim.Resources()[models.ResourceBrick]; got != 0 {
		t.Errorf("victim should have lost the brick, has %d", got)
	}
}

// TestDevCard_Buy charges the card cost and draws from the deck.
func TestDevCard_Buy(t *testing.T) {
	sink := newRecordingSink()
	s := mustSession(t, testRules(), flowGrid(), 2, Options{
		Sink:  sink,
		Cards: func() models.DevelopmentCardType { return models.CardKnight },
	})

	buyer := s.State().Players()[0]
	buyer.AddResources(models.DevelopmentCardCost)
	deckBefore := s.DeckRemaining()

	gate, done := startTurn(t, s, sink)
	mustTrigger(t, gate, BuyDevelopmentCard{})

	awaitObjective(t, sink, 0, ObjectiveRegularTurn)
	endTurn(t, gate, done)

	if got := s.DeckRemaining(); got != deckBefore-1 {
		t.Errorf("expected the deck to shrink from %d to %d, got %d", deckBefore, deckBefore-1, got)
	}
	if got := buyer.TotalResources(); got != 0 {
		t.Errorf("the card cost was not charged, player still holds %d cards", got)
	}
	if !buyer.HasDevelopmentCard(models.CardKnight) {
		t.Error("the bought knight never reached the player's hand")
	}
	if got := buyer.TotalDevelopmentCards(); got != 1 {
		t.Errorf("expected exactly 1 development card, got %d", got)
	}
}
