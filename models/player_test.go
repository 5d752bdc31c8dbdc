package models

import (
	"errors"
	"testing"
)

func TestNewPlayer_Validation(t *testing.T) {
	if _, err := NewPlayer(PlayerConfig{ID: -1}); !errors.Is(err, ErrInvalidPlayerConfig) {
		t.Fatalf("negative id should fail with ErrInvalidPlayerConfig, got %v", err)
	}

	p, err := NewPlayer(PlayerConfig{ID: 3})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Player3" {
		t.Errorf("empty name should default, got %q", p.Name)
	}

	p, err = NewPlayer(PlayerConfig{ID: 0, Name: "Alice", Color: "red"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Alice" || p.Color != "red" {
		t.Errorf("config not carried over: %+v", p)
	}
}

func TestPlayer_RemoveResourcesAllOrNothing(t *testing.T) {
	p, _ := NewPlayer(PlayerConfig{ID: 0})
	p.AddResource(ResourceWood, 2)
	p.AddResource(ResourceBrick, 1)

	// Debit exceeding one kind must not touch the other kinds.
	if p.RemoveResources(ResourceSet{ResourceWood: 1, ResourceOre: 1}) {
		t.Fatal("debit of unheld resources succeeded")
	}
	if got := p.Resources()[ResourceWood]; got != 2 {
		t.Errorf("failed debit changed wood to %d", got)
	}

	if !p.RemoveResources(RoadCost) {
		t.Fatal("affordable debit failed")
	}
	if p.TotalResources() != 1 {
		t.Errorf("expected 1 card left, have %d", p.TotalResources())
	}
	if p.RemoveResource(ResourceBrick, 2) {
		t.Error("over-debit of a single kind succeeded")
	}
}

func TestPlayer_ResourcesReturnsCopy(t *testing.T) {
	p, _ := NewPlayer(PlayerConfig{ID: 0})
	p.AddResource(ResourceGrain, 1)

	hand := p.Resources()
	hand[ResourceGrain] = 99
	if got := p.Resources()[ResourceGrain]; got != 1 {
		t.Errorf("mutating the returned hand leaked into the player: %d", got)
	}
}

func TestPlayer_DevelopmentCardPiles(t *testing.T) {
	p, _ := NewPlayer(PlayerConfig{ID: 0})

	if p.PlayDevelopmentCard(CardKnight) {
		t.Fatal("played a card the player does not hold")
	}

	p.AddDevelopmentCard(CardKnight)
	p.AddDevelopmentCard(CardKnight)
	p.AddDevelopmentCard(CardVictoryPoint)
	if p.TotalDevelopmentCards() != 3 {
		t.Fatalf("expected 3 cards, have %d", p.TotalDevelopmentCards())
	}

	if !p.PlayDevelopmentCard(CardKnight) {
		t.Fatal("could not play a held knight")
	}
	if p.KnightsPlayed() != 1 {
		t.Errorf("knights played = %d, want 1", p.KnightsPlayed())
	}
	if !p.HasDevelopmentCard(CardKnight) {
		t.Error("second knight should remain unplayed")
	}
	if p.VictoryPointCards() != 1 {
		t.Errorf("victory point cards = %d, want 1", p.VictoryPointCards())
	}
}

func TestPlayer_BuildingCounters(t *testing.T) {
	p, _ := NewPlayer(PlayerConfig{ID: 0})

	p.RecordVillage()
	p.RecordVillage()
	p.RecordRoad()
	if p.VillagesBuilt() != 2 || p.RoadsBuilt() != 1 {
		t.Fatalf("counters off: %d villages, %d roads", p.VillagesBuilt(), p.RoadsBuilt())
	}

	// The upgrade returns one village to stock.
	p.RecordCityUpgrade()
	if p.VillagesBuilt() != 1 || p.CitiesBuilt() != 1 {
		t.Errorf("upgrade should swap a village for a city: %d villages, %d cities", p.VillagesBuilt(), p.CitiesBuilt())
	}

	p.AddDevelopmentCard(CardVictoryPoint)
	if got := p.VictoryPoints(); got != 4 {
		t.Errorf("victory points = %d, want 4", got)
	}
}
