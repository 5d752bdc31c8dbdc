package game

import (
	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/models"
)

// SelectionPurpose 说明一次 SELECT_CARDS 等待的语义
type SelectionPurpose string

const (
	SelectionNone     SelectionPurpose = ""
	SelectionDrop     SelectionPurpose = "drop"     // give up own cards
	SelectionGain     SelectionPurpose = "gain"     // invention card
	SelectionMonopoly SelectionPurpose = "monopoly" // name one resource kind
)

// PlayerSnapshot is a read-only view of what a player may currently do.
// It is computed on the logic goroutine whenever the player's objective
// changes and shipped to input sources to drive their prompts.
type PlayerSnapshot struct {
	PlayerID         int                    `json:"player_id"`
	Objective        Objective              `json:"objective"`
	Resources        models.ResourceSet     `json:"resources"`
	DevelopmentCards int                    `json:"development_cards"`
	CardsToSelect    int                    `json:"cards_to_select,omitempty"`
	SelectionPurpose SelectionPurpose       `json:"selection_purpose,omitempty"`
	TradeOffer       *models.TradeOffer     `json:"trade_offer,omitempty"`
	StealablePlayers []int                  `json:"stealable_players,omitempty"`
	BuildableSpots   []board.IntersectionID `json:"buildable_spots,omitempty"`
	BuildableEdges   []board.EdgeID         `json:"buildable_edges,omitempty"`
}

// RoundInfo is the observable session state.
type RoundInfo struct {
	Round        int `json:"round"`
	CurrentRoll  int `json:"current_roll"`
	ActivePlayer int `json:"active_player"` // -1 when nobody is active
}
