package game

import (
	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/models"
)

// ActionKind 玩家动作类型
type ActionKind string

const (
	ActionBuildRoad           ActionKind = "build_road"
	ActionBuildVillage        ActionKind = "build_village"
	ActionUpgradeVillage      ActionKind = "upgrade_village"
	ActionRollDice            ActionKind = "roll_dice"
	ActionEndTurn             ActionKind = "end_turn"
	ActionBuyDevelopmentCard  ActionKind = "buy_development_card"
	ActionPlayDevelopmentCard ActionKind = "play_development_card"
	ActionSelectCards         ActionKind = "select_cards"
	ActionSelectRobberTile    ActionKind = "select_robber_tile"
	ActionStealCard           ActionKind = "steal_card"
	ActionTradeOffer          ActionKind = "trade_offer"
	ActionAcceptTrade         ActionKind = "accept_trade"
)

// Action is one request submitted by an input source. An action is
// created once, submitted once and consumed exactly once.
type Action interface {
	Kind() ActionKind
}

type BuildRoad struct {
	Edge board.EdgeID `json:"edge"`
}

func (BuildRoad) Kind() ActionKind { return ActionBuildRoad }

type BuildVillage struct {
	Intersection board.IntersectionID `json:"intersection"`
}

func (BuildVillage) Kind() ActionKind { return ActionBuildVillage }

type UpgradeVillage struct {
	Intersection board.IntersectionID `json:"intersection"`
}

func (UpgradeVillage) Kind() ActionKind { return ActionUpgradeVillage }

type RollDice struct{}

func (RollDice) Kind() ActionKind { return ActionRollDice }

type EndTurn struct{}

func (EndTurn) Kind() ActionKind { return ActionEndTurn }

type BuyDevelopmentCard struct{}

func (BuyDevelopmentCard) Kind() ActionKind { return ActionBuyDevelopmentCard }

type PlayDevelopmentCard struct {
	Card models.DevelopmentCardType `json:"card"`
}

func (PlayDevelopmentCard) Kind() ActionKind { return ActionPlayDevelopmentCard }

// SelectCards answers a drop or selection prompt. For a drop the set
// names the player's own cards to give up; for an invention the cards
// to gain; for a monopoly exactly one resource kind.
type SelectCards struct {
	Cards models.ResourceSet `json:"cards"`
}

func (SelectCards) Kind() ActionKind { return ActionSelectCards }

type SelectRobberTile struct {
	Tile board.TileID `json:"tile"`
}

func (SelectRobberTile) Kind() ActionKind { return ActionSelectRobberTile }

type StealCard struct {
	Victim int `json:"victim"`
}

func (StealCard) Kind() ActionKind { return ActionStealCard }

type TradeOfferAction struct {
	Offer   models.ResourceSet `json:"offer"`
	Request models.ResourceSet `json:"request"`
}

func (TradeOfferAction) Kind() ActionKind { return ActionTradeOffer }

type AcceptTrade struct {
	Accepted bool `json:"accepted"`
}

func (AcceptTrade) Kind() ActionKind { return ActionAcceptTrade }
