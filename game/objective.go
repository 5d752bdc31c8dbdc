package game

// Objective 玩家当前所处的阶段。每个玩家任何时刻恰好有一个目标，
// 只有会话逻辑协程可以修改它。
type Objective string

const (
	ObjectiveIdle              Objective = "idle"
	ObjectivePlaceVillage      Objective = "place_village"
	ObjectivePlaceRoad         Objective = "place_road"
	ObjectiveDiceRoll          Objective = "dice_roll"
	ObjectiveRegularTurn       Objective = "regular_turn"
	ObjectiveDropCards         Objective = "drop_cards"
	ObjectiveSelectCards       Objective = "select_cards"
	ObjectiveSelectRobberTile  Objective = "select_robber_tile"
	ObjectiveSelectCardToSteal Objective = "select_card_to_steal"
	ObjectiveAcceptTrade       Objective = "accept_trade"
)

// allowedActions maps each objective to the action kinds it accepts.
// ObjectiveIdle accepts nothing. ObjectiveSelectCardToSteal accepts
// EndTurn so a roller with no eligible victim can pass.
var allowedActions = map[Objective][]ActionKind{
	ObjectivePlaceVillage: {ActionBuildVillage},
	ObjectivePlaceRoad:    {ActionBuildRoad},
	ObjectiveDiceRoll:     {ActionRollDice},
	ObjectiveRegularTurn: {
		ActionBuildRoad,
		ActionBuildVillage,
		ActionUpgradeVillage,
		ActionBuyDevelopmentCard,
		ActionPlayDevelopmentCard,
		ActionTradeOffer,
		ActionEndTurn,
	},
	ObjectiveDropCards:         {ActionSelectCards},
	ObjectiveSelectCards:       {ActionSelectCards},
	ObjectiveSelectRobberTile:  {ActionSelectRobberTile},
	ObjectiveSelectCardToSteal: {ActionStealCard, ActionEndTurn},
	ObjectiveAcceptTrade:       {ActionAcceptTrade},
}

// Allows reports whether an action of the given kind may be submitted
// under this objective.
func (o Objective) Allows(kind ActionKind) bool {
	for _, k := range allowedActions[o] {
		if k == kind {
			return true
		}
	}
	return false
}

func (o Objective) String() string {
	return string(o)
}
