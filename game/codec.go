package game

import (
	"encoding/json"
	"fmt"
)

// actionEnvelope is the wire form of a player action: the kind plus the
// action's own fields inlined.
type actionEnvelope struct {
	Kind ActionKind `json:"kind"`
}

// UnmarshalAction decodes a wire action. Unknown kinds fail with
// ErrIllegalAction so the sender gets a rejection instead of killing
// the connection.
func UnmarshalAction(data []byte) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed action: %v", ErrIllegalAction, err)
	}

	var action Action
	switch env.Kind {
	case ActionBuildRoad:
		action = &BuildRoad{}
	case ActionBuildVillage:
		action = &BuildVillage{}
	case ActionUpgradeVillage:
		action = &UpgradeVillage{}
	case ActionRollDice:
		return RollDice{}, nil
	case ActionEndTurn:
		return EndTurn{}, nil
	case ActionBuyDevelopmentCard:
		return BuyDevelopmentCard{}, nil
	case ActionPlayDevelopmentCard:
		action = &PlayDevelopmentCard{}
	case ActionSelectCards:
		action = &SelectCards{}
	case ActionSelectRobberTile:
		action = &SelectRobberTile{}
	case ActionStealCard:
		action = &StealCard{}
	case ActionTradeOffer:
		action = &TradeOfferAction{}
	case ActionAcceptTrade:
		action = &AcceptTrade{}
	default:
		return nil, fmt.Errorf("%w: unknown action kind %q", ErrIllegalAction, env.Kind)
	}

	if err := json.Unmarshal(data, action); err != nil {
		return nil, fmt.Errorf("%w: malformed %s action: %v", ErrIllegalAction, env.Kind, err)
	}
	return deref(action), nil
}

// MarshalAction encodes an action with its kind for the wire.
func MarshalAction(action Action) ([]byte, error) {
	fields, err := json.Marshal(action)
	if err != nil {
		return nil, err
	}
	// Splice the kind into the action's own object.
	var m map[string]json.RawMessage
	if err := json.Unmarshal(fields, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]json.RawMessage)
	}
	kind, _ := json.Marshal(action.Kind())
	m["kind"] = kind
	return json.Marshal(m)
}

// deref returns the value an action pointer points at, so consumers
// always see the same concrete types the engine produces.
func deref(action Action) Action {
	switch a := action.(type) {
	case *BuildRoad:
		return *a
	case *BuildVillage:
		return *a
	case *UpgradeVillage:
		return *a
	case *PlayDevelopmentCard:
		return *a
	case *SelectCards:
		return *a
	case *SelectRobberTile:
		return *a
	case *StealCard:
		return *a
	case *TradeOfferAction:
		return *a
	case *AcceptTrade:
		return *a
	default:
		return action
	}
}
