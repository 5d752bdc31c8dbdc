package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/models"
)

// PlayerGate 每个玩家一个的同步交汇点。会话逻辑协程在
// WaitForAction 中挂起，输入源（界面或机器人）从任意协程调用
// TriggerAction 提交一个动作；门负责目标检查、前置校验和效果应用。
// 每个玩家任何时刻至多有一个未完成的等待。
type PlayerGate struct {
	player  *models.Player
	session *Session

	mu        sync.RWMutex
	objective Objective
	waiting   bool

	// Prompt context for the current wait.
	cardsToSelect    int
	selectionPurpose SelectionPurpose
	tradeOffer       *models.TradeOffer

	actions chan Action // capacity 1: the single-slot handshake
}

func newPlayerGate(player *models.Player, session *Session) *PlayerGate {
	return &PlayerGate{
		player:    player,
		session:   session,
		objective: ObjectiveIdle,
		actions:   make(chan Action, 1),
	}
}

// Player returns the player this gate belongs to.
func (g *PlayerGate) Player() *models.Player {
	return g.player
}

// Objective returns the player's current objective.
func (g *PlayerGate) Objective() Objective {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.objective
}

// TriggerAction submits an action on behalf of the player. It may be
// called from any goroutine. Calling it while no wait is outstanding is
// a programming error and fails with ErrIllegalState; game state is
// untouched either way.
func (g *PlayerGate) TriggerAction(action Action) error {
	g.mu.RLock()
	waiting := g.waiting
	g.mu.RUnlock()
	if !waiting {
		return fmt.Errorf("%w: no outstanding wait for player %d", ErrIllegalState, g.player.ID)
	}
	select {
	case g.actions <- action:
		return nil
	default:
		return fmt.Errorf("%w: an action is already pending for player %d", ErrIllegalState, g.player.ID)
	}
}

// WaitForAction sets the player's objective and blocks the calling
// logic goroutine until a matching, valid action arrives. Actions of a
// kind the objective does not allow, and actions failing validation,
// are rejected without mutating any state; the wait then continues.
// On success the action's effect has been applied when this returns.
func (g *PlayerGate) WaitForAction(ctx context.Context, objective Objective) (Action, error) {
	// An action sent in the window between the previous wait clearing
	// waiting and now would otherwise be consumed by this wait under
	// the wrong objective.
	select {
	case stale := <-g.actions:
		g.reject(stale, fmt.Errorf("%w: no outstanding wait for player %d", ErrIllegalState, g.player.ID))
	default:
	}

	// Open the wait before announcing the objective, so an input source
	// reacting to the event never races a closed gate.
	g.mu.Lock()
	g.waiting = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.waiting = false
		g.mu.Unlock()
	}()

	g.setObjective(objective)

	if d := g.session.cfg.ActionTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	for {
		var action Action
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: player %d objective %s", ErrActionTimeout, g.player.ID, objective)
			}
			return nil, ctx.Err()
		case action = <-g.actions:
		}

		if !objective.Allows(action.Kind()) {
			g.reject(action, fmt.Errorf("%w: %s not allowed under objective %s", ErrIllegalAction, action.Kind(), objective))
			continue
		}
		if err := g.validate(action); err != nil {
			g.reject(action, err)
			continue
		}
		if err := g.apply(action); err != nil {
			// Apply must not fail after validation; treat as a rejection
			// to keep the session alive.
			logger.Log.Errorf("apply after successful validation failed for player %d: %v", g.player.ID, err)
			g.reject(action, err)
			continue
		}
		g.session.publish(EventActionApplied{PlayerID: g.player.ID, Action: action.Kind()})
		return action, nil
	}
}

func (g *PlayerGate) reject(action Action, err error) {
	logger.Log.Debugf("rejected action %s from player %d: %v", action.Kind(), g.player.ID, err)
	g.session.publish(EventActionRejected{
		PlayerID: g.player.ID,
		Action:   action.Kind(),
		Reason:   err.Error(),
	})
}

// setObjective transitions the objective and publishes the new prompt
// snapshot. Only the session's logic goroutine calls this.
func (g *PlayerGate) setObjective(objective Objective) {
	g.mu.Lock()
	g.objective = objective
	g.mu.Unlock()
	g.session.publish(EventObjectiveChanged{
		PlayerID:  g.player.ID,
		Objective: objective,
		Snapshot:  g.Snapshot(),
	})
}

func (g *PlayerGate) setSelection(count int, purpose SelectionPurpose) {
	g.mu.Lock()
	g.cardsToSelect = count
	g.selectionPurpose = purpose
	g.mu.Unlock()
}

func (g *PlayerGate) clearSelection() {
	g.setSelection(0, SelectionNone)
}

func (g *PlayerGate) setTradeOffer(offer *models.TradeOffer) {
	g.mu.Lock()
	g.tradeOffer = offer
	g.mu.Unlock()
}

// Snapshot assembles the prompt view for the current objective.
func (g *PlayerGate) Snapshot() PlayerSnapshot {
	g.mu.RLock()
	objective := g.objective
	count := g.cardsToSelect
	purpose := g.selectionPurpose
	trade := g.tradeOffer
	g.mu.RUnlock()

	snap := PlayerSnapshot{
		PlayerID:         g.player.ID,
		Objective:        objective,
		Resources:        g.player.Resources(),
		DevelopmentCards: g.player.TotalDevelopmentCards(),
		CardsToSelect:    count,
		SelectionPurpose: purpose,
		TradeOffer:       trade,
	}

	v := g.session.validator
	switch objective {
	case ObjectivePlaceVillage:
		snap.BuildableSpots = v.BuildableVillageSpots(g.player, true)
	case ObjectivePlaceRoad:
		snap.BuildableEdges = v.BuildableRoadEdges(g.player)
	case ObjectiveRegularTurn:
		snap.BuildableSpots = v.BuildableVillageSpots(g.player, false)
		snap.BuildableEdges = v.BuildableRoadEdges(g.player)
	case ObjectiveSelectCardToSteal:
		snap.StealablePlayers = v.StealablePlayers(g.player.ID)
	}
	return snap
}

// validate runs the pure precondition check for the action.
func (g *PlayerGate) validate(action Action) error {
	s := g.session
	v := s.validator
	switch a := action.(type) {
	case BuildRoad:
		return v.ValidateBuildRoad(g.player, a.Edge, g.freePlacement())
	case BuildVillage:
		return v.ValidateBuildVillage(g.player, a.Intersection, g.Objective() == ObjectivePlaceVillage)
	case UpgradeVillage:
		return v.ValidateUpgradeVillage(g.player, a.Intersection)
	case RollDice, EndTurn:
		return nil
	case BuyDevelopmentCard:
		return v.ValidateBuyDevelopmentCard(g.player, s.DeckRemaining())
	case PlayDevelopmentCard:
		return v.ValidatePlayDevelopmentCard(g.player, a.Card)
	case SelectCards:
		g.mu.RLock()
		count, purpose := g.cardsToSelect, g.selectionPurpose
		g.mu.RUnlock()
		return v.ValidateSelectCards(g.player, a.Cards, count, purpose)
	case SelectRobberTile:
		return v.ValidateSelectRobberTile(a.Tile)
	case StealCard:
		return v.ValidateStealCard(g.player, a.Victim)
	case TradeOfferAction:
		return v.ValidateTradeOffer(g.player, a.Offer, a.Request)
	case AcceptTrade:
		g.mu.RLock()
		trade := g.tradeOffer
		g.mu.RUnlock()
		if trade == nil {
			return fmt.Errorf("%w: no trade offer outstanding", ErrIllegalAction)
		}
		offerer, ok := s.state.PlayerByID(trade.From)
		if !ok {
			return fmt.Errorf("%w: unknown offering player %d", ErrIllegalState, trade.From)
		}
		return v.ValidateAcceptTrade(g.player, offerer, trade, a.Accepted)
	default:
		return fmt.Errorf("%w: unknown action kind %s", ErrIllegalAction, action.Kind())
	}
}

// freePlacement reports whether the current objective grants cost-free
// building (first round placements and road building card roads).
func (g *PlayerGate) freePlacement() bool {
	o := g.Objective()
	return o == ObjectivePlaceVillage || o == ObjectivePlaceRoad
}

// apply mutates game state for a validated action. Runs on the logic
// goroutine; validation has fully passed, so the whole effect applies
// or, on an unexpected board error, nothing does.
func (g *PlayerGate) apply(action Action) error {
	s := g.session
	p := g.player
	switch a := action.(type) {
	case BuildRoad:
		if err := s.grid.PlaceRoad(board.Road{Owner: p.ID, At: a.Edge}); err != nil {
			return fmt.Errorf("%w: %v", ErrIllegalAction, err)
		}
		p.RecordRoad()
		if !g.freePlacement() {
			p.RemoveResources(models.RoadCost)
		}
	case BuildVillage:
		if err := s.grid.PlaceSettlement(board.Settlement{Owner: p.ID, Kind: board.Village, At: a.Intersection}); err != nil {
			return fmt.Errorf("%w: %v", ErrIllegalAction, err)
		}
		p.RecordVillage()
		if !g.freePlacement() {
			p.RemoveResources(models.VillageCost)
		}
	case UpgradeVillage:
		if err := s.grid.UpgradeSettlement(a.Intersection); err != nil {
			return fmt.Errorf("%w: %v", ErrIllegalAction, err)
		}
		p.RecordCityUpgrade()
		p.RemoveResources(models.CityCost)
	case RollDice:
		s.castDice(p.ID)
	case EndTurn:
		// Nothing to apply.
	case BuyDevelopmentCard:
		p.RemoveResources(models.DevelopmentCardCost)
		card := s.drawDevelopmentCard()
		p.AddDevelopmentCard(card)
	case PlayDevelopmentCard:
		p.PlayDevelopmentCard(a.Card)
	case SelectCards:
		g.applySelection(a.Cards)
	case SelectRobberTile:
		s.grid.MoveRobber(a.Tile)
		s.publish(EventRobberMoved{PlayerID: p.ID, Tile: a.Tile})
	case StealCard:
		s.stealRandomCard(p, a.Victim)
	case TradeOfferAction:
		// The broadcast runs in the session loop after this returns.
	case AcceptTrade:
		if a.Accepted {
			return g.executeTrade()
		}
	}
	return nil
}

func (g *PlayerGate) applySelection(cards models.ResourceSet) {
	g.mu.RLock()
	purpose := g.selectionPurpose
	g.mu.RUnlock()

	switch purpose {
	case SelectionDrop:
		g.player.RemoveResources(cards)
	case SelectionGain:
		g.player.AddResources(cards)
		g.session.publish(EventResourcesGranted{PlayerID: g.player.ID, Resources: cards.Clone()})
	case SelectionMonopoly:
		for kind, n := range cards {
			if n == 0 {
				continue
			}
			g.session.monopolize(g.player, kind)
		}
	}
}

// executeTrade moves both sides of the outstanding offer atomically.
// Validation has confirmed both parties can pay.
func (g *PlayerGate) executeTrade() error {
	g.mu.RLock()
	trade := g.tradeOffer
	g.mu.RUnlock()
	offerer, ok := g.session.state.PlayerByID(trade.From)
	if !ok {
		return fmt.Errorf("%w: unknown offering player %d", ErrIllegalState, trade.From)
	}
	offerer.RemoveResources(trade.Offer)
	g.player.AddResources(trade.Offer)
	g.player.RemoveResources(trade.Request)
	offerer.AddResources(trade.Request)
	return nil
}
