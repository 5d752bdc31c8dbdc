package game

import (
	"context"
)

// runRobberProtocol handles a roll of 7: every player over the hand
// limit (the roller included) drops half their cards, then the roller
// moves the robber and may steal. Players are visited in seat order.
func (s *Session) runRobberProtocol(ctx context.Context, roller *PlayerGate) error {
	for _, g := range s.gates {
		total := g.player.TotalResources()
		if total <= s.cfg.HandLimit {
			continue
		}
		drop := total / 2
		if err := s.withActivePlayer(g, func() error {
			g.setSelection(drop, SelectionDrop)
			defer g.clearSelection()
			_, err := g.WaitForAction(ctx, ObjectiveDropCards)
			return err
		}); err != nil {
			return err
		}
	}

	if err := s.withActivePlayer(roller, func() error {
		return s.moveRobber(ctx, roller)
	}); err != nil {
		return err
	}

	// The roller's turn continues; restore them as active.
	s.setActiveSeat(roller.player.ID)
	return nil
}

// moveRobber lets the gate's player choose the robber tile and then
// steal a card from an adjacent player. With no eligible victim the
// player passes with an EndTurn.
func (s *Session) moveRobber(ctx context.Context, g *PlayerGate) error {
	if _, err := g.WaitForAction(ctx, ObjectiveSelectRobberTile); err != nil {
		return err
	}
	_, err := g.WaitForAction(ctx, ObjectiveSelectCardToSteal)
	return err
}
