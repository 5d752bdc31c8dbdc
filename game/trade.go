package game

import (
	"context"

	"github.com/wfunc/settlers/models"
)

// offerTrade broadcasts the offer to the remaining players in seat
// order. The first one to accept executes the exchange atomically and
// stops the broadcast; if nobody accepts, no resources move. Afterwards
// every objective is reset to idle and the offering player is restored
// as active.
func (s *Session) offerTrade(ctx context.Context, offering *PlayerGate, offer, request models.ResourceSet) error {
	trade := &models.TradeOffer{
		From:    offering.player.ID,
		Offer:   offer.Clone(),
		Request: request.Clone(),
	}

	accepted := false
	acceptedBy := -1
	for _, g := range s.gates {
		if g == offering {
			continue
		}
		g.setTradeOffer(trade)
		s.setActiveSeat(g.player.ID)
		s.publish(EventTradeOffered{Offer: *trade, To: g.player.ID})

		action, err := g.WaitForAction(ctx, ObjectiveAcceptTrade)
		g.setTradeOffer(nil)
		if err != nil {
			return err
		}
		if a, ok := action.(AcceptTrade); ok && a.Accepted {
			accepted = true
			acceptedBy = g.player.ID
			break
		}
	}

	for _, g := range s.gates {
		g.setObjective(ObjectiveIdle)
	}
	s.setActiveSeat(offering.player.ID)
	s.publish(EventTradeResolved{Offer: *trade, Accepted: accepted, AcceptedBy: acceptedBy})
	return nil
}
