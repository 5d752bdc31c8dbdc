package game

import (
	"github.com/wfunc/settlers/models"
)

// distributeResources credits every settlement on every tile matching
// the dice value, unless the robber sits on the tile. Villages yield
// one resource, cities two. No bank limit is modeled. Never called for
// a roll of 7.
func (s *Session) distributeResources(diceValue int) {
	granted := make(map[int]models.ResourceSet)
	for _, tile := range s.grid.TilesByNumber(diceValue) {
		if s.grid.RobberTile() == tile.ID {
			continue
		}
		for _, id := range s.grid.TileIntersections(tile.ID) {
			settlement, ok := s.grid.SettlementAt(id)
			if !ok {
				continue
			}
			owner, ok := s.state.PlayerByID(settlement.Owner)
			if !ok {
				continue
			}
			amount := settlement.Kind.ResourceAmount()
			owner.AddResource(tile.Resource, amount)
			if granted[owner.ID] == nil {
				granted[owner.ID] = make(models.ResourceSet)
			}
			granted[owner.ID][tile.Resource] += amount
		}
	}
	for _, g := range s.gates {
		if set, ok := granted[g.player.ID]; ok {
			s.publish(EventResourcesGranted{PlayerID: g.player.ID, Resources: set})
		}
	}
}
