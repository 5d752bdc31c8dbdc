package game

import (
	"fmt"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/models"
)

// Validator 动作前置条件检查。所有方法都是纯检查，不做任何修改；
// 效果只在检查通过之后由 PlayerGate 应用。
type Validator struct {
	grid  board.Grid
	rules config.GameConfig
}

func NewValidator(grid board.Grid, rules config.GameConfig) *Validator {
	return &Validator{grid: grid, rules: rules}
}

// ValidateBuildRoad checks resources, remaining stock and connectivity.
// A road must touch one of the player's settlements, or extend the
// player's road network through an intersection that is not occupied by
// an opposing settlement. Placements during the first round and from a
// road building card are free of cost.
func (v *Validator) ValidateBuildRoad(p *models.Player, edge board.EdgeID, free bool) error {
	if !free && !p.HasResources(models.RoadCost) {
		return fmt.Errorf("%w: not enough resources for a road", ErrIllegalAction)
	}
	if p.RoadsBuilt() >= v.rules.MaxRoads {
		return fmt.Errorf("%w: no roads left in stock", ErrIllegalAction)
	}
	if !v.edgeExists(edge) {
		return fmt.Errorf("%w: unknown edge %d", ErrIllegalAction, edge)
	}
	if _, occupied := v.grid.RoadAt(edge); occupied {
		return fmt.Errorf("%w: edge %d already has a road", ErrIllegalAction, edge)
	}
	if !v.roadConnects(p.ID, edge) {
		return fmt.Errorf("%w: road at edge %d does not connect to your network", ErrIllegalAction, edge)
	}
	return nil
}

// roadConnects reports whether the edge touches a settlement of the
// player, or a road of the player through an end not blocked by an
// opposing settlement.
func (v *Validator) roadConnects(playerID int, edge board.EdgeID) bool {
	for _, end := range v.grid.EdgeEnds(edge) {
		if s, ok := v.grid.SettlementAt(end); ok {
			if s.Owner == playerID {
				return true
			}
			// Opposing settlement cuts the network at this end.
			continue
		}
		if v.playerRoadTouches(playerID, end, edge) {
			return true
		}
	}
	return false
}

// playerRoadTouches reports whether the player owns a road at the
// intersection other than the excluded edge.
func (v *Validator) playerRoadTouches(playerID int, id board.IntersectionID, exclude board.EdgeID) bool {
	for _, e := range v.grid.IntersectionEdges(id) {
		if e == exclude {
			continue
		}
		if r, ok := v.grid.RoadAt(e); ok && r.Owner == playerID {
			return true
		}
	}
	return false
}

// ValidateBuildVillage checks resources, stock, the minimum distance
// rule and, outside the first round, connection to the player's road
// network. First-round placements are free and may use any unoccupied
// intersection that honors the distance rule.
func (v *Validator) ValidateBuildVillage(p *models.Player, id board.IntersectionID, firstRound bool) error {
	if !firstRound && !p.HasResources(models.VillageCost) {
		return fmt.Errorf("%w: not enough resources for a village", ErrIllegalAction)
	}
	if p.VillagesBuilt() >= v.rules.MaxVillages {
		return fmt.Errorf("%w: no villages left in stock", ErrIllegalAction)
	}
	if !v.intersectionExists(id) {
		return fmt.Errorf("%w: unknown intersection %d", ErrIllegalAction, id)
	}
	if _, occupied := v.grid.SettlementAt(id); occupied {
		return fmt.Errorf("%w: intersection %d is occupied", ErrIllegalAction, id)
	}
	for _, adj := range v.grid.AdjacentIntersections(id) {
		if _, occupied := v.grid.SettlementAt(adj); occupied {
			return fmt.Errorf("%w: intersection %d is too close to another settlement", ErrIllegalAction, id)
		}
	}
	if !firstRound && !v.ownRoadAt(p.ID, id) {
		return fmt.Errorf("%w: intersection %d does not touch your road network", ErrIllegalAction, id)
	}
	return nil
}

func (v *Validator) ownRoadAt(playerID int, id board.IntersectionID) bool {
	for _, e := range v.grid.IntersectionEdges(id) {
		if r, ok := v.grid.RoadAt(e); ok && r.Owner == playerID {
			return true
		}
	}
	return false
}

func (v *Validator) ValidateUpgradeVillage(p *models.Player, id board.IntersectionID) error {
	if !p.HasResources(models.CityCost) {
		return fmt.Errorf("%w: not enough resources for a city", ErrIllegalAction)
	}
	if p.CitiesBuilt() >= v.rules.MaxCities {
		return fmt.Errorf("%w: no cities left in stock", ErrIllegalAction)
	}
	s, ok := v.grid.SettlementAt(id)
	if !ok || s.Owner != p.ID {
		return fmt.Errorf("%w: no settlement of yours at intersection %d", ErrIllegalAction, id)
	}
	if s.Kind != board.Village {
		return fmt.Errorf("%w: settlement at intersection %d is already a city", ErrIllegalAction, id)
	}
	return nil
}

func (v *Validator) ValidateBuyDevelopmentCard(p *models.Player, deckRemaining int) error {
	if deckRemaining <= 0 {
		return fmt.Errorf("%w: the development card deck is empty", ErrIllegalAction)
	}
	if !p.HasResources(models.DevelopmentCardCost) {
		return fmt.Errorf("%w: not enough resources for a development card", ErrIllegalAction)
	}
	return nil
}

func (v *Validator) ValidatePlayDevelopmentCard(p *models.Player, card models.DevelopmentCardType) error {
	if card == models.CardVictoryPoint {
		return fmt.Errorf("%w: victory point cards cannot be played", ErrIllegalAction)
	}
	if !p.HasDevelopmentCard(card) {
		return fmt.Errorf("%w: no unplayed %s card", ErrIllegalAction, card)
	}
	return nil
}

// ValidateSelectCards checks a SELECT_CARDS submission against the
// outstanding selection prompt.
func (v *Validator) ValidateSelectCards(p *models.Player, cards models.ResourceSet, required int, purpose SelectionPurpose) error {
	for kind, n := range cards {
		if n < 0 {
			return fmt.Errorf("%w: negative count for %s", ErrIllegalAction, kind)
		}
	}
	switch purpose {
	case SelectionDrop:
		if cards.Total() != required {
			return fmt.Errorf("%w: must drop exactly %d cards, got %d", ErrIllegalAction, required, cards.Total())
		}
		if !p.HasResources(cards) {
			return fmt.Errorf("%w: cannot drop cards you do not hold", ErrIllegalAction)
		}
	case SelectionGain:
		if cards.Total() != required {
			return fmt.Errorf("%w: must select exactly %d cards, got %d", ErrIllegalAction, required, cards.Total())
		}
	case SelectionMonopoly:
		if err := positiveCounts(cards); err != nil {
			return err
		}
		if cards.Total() != 1 {
			return fmt.Errorf("%w: must name exactly one resource kind", ErrIllegalAction)
		}
	default:
		return fmt.Errorf("%w: no card selection outstanding", ErrIllegalAction)
	}
	return nil
}

func (v *Validator) ValidateSelectRobberTile(tile board.TileID) error {
	if !v.tileExists(tile) {
		return fmt.Errorf("%w: unknown tile %d", ErrIllegalAction, tile)
	}
	if v.grid.RobberTile() == tile {
		return fmt.Errorf("%w: the robber already occupies tile %d", ErrIllegalAction, tile)
	}
	return nil
}

// ValidateStealCard requires the victim to occupy an intersection
// adjacent to the robber tile and to be a different player.
func (v *Validator) ValidateStealCard(thief *models.Player, victim int) error {
	if victim == thief.ID {
		return fmt.Errorf("%w: cannot steal from yourself", ErrIllegalAction)
	}
	for _, id := range v.StealablePlayers(thief.ID) {
		if id == victim {
			return nil
		}
	}
	return fmt.Errorf("%w: player %d has no settlement at the robber tile", ErrIllegalAction, victim)
}

// positiveCounts rejects sets carrying zero or negative per-kind
// entries. Negative entries would mint resources on transfer.
func positiveCounts(set models.ResourceSet) error {
	for kind, n := range set {
		if n <= 0 {
			return fmt.Errorf("%w: bad count %d for %s", ErrIllegalAction, n, kind)
		}
	}
	return nil
}

func (v *Validator) ValidateTradeOffer(p *models.Player, offer, request models.ResourceSet) error {
	if offer.Total() == 0 || request.Total() == 0 {
		return fmt.Errorf("%w: a trade needs both an offer and a request", ErrIllegalAction)
	}
	if err := positiveCounts(offer); err != nil {
		return err
	}
	if err := positiveCounts(request); err != nil {
		return err
	}
	if !p.HasResources(offer) {
		return fmt.Errorf("%w: cannot offer resources you do not hold", ErrIllegalAction)
	}
	return nil
}

// ValidateAcceptTrade checks an acceptance against the outstanding
// offer. Declining is always legal.
func (v *Validator) ValidateAcceptTrade(p *models.Player, offerer *models.Player, trade *models.TradeOffer, accepted bool) error {
	if trade == nil {
		return fmt.Errorf("%w: no trade offer outstanding", ErrIllegalAction)
	}
	if !accepted {
		return nil
	}
	if err := positiveCounts(trade.Offer); err != nil {
		return err
	}
	if err := positiveCounts(trade.Request); err != nil {
		return err
	}
	if !p.HasResources(trade.Request) {
		return fmt.Errorf("%w: cannot pay the requested resources", ErrIllegalAction)
	}
	if !offerer.HasResources(trade.Offer) {
		return fmt.Errorf("%w: the offering player no longer holds the offer", ErrIllegalAction)
	}
	return nil
}

// --- prompt helpers ---

// BuildableRoadEdges lists all empty edges the player could legally
// occupy, ignoring cost.
func (v *Validator) BuildableRoadEdges(p *models.Player) []board.EdgeID {
	var out []board.EdgeID
	for _, e := range v.grid.Edges() {
		if _, occupied := v.grid.RoadAt(e); occupied {
			continue
		}
		if v.roadConnects(p.ID, e) {
			out = append(out, e)
		}
	}
	return out
}

// BuildableVillageSpots lists all intersections where the player could
// legally place a village, ignoring cost.
func (v *Validator) BuildableVillageSpots(p *models.Player, firstRound bool) []board.IntersectionID {
	var out []board.IntersectionID
	for _, id := range v.grid.Intersections() {
		if _, occupied := v.grid.SettlementAt(id); occupied {
			continue
		}
		blocked := false
		for _, adj := range v.grid.AdjacentIntersections(id) {
			if _, occupied := v.grid.SettlementAt(adj); occupied {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		if !firstRound && !v.ownRoadAt(p.ID, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// StealablePlayers lists owners of settlements adjacent to the robber
// tile, excluding the active player, in first-seen order.
func (v *Validator) StealablePlayers(activePlayer int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, id := range v.grid.TileIntersections(v.grid.RobberTile()) {
		s, ok := v.grid.SettlementAt(id)
		if !ok || s.Owner == activePlayer || seen[s.Owner] {
			continue
		}
		seen[s.Owner] = true
		out = append(out, s.Owner)
	}
	return out
}

func (v *Validator) tileExists(id board.TileID) bool {
	for _, t := range v.grid.Tiles() {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (v *Validator) intersectionExists(id board.IntersectionID) bool {
	for _, i := range v.grid.Intersections() {
		if i == id {
			return true
		}
	}
	return false
}

func (v *Validator) edgeExists(id board.EdgeID) bool {
	for _, e := range v.grid.Edges() {
		if e == id {
			return true
		}
	}
	return false
}
