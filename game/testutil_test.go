package game

import (
	"errors"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/models"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// fakeGrid is a test double for board.Grid: a straight chain of
// intersections (i adjacent to i+1) with edge i joining i and i+1, and
// tiles declared with explicit corner lists.
type fakeGrid struct {
	tiles       []board.Tile
	robber      board.TileID
	corners     map[board.TileID][]board.IntersectionID
	adjacency   map[board.IntersectionID][]board.IntersectionID
	edgeEnds    map[board.EdgeID][2]board.IntersectionID
	settlements map[board.IntersectionID]board.Settlement
	roads       map[board.EdgeID]board.Road
}

type tileDef struct {
	id       board.TileID
	resource models.ResourceType
	number   int
	corners  []board.IntersectionID
}

func newChainGrid(intersections int, tiles []tileDef, robber board.TileID) *fakeGrid {
	g := &fakeGrid{
		robber:      robber,
		corners:     make(map[board.TileID][]board.IntersectionID),
		adjacency:   make(map[board.IntersectionID][]board.IntersectionID),
		edgeEnds:    make(map[board.EdgeID][2]board.IntersectionID),
		settlements: make(map[board.IntersectionID]board.Settlement),
		roads:       make(map[board.EdgeID]board.Road),
	}
	for i := 1; i <= intersections; i++ {
		id := board.IntersectionID(i)
		if i > 1 {
			g.adjacency[id] = append(g.adjacency[id], board.IntersectionID(i-1))
		}
		if i < intersections {
			g.adjacency[id] = append(g.adjacency[id], board.IntersectionID(i+1))
			g.edgeEnds[board.EdgeID(i)] = [2]board.IntersectionID{id, board.IntersectionID(i + 1)}
		}
	}
	for _, td := range tiles {
		g.tiles = append(g.tiles, board.Tile{ID: td.id, Resource: td.resource, Number: td.number})
		g.corners[td.id] = td.corners
	}
	return g
}

func (g *fakeGrid) Tiles() []board.Tile { return g.tiles }

func (g *fakeGrid) TilesByNumber(number int) []board.Tile {
	var out []board.Tile
	for _, t := range g.tiles {
		if t.Number == number {
			out = append(out, t)
		}
	}
	return out
}

func (g *fakeGrid) RobberTile() board.TileID { return g.robber }

func (g *fakeGrid) MoveRobber(id board.TileID) { g.robber = id }

func (g *fakeGrid) TileIntersections(id board.TileID) []board.IntersectionID {
	return g.corners[id]
}

func (g *fakeGrid) AdjacentIntersections(id board.IntersectionID) []board.IntersectionID {
	return g.adjacency[id]
}

func (g *fakeGrid) IntersectionEdges(id board.IntersectionID) []board.EdgeID {
	var out []board.EdgeID
	for _, e := range g.Edges() {
		ends := g.edgeEnds[e]
		if ends[0] == id || ends[1] == id {
			out = append(out, e)
		}
	}
	return out
}

func (g *fakeGrid) EdgeEnds(id board.EdgeID) [2]board.IntersectionID {
	return g.edgeEnds[id]
}

func (g *fakeGrid) Intersections() []board.IntersectionID {
	out := make([]board.IntersectionID, 0, len(g.adjacency))
	for id := range g.adjacency {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *fakeGrid) Edges() []board.EdgeID {
	out := make([]board.EdgeID, 0, len(g.edgeEnds))
	for id := range g.edgeEnds {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *fakeGrid) SettlementAt(id board.IntersectionID) (board.Settlement, bool) {
	s, ok := g.settlements[id]
	return s, ok
}

func (g *fakeGrid) PlaceSettlement(s board.Settlement) error {
	if _, occupied := g.settlements[s.At]; occupied {
		return errOccupied
	}
	g.settlements[s.At] = s
	return nil
}

func (g *fakeGrid) UpgradeSettlement(id board.IntersectionID) error {
	s, ok := g.settlements[id]
	if !ok || s.Kind != board.Village {
		return errOccupied
	}
	s.Kind = board.City
	g.settlements[id] = s
	return nil
}

func (g *fakeGrid) RoadAt(id board.EdgeID) (board.Road, bool) {
	r, ok := g.roads[id]
	return r, ok
}

func (g *fakeGrid) PlaceRoad(r board.Road) error {
	if _, occupied := g.roads[r.At]; occupied {
		return errOccupied
	}
	g.roads[r.At] = r
	return nil
}

var errOccupied = errTest("occupied")

type errTest string

func (e errTest) Error() string { return string(e) }

// recordingSink buffers events on a channel for a driver goroutine and
// keeps a copy for assertions after the game is over.
type recordingSink struct {
	ch chan Event

	mu     sync.Mutex
	events []Event
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ch: make(chan Event, 4096)}
}

func (s *recordingSink) Publish(event Event) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	s.ch <- event
}

func (s *recordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// autoPlayer answers objective prompts with the first legal move, the
// way a trivial agent would: build on the first buildable spot, end the
// turn unless a city upgrade is affordable, decline all trades.
type autoPlayer struct {
	session  *Session
	grid     *fakeGrid
	playerID int

	villages []board.IntersectionID
	upgraded bool
}

func (b *autoPlayer) react(t *testing.T, snap PlayerSnapshot) {
	t.Helper()
	gate, ok := b.session.Gate(b.playerID)
	if !ok {
		t.Errorf("no gate for player %d", b.playerID)
		return
	}

	var action Action
	switch snap.Objective {
	case ObjectivePlaceVillage:
		if len(snap.BuildableSpots) == 0 {
			t.Errorf("player %d has nowhere to place a village", b.playerID)
			return
		}
		spot := snap.BuildableSpots[0]
		b.villages = append(b.villages, spot)
		action = BuildVillage{Intersection: spot}
	case ObjectivePlaceRoad:
		if len(snap.BuildableEdges) == 0 {
			t.Errorf("player %d has nowhere to place a road", b.playerID)
			return
		}
		action = BuildRoad{Edge: snap.BuildableEdges[0]}
	case ObjectiveDiceRoll:
		action = RollDice{}
	case ObjectiveRegularTurn:
		if !b.upgraded && len(b.villages) > 0 && covers(snap.Resources, models.CityCost) {
			b.upgraded = true
			action = UpgradeVillage{Intersection: b.villages[0]}
		} else {
			action = EndTurn{}
		}
	case ObjectiveDropCards:
		action = SelectCards{Cards: pickCards(snap.Resources, snap.CardsToSelect)}
	case ObjectiveSelectRobberTile:
		for _, tile := range b.grid.tiles {
			if tile.ID != b.grid.robber {
				action = SelectRobberTile{Tile: tile.ID}
				break
			}
		}
	case ObjectiveSelectCardToSteal:
		if len(snap.StealablePlayers) > 0 {
			action = StealCard{Victim: snap.StealablePlayers[0]}
		} else {
			action = EndTurn{}
		}
	case ObjectiveAcceptTrade:
		action = AcceptTrade{Accepted: false}
	default:
		return
	}

	if err := gate.TriggerAction(action); err != nil && !errors.Is(err, ErrIllegalState) {
		// An illegal-state failure is expected when the game is being
		// torn down under the bot.
		t.Errorf("player %d could not submit %s: %v", b.playerID, action.Kind(), err)
	}
}

// driveBots dispatches objective events to the auto players until the
// sink channel is drained and stop is closed.
func driveBots(t *testing.T, sink *recordingSink, bots map[int]*autoPlayer, stop <-chan struct{}) {
	for {
		select {
		case ev := <-sink.ch:
			if oc, ok := ev.(EventObjectiveChanged); ok {
				if bot, ok := bots[oc.PlayerID]; ok {
					bot.react(t, oc.Snapshot)
				}
			}
		case <-stop:
			return
		}
	}
}

func covers(have models.ResourceSet, cost models.ResourceSet) bool {
	for kind, n := range cost {
		if have[kind] < n {
			return false
		}
	}
	return true
}

// pickCards selects count cards from the hand in fixed resource order.
func pickCards(hand models.ResourceSet, count int) models.ResourceSet {
	out := make(models.ResourceSet)
	remaining := count
	for _, kind := range models.ResourceTypes {
		if remaining == 0 {
			break
		}
		n := hand[kind]
		if n > remaining {
			n = remaining
		}
		if n > 0 {
			out[kind] = n
			remaining -= n
		}
	}
	return out
}

// diceScript returns a dice source that plays the given values and then
// repeats the last one.
func diceScript(values ...int) func() int {
	i := 0
	return func() int {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func testRules() config.GameConfig {
	return config.DefaultGame()
}

func mustSession(t *testing.T, cfg config.GameConfig, grid board.Grid, n int, opts Options) *Session {
	t.Helper()
	var pcs []models.PlayerConfig
	for i := 0; i < n; i++ {
		pcs = append(pcs, models.PlayerConfig{ID: i, Name: ""})
	}
	s, err := NewSession(cfg, grid, pcs, opts)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

// flowGrid is the standard board for full-game tests: a chain of eight
// intersections, grain and ore tiles both numbered 6 at the first two
// corners, and a wood tile numbered 3 holding the robber.
func flowGrid() *fakeGrid {
	return newChainGrid(8, []tileDef{
		{id: 1, resource: models.ResourceGrain, number: 6, corners: []board.IntersectionID{1, 2}},
		{id: 2, resource: models.ResourceOre, number: 6, corners: []board.IntersectionID{1, 2}},
		{id: 3, resource: models.ResourceWood, number: 3, corners: []board.IntersectionID{7, 8}},
	}, 3)
}
