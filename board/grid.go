package board

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wfunc/settlers/models"
)

var (
	ErrSpotOccupied  = errors.New("spot occupied")
	ErrNoSettlement  = errors.New("no settlement at intersection")
	ErrInvalidLayout = errors.New("invalid board layout")
)

// TileLayout declares one tile of a layout: its resource, its dice
// number and the intersections at its corners.
type TileLayout struct {
	ID       TileID              `mapstructure:"id" json:"id"`
	Resource models.ResourceType `mapstructure:"resource" json:"resource"`
	Number   int                 `mapstructure:"number" json:"number"`
	Corners  []IntersectionID    `mapstructure:"corners" json:"corners"`
}

// EdgeLayout declares one edge joining two intersections.
type EdgeLayout struct {
	ID   EdgeID            `mapstructure:"id" json:"id"`
	Ends [2]IntersectionID `mapstructure:"ends" json:"ends"`
}

// Layout is a complete board described as data. The grid derives all
// adjacency from the declared edges and corners; no geometry is
// computed.
type Layout struct {
	Tiles  []TileLayout `mapstructure:"tiles" json:"tiles"`
	Edges  []EdgeLayout `mapstructure:"edges" json:"edges"`
	Robber TileID       `mapstructure:"robber" json:"robber"`
}

// MapGrid is the Grid implementation backed by a Layout. Mutating
// methods are guarded by a mutex so observers may read occupancy while
// the logic goroutine writes it.
type MapGrid struct {
	tiles     []Tile
	corners   map[TileID][]IntersectionID
	edgeEnds  map[EdgeID][2]IntersectionID
	adjacency map[IntersectionID][]IntersectionID
	edgesAt   map[IntersectionID][]EdgeID

	mu          sync.RWMutex
	robber      TileID
	settlements map[IntersectionID]Settlement
	roads       map[EdgeID]Road
}

// NewMapGrid validates the layout and builds the grid.
func NewMapGrid(layout Layout) (*MapGrid, error) {
	if len(layout.Tiles) == 0 || len(layout.Edges) == 0 {
		return nil, fmt.Errorf("%w: a layout needs tiles and edges", ErrInvalidLayout)
	}

	g := &MapGrid{
		corners:     make(map[TileID][]IntersectionID),
		edgeEnds:    make(map[EdgeID][2]IntersectionID),
		adjacency:   make(map[IntersectionID][]IntersectionID),
		edgesAt:     make(map[IntersectionID][]EdgeID),
		robber:      layout.Robber,
		settlements: make(map[IntersectionID]Settlement),
		roads:       make(map[EdgeID]Road),
	}

	robberKnown := false
	for _, tl := range layout.Tiles {
		if _, dup := g.corners[tl.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate tile %d", ErrInvalidLayout, tl.ID)
		}
		if len(tl.Corners) == 0 {
			return nil, fmt.Errorf("%w: tile %d has no corners", ErrInvalidLayout, tl.ID)
		}
		g.tiles = append(g.tiles, Tile{ID: tl.ID, Resource: tl.Resource, Number: tl.Number})
		g.corners[tl.ID] = append([]IntersectionID(nil), tl.Corners...)
		if tl.ID == layout.Robber {
			robberKnown = true
		}
	}
	if !robberKnown {
		return nil, fmt.Errorf("%w: robber tile %d not declared", ErrInvalidLayout, layout.Robber)
	}

	for _, el := range layout.Edges {
		if _, dup := g.edgeEnds[el.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate edge %d", ErrInvalidLayout, el.ID)
		}
		if el.Ends[0] == el.Ends[1] {
			return nil, fmt.Errorf("%w: edge %d joins an intersection to itself", ErrInvalidLayout, el.ID)
		}
		g.edgeEnds[el.ID] = el.Ends
		g.adjacency[el.Ends[0]] = append(g.adjacency[el.Ends[0]], el.Ends[1])
		g.adjacency[el.Ends[1]] = append(g.adjacency[el.Ends[1]], el.Ends[0])
		g.edgesAt[el.Ends[0]] = append(g.edgesAt[el.Ends[0]], el.ID)
		g.edgesAt[el.Ends[1]] = append(g.edgesAt[el.Ends[1]], el.ID)
	}

	// Every declared corner must be reachable by roads.
	for id, corners := range g.corners {
		for _, c := range corners {
			if _, ok := g.adjacency[c]; !ok {
				return nil, fmt.Errorf("%w: tile %d corner %d touches no edge", ErrInvalidLayout, id, c)
			}
		}
	}

	return g, nil
}

func (g *MapGrid) Tiles() []Tile {
	return g.tiles
}

func (g *MapGrid) TilesByNumber(number int) []Tile {
	var out []Tile
	for _, t := range g.tiles {
		if t.Number == number {
			out = append(out, t)
		}
	}
	return out
}

func (g *MapGrid) RobberTile() TileID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.robber
}

func (g *MapGrid) MoveRobber(id TileID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.robber = id
}

func (g *MapGrid) TileIntersections(id TileID) []IntersectionID {
	return g.corners[id]
}

func (g *MapGrid) AdjacentIntersections(id IntersectionID) []IntersectionID {
	return g.adjacency[id]
}

func (g *MapGrid) IntersectionEdges(id IntersectionID) []EdgeID {
	return g.edgesAt[id]
}

func (g *MapGrid) EdgeEnds(id EdgeID) [2]IntersectionID {
	return g.edgeEnds[id]
}

func (g *MapGrid) Intersections() []IntersectionID {
	out := make([]IntersectionID, 0, len(g.adjacency))
	for id := range g.adjacency {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *MapGrid) Edges() []EdgeID {
	out := make([]EdgeID, 0, len(g.edgeEnds))
	for id := range g.edgeEnds {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *MapGrid) SettlementAt(id IntersectionID) (Settlement, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.settlements[id]
	return s, ok
}

func (g *MapGrid) PlaceSettlement(s Settlement) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, occupied := g.settlements[s.At]; occupied {
		return fmt.Errorf("%w: intersection %d", ErrSpotOccupied, s.At)
	}
	g.settlements[s.At] = s
	return nil
}

func (g *MapGrid) UpgradeSettlement(id IntersectionID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.settlements[id]
	if !ok {
		return fmt.Errorf("%w: intersection %d", ErrNoSettlement, id)
	}
	if s.Kind != Village {
		return fmt.Errorf("%w: intersection %d already holds a city", ErrSpotOccupied, id)
	}
	s.Kind = City
	g.settlements[id] = s
	return nil
}

func (g *MapGrid) RoadAt(id EdgeID) (Road, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.roads[id]
	return r, ok
}

func (g *MapGrid) PlaceRoad(r Road) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, occupied := g.roads[r.At]; occupied {
		return fmt.Errorf("%w: edge %d", ErrSpotOccupied, r.At)
	}
	g.roads[r.At] = r
	return nil
}
