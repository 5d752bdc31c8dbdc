// Package board defines the interface the game core uses to talk to a
// hex grid implementation. Geometry (which tiles touch which
// intersections and edges) is entirely the grid's business; the core
// only asks adjacency questions and records occupancy changes.
package board

import (
	"github.com/wfunc/settlers/models"
)

type TileID int
type IntersectionID int
type EdgeID int

// SettlementKind 定居点类型：村庄或城市
type SettlementKind int

const (
	Village SettlementKind = iota + 1
	City
)

// ResourceAmount returns how many resources a settlement of this kind
// yields per matching dice roll.
func (k SettlementKind) ResourceAmount() int {
	if k == City {
		return 2
	}
	return 1
}

// Tile 地块：资源类型加产出点数
type Tile struct {
	ID       TileID              `json:"id"`
	Resource models.ResourceType `json:"resource"`
	Number   int                 `json:"number"`
}

// Settlement 某个路口上的定居点
type Settlement struct {
	Owner int            `json:"owner"`
	Kind  SettlementKind `json:"kind"`
	At    IntersectionID `json:"at"`
}

// Road 某条边上的道路
type Road struct {
	Owner int    `json:"owner"`
	At    EdgeID `json:"at"`
}

// Grid is the board collaborator. Implementations own all geometry and
// occupancy storage. The core calls mutating methods only from its
// logic goroutine, after the action has been validated.
type Grid interface {
	Tiles() []Tile
	TilesByNumber(number int) []Tile

	RobberTile() TileID
	MoveRobber(id TileID)

	// Adjacency queries.
	TileIntersections(id TileID) []IntersectionID
	AdjacentIntersections(id IntersectionID) []IntersectionID
	IntersectionEdges(id IntersectionID) []EdgeID
	EdgeEnds(id EdgeID) [2]IntersectionID
	Intersections() []IntersectionID
	Edges() []EdgeID

	// Occupancy.
	SettlementAt(id IntersectionID) (Settlement, bool)
	PlaceSettlement(s Settlement) error
	UpgradeSettlement(id IntersectionID) error
	RoadAt(id EdgeID) (Road, bool)
	PlaceRoad(r Road) error
}
