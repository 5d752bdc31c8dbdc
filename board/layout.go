package board

import (
	"github.com/wfunc/settlers/models"
)

// DemoLayout is a small built-in board: twelve intersections joined in
// a ring, six tiles of two corners each. Tile 6 carries number 0 (two
// dice never roll it) and hosts the robber at game start. Real boards
// are supplied as Layout data; this one exists so a room can start
// without any external layout file.
func DemoLayout() Layout {
	return Layout{
		Tiles: []TileLayout{
			{ID: 1, Resource: models.ResourceWood, Number: 6, Corners: []IntersectionID{1, 2}},
			{ID: 2, Resource: models.ResourceBrick, Number: 8, Corners: []IntersectionID{3, 4}},
			{ID: 3, Resource: models.ResourceGrain, Number: 5, Corners: []IntersectionID{5, 6}},
			{ID: 4, Resource: models.ResourceWool, Number: 9, Corners: []IntersectionID{7, 8}},
			{ID: 5, Resource: models.ResourceOre, Number: 10, Corners: []IntersectionID{9, 10}},
			{ID: 6, Resource: models.ResourceOre, Number: 0, Corners: []IntersectionID{11, 12}},
		},
		Edges: []EdgeLayout{
			{ID: 1, Ends: [2]IntersectionID{1, 2}},
			{ID: 2, Ends: [2]IntersectionID{2, 3}},
			{ID: 3, Ends: [2]IntersectionID{3, 4}},
			{ID: 4, Ends: [2]IntersectionID{4, 5}},
			{ID: 5, Ends: [2]IntersectionID{5, 6}},
			{ID: 6, Ends: [2]IntersectionID{6, 7}},
			{ID: 7, Ends: [2]IntersectionID{7, 8}},
			{ID: 8, Ends: [2]IntersectionID{8, 9}},
			{ID: 9, Ends: [2]IntersectionID{9, 10}},
			{ID: 10, Ends: [2]IntersectionID{10, 11}},
			{ID: 11, Ends: [2]IntersectionID{11, 12}},
			{ID: 12, Ends: [2]IntersectionID{12, 1}},
		},
		Robber: 6,
	}
}
