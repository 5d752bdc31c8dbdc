package models

import (
	"math/rand"
)

// ResourceType 资源类型
type ResourceType string

const (
	ResourceWood  ResourceType = "wood"
	ResourceBrick ResourceType = "brick"
	ResourceGrain ResourceType = "grain"
	ResourceWool  ResourceType = "wool"
	ResourceOre   ResourceType = "ore"
)

// ResourceTypes lists every resource kind in a fixed order.
var ResourceTypes = []ResourceType{
	ResourceWood,
	ResourceBrick,
	ResourceGrain,
	ResourceWool,
	ResourceOre,
}

// ResourceSet 资源映射，键为资源类型，值为数量
type ResourceSet map[ResourceType]int

// Total returns the number of cards in the set.
func (s ResourceSet) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Clone returns an independent copy of the set.
func (s ResourceSet) Clone() ResourceSet {
	out := make(ResourceSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Building costs.
var (
	RoadCost = ResourceSet{
		ResourceWood:  1,
		ResourceBrick: 1,
	}
	VillageCost = ResourceSet{
		ResourceWood:  1,
		ResourceBrick: 1,
		ResourceGrain: 1,
		ResourceWool:  1,
	}
	CityCost = ResourceSet{
		ResourceGrain: 2,
		ResourceOre:   3,
	}
	DevelopmentCardCost = ResourceSet{
		ResourceGrain: 1,
		ResourceWool:  1,
		ResourceOre:   1,
	}
)

// DevelopmentCardType 发展卡类型
type DevelopmentCardType string

const (
	CardKnight       DevelopmentCardType = "knight"
	CardVictoryPoint DevelopmentCardType = "victory_point"
	CardRoadBuilding DevelopmentCardType = "road_building"
	CardInvention    DevelopmentCardType = "invention"
	CardMonopoly     DevelopmentCardType = "monopoly"
)

// developmentCardWeights holds the relative frequency of each card kind
// in a freshly shuffled deck.
var developmentCardWeights = []struct {
	card   DevelopmentCardType
	weight int
}{
	{CardKnight, 14},
	{CardVictoryPoint, 5},
	{CardRoadBuilding, 2},
	{CardInvention, 2},
	{CardMonopoly, 2},
}

// NewDice returns a function that rolls the configured number of dice
// and returns their sum.
func NewDice(count, sides int, rng *rand.Rand) func() int {
	return func() int {
		sum := 0
		for i := 0; i < count; i++ {
			sum += rng.Intn(sides) + 1
		}
		return sum
	}
}

// NewDevelopmentCardSource returns a function that draws the next
// development card, weighted like the physical deck.
func NewDevelopmentCardSource(rng *rand.Rand) func() DevelopmentCardType {
	totalWeight := 0
	for _, w := range developmentCardWeights {
		totalWeight += w.weight
	}
	return func() DevelopmentCardType {
		n := rng.Intn(totalWeight)
		for _, w := range developmentCardWeights {
			n -= w.weight
			if n < 0 {
				return w.card
			}
		}
		return CardKnight
	}
}
