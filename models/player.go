package models

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidPlayerConfig = errors.New("invalid player config")
)

// PlayerConfig 创建玩家所需的全部参数
type PlayerConfig struct {
	ID    int
	Name  string
	Color string
	AI    bool
}

// Player 玩家领域对象。资源和发展卡计数只能通过下面的方法修改，
// 所有计数任何时刻都不会为负。
type Player struct {
	ID    int
	Name  string
	Color string
	AI    bool

	mu              sync.RWMutex
	resources       ResourceSet
	cards           map[DevelopmentCardType]int
	playedCards     map[DevelopmentCardType]int
	villagesBuilt   int
	citiesBuilt     int
	roadsBuilt      int
}

// NewPlayer validates the config and returns a ready player.
func NewPlayer(cfg PlayerConfig) (*Player, error) {
	if cfg.ID < 0 {
		return nil, fmt.Errorf("%w: negative id %d", ErrInvalidPlayerConfig, cfg.ID)
	}
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("Player%d", cfg.ID)
	}
	return &Player{
		ID:          cfg.ID,
		Name:        name,
		Color:       cfg.Color,
		AI:          cfg.AI,
		resources:   make(ResourceSet),
		cards:       make(map[DevelopmentCardType]int),
		playedCards: make(map[DevelopmentCardType]int),
	}, nil
}

// Resources returns a copy of the player's resource holdings.
func (p *Player) Resources() ResourceSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resources.Clone()
}

func (p *Player) AddResource(kind ResourceType, amount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resources[kind] += amount
}

func (p *Player) AddResources(set ResourceSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for kind, amount := range set {
		p.resources[kind] += amount
	}
}

func (p *Player) HasResources(set ResourceSet) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hasResourcesLocked(set)
}

func (p *Player) hasResourcesLocked(set ResourceSet) bool {
	for kind, amount := range set {
		if p.resources[kind] < amount {
			return false
		}
	}
	return true
}

// RemoveResources debits the whole set or nothing.
func (p *Player) RemoveResources(set ResourceSet) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasResourcesLocked(set) {
		return false
	}
	for kind, amount := range set {
		p.resources[kind] -= amount
	}
	return true
}

func (p *Player) RemoveResource(kind ResourceType, amount int) bool {
	return p.RemoveResources(ResourceSet{kind: amount})
}

// TotalResources returns the number of resource cards in hand.
func (p *Player) TotalResources() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resources.Total()
}

func (p *Player) AddDevelopmentCard(card DevelopmentCardType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cards[card]++
}

func (p *Player) HasDevelopmentCard(card DevelopmentCardType) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cards[card] > 0
}

// PlayDevelopmentCard moves one card of the given kind from the unplayed
// to the played pile.
func (p *Player) PlayDevelopmentCard(card DevelopmentCardType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cards[card] <= 0 {
		return false
	}
	p.cards[card]--
	p.playedCards[card]++
	return true
}

func (p *Player) TotalDevelopmentCards() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	total := 0
	for _, n := range p.cards {
		total += n
	}
	return total
}

// KnightsPlayed returns how many knight cards the player has played.
func (p *Player) KnightsPlayed() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.playedCards[CardKnight]
}

// VictoryPointCards returns the unplayed victory point cards.
func (p *Player) VictoryPointCards() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cards[CardVictoryPoint]
}

// --- building stock ---

func (p *Player) VillagesBuilt() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.villagesBuilt
}

func (p *Player) CitiesBuilt() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.citiesBuilt
}

func (p *Player) RoadsBuilt() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.roadsBuilt
}

func (p *Player) RecordRoad() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roadsBuilt++
}

func (p *Player) RecordVillage() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.villagesBuilt++
}

// RecordCityUpgrade swaps a village for a city.
func (p *Player) RecordCityUpgrade() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.villagesBuilt > 0 {
		p.villagesBuilt--
	}
	p.citiesBuilt++
}

// VictoryPoints counts settlements (village=1, city=2) plus unplayed
// victory point cards. Bonuses are evaluated elsewhere.
func (p *Player) VictoryPoints() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.villagesBuilt + 2*p.citiesBuilt + p.cards[CardVictoryPoint]
}

func (p *Player) String() string {
	return fmt.Sprintf("Player %d %s", p.ID, p.Name)
}
