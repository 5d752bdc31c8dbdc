package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/models"
)

// Session 游戏会话编排器。一局游戏只有一个逻辑协程在 Run 中推进；
// 所有状态修改都发生在该协程上，或发生在门接受动作时的同步回调里。
type Session struct {
	cfg       config.GameConfig
	state     *models.GameState
	grid      board.Grid
	gates     []*PlayerGate // seat order, iterated everywhere in this order
	validator *Validator
	victory   *VictoryEvaluator
	sink      EventSink

	dice     func() int
	drawCard func() models.DevelopmentCardType
	rng      *rand.Rand

	mu            sync.RWMutex
	round         int
	currentRoll   int
	activeSeat    int
	deckRemaining int
}

// Options 可选的会话依赖，零值字段使用默认实现
type Options struct {
	Dice  func() int                        // dice source; default from config
	Cards func() models.DevelopmentCardType // development card source
	Rng   *rand.Rand                        // randomness for steals
	Sink  EventSink                         // event subscriber
}

// NewSession wires a session over the given grid and player configs.
// Players sit in the order given.
func NewSession(cfg config.GameConfig, grid board.Grid, playerConfigs []models.PlayerConfig, opts Options) (*Session, error) {
	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	dice := opts.Dice
	if dice == nil {
		dice = models.NewDice(cfg.NumberOfDice, cfg.DiceSides, rng)
	}
	drawCard := opts.Cards
	if drawCard == nil {
		drawCard = models.NewDevelopmentCardSource(rng)
	}
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}

	players := make([]*models.Player, 0, len(playerConfigs))
	for _, pc := range playerConfigs {
		p, err := models.NewPlayer(pc)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	s := &Session{
		cfg:           cfg,
		state:         models.NewGameState(players),
		grid:          grid,
		validator:     NewValidator(grid, cfg),
		victory:       NewVictoryEvaluator(cfg.VictoryPoints),
		sink:          sink,
		dice:          dice,
		drawCard:      drawCard,
		rng:           rng,
		activeSeat:    -1,
		deckRemaining: cfg.DevelopmentCards,
	}
	for _, p := range players {
		s.gates = append(s.gates, newPlayerGate(p, s))
	}
	return s, nil
}

// State returns the shared game state.
func (s *Session) State() *models.GameState {
	return s.state
}

// Grid returns the board collaborator.
func (s *Session) Grid() board.Grid {
	return s.grid
}

// Gates returns the player gates in seat order.
func (s *Session) Gates() []*PlayerGate {
	return s.gates
}

// Gate returns the gate for the given player id.
func (s *Session) Gate(playerID int) (*PlayerGate, bool) {
	for _, g := range s.gates {
		if g.player.ID == playerID {
			return g, true
		}
	}
	return nil, false
}

// Info returns the observable session counters.
func (s *Session) Info() RoundInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RoundInfo{
		Round:        s.round,
		CurrentRoll:  s.currentRoll,
		ActivePlayer: s.activeSeat,
	}
}

func (s *Session) DeckRemaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deckRemaining
}

func (s *Session) publish(event Event) {
	s.sink.Publish(event)
}

// Run executes the whole game on the calling goroutine: the placement
// round, then the main loop until a winner exists or ctx is cancelled.
// Starting with fewer than the configured minimum of players fails with
// ErrIllegalState.
func (s *Session) Run(ctx context.Context) error {
	if len(s.gates) < s.cfg.MinPlayers {
		return fmt.Errorf("%w: need at least %d players, have %d", ErrIllegalState, s.cfg.MinPlayers, len(s.gates))
	}

	if err := s.firstRound(ctx); err != nil {
		return err
	}

	s.setRound(1)
	for len(s.victory.Winners(s.state)) == 0 {
		for _, g := range s.gates {
			if err := s.withActivePlayer(g, func() error {
				return s.playerTurn(ctx, g)
			}); err != nil {
				return err
			}
		}
		s.setRound(s.Info().Round + 1)
	}

	winners := s.victory.Winners(s.state)
	winner := winners[0] // seat order breaks ties
	if err := s.state.SetWinner(winner); err != nil {
		return err
	}
	info := s.Info()
	logger.Log.Infof("game over: %s wins after %d rounds", winner, info.Round)
	s.publish(EventGameEnded{WinnerID: winner.ID, Rounds: info.Round})
	return nil
}

// firstRound lets every player place two village/road pairs, in seat
// order.
func (s *Session) firstRound(ctx context.Context) error {
	for _, g := range s.gates {
		if err := s.withActivePlayer(g, func() error {
			for i := 0; i < 2; i++ {
				if _, err := g.WaitForAction(ctx, ObjectivePlaceVillage); err != nil {
					return err
				}
				if _, err := g.WaitForAction(ctx, ObjectivePlaceRoad); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// playerTurn runs one full turn for the active player: dice roll,
// payout or robbery, then the regular turn until EndTurn.
func (s *Session) playerTurn(ctx context.Context, g *PlayerGate) error {
	if _, err := g.WaitForAction(ctx, ObjectiveDiceRoll); err != nil {
		return err
	}
	roll := s.Info().CurrentRoll

	if roll == 7 {
		if err := s.runRobberProtocol(ctx, g); err != nil {
			return err
		}
	} else {
		s.distributeResources(roll)
	}
	return s.regularTurn(ctx, g)
}

// regularTurn repeatedly waits for actions until the player ends the
// turn. Trade offers and development cards spawn their own wait
// sequences before the loop resumes.
func (s *Session) regularTurn(ctx context.Context, g *PlayerGate) error {
	for {
		action, err := g.WaitForAction(ctx, ObjectiveRegularTurn)
		if err != nil {
			return err
		}
		switch a := action.(type) {
		case EndTurn:
			return nil
		case TradeOfferAction:
			if err := s.offerTrade(ctx, g, a.Offer, a.Request); err != nil {
				return err
			}
		case PlayDevelopmentCard:
			if err := s.resolveDevelopmentCard(ctx, g, a.Card); err != nil {
				return err
			}
		}
	}
}

// withActivePlayer makes the gate's player active, runs body and always
// resets the objective to idle and clears the active player, whatever
// path body exits through.
func (s *Session) withActivePlayer(g *PlayerGate, body func() error) error {
	s.setActiveSeat(g.player.ID)
	defer func() {
		g.setObjective(ObjectiveIdle)
		s.setActiveSeat(-1)
	}()
	return body()
}

func (s *Session) setActiveSeat(playerID int) {
	s.mu.Lock()
	s.activeSeat = playerID
	s.mu.Unlock()
	s.publish(EventActivePlayer{PlayerID: playerID})
}

func (s *Session) setRound(round int) {
	s.mu.Lock()
	s.round = round
	s.mu.Unlock()
	s.publish(EventRoundStarted{Round: round})
}

// castDice rolls the configured dice and records the value.
func (s *Session) castDice(playerID int) int {
	value := s.dice()
	s.mu.Lock()
	s.currentRoll = value
	s.mu.Unlock()
	s.publish(EventDiceRolled{PlayerID: playerID, Value: value})
	return value
}

// drawDevelopmentCard takes the next card off the deck.
func (s *Session) drawDevelopmentCard() models.DevelopmentCardType {
	s.mu.Lock()
	s.deckRemaining--
	s.mu.Unlock()
	return s.drawCard()
}

// resolveDevelopmentCard runs the wait sequence a played card demands.
// The card itself has already moved to the played pile.
func (s *Session) resolveDevelopmentCard(ctx context.Context, g *PlayerGate, card models.DevelopmentCardType) error {
	switch card {
	case models.CardKnight:
		return s.moveRobber(ctx, g)
	case models.CardRoadBuilding:
		for i := 0; i < 2; i++ {
			if g.player.RoadsBuilt() >= s.cfg.MaxRoads {
				break
			}
			if _, err := g.WaitForAction(ctx, ObjectivePlaceRoad); err != nil {
				return err
			}
		}
	case models.CardInvention:
		g.setSelection(2, SelectionGain)
		_, err := g.WaitForAction(ctx, ObjectiveSelectCards)
		g.clearSelection()
		return err
	case models.CardMonopoly:
		g.setSelection(1, SelectionMonopoly)
		_, err := g.WaitForAction(ctx, ObjectiveSelectCards)
		g.clearSelection()
		return err
	}
	return nil
}

// monopolize moves every card of the kind from all other players to p.
func (s *Session) monopolize(p *models.Player, kind models.ResourceType) {
	taken := 0
	for _, other := range s.state.Players() {
		if other.ID == p.ID {
			continue
		}
		n := other.Resources()[kind]
		if n == 0 {
			continue
		}
		other.RemoveResource(kind, n)
		taken += n
	}
	if taken > 0 {
		p.AddResource(kind, taken)
		s.publish(EventResourcesGranted{PlayerID: p.ID, Resources: models.ResourceSet{kind: taken}})
	}
}

// stealRandomCard takes one random resource card from the victim. A
// victim with an empty hand loses nothing.
func (s *Session) stealRandomCard(thief *models.Player, victimID int) {
	victim, ok := s.state.PlayerByID(victimID)
	if !ok {
		return
	}
	hand := victim.Resources()
	total := hand.Total()
	if total == 0 {
		return
	}
	n := s.rng.Intn(total)
	for _, kind := range models.ResourceTypes {
		n -= hand[kind]
		if n < 0 {
			victim.RemoveResource(kind, 1)
			thief.AddResource(kind, 1)
			s.publish(EventResourcesGranted{PlayerID: thief.ID, Resources: models.ResourceSet{kind: 1}})
			return
		}
	}
}
