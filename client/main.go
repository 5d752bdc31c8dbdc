package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/game"
	"github.com/wfunc/settlers/models"
	"github.com/wfunc/settlers/network"
)

// bot plays the first legal move for every prompt: build on the first
// buildable spot, end the turn unless a city upgrade is affordable,
// decline all trades.
type bot struct {
	conn *websocket.Conn
	seat int

	tiles     []board.Tile
	robber    board.TileID
	robberIdx int

	villages []board.IntersectionID
	upgraded bool
}

func (b *bot) send(msgID uint16, data []byte) error {
	return b.conn.WriteMessage(websocket.BinaryMessage, network.EncodePacket(msgID, data))
}

func (b *bot) sendAction(action game.Action) {
	data, err := game.MarshalAction(action)
	if err != nil {
		log.Printf("marshal %s failed: %v", action.Kind(), err)
		return
	}
	if err := b.send(network.MsgTypeGameAction, data); err != nil {
		log.Printf("send %s failed: %v", action.Kind(), err)
		return
	}
	log.Printf("-> %s", action.Kind())
}

func (b *bot) react(snap game.PlayerSnapshot) {
	var action game.Action
	switch snap.Objective {
	case game.ObjectivePlaceVillage:
		if len(snap.BuildableSpots) == 0 {
			log.Printf("nowhere to place a village")
			return
		}
		spot := snap.BuildableSpots[0]
		b.villages = append(b.villages, spot)
		action = game.BuildVillage{Intersection: spot}
	case game.ObjectivePlaceRoad:
		if len(snap.BuildableEdges) == 0 {
			log.Printf("nowhere to place a road")
			return
		}
		action = game.BuildRoad{Edge: snap.BuildableEdges[0]}
	case game.ObjectiveDiceRoll:
		action = game.RollDice{}
	case game.ObjectiveRegularTurn:
		if !b.upgraded && len(b.villages) > 0 && covers(snap.Resources, models.CityCost) {
			b.upgraded = true
			action = game.UpgradeVillage{Intersection: b.villages[0]}
		} else {
			action = game.EndTurn{}
		}
	case game.ObjectiveDropCards:
		action = game.SelectCards{Cards: pickCards(snap.Resources, snap.CardsToSelect)}
	case game.ObjectiveSelectCards:
		// Gaining or monopolizing: always ask for the first resource kind.
		action = game.SelectCards{Cards: models.ResourceSet{models.ResourceTypes[0]: snap.CardsToSelect}}
	case game.ObjectiveSelectRobberTile:
		tile, ok := b.nextRobberTile()
		if !ok {
			log.Printf("no tile to move the robber to")
			return
		}
		action = game.SelectRobberTile{Tile: tile}
	case game.ObjectiveSelectCardToSteal:
		if len(snap.StealablePlayers) > 0 {
			action = game.StealCard{Victim: snap.StealablePlayers[0]}
		} else {
			action = game.EndTurn{}
		}
	case game.ObjectiveAcceptTrade:
		action = game.AcceptTrade{Accepted: false}
	default:
		return
	}
	b.sendAction(action)
}

// nextRobberTile walks the board until it finds a tile away from the
// last known robber position. Rejections advance the walk.
func (b *bot) nextRobberTile() (board.TileID, bool) {
	for range b.tiles {
		tile := b.tiles[b.robberIdx%len(b.tiles)]
		b.robberIdx++
		if tile.ID != b.robber {
			return tile.ID, true
		}
	}
	return 0, false
}

func (b *bot) handleEvent(data []byte) {
	var envelope struct {
		Type  string          `json:"type"`
		Event json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.Printf("malformed event: %v", err)
		return
	}

	switch envelope.Type {
	case "objective_changed":
		var ev game.EventObjectiveChanged
		if err := json.Unmarshal(envelope.Event, &ev); err != nil {
			return
		}
		if ev.PlayerID == b.seat {
			b.react(ev.Snapshot)
		}
	case "robber_moved":
		var ev game.EventRobberMoved
		if err := json.Unmarshal(envelope.Event, &ev); err != nil {
			return
		}
		b.robber = ev.Tile
	case "action_rejected":
		var ev game.EventActionRejected
		if err := json.Unmarshal(envelope.Event, &ev); err != nil {
			return
		}
		if ev.PlayerID != b.seat {
			return
		}
		log.Printf("rejected %s: %s", ev.Action, ev.Reason)
		if ev.Action == game.ActionSelectRobberTile {
			if tile, ok := b.nextRobberTile(); ok {
				b.sendAction(game.SelectRobberTile{Tile: tile})
			}
		}
	case "game_ended":
		var ev game.EventGameEnded
		if err := json.Unmarshal(envelope.Event, &ev); err != nil {
			return
		}
		log.Printf("game over: player %d won after %d rounds", ev.WinnerID, ev.Rounds)
	default:
		log.Printf("<- %s: %s", envelope.Type, string(envelope.Event))
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

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	name := flag.String("name", "bot", "player name")
	roomID := flag.String("room", "", "room to join; empty for quick match")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	b := &bot{conn: c, seat: -1}

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			packet, err := network.DecodePacket(message)
			if err != nil {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}

			switch packet.MsgID {
			case network.MsgTypeCreateRoom, network.MsgTypeJoinRoom:
				var resp struct {
					RoomID string `json:"room_id"`
					Seat   int    `json:"seat"`
				}
				if err := json.Unmarshal(packet.Data, &resp); err != nil {
					continue
				}
				b.seat = resp.Seat
				log.Printf("Joined room %s at seat %d", resp.RoomID, resp.Seat)
			case network.MsgTypeGameStart:
				var start struct {
					Board []board.Tile `json:"board"`
				}
				if err := json.Unmarshal(packet.Data, &start); err != nil {
					continue
				}
				b.tiles = start.Board
				log.Printf("Game started on %d tiles", len(b.tiles))
			case network.MsgTypeGameEvent:
				b.handleEvent(packet.Data)
			case network.MsgTypeGameEnd:
				log.Printf("Results: %s", string(packet.Data))
			case network.MsgTypeError:
				log.Printf("Server error: %s", string(packet.Data))
			default:
				log.Printf("<- RECV (ID: %d): %s", packet.MsgID, string(packet.Data))
			}
		}
	}()

	// Join a room
	join, _ := json.Marshal(map[string]string{"player_name": *name, "room_id": *roomID})
	if err := b.send(network.MsgTypeJoinRoom, join); err != nil {
		log.Println("Write error:", err)
		return
	}

	heartbeat := time.NewTicker(20 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			return
		case <-heartbeat.C:
			if err := b.send(network.MsgTypeHeartbeat, nil); err != nil {
				log.Println("Heartbeat error:", err)
				return
			}
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}
