package room

import (
	"encoding/json"
	"time"

	"github.com/wfunc/settlers/game"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/network"
)

// eventEnvelope is the wire form of an engine event.
type eventEnvelope struct {
	Type  string     `json:"type"`
	Event game.Event `json:"event"`
}

// eventSink adapts game.EventSink to the room broadcast and feeds the
// metrics. Publish is called from the match's logic goroutine and must
// not block on slow clients; Connection.Send writes directly to the
// websocket, which is acceptable for the packet sizes involved.
type eventSink struct {
	room      *Room
	startedAt time.Time
}

func (s *eventSink) Publish(event game.Event) {
	if m := s.room.metrics; m != nil {
		switch event.(type) {
		case game.EventActionApplied:
			m.IncActionsProcessed()
		case game.EventActionRejected:
			m.IncActionsRejected()
		case game.EventGameEnded:
			m.ObserveGameDuration(time.Since(s.startedAt))
		}
	}

	data, err := json.Marshal(eventEnvelope{Type: event.EventType(), Event: event})
	if err != nil {
		logger.Log.Errorf("marshalling %s event failed: %v", event.EventType(), err)
		return
	}
	if err := s.room.Broadcast(network.MsgTypeGameEvent, data); err != nil {
		logger.Log.Debugf("broadcasting %s event to room %s failed: %v", event.EventType(), s.room.ID, err)
	}
}
