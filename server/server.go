package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/settlers/board"
	"github.com/wfunc/settlers/broadcast"
	"github.com/wfunc/settlers/config"
	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/monitor"
	"github.com/wfunc/settlers/network"
	"github.com/wfunc/settlers/persistence"
	"github.com/wfunc/settlers/room"
	settlers_rpc "github.com/wfunc/settlers/rpc"
	"github.com/wfunc/settlers/services"
	"github.com/wfunc/settlers/session"
	"github.com/wfunc/settlers/timer"
)

const (
	heartbeatInterval = 30 * time.Second
	sweepInterval     = time.Minute
	roomMaxIdle       = 10 * time.Minute
)

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	matchService   *services.MatchService
	broadcaster    broadcast.Broadcaster
	rpcServer      *settlers_rpc.Server
	metrics        *monitor.Monitor
	timers         *timer.Manager
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database, metrics *monitor.Monitor) *GameServer {
	matchService := services.NewMatchService(db)

	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		roomManager:    room.NewRoomManager(cfg.Game, board.DemoLayout(), matchService, metrics),
		sessionManager: session.NewManager(),
		matchService:   matchService,
		metrics:        metrics,
		timers:         timer.NewManager(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器
	s.broadcaster = broadcast.NewRoomBroadcaster(s.roomManager, s.sessionManager)
	s.roomManager.SetBroadcaster(s.broadcaster)

	// 初始化RPC服务器
	rpcServer, err := settlers_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	statsService := settlers_rpc.NewStatsService(matchService)
	rpc.Register(statsService)

	// 定期清理结束和空置的房间
	s.timers.AddTimer(sweepInterval, sweepInterval, func() {
		if n := s.roomManager.Sweep(roomMaxIdle); n > 0 {
			logger.Log.Infof("Swept %d rooms", n)
		}
	})

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.metrics.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.metrics.DecOnlinePlayers()
		s.sessionManager.Remove(sess.GetID())
		if sess.RoomID != "" {
			if r, exists := s.roomManager.GetRoom(sess.RoomID); exists {
				r.RemovePlayer(sess.GetID())
			}
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeCreateRoom:
		s.handleCreateRoom(sess, packet)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypeLeaveRoom:
		s.handleLeaveRoom(sess, packet)
	case network.MsgTypeGameAction:
		s.handleGameAction(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) handleCreateRoom(sess *session.Session, packet *network.Packet) {
	var req map[string]string
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, "malformed create request")
			return
		}
	}
	if name := req["player_name"]; name != "" {
		sess.Name = name
	}

	roomID := uuid.New().String()
	r := s.roomManager.CreateRoom(roomID, "New Room")
	if !r.AddPlayer(sess) {
		s.sendError(sess, "could not join new room")
		return
	}

	logger.Log.Infof("Session %s created room %s", sess.GetID(), roomID)
	s.sendRoomState(sess, network.MsgTypeCreateRoom, r)
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req map[string]string
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, "malformed join request")
			return
		}
	}
	if name := req["player_name"]; name != "" {
		sess.Name = name
	}

	var r *room.Room
	if roomID := req["room_id"]; roomID != "" {
		existing, exists := s.roomManager.GetRoom(roomID)
		if !exists {
			s.sendError(sess, "room not found")
			return
		}
		r = existing
	} else {
		// 快速匹配：加入任意一个等待中的房间
		r = s.roomManager.FindAvailableRoom()
		if r == nil {
			r = s.roomManager.CreateRoom(uuid.New().String(), "New Room")
		}
	}

	if !r.AddPlayer(sess) {
		s.sendError(sess, "room is full or already playing")
		return
	}

	logger.Log.Infof("Session %s joined room %s", sess.GetID(), r.GetID())
	s.sendRoomState(sess, network.MsgTypeJoinRoom, r)
}

func (s *GameServer) handleLeaveRoom(sess *session.Session, packet *network.Packet) {
	if sess.RoomID == "" {
		return
	}
	if r, exists := s.roomManager.GetRoom(sess.RoomID); exists {
		r.RemovePlayer(sess.GetID())
		logger.Log.Infof("Session %s left room %s", sess.GetID(), r.GetID())
	}
	sess.Send(network.MsgTypeLeaveRoom, nil)
}

func (s *GameServer) handleGameAction(sess *session.Session, packet *network.Packet) {
	if sess.RoomID == "" {
		logger.Log.Warnf("Session %s sent game action but is not in a room", sess.GetID())
		return
	}

	r, exists := s.roomManager.GetRoom(sess.RoomID)
	if !exists {
		logger.Log.Errorf("Room %s not found for session %s", sess.RoomID, sess.GetID())
		return
	}

	if err := r.SubmitAction(sess, packet.Data); err != nil {
		logger.Log.Debugf("Action from session %s rejected: %v", sess.GetID(), err)
		s.sendError(sess, err.Error())
	}
}

func (s *GameServer) sendRoomState(sess *session.Session, msgID uint16, r *room.Room) {
	seat, _ := sess.Seat()
	resp := map[string]interface{}{
		"room_id": r.GetID(),
		"seat":    seat,
		"players": r.PlayerCount(),
		"max":     r.GetMaxPlayers(),
	}
	data, _ := json.Marshal(resp)
	sess.Send(msgID, data)
}

func (s *GameServer) sendError(sess *session.Session, message string) {
	data, _ := json.Marshal(map[string]string{"error": message})
	sess.Send(network.MsgTypeError, data)
}
