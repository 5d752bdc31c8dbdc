package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/settlers/logger"
	"github.com/wfunc/settlers/models"
	"github.com/wfunc/settlers/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services must be registered with
// the net/rpc package before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService is the struct that exposes RPC methods.
type StatsService struct {
	matchService *services.MatchService
}

// NewStatsService creates a new StatsService.
func NewStatsService(ms *services.MatchService) *StatsService {
	return &StatsService{matchService: ms}
}

// GetPlayerStats is an RPC method to get a player's match record.
// It must follow the net/rpc signature: exported method, exported arguments,
// second argument is a pointer, return type is error.
type GetStatsArgs struct {
	Name string
}

type GetStatsReply struct {
	Stats models.PlayerStats
}

func (ss *StatsService) GetPlayerStats(args *GetStatsArgs, reply *GetStatsReply) error {
	stats, err := ss.matchService.GetPlayerStats(args.Name)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
