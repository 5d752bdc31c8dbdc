package network

const (
	MsgTypeHeartbeat = 1

	// Room management (client -> server; responses echo the same id).
	MsgTypeCreateRoom = 101
	MsgTypeJoinRoom   = 102
	MsgTypeLeaveRoom  = 103

	// Gameplay.
	MsgTypeGameAction = 201 // a game.Action envelope for the client's seat

	// Server pushes.
	MsgTypeRoomState = 301
	MsgTypeGameEvent = 302 // a game.Event envelope
	MsgTypeGameStart = 303
	MsgTypeGameEnd   = 304
	MsgTypeError     = 401
)
