package gateway

import (
	"sync"

	pkgredis "github.com/stylebox-hq/core/internal/pkg/redis"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const (
	RoomAdmin        = "admin"
	RoomPublic       = "public"
	namespaceAdmin   = "/admin"
	namespaceStudio  = "/studio"
	redisChanAdmin   = "sb:gateway:admin"
	redisChanPublic  = "sb:gateway:public"
	messageJoin      = "join"
	messageLeave     = "leave"
	styleboxRoomPref = "stylebox:"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clientMeta struct {
	sid  string
	room string
}

// Hub fans events out to the admin console and designer studios, with
// Redis pub/sub bridging multiple server instances.
type Hub struct {
	mu sync.RWMutex

	sidRoom   map[string]string
	roomCount map[string]int

	broadcast  chan Message
	register   chan clientMeta
	unregister chan clientMeta

	rc                  *pkgredis.Client
	logger              *zap.Logger
	sio                 *socketio.Server
	adminTokenValidator func(string) bool
}
