package router

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"chat-relay/internal/models"
	"chat-relay/internal/registry"
	"chat-relay/internal/rooms"
	"chat-relay/pkg/logger"
)

// Sender delivers outbound frames. Deliveries are fire-and-forget: a slow or
// gone recipient must not fail the routing of the triggering event.
type Sender interface {
	Send(connID, event string, payload interface{})
	Broadcast(event string, payload interface{})
	BroadcastExcept(excludeID, event string, payload interface{})
}

// Router owns the connection registry and room directory and routes every
// inbound event to its recipient set. All state mutation and online-set
// computation happens under one lock; emission happens outside it.
type Router struct {
	mu       sync.Mutex
	registry *registry.Registry
	rooms    *rooms.Directory
	sender   Sender
	now      func() time.Time
}

func New(reg *registry.Registry, dir *rooms.Directory, sender Sender) *Router {
	return &Router{
		registry: reg,
		rooms:    dir,
		sender:   sender,
		now:      time.Now,
	}
}

// timestamp returns the server-assigned message time. Assigned once per
// inbound event so the ack and all fanned-out copies agree.
func (rt *Router) timestamp() string {
	return rt.now().UTC().Format(time.RFC3339)
}

// Dispatch decodes one inbound frame and runs the matching transition.
// Malformed frames and unknown events are logged and dropped.
func (rt *Router) Dispatch(connID string, frame []byte) {
	var env models.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		logger.Error("Invalid frame from %s: %v", connID, err)
		return
	}

	switch env.Event {
	case models.EventJoin:
		var name string
		if err := json.Unmarshal(env.Data, &name); err != nil {
			logger.Error("Invalid join payload from %s: %v", connID, err)
			return
		}
		rt.Join(connID, name)

	case models.EventChatMessage:
		var msg string
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			logger.Error("Invalid chatMessage payload from %s: %v", connID, err)
			return
		}
		rt.ChatMessage(connID, msg)

	case models.EventPrivateMessage:
		var req models.PrivateMessageRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			logger.Error("Invalid privateMessage payload from %s: %v", connID, err)
			return
		}
		rt.PrivateMessage(connID, req.To, req.Msg)

	case models.EventJoinRoom:
		var room string
		if err := json.Unmarshal(env.Data, &room); err != nil {
			logger.Error("Invalid joinRoom payload from %s: %v", connID, err)
			return
		}
		rt.JoinRoom(connID, room)

	case models.EventRoomMessage:
		var req models.RoomMessageRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			logger.Error("Invalid roomMessage payload from %s: %v", connID, err)
			return
		}
		rt.RoomMessage(connID, req.Room, req.Msg)

	case models.EventTyping:
		var isTyping bool
		if err := json.Unmarshal(env.Data, &isTyping); err != nil {
			logger.Error("Invalid typing payload from %s: %v", connID, err)
			return
		}
		rt.Typing(connID, isTyping)

	default:
		logger.Debug("Unknown event %q from %s", env.Event, connID)
	}
}

// Connect records a new transport session. The connection stays unbound
// until it sends a join.
func (rt *Router) Connect(connID string) {
	logger.Info("🟢 Connected: %s", connID)
}

// Join binds a display name to the connection, sends it the room catalog,
// and broadcasts the updated online list. Rebinding overwrites the name.
func (rt *Router) Join(connID, name string) {
	rt.mu.Lock()
	rt.registry.Bind(connID, name)
	online := rt.registry.Online()
	catalog := rt.rooms.Catalog()
	rt.mu.Unlock()

	rt.sender.Send(connID, models.EventRoomsList, catalog)
	rt.broadcastPresence(online)
	logger.Info("👤 %s joined (%s)", name, connID)
}

// ChatMessage fans a global message out to every connection and acks the
// sender.
func (rt *Router) ChatMessage(connID, msg string) {
	rt.mu.Lock()
	user := rt.registry.IdentityOf(connID)
	rt.mu.Unlock()

	ts := rt.timestamp()
	rt.sender.Broadcast(models.EventChatMessage, models.ChatMessagePayload{
		User:      user,
		Msg:       msg,
		Timestamp: ts,
	})
	rt.sender.Send(connID, models.EventMessageDelivered, models.DeliveryReceipt{
		To:        models.GlobalTarget,
		Timestamp: ts,
	})
}

// PrivateMessage resolves the target by display name and delivers to the
// target and the sender, plus an ack to the sender. When no connection holds
// the name the event is dropped with no emission at all, not even an ack.
func (rt *Router) PrivateMessage(connID, to, msg string) {
	rt.mu.Lock()
	from := rt.registry.IdentityOf(connID)
	target, found := rt.registry.FindByIdentity(to)
	rt.mu.Unlock()

	if !found {
		logger.Debug("Private message from %s to %q dropped: no such user", connID, to)
		return
	}

	ts := rt.timestamp()
	payload := models.PrivateMessagePayload{
		From:      from,
		To:        to,
		Msg:       msg,
		Timestamp: ts,
	}
	rt.sender.Send(target, models.EventPrivateMessage, payload)
	rt.sender.Send(connID, models.EventPrivateMessage, payload)
	rt.sender.Send(connID, models.EventMessageDelivered, models.DeliveryReceipt{
		To:        to,
		Timestamp: ts,
	})
}

// JoinRoom moves the connection into a catalog room, leaving its previous
// one, confirms the switch to the sender, and posts a system notice to the
// room's other members. Unknown rooms are ignored.
func (rt *Router) JoinRoom(connID, room string) {
	rt.mu.Lock()
	name := rt.registry.IdentityOf(connID)
	_, ok := rt.rooms.Join(connID, room)
	var members []string
	if ok {
		members = rt.rooms.MembersOf(room)
	}
	rt.mu.Unlock()

	if !ok {
		logger.Debug("Join to unknown room %q from %s ignored", room, connID)
		return
	}

	rt.sender.Send(connID, models.EventJoinedRoom, room)

	notice := models.RoomMessagePayload{
		User:      models.SystemUser,
		Msg:       fmt.Sprintf("%s has joined the room.", name),
		Room:      room,
		Timestamp: rt.timestamp(),
	}
	for _, id := range members {
		if id != connID {
			rt.sender.Send(id, models.EventRoomMessage, notice)
		}
	}
}

// RoomMessage delivers a message to every current member of room and acks
// the sender. The sender's own membership is not checked; a non-member's
// message still reaches the room, the sender just gets no copy of it.
func (rt *Router) RoomMessage(connID, room, msg string) {
	rt.mu.Lock()
	user := rt.registry.IdentityOf(connID)
	members := rt.rooms.MembersOf(room)
	rt.mu.Unlock()

	ts := rt.timestamp()
	payload := models.RoomMessagePayload{
		User:      user,
		Msg:       msg,
		Room:      room,
		Timestamp: ts,
	}
	for _, id := range members {
		rt.sender.Send(id, models.EventRoomMessage, payload)
	}
	rt.sender.Send(connID, models.EventMessageDelivered, models.DeliveryReceipt{
		Room:      room,
		Timestamp: ts,
	})
}

// Typing signals typing state to every other connection. Global scope only.
func (rt *Router) Typing(connID string, isTyping bool) {
	rt.mu.Lock()
	user := rt.registry.IdentityOf(connID)
	rt.mu.Unlock()

	rt.sender.BroadcastExcept(connID, models.EventTyping, models.TypingPayload{
		User:     user,
		IsTyping: isTyping,
	})
}

// Disconnect releases the connection's identity and room membership and
// broadcasts the updated online list. Messages already routed to the
// connection are not retracted.
func (rt *Router) Disconnect(connID string) {
	rt.mu.Lock()
	name := rt.registry.IdentityOf(connID)
	rt.registry.Unbind(connID)
	rt.rooms.Leave(connID)
	online := rt.registry.Online()
	rt.mu.Unlock()

	rt.broadcastPresence(online)
	logger.Info("🔴 %s disconnected (%s)", name, connID)
}

// broadcastPresence pushes the ordered online list to every connection.
// One broadcast per mutating event, no debouncing.
func (rt *Router) broadcastPresence(online []string) {
	rt.sender.Broadcast(models.EventOnlineUsers, online)
}
