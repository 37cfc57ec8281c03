package models

import "encoding/json"

// Event names received from clients.
const (
	EventJoin           = "join"
	EventChatMessage    = "chatMessage"
	EventPrivateMessage = "privateMessage"
	EventJoinRoom       = "joinRoom"
	EventRoomMessage    = "roomMessage"
	EventTyping         = "typing"
)

// Event names sent to clients. EventChatMessage, EventPrivateMessage,
// EventRoomMessage and EventTyping are reused in both directions.
const (
	EventRoomsList        = "roomsList"
	EventOnlineUsers      = "onlineUsers"
	EventJoinedRoom       = "joinedRoom"
	EventMessageDelivered = "messageDelivered"
)

// SystemUser is the sender name on server-generated room notices.
const SystemUser = "System"

// GlobalTarget is the delivery-receipt target for global broadcasts.
const GlobalTarget = "Global"

// Envelope frames every message on the wire, in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeFrame wraps an outbound payload in an Envelope and returns the
// serialized frame.
func EncodeFrame(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// PrivateMessageRequest is the inbound privateMessage payload.
type PrivateMessageRequest struct {
	To  string `json:"to"`
	Msg string `json:"msg"`
}

// RoomMessageRequest is the inbound roomMessage payload.
type RoomMessageRequest struct {
	Room string `json:"room"`
	Msg  string `json:"msg"`
}

// ChatMessagePayload is a global message fanned out to every connection.
type ChatMessagePayload struct {
	User      string `json:"user"`
	Msg       string `json:"msg"`
	Timestamp string `json:"timestamp"`
}

// PrivateMessagePayload is delivered to the target connection and echoed
// back to the sender.
type PrivateMessagePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Msg       string `json:"msg"`
	Timestamp string `json:"timestamp"`
}

// RoomMessagePayload is delivered to the members of a room. Server-issued
// join notices use the same shape with User set to SystemUser.
type RoomMessagePayload struct {
	User      string `json:"user"`
	Msg       string `json:"msg"`
	Room      string `json:"room"`
	Timestamp string `json:"timestamp"`
}

// TypingPayload signals typing state to every other connection.
type TypingPayload struct {
	User     string `json:"user"`
	IsTyping bool   `json:"isTyping"`
}

// DeliveryReceipt acknowledges to the sender that the server dispatched a
// message. To and Room are mutually exclusive; To is GlobalTarget for global
// broadcasts. It confirms server-side dispatch only, not remote receipt.
type DeliveryReceipt struct {
	To        string `json:"to,omitempty"`
	Room      string `json:"room,omitempty"`
	Timestamp string `json:"timestamp"`
}
