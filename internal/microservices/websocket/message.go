package websocket

import (
	"encoding/json"
)

// Messages a client may send. Events flow the other way as events.Event JSON.
type MessageType string

const (
	TypeSubscribe   MessageType = "subscribe"   // only receive events for the listed topic
	TypeUnsubscribe MessageType = "unsubscribe" // stop filtering on the topic
)

type ClientMessage struct {
	Type    MessageType `json:"type"`
	TopicID int64       `json:"topic_id"`
}

// ErrorMessage is written back for messages the hub cannot act on.
type ErrorMessage struct {
	Type    string `json:"type"` // always "error"
	Message string `json:"message"`
}

// MessageFromJSON: unmarshal JSON data to ClientMessage struct
func MessageFromJSON(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Ack confirms a subscription change, e.g. {"type":"subscribed","topic_id":3}.
type Ack struct {
	Type    string `json:"type"`
	TopicID int64  `json:"topic_id"`
}

func ackJSON(msg *ClientMessage) []byte {
	data, _ := json.Marshal(Ack{Type: string(msg.Type) + "d", TopicID: msg.TopicID})
	return data
}

func errorJSON(message string) []byte {
	data, _ := json.Marshal(ErrorMessage{Type: "error", Message: message})
	return data
}
