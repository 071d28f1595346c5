package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

const (
	ActionConnect    = "connect"
	ActionGameStart  = "game:start"
	ActionGameAction = "game:action"
	ActionGameState  = "game:state"
	ActionGameLeave  = "game:leave"
	ActionGameUpdate = "game:update"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request is the payload of every client message; each action reads the fields it needs.
type Request struct {
	Session string          `json:"session,omitempty"`
	Game    string          `json:"game,omitempty"`
	Action  string          `json:"action,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
	Args    json.RawMessage `json:"args,omitempty"`
}

type Payload struct {
	Session string `json:"session,omitempty"`
	Game    string `json:"game,omitempty"`
	State   any    `json:"state,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newMessage(action string, payload Payload) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return &Message{Action: action, Payload: raw}, nil
}

func (that *Server) sendMessage(client *client, action string, payload Payload) error {
	message, err := newMessage(action, payload)
	if err != nil {
		return err
	}

	client.reply(message)

	return nil
}

func (that *Server) sendErrorResponse(client *client, action, errorMsg string) {
	if err := that.sendMessage(client, action, Payload{Error: errorMsg}); err != nil {
		that.logger.With("method", "sendErrorResponse").Error("failed to send error response", "error", err)
	}
}

func decodeRequest(message *Message, log *slog.Logger) (Request, error) {
	var request Request
	if len(message.Payload) == 0 {
		return request, nil
	}

	if err := json.Unmarshal(message.Payload, &request); err != nil {
		log.Debug("malformed payload", "error", err)
		return request, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return request, nil
}
