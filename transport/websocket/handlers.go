package websocket

import (
	"context"
	"errors"
	"fmt"
)

var errGameRequired = errors.New("game is required")

// handleConnect re-attaches the connection to a session from an earlier connection.
func (that *Server) handleConnect(_ context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	request, err := decodeRequest(msg, log)
	if err != nil {
		return err
	}

	if request.Session != "" && request.Session != client.id {
		sessionID := that.manager.Connect(request.Session)
		if sessionID != client.id {
			if that.unregister(client) {
				that.manager.Disconnect(client.id)
			}
			client.id = sessionID
			that.register(client)
		}
	}

	log.Info("client connected", "client", client.id)

	return that.sendMessage(client, msg.Action, Payload{Session: client.id})
}

func (that *Server) handleGameStart(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleGameStart")

	request, err := decodeRequest(msg, log)
	if err != nil {
		return err
	}

	if request.Game == "" {
		return errGameRequired
	}

	state, err := that.manager.Start(ctx, client.id, request.Game, request.Options)
	if err != nil {
		return fmt.Errorf("game %s: %w", request.Game, err)
	}

	log.Debug("game started", "client", client.id, "game", request.Game)

	return that.sendMessage(client, msg.Action, Payload{Game: request.Game, State: state})
}

func (that *Server) handleGameAction(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleGameAction")

	request, err := decodeRequest(msg, log)
	if err != nil {
		return err
	}

	if request.Game == "" {
		return errGameRequired
	}

	state, err := that.manager.Handle(ctx, client.id, request.Game, request.Action, request.Args)
	if err != nil {
		return fmt.Errorf("game %s: %w", request.Game, err)
	}

	return that.sendMessage(client, msg.Action, Payload{Game: request.Game, State: state})
}

func (that *Server) handleGameState(_ context.Context, client *client, msg *Message) error {
	request, err := decodeRequest(msg, that.logger)
	if err != nil {
		return err
	}

	if request.Game == "" {
		return errGameRequired
	}

	state, err := that.manager.State(client.id, request.Game)
	if err != nil {
		return fmt.Errorf("game %s: %w", request.Game, err)
	}

	return that.sendMessage(client, msg.Action, Payload{Game: request.Game, State: state})
}

func (that *Server) handleGameLeave(_ context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleGameLeave")

	request, err := decodeRequest(msg, log)
	if err != nil {
		return err
	}

	if request.Game == "" {
		return errGameRequired
	}

	if err = that.manager.Leave(client.id, request.Game); err != nil {
		return fmt.Errorf("game %s: %w", request.Game, err)
	}

	log.Debug("game left", "client", client.id, "game", request.Game)

	return that.sendMessage(client, msg.Action, Payload{Game: request.Game})
}
