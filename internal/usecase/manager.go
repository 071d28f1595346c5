package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

type notifier interface {
	Notify(clientID, game string, snapshot any)
}

type factory func(deps Dependencies, publish Publish) Controller

var factories = map[string]factory{
	entity.GameNumberGuess: func(deps Dependencies, publish Publish) Controller {
		return NewNumberGuessController(deps, publish)
	},
	entity.GameTicTacToe: func(deps Dependencies, publish Publish) Controller {
		return NewTicTacToeController(deps, publish)
	},
	entity.Game2048: func(deps Dependencies, publish Publish) Controller {
		return NewGame2048Controller(deps, publish)
	},
	entity.GameTetris: func(deps Dependencies, publish Publish) Controller {
		return NewTetrisController(deps, publish)
	},
	entity.GameMemoryMatch: func(deps Dependencies, publish Publish) Controller {
		return NewMemoryMatchController(deps, publish)
	},
}

// Manager keeps one controller per game for every connected client.
type Manager struct {
	logger *slog.Logger
	deps   Dependencies

	mu       sync.Mutex
	sessions map[string]map[string]Controller

	notifyMu sync.RWMutex
	notifier notifier
}

func NewManager(deps Dependencies) *Manager {
	return &Manager{
		logger:   deps.Logger.With("component", "manager"),
		deps:     deps,
		sessions: make(map[string]map[string]Controller),
	}
}

// SetNotifier - receiver of the snapshots produced by timers.
func (that *Manager) SetNotifier(notifier notifier) {
	that.notifyMu.Lock()
	defer that.notifyMu.Unlock()

	that.notifier = notifier
}

// Connect returns the session id of the client, creating a new one for an empty or unknown id.
func (that *Manager) Connect(clientID string) string {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[clientID]; ok && clientID != "" {
		return clientID
	}

	if _, err := uuid.Parse(clientID); err != nil {
		clientID = uuid.NewString()
	}

	that.sessions[clientID] = make(map[string]Controller)
	that.logger.With("method", "Connect").Info("client connected", "client", clientID)

	return clientID
}

func (that *Manager) Start(ctx context.Context, clientID, game string, opts json.RawMessage) (any, error) {
	controller, err := that.controller(clientID, game, true)
	if err != nil {
		return nil, err
	}

	snapshot, err := controller.Start(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", game, err)
	}

	return snapshot, nil
}

func (that *Manager) Handle(ctx context.Context, clientID, game, action string, args json.RawMessage) (any, error) {
	controller, err := that.controller(clientID, game, false)
	if err != nil {
		return nil, err
	}

	snapshot, err := controller.Handle(ctx, action, args)
	if err != nil {
		return nil, fmt.Errorf("failed to handle %s: %w", action, err)
	}

	return snapshot, nil
}

func (that *Manager) State(clientID, game string) (any, error) {
	controller, err := that.controller(clientID, game, false)
	if err != nil {
		return nil, err
	}

	return controller.Snapshot(), nil
}

// Leave stops the client's session of one game.
func (that *Manager) Leave(clientID, game string) error {
	that.mu.Lock()
	controller, ok := that.sessions[clientID][game]
	if ok {
		delete(that.sessions[clientID], game)
	}
	that.mu.Unlock()

	if !ok {
		return apperror.ErrNoSession
	}

	controller.Stop()

	return nil
}

// Disconnect stops every session of the client.
func (that *Manager) Disconnect(clientID string) {
	that.mu.Lock()
	controllers := that.sessions[clientID]
	delete(that.sessions, clientID)
	that.mu.Unlock()

	for _, controller := range controllers {
		controller.Stop()
	}

	that.logger.With("method", "Disconnect").Info("client disconnected", "client", clientID)
}

// Shutdown stops every session.
func (that *Manager) Shutdown() {
	that.mu.Lock()
	sessions := that.sessions
	that.sessions = make(map[string]map[string]Controller)
	that.mu.Unlock()

	for _, controllers := range sessions {
		for _, controller := range controllers {
			controller.Stop()
		}
	}
}

func (that *Manager) controller(clientID, game string, create bool) (Controller, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	controllers, ok := that.sessions[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", apperror.ErrNoSession, clientID)
	}

	if controller, ok := controllers[game]; ok {
		return controller, nil
	}

	newController, known := factories[game]
	if !known {
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownGame, game)
	}

	if !create {
		return nil, fmt.Errorf("%w: %s is not started", apperror.ErrNoSession, game)
	}

	controller := newController(that.deps, that.publisher(clientID, game))
	controllers[game] = controller

	return controller, nil
}

func (that *Manager) publisher(clientID, game string) Publish {
	return func(snapshot any) {
		that.notifyMu.RLock()
		notifier := that.notifier
		that.notifyMu.RUnlock()

		if notifier != nil {
			notifier.Notify(clientID, game, snapshot)
		}
	}
}
