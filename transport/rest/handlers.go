package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	GamesHandler(w http.ResponseWriter, _ *http.Request)
	StatisticsHandler(w http.ResponseWriter, r *http.Request)
}

type statisticsService interface {
	ForGame(ctx context.Context, game string) (any, error)
}

type handlers struct {
	logger     *slog.Logger
	statistics statisticsService
}

func NewHandlers(logger *slog.Logger, statistics statisticsService) Handlers {
	return &handlers{
		logger:     logger.With("component", "rest"),
		statistics: statistics,
	}
}

var games = []string{
	entity.GameNumberGuess,
	entity.GameTicTacToe,
	entity.Game2048,
	entity.GameTetris,
	entity.GameMemoryMatch,
}

func (that *handlers) GamesHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, map[string][]string{"games": games})
}

func (that *handlers) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	game := chi.URLParam(r, "game")

	stats, err := that.statistics.ForGame(r.Context(), game)
	if errors.Is(err, apperror.ErrUnknownGame) {
		that.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	if err != nil {
		that.logger.With("method", "StatisticsHandler").Error("failed to load statistics", "game", game, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load statistics"})
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.With("method", "writeJSON").Error("failed to write response", "error", err)
	}
}
