package tictactoe

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

type Mode string

const (
	ModePvP Mode = "pvp"
	ModePvB Mode = "pvb"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	ErrInvalidSize       = errors.New("board size must be between 3 and 5")
	ErrInvalidDifficulty = errors.New("unknown difficulty")
	ErrInvalidMode       = errors.New("unknown mode")
	ErrNoAvailableMoves  = errors.New("no available moves")
)

type Options struct {
	Size       int
	Mode       Mode
	Difficulty Difficulty
	BotMark    string
}

type Game struct {
	ID          string     `json:"id"`
	Size        int        `json:"size"`
	Board       []string   `json:"board"`
	Turn        string     `json:"player_turn"`
	Winner      string     `json:"winner"`
	WinningLine []int      `json:"winning_line,omitempty"`
	Status      string     `json:"status"`
	Mode        Mode       `json:"mode"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	BotMark     string     `json:"bot_mark,omitempty"`

	patterns [][]int
}

func NewGame(id string, opts Options) (*Game, error) {
	if opts.Size == 0 {
		opts.Size = MinSize
	}
	if opts.Size < MinSize || opts.Size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, opts.Size)
	}

	switch opts.Mode {
	case "":
		opts.Mode = ModePvP
	case ModePvP, ModePvB:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, opts.Mode)
	}

	game := &Game{
		ID:       id,
		Size:     opts.Size,
		Board:    make([]string, opts.Size*opts.Size),
		Turn:     PlayerX,
		Status:   StatusWaiting,
		Mode:     opts.Mode,
		patterns: GenerateWinPatterns(opts.Size),
	}

	if opts.Mode == ModePvB {
		switch opts.Difficulty {
		case "":
			opts.Difficulty = Medium
		case Easy, Medium, Hard:
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidDifficulty, opts.Difficulty)
		}

		if opts.BotMark != PlayerX {
			opts.BotMark = PlayerO
		}

		game.Difficulty = opts.Difficulty
		game.BotMark = opts.BotMark
	}

	return game, nil
}

func (that *Game) Start() {
	if that.Status == StatusWaiting {
		that.Status = StatusOngoing
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsBotTurn() bool {
	return that.Mode == ModePvB && that.Status == StatusOngoing && that.Turn == that.BotMark
}

func (that *Game) Patterns() [][]int {
	return that.patterns
}

// MakeTurn places the human mover's mark. Rejected turns leave the game untouched.
func (that *Game) MakeTurn(cell int) error {
	if err := that.checkPlayable(); err != nil {
		return err
	}

	if that.Mode == ModePvB && that.Turn == that.BotMark {
		return apperror.ErrNotYourTurn
	}

	if err := that.validateCell(cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.place(cell)

	return nil
}

// BotTurn - lets the bot choose and place its mark, returns the chosen cell.
func (that *Game) BotTurn(rng *rand.Rand) (int, error) {
	if err := that.checkPlayable(); err != nil {
		return -1, err
	}

	if !that.IsBotTurn() {
		return -1, apperror.ErrNotYourTurn
	}

	cell, ok := ChooseBotMove(that.Board, that.Size, that.Difficulty, that.BotMark, rng)
	if !ok {
		return -1, ErrNoAvailableMoves
	}

	that.place(cell)

	return cell, nil
}

// ForfeitTurn passes the turn to the other side without placing a mark.
func (that *Game) ForfeitTurn() error {
	if err := that.checkPlayable(); err != nil {
		return err
	}

	that.Turn = opponent(that.Turn)

	return nil
}

func (that *Game) checkPlayable() error {
	switch that.Status {
	case StatusWaiting:
		return apperror.ErrGameIsNotStarted
	case StatusFinished:
		return apperror.ErrGameFinished
	}
	return nil
}

func (that *Game) validateCell(cell int) error {
	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *Game) place(cell int) {
	that.Board[cell] = that.Turn

	if line := winningLine(that.Board, that.patterns); line != nil {
		that.Winner = that.Turn
		that.WinningLine = line
		that.Status = StatusFinished
		that.Turn = ""
		return
	}

	if isFull(that.Board) {
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
		return
	}

	that.Turn = opponent(that.Turn)
}
