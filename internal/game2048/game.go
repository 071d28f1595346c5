package game2048

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

const (
	DefaultSize = 4
	MinSize     = 3
	MaxSize     = 8

	WinningTile = 2048

	// probability that a spawned tile is a 2 rather than a 4
	twoProbability = 0.9
)

// Achievements - tile thresholds unlocked the first time the highest tile reaches them.
var Achievements = []int{128, 256, 512, 1024, 2048, 4096, 8192, 16384}

var (
	ErrInvalidSize      = errors.New("grid size must be between 3 and 8")
	ErrInvalidDirection = errors.New("unknown direction")
	ErrInvalidGrid      = errors.New("invalid grid")
)

type MoveResult struct {
	Moved    bool  `json:"moved"`
	Gained   int   `json:"gained"`
	Won      bool  `json:"won"`
	GameOver bool  `json:"gameOver"`
	Unlocked []int `json:"unlocked,omitempty"`
}

type snapshot struct {
	grid  grid
	score int
	moves int
}

type Game struct {
	size   int
	grid   grid
	score  int
	moves  int
	won    bool
	over   bool
	lastID int
	undo   *snapshot
	rng    *rand.Rand
}

// NewGame creates a size x size game with two spawned tiles.
func NewGame(size int, rng *rand.Rand) (*Game, error) {
	if size == 0 {
		size = DefaultSize
	}
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	game := &Game{
		size: size,
		grid: newGrid(size),
		rng:  rng,
	}

	game.spawn()
	game.spawn()

	return game, nil
}

func (that *Game) Size() int {
	return that.size
}

func (that *Game) Score() int {
	return that.score
}

func (that *Game) Moves() int {
	return that.moves
}

func (that *Game) HasWon() bool {
	return that.won
}

func (that *Game) IsGameOver() bool {
	return that.over
}

func (that *Game) CanUndo() bool {
	return that.undo != nil
}

func (that *Game) MaxTile() int {
	return that.grid.maxValue()
}

func (that *Game) Values() [][]int {
	return that.grid.values()
}

// Tiles returns copies of the tiles on the board.
func (that *Game) Tiles() [][]*Tile {
	return that.grid.clone()
}

// Move slides every line toward dir. A move that changes nothing is rejected without a spawn.
func (that *Game) Move(dir Direction) (MoveResult, error) {
	if !validDirection(dir) {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrInvalidDirection, dir)
	}

	if that.over {
		return MoveResult{GameOver: true}, apperror.ErrGameFinished
	}

	before := that.grid.maxValue()

	next := that.grid.clone()
	next.clearFlags()

	moved, gained := next.sweep(dir, that.nextID)
	if !moved {
		return MoveResult{}, nil
	}

	that.undo = &snapshot{grid: that.grid, score: that.score, moves: that.moves}
	that.grid = next
	that.score += gained
	that.moves++

	that.spawn()

	result := MoveResult{Moved: true, Gained: gained}

	after := that.grid.maxValue()
	if !that.won && after >= WinningTile {
		that.won = true
		result.Won = true
	}

	for _, threshold := range Achievements {
		if before < threshold && after >= threshold {
			result.Unlocked = append(result.Unlocked, threshold)
		}
	}

	that.over = !canMove(that.grid)
	result.GameOver = that.over

	return result, nil
}

// MoveRowLeft slides a single row to the left and adds the merged values to the score.
func (that *Game) MoveRowLeft(row int) (int, error) {
	if row < 0 || row >= that.size {
		return 0, fmt.Errorf("%w: row %d", ErrInvalidGrid, row)
	}

	grid{that.grid[row]}.clearFlags()

	slid, gained := slide(that.grid[row], that.nextID)
	that.grid[row] = slid
	that.score += gained

	return gained, nil
}

// Undo restores the state before the last accepted move. Only one level is kept.
func (that *Game) Undo() bool {
	if that.undo == nil {
		return false
	}

	that.grid = that.undo.grid
	that.score = that.undo.score
	that.moves = that.undo.moves
	that.undo = nil
	that.over = !canMove(that.grid)

	return true
}

// Load replaces the board with the given values, 0 meaning an empty cell.
func (that *Game) Load(values [][]int) error {
	if len(values) != that.size {
		return fmt.Errorf("%w: want %d rows, got %d", ErrInvalidGrid, that.size, len(values))
	}

	for _, row := range values {
		if len(row) != that.size {
			return fmt.Errorf("%w: want %d columns, got %d", ErrInvalidGrid, that.size, len(row))
		}
		for _, value := range row {
			if value != 0 && (value < 2 || value&(value-1) != 0) {
				return fmt.Errorf("%w: %d is not a tile value", ErrInvalidGrid, value)
			}
		}
	}

	that.grid = fromValues(values, that.nextID)
	that.undo = nil
	that.won = that.grid.maxValue() >= WinningTile
	that.over = !canMove(that.grid)

	return nil
}

func (that *Game) spawn() bool {
	empty := that.grid.emptyCells()
	if len(empty) == 0 {
		return false
	}

	at := empty[that.rng.Intn(len(empty))]

	value := 4
	if that.rng.Float64() < twoProbability {
		value = 2
	}

	that.grid[at[0]][at[1]] = &Tile{ID: that.nextID(), Value: value, IsNew: true}

	return true
}

func (that *Game) nextID() int {
	that.lastID++
	return that.lastID
}

func validDirection(dir Direction) bool {
	switch dir {
	case Up, Down, Left, Right:
		return true
	}
	return false
}
