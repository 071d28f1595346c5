package tetris

import (
	"time"

	"golang.org/x/exp/rand"
)

const (
	SpawnX = Width/2 - 1
	SpawnY = 0

	linesPerLevel = 10

	softDropPoints = 1
	hardDropPoints = 2

	baseInterval    = 1000 * time.Millisecond
	levelSpeedup    = 50 * time.Millisecond
	minDropInterval = 50 * time.Millisecond
)

// points for 1..4 rows cleared at once, multiplied by the level
var lineScores = [...]int{0, 100, 300, 500, 800}

type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusGameOver Status = "game_over"
)

// LockResult describes what happened when a piece came to rest.
type LockResult struct {
	Cleared  []int `json:"cleared,omitempty"`
	Points   int   `json:"points"`
	LevelUp  bool  `json:"levelUp"`
	GameOver bool  `json:"gameOver"`
}

type Game struct {
	board   Board
	current Piece
	next    PieceType
	hold    PieceType
	canHold bool

	score  int
	lines  int
	level  int
	status Status

	bag []PieceType
	rng *rand.Rand
}

func NewGame(rng *rand.Rand) *Game {
	game := &Game{
		level:  1,
		status: StatusActive,
		rng:    rng,
	}

	game.next = game.draw()
	game.spawn(game.draw())

	return game
}

// draw takes the next type from a shuffled bag of all seven.
func (that *Game) draw() PieceType {
	if len(that.bag) == 0 {
		for _, idx := range that.rng.Perm(len(PieceTypes)) {
			that.bag = append(that.bag, PieceTypes[idx])
		}
	}

	kind := that.bag[0]
	that.bag = that.bag[1:]

	return kind
}

func (that *Game) spawn(kind PieceType) {
	that.current = Piece{Type: kind, X: SpawnX, Y: SpawnY}
	that.canHold = true

	if !that.board.IsValidPosition(that.current) {
		that.status = StatusGameOver
	}
}

func (that *Game) spawnNext() {
	kind := that.next
	that.next = that.draw()
	that.spawn(kind)
}

func (that *Game) Board() Board {
	return that.board
}

func (that *Game) Current() Piece {
	return that.current
}

func (that *Game) Next() PieceType {
	return that.next
}

func (that *Game) Held() PieceType {
	return that.hold
}

func (that *Game) CanHold() bool {
	return that.canHold
}

func (that *Game) Score() int {
	return that.score
}

func (that *Game) Lines() int {
	return that.lines
}

func (that *Game) Level() int {
	return that.level
}

func (that *Game) Status() Status {
	return that.status
}

func (that *Game) IsGameOver() bool {
	return that.status == StatusGameOver
}

func (that *Game) IsPaused() bool {
	return that.status == StatusPaused
}

// DropInterval - gravity period at the current level.
func (that *Game) DropInterval() time.Duration {
	return DropInterval(that.level)
}

func DropInterval(level int) time.Duration {
	return max(minDropInterval, baseInterval-time.Duration(level-1)*levelSpeedup)
}

// Cells returns the board with the falling piece drawn on it.
func (that *Game) Cells() Board {
	cells := that.board
	if that.status != StatusGameOver {
		cells.place(that.current)
	}
	return cells
}

// GhostY - the row the falling piece would land on.
func (that *Game) GhostY() int {
	return that.current.Y + that.board.dropDistance(that.current)
}

func (that *Game) active() bool {
	return that.status == StatusActive
}

func (that *Game) try(piece Piece) bool {
	if !that.active() || !that.board.IsValidPosition(piece) {
		return false
	}
	that.current = piece
	return true
}

func (that *Game) MoveLeft() bool {
	return that.try(that.current.moved(-1, 0))
}

func (that *Game) MoveRight() bool {
	return that.try(that.current.moved(1, 0))
}

// MoveDown is the soft drop, one point per row.
func (that *Game) MoveDown() bool {
	if !that.try(that.current.moved(0, 1)) {
		return false
	}
	that.score += softDropPoints
	return true
}

func (that *Game) Rotate() bool {
	return that.try(that.current.rotated())
}

// HardDrop drops the piece as far as it goes, two points per row, and locks it.
func (that *Game) HardDrop() (int, LockResult) {
	if !that.active() {
		return 0, LockResult{}
	}

	distance := that.board.dropDistance(that.current)
	that.current = that.current.moved(0, distance)
	that.score += distance * hardDropPoints

	return distance, that.lock()
}

// Tick advances gravity by one row, locking the piece when it cannot fall.
func (that *Game) Tick() (bool, LockResult) {
	if !that.active() {
		return false, LockResult{}
	}

	if that.try(that.current.moved(0, 1)) {
		return false, LockResult{}
	}

	return true, that.lock()
}

// Load replaces the settled cells. The game ends when the falling piece no longer fits.
func (that *Game) Load(board Board) {
	that.board = board

	if !that.board.IsValidPosition(that.current) {
		that.status = StatusGameOver
	}
}

// Hold stores the falling piece, once per spawned piece.
// The game ends when the piece taken out cannot spawn.
func (that *Game) Hold() bool {
	if !that.active() || !that.canHold {
		return false
	}

	held := that.current.Type
	if that.hold == "" {
		that.hold = held
		that.spawnNext()
	} else {
		kind := that.hold
		that.hold = held
		that.spawn(kind)
	}
	that.canHold = false

	return true
}

func (that *Game) Pause() bool {
	if that.status != StatusActive {
		return false
	}
	that.status = StatusPaused
	return true
}

func (that *Game) Resume() bool {
	if that.status != StatusPaused {
		return false
	}
	that.status = StatusActive
	return true
}

func (that *Game) lock() LockResult {
	that.board.place(that.current)

	result := that.clearLines()

	that.spawnNext()
	result.GameOver = that.IsGameOver()

	return result
}

func (that *Game) clearLines() LockResult {
	cleared := that.board.ClearLines()
	if len(cleared) == 0 {
		return LockResult{}
	}

	points := lineScores[len(cleared)] * that.level
	that.score += points
	that.lines += len(cleared)

	result := LockResult{Cleared: cleared, Points: points}

	if level := that.lines/linesPerLevel + 1; level > that.level {
		that.level = level
		result.LevelUp = true
	}

	return result
}
