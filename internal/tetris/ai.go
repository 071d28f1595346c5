package tetris

import "math"

type Weights struct {
	Lines     int
	Holes     int
	Bumpiness int
	Height    int
}

var DefaultWeights = Weights{
	Lines:     1000,
	Holes:     500,
	Bumpiness: 100,
	Height:    50,
}

// Placement - the rotation state and the column of the shape's left edge to drop a piece at.
type Placement struct {
	Rotation int `json:"rotation"`
	Column   int `json:"column"`
	Score    int `json:"score"`
}

// Execution reports where a planned placement actually landed.
type Execution struct {
	Placement Placement  `json:"placement"`
	Landed    Placement  `json:"landed"`
	Reached   bool       `json:"reached"`
	Lock      LockResult `json:"lock"`
}

// FindBestPlacement hard-drops the piece at every rotation and column from its current row
// and keeps the best scoring result. Ties keep the first one, rotations then columns ascending.
func FindBestPlacement(board Board, piece Piece, weights Weights) (Placement, bool) {
	best := Placement{Score: math.MinInt}
	found := false

	for rotation := range Rotations(piece.Type) {
		candidate := Piece{Type: piece.Type, Rotation: rotation, Y: piece.Y}
		width := candidate.shape().width()

		for column := 0; column+width <= Width; column++ {
			candidate.X = column
			if !board.IsValidPosition(candidate) {
				continue
			}

			score := scorePlacement(board, candidate, weights)
			if !found || score > best.Score {
				best = Placement{Rotation: rotation, Column: column, Score: score}
				found = true
			}
		}
	}

	return best, found
}

func scorePlacement(board Board, piece Piece, weights Weights) int {
	landed := piece.moved(0, board.dropDistance(piece))

	trial := board
	trial.place(landed)
	lines := len(trial.ClearLines())

	heights := trial.ColumnHeights()

	return weights.Lines*lines -
		weights.Holes*trial.Holes() -
		weights.Bumpiness*Bumpiness(heights) -
		weights.Height*MaxHeight(heights)
}

// Execute replays a placement as rotations and sideways moves followed by a hard drop.
// A blocked step is not re-planned: the piece drops from wherever it stopped.
func (that *Game) Execute(placement Placement) Execution {
	execution := Execution{Placement: placement}
	if !that.active() {
		return execution
	}

	for range Rotations(that.current.Type) {
		if that.current.Rotation == placement.Rotation || !that.Rotate() {
			break
		}
	}

	for that.current.X != placement.Column {
		var moved bool
		if that.current.X > placement.Column {
			moved = that.MoveLeft()
		} else {
			moved = that.MoveRight()
		}
		if !moved {
			break
		}
	}

	execution.Reached = that.current.Rotation == placement.Rotation && that.current.X == placement.Column
	execution.Landed = Placement{Rotation: that.current.Rotation, Column: that.current.X}

	_, execution.Lock = that.HardDrop()

	return execution
}

// Suggest - best placement for the falling piece on the current board.
func (that *Game) Suggest(weights Weights) (Placement, bool) {
	if !that.active() {
		return Placement{}, false
	}
	return FindBestPlacement(that.board, that.current, weights)
}
