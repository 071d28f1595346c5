package tetris

const (
	Width  = 10
	Height = 20
)

// Board holds the locked cells, "" marks an empty one.
type Board [Height][Width]PieceType

// IsValidPosition - every filled cell is inside the walls, above the floor and on an empty cell.
// Cells above the visible board are allowed and not checked against its contents.
func (that *Board) IsValidPosition(piece Piece) bool {
	for _, cell := range piece.Cells() {
		x, y := cell[0], cell[1]
		if x < 0 || x >= Width || y >= Height {
			return false
		}
		if y >= 0 && that[y][x] != "" {
			return false
		}
	}
	return true
}

func (that *Board) place(piece Piece) {
	for _, cell := range piece.Cells() {
		x, y := cell[0], cell[1]
		if y >= 0 {
			that[y][x] = piece.Type
		}
	}
}

// dropDistance - rows the piece can fall before it is blocked.
func (that *Board) dropDistance(piece Piece) int {
	distance := 0
	for that.IsValidPosition(piece.moved(0, distance+1)) {
		distance++
	}
	return distance
}

// ClearLines removes every full row at once and returns their indices, top to bottom.
func (that *Board) ClearLines() []int {
	var cleared []int
	kept := make([][Width]PieceType, 0, Height)

	for y := range Height {
		if that.rowFull(y) {
			cleared = append(cleared, y)
			continue
		}
		kept = append(kept, that[y])
	}

	if len(cleared) == 0 {
		return nil
	}

	var next Board
	copy(next[len(cleared):], kept)
	*that = next

	return cleared
}

func (that *Board) rowFull(y int) bool {
	for x := range Width {
		if that[y][x] == "" {
			return false
		}
	}
	return true
}

// ColumnHeights - per column, the distance from the floor to the topmost filled cell.
func (that *Board) ColumnHeights() [Width]int {
	var heights [Width]int
	for x := range Width {
		for y := range Height {
			if that[y][x] != "" {
				heights[x] = Height - y
				break
			}
		}
	}
	return heights
}

// Holes counts empty cells below the topmost filled cell of their column.
func (that *Board) Holes() int {
	holes := 0
	for x := range Width {
		covered := false
		for y := range Height {
			if that[y][x] != "" {
				covered = true
			} else if covered {
				holes++
			}
		}
	}
	return holes
}

func Bumpiness(heights [Width]int) int {
	total := 0
	for x := 0; x+1 < Width; x++ {
		diff := heights[x] - heights[x+1]
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}
	return total
}

func MaxHeight(heights [Width]int) int {
	highest := 0
	for _, h := range heights {
		highest = max(highest, h)
	}
	return highest
}
