package game2048

type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions in the order the move search tries them.
var Directions = []Direction{Up, Down, Left, Right}

type Tile struct {
	ID       int  `json:"id"`
	Value    int  `json:"value"`
	IsNew    bool `json:"isNew"`
	IsMerged bool `json:"isMerged"`
}

// grid holds nil for empty cells.
type grid [][]*Tile

func newGrid(size int) grid {
	g := make(grid, size)
	for r := range g {
		g[r] = make([]*Tile, size)
	}
	return g
}

func (that grid) clone() grid {
	out := newGrid(len(that))
	for r, row := range that {
		for c, tile := range row {
			if tile != nil {
				copied := *tile
				out[r][c] = &copied
			}
		}
	}
	return out
}

func (that grid) values() [][]int {
	out := make([][]int, len(that))
	for r, row := range that {
		out[r] = make([]int, len(row))
		for c, tile := range row {
			if tile != nil {
				out[r][c] = tile.Value
			}
		}
	}
	return out
}

func (that grid) clearFlags() {
	for _, row := range that {
		for _, tile := range row {
			if tile != nil {
				tile.IsNew = false
				tile.IsMerged = false
			}
		}
	}
}

func (that grid) emptyCells() [][2]int {
	var cells [][2]int
	for r, row := range that {
		for c, tile := range row {
			if tile == nil {
				cells = append(cells, [2]int{r, c})
			}
		}
	}
	return cells
}

func (that grid) maxValue() int {
	best := 0
	for _, row := range that {
		for _, tile := range row {
			if tile != nil && tile.Value > best {
				best = tile.Value
			}
		}
	}
	return best
}

func (that grid) tileCount() int {
	count := 0
	for _, row := range that {
		for _, tile := range row {
			if tile != nil {
				count++
			}
		}
	}
	return count
}

// line returns the coordinates of line i ordered from the edge the tiles slide toward.
func line(size, i int, dir Direction) [][2]int {
	coords := make([][2]int, size)
	for k := range size {
		switch dir {
		case Left:
			coords[k] = [2]int{i, k}
		case Right:
			coords[k] = [2]int{i, size - 1 - k}
		case Up:
			coords[k] = [2]int{k, i}
		case Down:
			coords[k] = [2]int{size - 1 - k, i}
		}
	}
	return coords
}

// slide compacts the line toward index 0 and merges equal neighbours once each.
func slide(tiles []*Tile, nextID func() int) ([]*Tile, int) {
	out := make([]*Tile, len(tiles))
	gained := 0
	pos := 0

	for _, tile := range tiles {
		if tile == nil {
			continue
		}

		if pos > 0 {
			prev := out[pos-1]
			if !prev.IsMerged && prev.Value == tile.Value {
				merged := &Tile{ID: nextID(), Value: prev.Value * 2, IsMerged: true}
				out[pos-1] = merged
				gained += merged.Value
				continue
			}
		}

		out[pos] = tile
		pos++
	}

	return out, gained
}

// sweep applies a move to g in place and reports whether any cell changed.
func (that grid) sweep(dir Direction, nextID func() int) (bool, int) {
	size := len(that)
	moved := false
	gained := 0

	for i := range size {
		coords := line(size, i, dir)

		tiles := make([]*Tile, size)
		for k, at := range coords {
			tiles[k] = that[at[0]][at[1]]
		}

		slid, points := slide(tiles, nextID)
		gained += points

		for k, at := range coords {
			if valueOf(tiles[k]) != valueOf(slid[k]) {
				moved = true
			}
			that[at[0]][at[1]] = slid[k]
		}
	}

	return moved, gained
}

func valueOf(tile *Tile) int {
	if tile == nil {
		return 0
	}
	return tile.Value
}

func fromValues(values [][]int, nextID func() int) grid {
	g := newGrid(len(values))
	for r, row := range values {
		for c, value := range row {
			if value > 0 {
				g[r][c] = &Tile{ID: nextID(), Value: value}
			}
		}
	}
	return g
}

func canMove(g grid) bool {
	if len(g.emptyCells()) > 0 {
		return true
	}

	noID := func() int { return 0 }
	for _, dir := range Directions {
		trial := g.clone()
		trial.clearFlags()
		if moved, _ := trial.sweep(dir, noID); moved {
			return true
		}
	}

	return false
}
