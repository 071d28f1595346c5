package tetris

type PieceType string

const (
	I PieceType = "I"
	O PieceType = "O"
	T PieceType = "T"
	S PieceType = "S"
	Z PieceType = "Z"
	J PieceType = "J"
	L PieceType = "L"
)

var PieceTypes = []PieceType{I, O, T, S, Z, J, L}

type shape [][]bool

// rotation states per type, written with '#' for a filled cell
var shapePatterns = map[PieceType][][]string{
	I: {
		{"####"},
		{"#", "#", "#", "#"},
	},
	O: {
		{"##", "##"},
	},
	T: {
		{".#.", "###"},
		{"#.", "##", "#."},
		{"###", ".#."},
		{".#", "##", ".#"},
	},
	S: {
		{".##", "##."},
		{"#.", "##", ".#"},
	},
	Z: {
		{"##.", ".##"},
		{".#", "##", "#."},
	},
	J: {
		{"#..", "###"},
		{"##", "#.", "#."},
		{"###", "..#"},
		{".#", ".#", "##"},
	},
	L: {
		{"..#", "###"},
		{"#.", "#.", "##"},
		{"###", "#.."},
		{"##", ".#", ".#"},
	},
}

var shapes = buildShapes()

func buildShapes() map[PieceType][]shape {
	out := make(map[PieceType][]shape, len(shapePatterns))
	for kind, rotations := range shapePatterns {
		for _, rows := range rotations {
			s := make(shape, len(rows))
			for y, row := range rows {
				s[y] = make([]bool, len(row))
				for x, ch := range row {
					s[y][x] = ch == '#'
				}
			}
			out[kind] = append(out[kind], s)
		}
	}
	return out
}

func (that shape) width() int {
	return len(that[0])
}

// Piece - a falling piece; X and Y locate the top left corner of its shape.
type Piece struct {
	Type     PieceType `json:"type"`
	Rotation int       `json:"rotation"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
}

// Rotations - number of distinct rotation states of the type.
func Rotations(kind PieceType) int {
	return len(shapes[kind])
}

func (that Piece) shape() shape {
	return shapes[that.Type][that.Rotation]
}

// Cells returns the board coordinates covered by the piece as (x, y) pairs.
func (that Piece) Cells() [][2]int {
	var cells [][2]int
	for dy, row := range that.shape() {
		for dx, filled := range row {
			if filled {
				cells = append(cells, [2]int{that.X + dx, that.Y + dy})
			}
		}
	}
	return cells
}

func (that Piece) rotated() Piece {
	that.Rotation = (that.Rotation + 1) % Rotations(that.Type)
	return that
}

func (that Piece) moved(dx, dy int) Piece {
	that.X += dx
	that.Y += dy
	return that
}
