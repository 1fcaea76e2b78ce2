package game

// Cell is the content of one board position.
type Cell string

const (
	Free Cell = ""
	X    Cell = "X"
	O    Cell = "O"
)

// Board boundaries
const (
	BorderMin = 0
	BorderMax = 2
	Size      = 3
)

// Coord addresses a cell by column x and row y.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board is a 3x3 grid, cell (x, y) stored at index 3*y+x.
type Board [Size * Size]Cell

// NewBoard returns a board with every cell free.
func NewBoard() Board {
	return Board{}
}

func inBounds(x, y int) bool {
	return x >= BorderMin && x <= BorderMax && y >= BorderMin && y <= BorderMax
}

// Get returns the cell at (x, y).
func (b *Board) Get(x, y int) Cell {
	return b[Size*y+x]
}

// Set writes the cell at (x, y) without any legality check.
func (b *Board) Set(x, y int, c Cell) {
	b[Size*y+x] = c
}

// MakeMove places player at (x, y). It reports false and leaves the board
// untouched if the cell is taken, out of range, or player is Free.
func (b *Board) MakeMove(x, y int, player Cell) bool {
	if player == Free || !inBounds(x, y) || b.Get(x, y) != Free {
		return false
	}
	b.Set(x, y, player)
	return true
}

// IsFull reports whether no free cell is left.
func (b *Board) IsFull() bool {
	for _, c := range b {
		if c == Free {
			return false
		}
	}
	return true
}

// HasWon returns the player owning a complete line, or Free. X is checked
// first, so a board where both players own a line reports X.
func (b *Board) HasWon() Cell {
	if b.hasWonPlayer(X) {
		return X
	}
	if b.hasWonPlayer(O) {
		return O
	}
	return Free
}

func (b *Board) hasWonPlayer(player Cell) bool {
	diagonal := true
	for i := range Size {
		column, row := true, true
		for j := range Size {
			if b.Get(i, j) != player {
				column = false
			}
			if b.Get(j, i) != player {
				row = false
			}
		}
		if column || row {
			return true
		}
		if b.Get(i, i) != player {
			diagonal = false
		}
	}
	if diagonal {
		return true
	}
	return b.Get(0, 2) == player && b.Get(1, 1) == player && b.Get(2, 0) == player
}

// GetFree lists the free cells, x ascending and then y ascending. Search
// relies on this order to break ties.
func (b *Board) GetFree() []Coord {
	free := make([]Coord, 0, len(b))
	for x := range Size {
		for y := range Size {
			if b.Get(x, y) == Free {
				free = append(free, Coord{X: x, Y: y})
			}
		}
	}
	return free
}

// Rows converts the board to a row-major slice of slices, indexed [y][x].
func (b *Board) Rows() [][]Cell {
	rows := make([][]Cell, Size)
	for y := range Size {
		rows[y] = make([]Cell, Size)
		for x := range Size {
			rows[y][x] = b.Get(x, y)
		}
	}
	return rows
}

// String renders the board one row per line, '_' for free cells.
func (b *Board) String() string {
	out := make([]byte, 0, Size*(Size+1))
	for y := range Size {
		for x := range Size {
			switch b.Get(x, y) {
			case X:
				out = append(out, 'x')
			case O:
				out = append(out, 'o')
			default:
				out = append(out, '_')
			}
		}
		if y < BorderMax {
			out = append(out, '\n')
		}
	}
	return string(out)
}
