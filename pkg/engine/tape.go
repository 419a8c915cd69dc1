package engine

// DefaultTapeSize is the classic tape length.
const DefaultTapeSize = 30000

// Tape is a circular array of byte cells with a pointer into it.
// Pointer moves wrap modulo len(Cells); cell arithmetic wraps modulo 256.
type Tape struct {
	Cells   []byte
	Pointer int
}

// NewTape allocates a zeroed tape. A size below 1 selects DefaultTapeSize.
func NewTape(size int) *Tape {
	if size < 1 {
		size = DefaultTapeSize
	}
	return &Tape{Cells: make([]byte, size)}
}

// Size returns the number of cells.
func (t *Tape) Size() int { return len(t.Cells) }

// Cell returns the value under the pointer.
func (t *Tape) Cell() byte { return t.Cells[t.Pointer] }

// MoveRight advances the pointer by n cells in a single modular step, so a
// move of n >= Size lands where n single moves would.
func (t *Tape) MoveRight(n int) {
	t.Pointer = (t.Pointer + n%len(t.Cells)) % len(t.Cells)
}

// MoveLeft moves the pointer back by n cells, wrapping below zero.
func (t *Tape) MoveLeft(n int) {
	size := len(t.Cells)
	t.Pointer = (t.Pointer - n%size + size) % size
}

// Add adds n to the current cell modulo 256.
func (t *Tape) Add(n int) {
	t.Cells[t.Pointer] += byte(n)
}

// Sub subtracts n from the current cell modulo 256.
func (t *Tape) Sub(n int) {
	t.Cells[t.Pointer] -= byte(n)
}

// Reset zeroes every cell and returns the pointer to 0.
func (t *Tape) Reset() {
	clear(t.Cells)
	t.Pointer = 0
}

// Window returns a copy of count cells starting at from, wrapping around
// the end of the tape.
func (t *Tape) Window(from, count int) []byte {
	size := len(t.Cells)
	out := make([]byte, count)
	start := ((from % size) + size) % size
	for i := range out {
		out[i] = t.Cells[(start+i)%size]
	}
	return out
}
