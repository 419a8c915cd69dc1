package engine

import (
	"io"
	"os"

	"gobf/pkg/compiler"
)

// frame is one level of the traversal: an instruction sequence and the
// index of the next instruction in it.
type frame struct {
	body compiler.Program
	pc   int
	loop bool // body belongs to a Loop and is re-tested when exhausted
}

// Engine executes a Program against a Tape. The tree is walked with an
// explicit frame stack, so nesting depth never grows the Go call stack and
// a run can be advanced one Step at a time.
type Engine struct {
	Tape *Tape

	// Output receives one byte per executed Print.
	// If nil, os.Stdout is used.
	Output io.Writer

	// Steps counts Step calls that did work since the last Load.
	Steps uint64
	// Halted is set when the program finished or failed.
	Halted bool
	// Err is the error that halted the run, if any.
	Err error

	frames []frame
	buf    [1]byte
}

// NewEngine creates an engine with a fresh zeroed tape. An optional size
// overrides DefaultTapeSize.
func NewEngine(tapeSize ...int) *Engine {
	size := DefaultTapeSize
	if len(tapeSize) > 0 && tapeSize[0] > 0 {
		size = tapeSize[0]
	}
	return &Engine{Tape: NewTape(size), Halted: true}
}

// Execute runs prog to completion on a fresh tape, writing Print output to
// out. It returns the first fatal error; output already written stays written.
func Execute(prog compiler.Program, out io.Writer, tapeSize ...int) error {
	e := NewEngine(tapeSize...)
	e.Output = out
	e.Load(prog)
	return e.Run()
}

func (e *Engine) outputSink() io.Writer {
	if e.Output != nil {
		return e.Output
	}
	return os.Stdout
}

// Load prepares prog for execution. The tape is kept as it is, so a
// session can run several programs against the same cells; call Reset
// for a clean tape.
func (e *Engine) Load(prog compiler.Program) {
	e.frames = append(e.frames[:0], frame{body: prog})
	e.Steps = 0
	e.Halted = false
	e.Err = nil
}

// Reset zeroes the tape and drops any loaded program.
func (e *Engine) Reset() {
	e.Tape.Reset()
	e.frames = e.frames[:0]
	e.Steps = 0
	e.Halted = true
	e.Err = nil
}

// Depth returns the number of loops the engine is currently inside.
func (e *Engine) Depth() int {
	if len(e.frames) == 0 {
		return 0
	}
	return len(e.frames) - 1
}

// Run steps until the program halts and returns the halting error.
// A loop that never clears its cell keeps Run going forever.
func (e *Engine) Run() error {
	for !e.Halted {
		e.Step()
	}
	return e.Err
}

// Step performs one unit of work: one instruction, one loop entry, or one
// end-of-body test. It returns the halting error once the run has failed.
func (e *Engine) Step() error {
	if e.Halted {
		return e.Err
	}
	e.Steps++

	top := &e.frames[len(e.frames)-1]

	if top.pc >= len(top.body) {
		if top.loop && e.Tape.Cell() != 0 {
			top.pc = 0
			return nil
		}
		e.frames = e.frames[:len(e.frames)-1]
		if len(e.frames) == 0 {
			e.Halted = true
			return nil
		}
		e.frames[len(e.frames)-1].pc++
		return nil
	}

	switch n := top.body[top.pc].(type) {
	case *compiler.MoveRight:
		e.Tape.MoveRight(n.Count)
	case *compiler.MoveLeft:
		e.Tape.MoveLeft(n.Count)
	case *compiler.Increment:
		e.Tape.Add(n.Count)
	case *compiler.Decrement:
		e.Tape.Sub(n.Count)
	case *compiler.Print:
		if err := e.print(); err != nil {
			return e.fail(err)
		}
	case *compiler.Read:
		return e.fail(ErrUnsupported.New("read instruction at cell %d: input is not supported", e.Tape.Pointer))
	case *compiler.Loop:
		if e.Tape.Cell() != 0 {
			e.frames = append(e.frames, frame{body: n.Body, loop: true})
			return nil
		}
	default:
		return e.fail(ErrUnsupported.New("unknown instruction %T", n))
	}

	top.pc++
	return nil
}

// print writes the current cell as a single raw byte.
func (e *Engine) print() error {
	e.buf[0] = e.Tape.Cell()
	n, err := e.outputSink().Write(e.buf[:])
	if err != nil {
		return ErrSink.Wrap(err, "write output byte")
	}
	if n != 1 {
		return ErrSink.Wrap(io.ErrShortWrite, "write output byte")
	}
	return nil
}

func (e *Engine) fail(err error) error {
	e.Halted = true
	e.Err = err
	return err
}
