package engine

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/joomcode/errorx"

	"gobf/pkg/compiler"
)

const helloWorld = "+[-[<<[+[--->]-[<<<]]]>>>-]>-.---.>..>.<<<<-.<+.>>>>>.>.<<.<-."

// mustParse parses src with the default lenient policy.
func mustParse(t testing.TB, src string) compiler.Program {
	t.Helper()
	prog, err := compiler.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}
	return prog
}

// runSource executes src on a fresh engine and returns it with its output.
func runSource(t *testing.T, src string, optimize bool) (*Engine, string, error) {
	t.Helper()
	prog := mustParse(t, src)
	if optimize {
		prog = compiler.Optimize(prog)
	}
	var out bytes.Buffer
	e := NewEngine()
	e.Output = &out
	e.Load(prog)
	err := e.Run()
	return e, out.String(), err
}

func TestHelloWorld(t *testing.T) {
	for _, optimize := range []bool{false, true} {
		e, out, err := runSource(t, helloWorld, optimize)
		if err != nil {
			t.Fatalf("optimize=%v: Run failed: %v", optimize, err)
		}
		if out != "hello world" {
			t.Errorf("optimize=%v: output: got %q, want %q", optimize, out, "hello world")
		}
		if e.Tape.Pointer != 6 {
			t.Errorf("optimize=%v: pointer: got %d, want 6", optimize, e.Tape.Pointer)
		}
	}
}

func TestExecute(t *testing.T) {
	var out bytes.Buffer
	if err := Execute(mustParse(t, "++++++++[>++++++++<-]>+."), &out); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.String() != "A" {
		t.Errorf("output: got %q, want %q", out.String(), "A")
	}
}

func TestEmptyProgram(t *testing.T) {
	e, out, err := runSource(t, "", false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "" {
		t.Errorf("output: got %q, want none", out)
	}
	if !e.Halted {
		t.Errorf("expected Halted")
	}
	for i, c := range e.Tape.Cells {
		if c != 0 {
			t.Fatalf("cell %d: got %d, want 0", i, c)
		}
	}
	if e.Tape.Pointer != 0 {
		t.Errorf("pointer: got %d, want 0", e.Tape.Pointer)
	}
}

func TestCellWraparound(t *testing.T) {
	e := NewEngine()
	e.Load(compiler.Program{&compiler.Decrement{Count: 1}})
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Tape.Cell() != 255 {
		t.Errorf("0 - 1: got %d, want 255", e.Tape.Cell())
	}

	for _, start := range []byte{0, 1, 37, 255} {
		e := NewEngine()
		e.Tape.Cells[0] = start
		e.Load(compiler.Program{&compiler.Increment{Count: 256}})
		if err := e.Run(); err != nil {
			t.Fatal(err)
		}
		if e.Tape.Cell() != start {
			t.Errorf("%d + 256: got %d, want %d", start, e.Tape.Cell(), start)
		}
	}

	e = NewEngine()
	e.Tape.Cells[0] = 10
	e.Load(compiler.Program{&compiler.Increment{Count: 1000}, &compiler.Decrement{Count: 3}})
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if want := byte((10 + 1000 - 3) % 256); e.Tape.Cell() != want {
		t.Errorf("10 + 1000 - 3: got %d, want %d", e.Tape.Cell(), want)
	}
}

func TestPointerWraparound(t *testing.T) {
	const n = DefaultTapeSize
	tests := []struct {
		name  string
		start int
		ins   compiler.Instruction
		want  int
	}{
		{"Right From End", n - 1, &compiler.MoveRight{Count: 1}, 0},
		{"Left From Start", 0, &compiler.MoveLeft{Count: 1}, n - 1},
		{"Full Turn Right", 123, &compiler.MoveRight{Count: n}, 123},
		{"Full Turn Left", 123, &compiler.MoveLeft{Count: n}, 123},
		{"Several Turns Right", 5, &compiler.MoveRight{Count: 3*n + 2}, 7},
		{"Several Turns Left", 1, &compiler.MoveLeft{Count: 2*n + 3}, n - 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			e.Tape.Pointer = tc.start
			e.Load(compiler.Program{tc.ins})
			if err := e.Run(); err != nil {
				t.Fatal(err)
			}
			if e.Tape.Pointer != tc.want {
				t.Errorf("pointer: got %d, want %d", e.Tape.Pointer, tc.want)
			}
		})
	}
}

func TestLoopIsPreTested(t *testing.T) {
	_, out, err := runSource(t, "[.+]", false)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("body ran on a zero cell: output %q", out)
	}

	e, _, err := runSource(t, "+++[>++<-]", false)
	if err != nil {
		t.Fatal(err)
	}
	if e.Tape.Cells[0] != 0 || e.Tape.Cells[1] != 6 {
		t.Errorf("cells: got %v, want [0 6]", e.Tape.Cells[:2])
	}
}

func TestReadIsUnsupported(t *testing.T) {
	e, out, err := runSource(t, "+.,+.", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errorx.IsOfType(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if out != "\x01" {
		t.Errorf("output: got %q, want only the byte before ','", out)
	}
	if !e.Halted || e.Err != err {
		t.Errorf("engine not halted with the error")
	}
	if e.Tape.Cell() != 1 {
		t.Errorf("cell changed after failure: got %d", e.Tape.Cell())
	}

	// Further steps are no-ops that keep reporting the error.
	if err2 := e.Step(); err2 != err {
		t.Errorf("Step after halt: got %v, want %v", err2, err)
	}
}

// failingWriter accepts limit bytes and then fails.
type failingWriter struct {
	limit int
	buf   bytes.Buffer
	err   error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.buf.Len() >= w.limit {
		return 0, w.err
	}
	return w.buf.Write(p)
}

// shortWriter never accepts anything but reports no error.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return 0, nil }

func TestSinkFailure(t *testing.T) {
	cause := errors.New("pipe closed")
	w := &failingWriter{limit: 2, err: cause}
	err := Execute(mustParse(t, "+.+.+.+."), w)
	if !errorx.IsOfType(err, ErrSink) {
		t.Fatalf("expected ErrSink, got %v", err)
	}
	if errorx.Cast(err).Cause() != cause {
		t.Errorf("cause: got %v, want %v", errorx.Cast(err).Cause(), cause)
	}
	if !bytes.Equal(w.buf.Bytes(), []byte{1, 2}) {
		t.Errorf("delivered output: got %v, want [1 2]", w.buf.Bytes())
	}

	err = Execute(mustParse(t, "."), shortWriter{})
	if !errorx.IsOfType(err, ErrSink) {
		t.Fatalf("short write: expected ErrSink, got %v", err)
	}
	if errorx.Cast(err).Cause() != io.ErrShortWrite {
		t.Errorf("short write cause: got %v", errorx.Cast(err).Cause())
	}
}

// countingWriter records the size of every Write call.
type countingWriter struct {
	sizes []int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.sizes = append(w.sizes, len(p))
	return len(p), nil
}

func TestPrintWritesSingleBytes(t *testing.T) {
	w := &countingWriter{}
	if err := Execute(mustParse(t, "+++...>."), w); err != nil {
		t.Fatal(err)
	}
	if len(w.sizes) != 4 {
		t.Fatalf("writes: got %d, want 4", len(w.sizes))
	}
	for i, n := range w.sizes {
		if n != 1 {
			t.Errorf("write %d: got %d bytes, want 1", i, n)
		}
	}
}

func TestDeepNestingDoesNotRecurse(t *testing.T) {
	const depth = 200000

	// +[[[ ... [-] ... ]]]  built directly, past the parser's nesting guard.
	inner := compiler.Program{&compiler.Decrement{Count: 1}}
	for i := 0; i < depth; i++ {
		inner = compiler.Program{&compiler.Loop{Body: inner}}
	}
	prog := append(compiler.Program{&compiler.Increment{Count: 1}}, inner...)

	e := NewEngine()
	e.Load(prog)
	maxDepth := 0
	for !e.Halted {
		e.Step()
		if d := e.Depth(); d > maxDepth {
			maxDepth = d
		}
	}
	if e.Err != nil {
		t.Fatal(e.Err)
	}
	if maxDepth != depth {
		t.Errorf("max depth: got %d, want %d", maxDepth, depth)
	}
	if e.Tape.Cell() != 0 {
		t.Errorf("cell: got %d, want 0", e.Tape.Cell())
	}
}

func TestLoadKeepsTape(t *testing.T) {
	e := NewEngine(8)
	e.Output = io.Discard

	e.Load(mustParse(t, "+++>"))
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	e.Load(mustParse(t, "<+"))
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Tape.Cells[0] != 4 {
		t.Errorf("cell 0 after two loads: got %d, want 4", e.Tape.Cells[0])
	}

	e.Reset()
	if e.Tape.Cells[0] != 0 || e.Tape.Pointer != 0 || !e.Halted {
		t.Errorf("Reset left state: cell=%d ptr=%d halted=%v", e.Tape.Cells[0], e.Tape.Pointer, e.Halted)
	}
}

func TestTapeSize(t *testing.T) {
	e := NewEngine(10)
	if e.Tape.Size() != 10 {
		t.Fatalf("Size: got %d, want 10", e.Tape.Size())
	}
	e.Load(mustParse(t, "<<<"))
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Tape.Pointer != 7 {
		t.Errorf("pointer: got %d, want 7", e.Tape.Pointer)
	}

	if NewEngine().Tape.Size() != DefaultTapeSize {
		t.Errorf("default size: got %d, want %d", NewEngine().Tape.Size(), DefaultTapeSize)
	}
}
