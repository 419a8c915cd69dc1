package compiler

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes p to w one instruction per line, indenting loop bodies.
//
//	0000 Increment(2)
//	0001 Loop
//	0002   Decrement(1)
//	     End
func Dump(w io.Writer, p Program) error {
	d := &dumper{w: w}
	d.block(p, 0)
	return d.err
}

type dumper struct {
	w   io.Writer
	n   int
	err error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) block(p Program, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, ins := range p {
		if l, ok := ins.(*Loop); ok {
			d.printf("%04d %sLoop\n", d.n, indent)
			d.n++
			d.block(l.Body, depth+1)
			d.printf("     %sEnd\n", indent)
			continue
		}
		d.printf("%04d %s%s\n", d.n, indent, ins)
		d.n++
	}
}

// Source renders p back into program text, expanding counts and dropping
// everything that is not an instruction.
func Source(p Program) string {
	var b strings.Builder
	writeSource(&b, p)
	return b.String()
}

func writeSource(b *strings.Builder, p Program) {
	for _, ins := range p {
		switch n := ins.(type) {
		case *MoveRight:
			b.WriteString(strings.Repeat(">", n.Count))
		case *MoveLeft:
			b.WriteString(strings.Repeat("<", n.Count))
		case *Increment:
			b.WriteString(strings.Repeat("+", n.Count))
		case *Decrement:
			b.WriteString(strings.Repeat("-", n.Count))
		case *Print:
			b.WriteByte('.')
		case *Read:
			b.WriteByte(',')
		case *Loop:
			b.WriteByte('[')
			writeSource(b, n.Body)
			b.WriteByte(']')
		}
	}
}
