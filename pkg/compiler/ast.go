package compiler

import (
	"fmt"
	"strings"
)

// Instruction is implemented by every node of the program tree.
// The simple variants carry a repetition count; the parser always
// produces a count of 1 and Optimize merges runs into larger counts.
type Instruction interface {
	instructionNode()
	String() string
}

// Program is an ordered sequence of instructions. It is the top level of
// the tree and also the body of every Loop.
type Program []Instruction

func (p Program) String() string {
	parts := make([]string, len(p))
	for i, ins := range p {
		parts[i] = ins.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MoveRight advances the tape pointer.
//
//	>>>   MoveRight{Count: 3}   (after Optimize)
type MoveRight struct {
	Count int
}

func (*MoveRight) instructionNode() {}
func (m *MoveRight) String() string { return fmt.Sprintf("MoveRight(%d)", m.Count) }

// MoveLeft moves the tape pointer back.
type MoveLeft struct {
	Count int
}

func (*MoveLeft) instructionNode() {}
func (m *MoveLeft) String() string { return fmt.Sprintf("MoveLeft(%d)", m.Count) }

// Increment adds Count to the current cell, modulo 256.
type Increment struct {
	Count int
}

func (*Increment) instructionNode() {}
func (i *Increment) String() string { return fmt.Sprintf("Increment(%d)", i.Count) }

// Decrement subtracts Count from the current cell, modulo 256.
type Decrement struct {
	Count int
}

func (*Decrement) instructionNode() {}
func (d *Decrement) String() string { return fmt.Sprintf("Decrement(%d)", d.Count) }

// Print writes the current cell as one raw byte.
type Print struct{}

func (*Print) instructionNode() {}
func (*Print) String() string   { return "Print" }

// Read is the input instruction. It parses, but the engine refuses to run it.
type Read struct{}

func (*Read) instructionNode() {}
func (*Read) String() string   { return "Read" }

// Loop repeats Body while the current cell is nonzero.
//
//	[->+<]
//	 ^^^^  Body
type Loop struct {
	Body Program
}

func (*Loop) instructionNode() {}
func (l *Loop) String() string { return "Loop(" + l.Body.String() + ")" }

// CountInstructions returns the number of non-Loop instructions in p,
// descending into loop bodies. A Loop node contributes nothing itself.
func CountInstructions(p Program) int {
	n := 0
	for _, ins := range p {
		if l, ok := ins.(*Loop); ok {
			n += CountInstructions(l.Body)
			continue
		}
		n++
	}
	return n
}
