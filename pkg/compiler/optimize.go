package compiler

// Optimize returns a new Program in which every run of adjacent
// MoveRight, MoveLeft, Increment or Decrement instructions of the same kind
// is collapsed into one instruction carrying the summed count.
//
// Print and Read are never merged. A Loop ends the current run and its body
// is optimized on its own; runs never cross a loop boundary. The input is
// left untouched and shares no nodes with the result.
func Optimize(p Program) Program {
	out := make(Program, 0, len(p))
	var pending Instruction

	flush := func() {
		if pending != nil {
			out = append(out, pending)
			pending = nil
		}
	}

	for _, ins := range p {
		if merged, ok := merge(pending, ins); ok {
			pending = merged
			continue
		}
		flush()

		switch n := ins.(type) {
		case *Loop:
			out = append(out, &Loop{Body: Optimize(n.Body)})
		case *Print, *Read:
			out = append(out, clone(n))
		default:
			pending = clone(n)
		}
	}
	flush()

	return out
}

// merge combines two instructions of the same mergeable kind.
func merge(pending, next Instruction) (Instruction, bool) {
	switch a := pending.(type) {
	case *MoveRight:
		if b, ok := next.(*MoveRight); ok {
			return &MoveRight{Count: a.Count + b.Count}, true
		}
	case *MoveLeft:
		if b, ok := next.(*MoveLeft); ok {
			return &MoveLeft{Count: a.Count + b.Count}, true
		}
	case *Increment:
		if b, ok := next.(*Increment); ok {
			return &Increment{Count: a.Count + b.Count}, true
		}
	case *Decrement:
		if b, ok := next.(*Decrement); ok {
			return &Decrement{Count: a.Count + b.Count}, true
		}
	}
	return nil, false
}

// clone copies a single node. Loop bodies are copied deeply.
func clone(ins Instruction) Instruction {
	switch n := ins.(type) {
	case *MoveRight:
		return &MoveRight{Count: n.Count}
	case *MoveLeft:
		return &MoveLeft{Count: n.Count}
	case *Increment:
		return &Increment{Count: n.Count}
	case *Decrement:
		return &Decrement{Count: n.Count}
	case *Print:
		return &Print{}
	case *Read:
		return &Read{}
	case *Loop:
		body := make(Program, len(n.Body))
		for i, child := range n.Body {
			body[i] = clone(child)
		}
		return &Loop{Body: body}
	}
	return ins
}
