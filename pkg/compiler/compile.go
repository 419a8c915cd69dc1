package compiler

import "io"

// Options configures Compile.
type Options struct {
	Optimize   bool
	Strict     bool
	MaxNesting int // 0 selects DefaultMaxNesting
}

// Stats holds instruction totals before and after optimization.
type Stats struct {
	Raw       int
	Optimized int
}

// Compile parses src and, if requested, optimizes the result. When
// optimization is off Stats.Optimized equals Stats.Raw.
func Compile(src io.Reader, opts Options) (Program, Stats, error) {
	p := NewParser(src)
	p.Strict = opts.Strict
	if opts.MaxNesting > 0 {
		p.MaxNesting = opts.MaxNesting
	}

	prog, err := p.Parse()
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Raw: CountInstructions(prog)}
	if opts.Optimize {
		prog = Optimize(prog)
	}
	stats.Optimized = CountInstructions(prog)

	return prog, stats, nil
}
