package compiler

import (
	"bufio"
	"io"
	"strings"
)

// DefaultMaxNesting bounds bracket depth, and with it the recursion of
// the parser, Optimize and CountInstructions.
const DefaultMaxNesting = 10000

// Parser turns program text into a Program by recursive descent. Every
// '[' starts a nested parse that ends at the matching ']' or at end of input.
//
// Grammar:
//
//	program = { command | loop | comment }
//	command = ">" | "<" | "+" | "-" | "." | ","
//	loop    = "[" program ( "]" | EOF )
//	comment = any other byte
//
// By default unbalanced brackets are tolerated: a stray ']' at the top
// level ends the program and an unclosed '[' is closed by end of input.
// Strict turns both cases into ErrSyntax.
type Parser struct {
	Strict     bool
	MaxNesting int

	src   io.ByteReader
	line  int // 1-based line of the next byte
	col   int // 1-based column of the next byte
	depth int
}

// NewParser returns a lenient parser reading from r.
func NewParser(r io.Reader) *Parser {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Parser{src: br, line: 1, col: 1, MaxNesting: DefaultMaxNesting}
}

// Parse reads r to the end (or to a top-level ']') with the default,
// lenient policy.
func Parse(r io.Reader) (Program, error) {
	return NewParser(r).Parse()
}

// ParseString is Parse over an in-memory source.
func ParseString(src string) (Program, error) {
	return Parse(strings.NewReader(src))
}

// Parse consumes the parser's input. A Parser is single use.
func (p *Parser) Parse() (Program, error) {
	prog, closed, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if closed && p.Strict {
		return nil, ErrSyntax.New("line %d col %d: unmatched ']'", p.line, p.col-1)
	}
	return prog, nil
}

// next returns the next byte and advances the position counters.
func (p *Parser) next() (byte, error) {
	c, err := p.src.ReadByte()
	if err != nil {
		return 0, err
	}
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c, nil
}

// parseBlock collects instructions until a ']' (closed == true) or EOF.
func (p *Parser) parseBlock() (Program, bool, error) {
	prog := Program{}
	for {
		c, err := p.next()
		if err == io.EOF {
			return prog, false, nil
		}
		if err != nil {
			return nil, false, ErrSource.Wrap(err, "read source at line %d col %d", p.line, p.col)
		}

		switch c {
		case '>':
			prog = append(prog, &MoveRight{Count: 1})
		case '<':
			prog = append(prog, &MoveLeft{Count: 1})
		case '+':
			prog = append(prog, &Increment{Count: 1})
		case '-':
			prog = append(prog, &Decrement{Count: 1})
		case '.':
			prog = append(prog, &Print{})
		case ',':
			prog = append(prog, &Read{})
		case '[':
			loop, err := p.parseLoop()
			if err != nil {
				return nil, false, err
			}
			prog = append(prog, loop)
		case ']':
			return prog, true, nil
		}
	}
}

// parseLoop parses a loop body; the opening '[' has already been consumed.
func (p *Parser) parseLoop() (*Loop, error) {
	line, col := p.line, p.col-1
	if p.MaxNesting > 0 && p.depth >= p.MaxNesting {
		return nil, ErrNesting.New("line %d col %d: loops nested deeper than %d", line, col, p.MaxNesting)
	}

	p.depth++
	body, closed, err := p.parseBlock()
	p.depth--
	if err != nil {
		return nil, err
	}
	if !closed && p.Strict {
		return nil, ErrUnclosed.New("line %d col %d: unclosed '['", line, col)
	}
	return &Loop{Body: body}, nil
}
