package compiler

import "github.com/joomcode/errorx"

var (
	Errors = errorx.NewNamespace("compiler")

	// ErrSource marks a failure of the reader that supplies program text.
	ErrSource = Errors.NewType("source")
	// ErrSyntax is only produced in strict mode, for unbalanced brackets.
	ErrSyntax = Errors.NewType("syntax")
	// ErrNesting reports brackets nested deeper than the parser allows.
	ErrNesting = Errors.NewType("nesting")

	// incomplete is carried by syntax errors that more input could fix.
	incomplete = errorx.RegisterTrait("incomplete")
	// ErrUnclosed is an ErrSyntax subtype for a '[' that reached end of input.
	ErrUnclosed = ErrSyntax.NewSubtype("unclosed", incomplete)
)

// IsIncomplete reports whether err means the source ended inside a loop,
// so that appending more text could make it parse.
func IsIncomplete(err error) bool {
	return errorx.HasTrait(err, incomplete)
}
