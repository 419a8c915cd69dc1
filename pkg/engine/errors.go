package engine

import "github.com/joomcode/errorx"

var (
	Errors = errorx.NewNamespace("engine")

	// ErrUnsupported is raised by the Read instruction. Input is not
	// available to programs, so the run stops instead of guessing a value.
	ErrUnsupported = Errors.NewType("unsupported_instruction")
	// ErrSink wraps a failed or short write to the output.
	ErrSink = Errors.NewType("sink")
	// ErrSnapshot covers malformed or mismatched snapshot archives.
	ErrSnapshot = Errors.NewType("snapshot")
)
