// Package compiler turns source text for the eight-instruction tape
// language into an instruction tree and shrinks that tree.
//
// Pipeline: source → Parse → Program → Optimize → Program
//
// CountInstructions, Dump and Source are read-only views of a Program.
package compiler
