package main

import (
	"fmt"
	"os"
	"strings"

	"gobf/pkg/compiler"
)

const testSource = `hello world
+[-[<<[+[--->]-[<<<]]]>>>-]>-.---.>..>.<<<<-.<+.>>>>>.>.<<.<-.
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	fmt.Printf("Source:\n%s\n", src)

	// Parse
	prog, err := compiler.ParseString(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}

	fmt.Printf("Minified (%d instructions)\n", compiler.CountInstructions(prog))
	fmt.Println(" ", compiler.Source(prog))
	fmt.Println()

	fmt.Println("Tree")
	if err := compiler.Dump(os.Stdout, prog); err != nil {
		fmt.Fprintln(os.Stderr, "dump error:", err)
		os.Exit(1)
	}
	fmt.Println()

	// Optimize
	opt := compiler.Optimize(prog)
	fmt.Printf("Optimized tree (%d instructions)\n", compiler.CountInstructions(opt))
	if err := compiler.Dump(os.Stdout, opt); err != nil {
		fmt.Fprintln(os.Stderr, "dump error:", err)
		os.Exit(1)
	}
	fmt.Println()

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("instructions: raw=%d optimized=%d\n", compiler.CountInstructions(prog), compiler.CountInstructions(opt))
}
