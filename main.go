package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joomcode/errorx"

	"gobf/pkg/compiler"
	"gobf/pkg/config"
	"gobf/pkg/engine"
	"gobf/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole CLI; it returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "gobf: ", 0)

	fs := flag.NewFlagSet("gobf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "", "program source file path (- reads stdin)")
	configPath := fs.String("config", "", "YAML settings file")
	optimize := fs.Bool("O", true, "merge runs of identical instructions before running")
	strict := fs.Bool("strict", false, "reject unbalanced brackets")
	stats := fs.Bool("stats", false, "report instruction counts before and after optimization")
	dump := fs.Bool("dump", false, "print the instruction tree to stderr before running")
	tapeSize := fs.Int("tape-size", engine.DefaultTapeSize, "number of tape cells")
	snapshotPath := fs.String("snapshot", "", "write the final tape to this ZIP archive")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *inPath == "" && fs.NArg() > 0 {
		*inPath = fs.Arg(0)
	}
	if *inPath == "" {
		fmt.Fprintln(stderr, "nothing to do: provide -in <file> or a file argument")
		fs.Usage()
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Printf("%v", err)
			return 2
		}
		cfg = loaded
	}

	// Flags given on the command line win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "O":
			cfg.Optimize = *optimize
		case "strict":
			cfg.Strict = *strict
		case "stats":
			cfg.Stats = *stats
		case "tape-size":
			cfg.TapeSize = *tapeSize
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Printf("%v", err)
		return 2
	}

	src, name, err := utils.OpenSource(*inPath, stdin)
	if err != nil {
		logger.Printf("failed to read input file %q: %v", *inPath, err)
		return 1
	}

	prog, st, err := compiler.Compile(src, cfg.CompileOptions())
	if err != nil {
		logger.Printf("%s: %v", name, err)
		return 1
	}

	if cfg.Stats {
		fmt.Fprintf(stderr, "instructions: raw=%d optimized=%d\n", st.Raw, st.Optimized)
	}
	if *dump {
		if err := compiler.Dump(stderr, prog); err != nil {
			logger.Printf("dump: %v", err)
			return 1
		}
	}

	out := bufio.NewWriter(stdout)
	vm := engine.NewEngine(cfg.TapeSize)
	vm.Output = out
	vm.Load(prog)
	runErr := vm.Run()
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = engine.ErrSink.Wrap(err, "flush output")
	}

	if *snapshotPath != "" {
		if err := vm.SnapshotToFile(*snapshotPath); err != nil {
			logger.Printf("failed to write snapshot %q: %v", *snapshotPath, err)
			return 1
		}
	}

	if runErr != nil {
		if errorx.IsOfType(runErr, engine.ErrUnsupported) {
			logger.Printf("%s: %v (after %d steps)", name, runErr, vm.Steps)
		} else {
			logger.Printf("%s: %v", name, runErr)
		}
		return 1
	}
	return 0
}
