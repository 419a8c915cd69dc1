package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"gobf/pkg/compiler"
	"gobf/pkg/config"
	"gobf/pkg/engine"
)

const (
	promptMain = "bf> "
	promptCont = "... "
)

const helpText = `Commands:
  :quit         exit
  :reset        zero the tape
  :tape         show cells around the pointer
  :dump         toggle printing the instruction tree of each entry
  :save <file>  write the tape to a snapshot archive
  :load <file>  replace the tape with a snapshot archive
Anything else is run as a program on the session tape.`

// session is one REPL run: a tape that survives between entries.
type session struct {
	cfg    *config.Config
	vm     *engine.Engine
	out    io.Writer
	errOut io.Writer
	dump   bool
}

func newSession(cfg *config.Config, out, errOut io.Writer) *session {
	vm := engine.NewEngine(cfg.TapeSize)
	vm.Output = out
	return &session{cfg: cfg, vm: vm, out: out, errOut: errOut}
}

func main() {
	configPath := flag.String("config", "", "YAML settings file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath, err := historyPath(cfg.Console.History)
	if err != nil {
		log.Printf("history disabled: %v", err)
	} else {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	s := newSession(cfg, os.Stdout, os.Stderr)

	fmt.Printf("gobf console, tape of %d cells. Type :help for commands.\n", cfg.TapeSize)
	for {
		src, ok := readEntry(ln, cfg)
		if !ok {
			fmt.Println()
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				return
			}
			continue
		}
		s.eval(src)
	}
}

// historyPath resolves a relative history file against the home directory.
func historyPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, name), nil
}

// readEntry reads one entry, asking for more lines while a '[' is still open.
func readEntry(ln *liner.State, cfg *config.Config) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		p := compiler.NewParser(strings.NewReader(src))
		p.Strict = true
		p.MaxNesting = cfg.MaxNesting
		if _, err := p.Parse(); compiler.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

// command handles a ':' line and reports whether the REPL should exit.
func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	switch cmd {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(s.out, helpText)
	case ":reset":
		s.vm.Reset()
		fmt.Fprintln(s.out, "tape cleared")
	case ":tape":
		s.printTape()
	case ":dump":
		s.dump = !s.dump
		fmt.Fprintf(s.out, "dump %v\n", s.dump)
	case ":save", ":load":
		if len(fields) != 2 {
			fmt.Fprintf(s.out, "usage: %s <file>\n", cmd)
			return false
		}
		var err error
		if cmd == ":save" {
			err = s.vm.SnapshotToFile(fields[1])
		} else {
			err = s.vm.RestoreFromFile(fields[1])
		}
		if err != nil {
			fmt.Fprintln(s.errOut, "error:", err)
		}
	default:
		fmt.Fprintln(s.out, "unknown command. Type :help for a list.")
	}
	return false
}

// eval compiles src and runs it on the session tape, stopping after the
// configured step limit so a runaway loop does not hang the console.
func (s *session) eval(src string) {
	opts := s.cfg.CompileOptions()
	prog, st, err := compiler.Compile(strings.NewReader(src), opts)
	if err != nil {
		fmt.Fprintln(s.errOut, "error:", err)
		return
	}
	if s.dump {
		fmt.Fprintf(s.out, "instructions: raw=%d optimized=%d\n", st.Raw, st.Optimized)
		_ = compiler.Dump(s.out, prog)
	}

	s.vm.Load(prog)
	limit := s.cfg.Console.StepLimit
	for !s.vm.Halted {
		if limit > 0 && s.vm.Steps >= limit {
			fmt.Fprintf(s.errOut, "\nstopped after %d steps (console.step_limit)\n", s.vm.Steps)
			return
		}
		s.vm.Step()
	}
	if s.vm.Err != nil {
		fmt.Fprintln(s.errOut, "\nerror:", s.vm.Err)
		return
	}
	fmt.Fprintln(s.out)
}

// printTape shows a window of cells with the pointer cell in brackets.
func (s *session) printTape() {
	const before, width = 4, 9
	t := s.vm.Tape
	from := t.Pointer - before
	cells := t.Window(from, width)

	var b strings.Builder
	for i, c := range cells {
		idx := ((from+i)%t.Size() + t.Size()) % t.Size()
		if idx == t.Pointer {
			fmt.Fprintf(&b, "[%d:%d] ", idx, c)
		} else {
			fmt.Fprintf(&b, "%d:%d ", idx, c)
		}
	}
	fmt.Fprintln(s.out, strings.TrimSpace(b.String()))
}
