package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"gobf/pkg/compiler"
	"gobf/pkg/config"
	"gobf/pkg/engine"
	"gobf/pkg/grid"
	"gobf/pkg/utils"
)

const (
	cellWidth  = 36
	cellHeight = 24
	headerRows = 2 // status lines above the grid
	outputRows = 6 // program output lines below the grid
	lineHeight = 16
)

var (
	colorCell    = color.RGBA{0x1D, 0x2B, 0x53, 0xFF}
	colorZero    = color.RGBA{0x5F, 0x57, 0x4F, 0xFF}
	colorPointer = color.RGBA{0xFF, 0xA3, 0x00, 0xFF}
	colorText    = color.RGBA{0xFF, 0xF1, 0xE8, 0xFF}
)

type Game struct {
	cfg  *config.Config
	prog compiler.Program
	vm   *engine.Engine
	out  bytes.Buffer

	paused bool
	face   *text.GoXFace
	cell   *ebiten.Image // reused cell background
}

func newGame(cfg *config.Config, prog compiler.Program) *Game {
	g := &Game{
		cfg:  cfg,
		prog: prog,
		face: text.NewGoXFace(basicfont.Face7x13),
	}
	g.restart()
	return g
}

// restart discards the run and loads the program on a fresh tape.
func (g *Game) restart() {
	g.out.Reset()
	g.vm = engine.NewEngine(g.cfg.TapeSize)
	g.vm.Output = &g.out
	g.vm.Load(g.prog)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart()
	}

	if g.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			g.vm.Step()
		}
		return nil
	}

	for i := 0; i < g.cfg.Desktop.StepsPerFrame; i++ {
		// Break early if the program finished or failed
		if g.vm.Halted {
			break
		}
		g.vm.Step()
	}
	return nil
}

func (g *Game) drawCells(screen *ebiten.Image) {
	if g.cell == nil {
		g.cell = ebiten.NewImage(cellWidth-2, cellHeight-2)
	}

	cols, rows := g.cfg.Desktop.Columns, g.cfg.Desktop.Rows
	tape := g.vm.Tape
	start := grid.PageStart(tape.Pointer, cols*rows)
	cells := tape.Window(start, cols*rows)

	for i, v := range cells {
		idx := start + i
		if idx >= tape.Size() {
			break
		}
		x, y := grid.GetGridCoords(i, cols)
		px := x * cellWidth
		py := (headerRows * lineHeight) + y*cellHeight

		switch {
		case idx == tape.Pointer:
			g.cell.Fill(colorPointer)
		case v == 0:
			g.cell.Fill(colorZero)
		default:
			g.cell.Fill(colorCell)
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(px+1), float64(py+1))
		screen.DrawImage(g.cell, op)

		top := &text.DrawOptions{}
		top.GeoM.Translate(float64(px+5), float64(py+5))
		top.ColorScale.ScaleWithColor(colorText)
		text.Draw(screen, fmt.Sprintf("%3d", v), g.face, top)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	state := "running"
	switch {
	case g.vm.Err != nil:
		state = "error: " + g.vm.Err.Error()
	case g.vm.Halted:
		state = "halted"
	case g.paused:
		state = "paused (N steps)"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ptr=%d cell=%d depth=%d steps=%d", g.vm.Tape.Pointer, g.vm.Tape.Cell(), g.vm.Depth(), g.vm.Steps), 4, 0)
	ebitenutil.DebugPrintAt(screen, state+"   [space] pause  [r] restart", 4, lineHeight)

	g.drawCells(screen)

	// Output tail below the grid
	lines := strings.Split(g.out.String(), "\n")
	if len(lines) > outputRows {
		lines = lines[len(lines)-outputRows:]
	}
	top := headerRows*lineHeight + g.cfg.Desktop.Rows*cellHeight + 4
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, strings.ToValidUTF8(line, "?"), 4, top+i*lineHeight)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenSize().X, g.screenSize().Y
}

func (g *Game) screenSize() image.Point {
	w := g.cfg.Desktop.Columns * cellWidth
	h := (headerRows+outputRows)*lineHeight + g.cfg.Desktop.Rows*cellHeight + 4
	return image.Pt(max(w, 320), h)
}

func main() {
	configPath := flag.String("config", "", "YAML settings file")
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatalf("usage: desktop [-config file.yaml] <program.b>")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	src, name, err := utils.OpenSource(flag.Arg(0), os.Stdin)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}
	prog, _, err := compiler.Compile(src, cfg.CompileOptions())
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}

	game := newGame(cfg, prog)
	size := game.screenSize()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(size.X*2, size.Y*2)
	ebiten.SetWindowTitle("gobf - " + name)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
