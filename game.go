package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"nes-core/bus"
	"nes-core/controller"
	"nes-core/cpu"
	"nes-core/headless"
	"nes-core/ppu"
)

const (
	debugWidth  = 800
	debugHeight = 480
	panelX      = 2*ppu.Width + 8
	lineSize    = 16
)

var (
	WHITE = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	GREEN = color.RGBA{G: 0xFF, A: 0xFF}
	RED   = color.RGBA{R: 0xFF, A: 0xFF}
	CYAN  = color.RGBA{G: 0xFF, B: 0xFF, A: 0xFF}
)

var controllerKeys = map[ebiten.Key]controller.Button{
	ebiten.KeyX:     controller.A,
	ebiten.KeyZ:     controller.B,
	ebiten.KeyA:     controller.Select,
	ebiten.KeyS:     controller.Start,
	ebiten.KeyUp:    controller.Up,
	ebiten.KeyDown:  controller.Down,
	ebiten.KeyLeft:  controller.Left,
	ebiten.KeyRight: controller.Right,
}

func buttonsFor(keys []ebiten.Key) controller.Button {
	var b controller.Button
	for _, k := range keys {
		b |= controllerKeys[k]
	}
	return b
}

type Game struct {
	nes             *bus.Bus
	pad             *controller.Joypad
	debug           bool
	emulationRun    bool
	selectedPalette uint8
	err             error

	mapAsm      map[uint16]cpu.DisassembledInstruction
	defaultFont font.Face

	frame      []uint32
	pixels     []byte
	gameScreen *ebiten.Image
	patterns   [2]*ebiten.Image
	patternPix []byte
}

func NewGame(nes *bus.Bus, pad *controller.Joypad, debug bool) *Game {
	g := &Game{
		nes:          nes,
		pad:          pad,
		debug:        debug,
		emulationRun: !debug,
		frame:        make([]uint32, ppu.Width*ppu.Height),
		pixels:       make([]byte, 4*ppu.Width*ppu.Height),
		gameScreen:   ebiten.NewImage(ppu.Width, ppu.Height),
		patternPix:   make([]byte, 4*128*128),
	}
	if debug {
		g.mapAsm = nes.CPU().Disassemble(0x0000, 0xFFFF)
		g.patterns[0] = ebiten.NewImage(128, 128)
		g.patterns[1] = ebiten.NewImage(128, 128)
	}
	return g
}

func (g *Game) Update() error {
	g.pad.Set(buttonsFor(inpututil.AppendPressedKeys(nil)))

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.emulationRun = !g.emulationRun
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.nes.Reset()
		g.err = nil
	}
	if g.err != nil {
		return nil
	}

	if g.emulationRun {
		g.run(g.nes.RunFrame)
	} else if g.debug {
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			g.run(g.nes.StepInstruction)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF) {
			g.run(g.nes.RunFrame)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.selectedPalette = (g.selectedPalette + 1) & 0x07
	}
	return nil
}

func (g *Game) run(f func() error) {
	if err := f(); err != nil {
		g.err = err
		g.emulationRun = false
		log.Printf("emulation stopped: %v", err)
	}
}

func (g *Game) getDefaultFont() font.Face {
	if g.defaultFont != nil {
		return g.defaultFont
	}
	tt, err := opentype.Parse(fonts.MPlus1pRegular_ttf)
	if err != nil {
		log.Fatal(err)
	}
	const dpi = 72 * 2
	g.defaultFont, err = opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    6,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		log.Fatal(err)
	}
	return g.defaultFont
}

func (g *Game) DrawString(screen *ebiten.Image, x int, y int, str string, clr color.Color) {
	text.Draw(screen, str, g.getDefaultFont(), x, y, clr)
}

func (g *Game) DrawCpu(screen *ebiten.Image, x int, y int) {
	c := g.nes.CPU()
	g.DrawString(screen, x, y, "STATUS:", WHITE)
	for i, name := range "NVUBDIZC" {
		clr := RED
		if c.GetFlag(cpu.CPUFlag(0x80>>i)) == 1 {
			clr = GREEN
		}
		g.DrawString(screen, x+60+i*12, y, string(name), clr)
	}
	g.DrawString(screen, x, y+lineSize, fmt.Sprintf("PC: $%04X  A: $%02X", c.PC, c.A), WHITE)
	g.DrawString(screen, x, y+lineSize*2, fmt.Sprintf("X: $%02X  Y: $%02X  SP: $%02X", c.X, c.Y, c.SP), WHITE)
	p := g.nes.PPU()
	g.DrawString(screen, x, y+lineSize*3, fmt.Sprintf("Opcode: $%02X", c.Opcode()), WHITE)
	g.DrawString(screen, x, y+lineSize*4,
		fmt.Sprintf("Cycles: %d  Dot: %d,%d", c.CycleCount(), p.Scanline(), p.Cycle()), WHITE)
}

// DrawNametable prints one row of tile ids from nametable i.
func (g *Game) DrawNametable(screen *ebiten.Image, x, y int, i uint16, row uint16) {
	addr := 0x2000 + i*0x400 + row*32
	line := fmt.Sprintf("NT%d %02d:", i, row)
	for col := uint16(0); col < 16; col++ {
		line += fmt.Sprintf(" %02X", g.nes.PPU().PeekVRAM(addr+col))
	}
	ebitenutil.DebugPrintAt(screen, line, x, y)
}

func (g *Game) DrawCode(screen *ebiten.Image, x int, y int, nLines int) {
	pc := g.nes.CPU().PC
	itA, ok := g.mapAsm[pc]
	if !ok {
		return
	}
	lineY := y + (nLines>>1)*lineSize
	g.DrawString(screen, x, lineY, itA.Instruction, CYAN)
	for lineY < y+nLines*lineSize {
		lineY += lineSize
		if itA, ok = g.mapAsm[itA.NextAddr]; !ok {
			break
		}
		g.DrawString(screen, x, lineY, itA.Instruction, WHITE)
	}

	itA = g.mapAsm[pc]
	lineY = y + (nLines>>1)*lineSize
	for lineY > y {
		lineY -= lineSize
		if itA, ok = g.mapAsm[itA.PreviousAddr]; !ok {
			break
		}
		g.DrawString(screen, x, lineY, itA.Instruction, WHITE)
	}
}

func (g *Game) DrawRam(screen *ebiten.Image, x int, y int, addr uint16, nRows int, nColumns int) {
	for row := 0; row < nRows; row++ {
		line := fmt.Sprintf("%04X:", addr)
		for col := 0; col < nColumns; col++ {
			line += fmt.Sprintf(" %02X", g.nes.Peek(addr))
			addr++
		}
		ebitenutil.DebugPrintAt(screen, line, x, y)
		y += lineSize
	}
}

func (g *Game) DrawOAM(screen *ebiten.Image, x, y int, n int) {
	for i := 0; i < n; i++ {
		s := g.nes.PPU().Sprite(i)
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("%02X: (%3d, %3d) ID: %02X AT: %02X", i, s.X, s.Y, s.Tile, s.Attribute), x, y+i*lineSize)
	}
}

func (g *Game) DrawPatternTables(screen *ebiten.Image, x, y float64) {
	for i := range g.patterns {
		headless.RGBA(g.patternPix, g.nes.PPU().PatternTable(uint8(i), g.selectedPalette))
		g.patterns[i].WritePixels(g.patternPix)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x+float64(i)*136, y)
		screen.DrawImage(g.patterns[i], op)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.nes.PPU().Framebuffer().Copy(g.frame)
	headless.RGBA(g.pixels, g.frame)
	g.gameScreen.WritePixels(g.pixels)

	if !g.debug {
		screen.DrawImage(g.gameScreen, nil)
		if g.err != nil {
			ebitenutil.DebugPrint(screen, g.err.Error())
		}
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(2, 2)
	screen.DrawImage(g.gameScreen, op)

	g.DrawCpu(screen, panelX, 16)
	g.DrawCode(screen, panelX, 96, 7)
	g.DrawOAM(screen, panelX, 230, 4)
	g.DrawRam(screen, panelX, 300, 0x0000, 1, 8)
	g.DrawNametable(screen, panelX, 316, 0, 0)
	g.DrawPatternTables(screen, panelX, float64(debugHeight-136))
	if g.err != nil {
		ebitenutil.DebugPrintAt(screen, g.err.Error(), 4, debugHeight-16)
	}
}

func (g *Game) Layout(outsideWidth int, outsideHeight int) (int, int) {
	if g.debug {
		return debugWidth, debugHeight
	}
	return ppu.Width, ppu.Height
}
