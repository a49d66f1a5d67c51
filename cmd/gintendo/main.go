// Command gintendo is a thin ebiten front end driving a bus.Bus. It is
// not part of the emulator core: it owns the window, the host's fixed
// NES palette, and blitting the core's palette-index framebuffer to
// screen.
package main

import (
	"context"
	"flag"
	"image/color"
	"log"
	"os"

	"github.com/bdwalton/gonestep/bus"
	"github.com/bdwalton/gonestep/cartridge"
	"github.com/hajimehoshi/ebiten/v2"
)

var romFile = flag.String("nes_rom", "", "Path to NES ROM to run.")

const (
	screenWidth  = 256
	screenHeight = 240
)

// rgb is a host-side RGB triple; the core only ever hands back a
// 64-entry palette index.
type rgb struct{ r, g, b uint8 }

// systemPalette is the NES's fixed 64-color output palette, owned by
// the host per spec: the core's framebuffer only carries indices into
// it.
var systemPalette = [64]rgb{
	{0x80, 0x80, 0x80}, {0x00, 0x3D, 0xA6}, {0x00, 0x12, 0xB0}, {0x44, 0x00, 0x96}, {0xA1, 0x00, 0x5E},
	{0xC7, 0x00, 0x28}, {0xBA, 0x06, 0x00}, {0x8C, 0x17, 0x00}, {0x5C, 0x2F, 0x00}, {0x10, 0x45, 0x00},
	{0x05, 0x4A, 0x00}, {0x00, 0x47, 0x2E}, {0x00, 0x41, 0x66}, {0x00, 0x00, 0x00}, {0x05, 0x05, 0x05},
	{0x05, 0x05, 0x05}, {0xC7, 0xC7, 0xC7}, {0x00, 0x77, 0xFF}, {0x21, 0x55, 0xFF}, {0x82, 0x37, 0xFA},
	{0xEB, 0x2F, 0xB5}, {0xFF, 0x29, 0x50}, {0xFF, 0x22, 0x00}, {0xD6, 0x32, 0x00}, {0xC4, 0x62, 0x00},
	{0x35, 0x80, 0x00}, {0x05, 0x8F, 0x00}, {0x00, 0x8A, 0x55}, {0x00, 0x99, 0xCC}, {0x21, 0x21, 0x21},
	{0x09, 0x09, 0x09}, {0x09, 0x09, 0x09}, {0xFF, 0xFF, 0xFF}, {0x0F, 0xD7, 0xFF}, {0x69, 0xA2, 0xFF},
	{0xD4, 0x80, 0xFF}, {0xFF, 0x45, 0xF3}, {0xFF, 0x61, 0x8B}, {0xFF, 0x88, 0x33}, {0xFF, 0x9C, 0x12},
	{0xFA, 0xBC, 0x20}, {0x9F, 0xE3, 0x0E}, {0x2B, 0xF0, 0x35}, {0x0C, 0xF0, 0xA4}, {0x05, 0xFB, 0xFF},
	{0x5E, 0x5E, 0x5E}, {0x0D, 0x0D, 0x0D}, {0x0D, 0x0D, 0x0D}, {0xFF, 0xFF, 0xFF}, {0xA6, 0xFC, 0xFF},
	{0xB3, 0xEC, 0xFF}, {0xDA, 0xAB, 0xEB}, {0xFF, 0xA8, 0xF9}, {0xFF, 0xAB, 0xB3}, {0xFF, 0xD2, 0xB0},
	{0xFF, 0xEF, 0xA6}, {0xFF, 0xF7, 0x9C}, {0xD7, 0xE8, 0x95}, {0xA6, 0xED, 0xAF}, {0xA2, 0xF2, 0xDA},
	{0x99, 0xFF, 0xFC}, {0xDD, 0xDD, 0xDD}, {0x11, 0x11, 0x11}, {0x11, 0x11, 0x11},
}

// game adapts a bus.Bus to the ebiten.Game interface. The bus runs on
// its own goroutine; game only reads the framebuffer on Draw.
type game struct {
	b *bus.Bus
}

func (g *game) Update() error {
	// The bus clock is driven on a separate goroutine via bus.Run;
	// ebiten only needs to be told to keep calling Draw.
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.b.PPU().Framebuffer
	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			c := systemPalette[fb[y][x]]
			screen.Set(x, y, color.RGBA{c.r, c.g, c.b, 0xff})
		}
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()

	cart, err := cartridge.Load(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}

	b := bus.New()
	b.Attach(cart)

	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("gonestep")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	if err := ebiten.RunGame(&game{b: b}); err != nil {
		log.Fatal(err)
	}

	cancel()
	os.Exit(0)
}
