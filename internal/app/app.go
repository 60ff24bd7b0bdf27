package app

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"

	"famicom/internal/console"
	"famicom/internal/input"
)

const (
	nesWidth  = 256
	nesHeight = 224
)

// keyByName resolves the subset of ebiten.Key constants this emulator's
// default key mapping names. Unrecognized names are silently ignored at
// Game construction time.
var keyByName = map[string]ebiten.Key{
	"KeyW": ebiten.KeyW, "KeyA": ebiten.KeyA, "KeyS": ebiten.KeyS, "KeyD": ebiten.KeyD,
	"KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK,
	"KeyEnter": ebiten.KeyEnter, "KeySpace": ebiten.KeySpace, "KeyEscape": ebiten.KeyEscape,
	"KeyArrowUp": ebiten.KeyArrowUp, "KeyArrowDown": ebiten.KeyArrowDown,
	"KeyArrowLeft": ebiten.KeyArrowLeft, "KeyArrowRight": ebiten.KeyArrowRight,
	"KeyNumpad1": ebiten.KeyNumpad1, "KeyNumpad2": ebiten.KeyNumpad2,
	"KeyNumpad3": ebiten.KeyNumpad3, "KeyNumpad4": ebiten.KeyNumpad4,
}

type playerKeys struct {
	up, down, left, right, a, b, start, select_ ebiten.Key
}

func resolveMapping(m KeyMapping) playerKeys {
	return playerKeys{
		up:      keyByName[m.Up],
		down:    keyByName[m.Down],
		left:    keyByName[m.Left],
		right:   keyByName[m.Right],
		a:       keyByName[m.A],
		b:       keyByName[m.B],
		start:   keyByName[m.Start],
		select_: keyByName[m.Select],
	}
}

// Game implements ebiten.Game, driving the console one frame per
// Update call and blitting its frame buffer into the window each Draw.
type Game struct {
	console *console.Console

	player1, player2 *input.Controller
	keys1, keys2     playerKeys

	windowWidth, windowHeight int
	scale                     int

	frameImage *ebiten.Image
	pixels     []byte
}

// NewGame wires a Game around console, applying cfg's window scale and
// key mappings. The console may have no ROM inserted; Draw then renders
// static and Update does not tick it.
func NewGame(c *console.Console, cfg *Config) *Game {
	p1 := input.New()
	p2 := input.New()
	c.AttachController(0, p1)
	c.AttachController(1, p2)

	scale := cfg.Window.Scale
	if scale <= 0 {
		scale = 1
	}

	return &Game{
		console:      c,
		player1:      p1,
		player2:      p2,
		keys1:        resolveMapping(cfg.Input.Player1),
		keys2:        resolveMapping(cfg.Input.Player2),
		windowWidth:  nesWidth * scale,
		windowHeight: nesHeight * scale,
		scale:        scale,
		frameImage:   ebiten.NewImage(nesWidth, nesHeight),
		pixels:       make([]byte, nesWidth*nesHeight*4),
	}
}

// WindowSize returns the initial window dimensions for ebiten.SetWindowSize.
func (g *Game) WindowSize() (int, int) { return g.windowWidth, g.windowHeight }

func pollController(c *input.Controller, k playerKeys) {
	c.SetButton(input.ButtonUp, ebiten.IsKeyPressed(k.up))
	c.SetButton(input.ButtonDown, ebiten.IsKeyPressed(k.down))
	c.SetButton(input.ButtonLeft, ebiten.IsKeyPressed(k.left))
	c.SetButton(input.ButtonRight, ebiten.IsKeyPressed(k.right))
	c.SetButton(input.ButtonA, ebiten.IsKeyPressed(k.a))
	c.SetButton(input.ButtonB, ebiten.IsKeyPressed(k.b))
	c.SetButton(input.ButtonStart, ebiten.IsKeyPressed(k.start))
	c.SetButton(input.ButtonSelect, ebiten.IsKeyPressed(k.select_))
}

// Update implements ebiten.Game: it samples both controllers and steps
// the console one frame.
func (g *Game) Update() error {
	if g.console.ROMLoaded() {
		pollController(g.player1, g.keys1)
		pollController(g.player2, g.keys2)
		g.console.Tick()
	}

	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return fmt.Errorf("app: quit requested")
	}
	return nil
}

// Draw implements ebiten.Game: it converts the console's RGB frame
// buffer into the window image and scales it to fit. With no cartridge
// inserted it renders animated static instead of a blank screen, same
// as falling back to noise when a ROM fails to load.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.console.ROMLoaded() {
		frame := g.console.ReadFrameBuffer()
		for i := 0; i < nesWidth*nesHeight; i++ {
			g.pixels[i*4+0] = frame[i*3+0]
			g.pixels[i*4+1] = frame[i*3+1]
			g.pixels[i*4+2] = frame[i*3+2]
			g.pixels[i*4+3] = 0xFF
		}
	} else {
		for i := 0; i < nesWidth*nesHeight; i++ {
			v := byte(rand.Intn(255))
			g.pixels[i*4+0] = v
			g.pixels[i*4+1] = v
			g.pixels[i*4+2] = v
			g.pixels[i*4+3] = 0xFF
		}
	}
	g.frameImage.WritePixels(g.pixels)

	screen.Fill(color.Black)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.frameImage, op)
}

// Layout implements ebiten.Game: the window is fixed at the configured
// integer scale of the native NES picture.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.windowWidth, g.windowHeight
}

// Run starts the Ebitengine game loop. It blocks until the window is
// closed or Update returns an error.
func Run(g *Game, title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.WindowSize())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Printf("app: game loop stopped: %v", err)
		return err
	}
	return nil
}
