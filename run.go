package canopy

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title      string `json:"title"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background Color  `json:"background"`
	Resizable  bool   `json:"resizable"`

	// ShowFPS prints the actual FPS and TPS in the top-left corner.
	ShowFPS bool `json:"showFPS"`

	// TestScript is the path of a JSON test script (see LoadTestScript). When
	// set, the script drives input and the game exits once it finishes.
	TestScript string `json:"testScript"`

	// Update runs once per tick after input and before layout. Returning an
	// error stops the game; ebiten.Termination exits cleanly.
	Update func(dt float64) error `json:"-"`
}

// DefaultRunConfig returns a 1280x720 window with a dark background.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:      "canopy",
		Width:      1280,
		Height:     720,
		Background: Color{0.1, 0.1, 0.12, 1},
	}
}

// ParseRunConfig decodes a JSON run configuration over the defaults.
func ParseRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse run config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return RunConfig{}, fmt.Errorf("%w: window size %dx%d", ErrInvalidArgument, cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// game adapts a System to ebiten.Game.
type game struct {
	sys      *System
	cfg      RunConfig
	renderer *EbitenRenderer
}

func (g *game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	g.sys.ProcessInput()
	if g.cfg.Update != nil {
		if err := g.cfg.Update(dt); err != nil {
			return err
		}
	}
	g.sys.Update(dt)
	if r := g.sys.testRunner; r != nil && r.Done() && len(g.sys.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.Background.A > 0 {
		screen.Fill(g.cfg.Background.toRGBA())
	}
	if g.renderer == nil || g.renderer.Target != screen {
		g.renderer = NewEbitenRenderer(screen)
	}
	g.sys.Draw(g.renderer)
	g.sys.flushEbitenScreenshots(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	for _, c := range g.sys.canvases {
		c.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives sys until the window closes or cfg.Update
// returns an error. It blocks and must be called from the main goroutine.
func Run(sys *System, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidArgument, cfg.Width, cfg.Height)
	}
	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			return fmt.Errorf("load test script: %w", err)
		}
		runner, err := LoadTestScript(data)
		if err != nil {
			return err
		}
		sys.SetTestRunner(runner)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	sys.logger.Info("canopy: starting",
		slog.String("title", cfg.Title),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height))

	err := ebiten.RunGame(&game{sys: sys, cfg: cfg})
	sys.Shutdown()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
