package main

import (
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/debug"
	"github.com/Faultbox/midgard-rig/internal/engine/glrender"
	"github.com/Faultbox/midgard-rig/internal/engine/input"
	"github.com/Faultbox/midgard-rig/internal/engine/stage"
	"github.com/Faultbox/midgard-rig/internal/engine/window"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

// orbitStep is the yaw/pitch change per arrow key press, in radians.
const orbitStep = 0.05

type viewer struct {
	cfg *config.Config
	log *zap.Logger

	win      *window.Window
	renderer *glrender.Renderer
	input    *input.Input
	stage    *stage.Stage

	// pending receives paths chosen in the file dialog.
	pending chan string

	shots      *debug.Screenshots
	shotQueued bool
}

func newViewer(cfg *config.Config) (*viewer, error) {
	v := &viewer{
		cfg:     cfg,
		log:     logger.Named("rigview"),
		input:   input.New(),
		pending: make(chan string, 1),
		shots:   debug.NewScreenshots("screenshots", "rigview"),
	}

	var err error
	v.win, err = window.New(window.Config{
		Title:      "midgard-rig",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, err
	}

	w, h := v.win.Size()
	v.renderer, err = glrender.New(glrender.Config{
		Width:      w,
		Height:     h,
		AlphaCut:   cfg.Render.AlphaCut,
		ClearColor: cfg.Render.ClearColor,
		Wireframe:  cfg.Render.Wireframe,
		Sun:        cfg.Render.Sun,
	})
	if err != nil {
		v.win.Close()
		return nil, err
	}

	v.stage = stage.New(cfg, v.renderer, v.log)
	if err := v.stage.Load(cfg.Assets.Model); err != nil {
		v.renderer.Close()
		v.win.Close()
		return nil, err
	}
	return v, nil
}

// Run is the frame loop.
func (v *viewer) Run() {
	v.log.Info("starting frame loop")
	frames := 0
	titleTimer := time.Now()
	v.win.Tick()

	for {
		dt := v.win.Tick()
		if v.input.Update() {
			return
		}
		for _, e := range v.input.Events() {
			v.handle(e)
		}
		select {
		case path := <-v.pending:
			if err := v.stage.Load(path); err != nil {
				v.log.Error("failed to open model", zap.String("path", path), zap.Error(err))
			}
		default:
		}

		v.stage.Update(dt)
		v.render()
		if v.shotQueued {
			v.screenshot()
		}
		v.win.SwapBuffers()

		frames++
		if elapsed := time.Since(titleTimer); elapsed >= 250*time.Millisecond {
			v.win.SetTitle(v.title(float64(frames) / elapsed.Seconds()))
			frames = 0
			titleTimer = time.Now()
		}
	}
}

func (v *viewer) handle(e input.Event) {
	switch e.Action {
	case input.ActionResize:
		w, h := v.win.Size()
		v.renderer.Resize(w, h)
	case input.ActionTogglePlay:
		v.stage.Player.Toggle()
	case input.ActionToggleLoop:
		v.log.Debug("loop toggled", zap.Bool("loop", v.stage.Player.ToggleLoop()))
	case input.ActionFaster:
		v.stage.Player.Faster()
	case input.ActionSlower:
		v.stage.Player.Slower()
	case input.ActionRewind:
		v.stage.Player.Rewind()
	case input.ActionGoEnd:
		v.stage.Player.GoEnd()
	case input.ActionNextClip:
		v.stage.CycleClip(1)
	case input.ActionPrevClip:
		v.stage.CycleClip(-1)
	case input.ActionOrbitLeft:
		v.stage.Camera.Orbit(-orbitStep, 0)
	case input.ActionOrbitRight:
		v.stage.Camera.Orbit(orbitStep, 0)
	case input.ActionOrbitUp:
		v.stage.Camera.Orbit(0, orbitStep)
	case input.ActionOrbitDown:
		v.stage.Camera.Orbit(0, -orbitStep)
	case input.ActionWireframe:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case input.ActionFrame:
		v.stage.Frame()
	case input.ActionSkeleton:
		v.stage.ShowSkeleton = !v.stage.ShowSkeleton
	case input.ActionScreenshot:
		v.shotQueued = true
	case input.ActionOpen:
		v.openFileDialog()
	case input.ActionDrag:
		v.stage.Camera.HandleDrag(e.DX, e.DY)
	case input.ActionZoom:
		v.stage.Camera.HandleZoom(e.DY)
	}
}

// openFileDialog shows a native file dialog without blocking the frame
// loop. The chosen path is loaded on the main thread.
func (v *viewer) openFileDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Models", "gltf", "glb", "yaml", "yml").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				v.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case v.pending <- path:
		default:
		}
	}()
}

func (v *viewer) render() {
	view := v.stage.Camera.ViewMatrix()
	proj := v.stage.Camera.ProjectionMatrix(v.renderer.Aspect())
	v.renderer.Begin(view, proj)
	v.stage.Draw(v.renderer)
	v.stage.Overlay(v.renderer)
	v.renderer.End()
}

// screenshot reads the finished frame before it is presented.
func (v *viewer) screenshot() {
	v.shotQueued = false
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SavePixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *viewer) title(fps float64) string {
	state := "paused"
	if v.stage.Player.Playing() {
		state = "playing"
	}
	loop := ""
	if v.stage.Player.Looping() {
		loop = " loop"
	}
	return fmt.Sprintf("midgard-rig | %s [%s%s] %.2f/%.2fs x%.2f | %.0f fps",
		v.stage.Model.ClipName(), state, loop,
		v.stage.Player.Time(), v.stage.Model.DurationSeconds(), v.stage.Player.Speed(), fps)
}

// Close releases the model before the GL context goes away.
func (v *viewer) Close() {
	v.stage.Release()
	v.renderer.Close()
	v.win.Close()
}
