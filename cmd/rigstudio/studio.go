package main

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/debug"
	"github.com/Faultbox/midgard-rig/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-rig/internal/engine/glrender"
	"github.com/Faultbox/midgard-rig/internal/engine/lighting"
	"github.com/Faultbox/midgard-rig/internal/engine/stage"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

// panelWidth is the fixed width of the control panel.
const panelWidth = 340

type studio struct {
	cfg *config.Config
	log *zap.Logger

	backend  backend.Backend[sdlbackend.SDLWindowFlags]
	renderer *glrender.Renderer
	target   *framebuffer.Framebuffer
	stage    *stage.Stage

	// pending receives paths chosen in the file dialog.
	pending chan string

	sun        lighting.Sun
	lastFrame  time.Time
	lastMouse  imgui.Vec2
	shots      *debug.Screenshots
	shotQueued bool
	status     string
}

func newStudio(cfg *config.Config) (*studio, error) {
	s := &studio{
		cfg:     cfg,
		log:     logger.Named("rigstudio"),
		pending: make(chan string, 1),
		sun:     cfg.Render.Sun.Clamped(),
		shots:   debug.NewScreenshots("screenshots", "rigstudio"),
	}

	var err error
	s.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}
	s.backend.SetAfterCreateContextHook(func() {})
	c := cfg.Render.ClearColor
	s.backend.SetBgColor(imgui.NewVec4(c[0]*0.5, c[1]*0.5, c[2]*0.5, 1))
	s.backend.CreateWindow("midgard-rig studio", cfg.Graphics.Width, cfg.Graphics.Height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}

	w, h := cfg.Graphics.Width-panelWidth, cfg.Graphics.Height
	s.renderer, err = glrender.New(glrender.Config{
		Width:      w,
		Height:     h,
		AlphaCut:   cfg.Render.AlphaCut,
		ClearColor: cfg.Render.ClearColor,
		Wireframe:  cfg.Render.Wireframe,
		Sun:        cfg.Render.Sun,
	})
	if err != nil {
		return nil, err
	}
	if s.target, err = framebuffer.New(w, h); err != nil {
		s.renderer.Close()
		return nil, err
	}

	s.stage = stage.New(cfg, s.renderer, s.log)
	if err := s.stage.Load(cfg.Assets.Model); err != nil {
		s.target.Destroy()
		s.renderer.Close()
		return nil, err
	}
	s.status = describe(s.stage.Path)
	return s, nil
}

// Run blocks until the window closes.
func (s *studio) Run() {
	s.log.Info("starting frame loop")
	s.lastFrame = time.Now()
	s.backend.Run(s.frame)
}

func (s *studio) frame() {
	now := time.Now()
	dt := now.Sub(s.lastFrame).Seconds()
	s.lastFrame = now

	select {
	case path := <-s.pending:
		if err := s.stage.Load(path); err != nil {
			s.log.Error("failed to open model", zap.String("path", path), zap.Error(err))
			s.status = "Open failed: " + err.Error()
		} else {
			s.status = describe(path)
		}
	default:
	}

	s.shortcuts()
	s.stage.Update(dt)

	s.menu()
	vp := imgui.MainViewport()
	pos, size := vp.WorkPos(), vp.WorkSize()
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	viewW := size.X - panelWidth
	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowSize(imgui.NewVec2(viewW, size.Y))
	if imgui.BeginV("Viewport", nil, flags) {
		s.viewport()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(pos.X+viewW, pos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, size.Y))
	if imgui.BeginV("Controls", nil, flags) {
		s.controls()
	}
	imgui.End()
}

func (s *studio) shortcuts() {
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		s.shotQueued = true
	}
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeySpace)) {
		s.stage.Player.Toggle()
	}
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF)) {
		s.stage.Frame()
	}
	ctrlO := imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(imgui.KeyO)
	if imgui.IsKeyChordPressed(ctrlO) {
		s.openFileDialog()
	}
}

func (s *studio) menu() {
	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open Model...") {
				s.openFileDialog()
			}
			if imgui.MenuItemBool("Screenshot") {
				s.shotQueued = true
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}
}

// viewport renders the scene into the offscreen target sized to the
// available region and shows it as an image.
func (s *studio) viewport() {
	avail := imgui.ContentRegionAvail()
	if s.target.Resize(int(avail.X), int(avail.Y)) {
		w, h := s.target.Size()
		s.renderer.Resize(w, h)
	}

	restore := s.target.Bind()
	cam := s.stage.Camera
	s.renderer.SetSun(s.sun)
	s.renderer.Begin(cam.ViewMatrix(), cam.ProjectionMatrix(s.renderer.Aspect()))
	s.stage.Draw(s.renderer)
	s.stage.Overlay(s.renderer)
	s.renderer.End()
	if s.shotQueued {
		s.screenshot()
	}
	restore()

	// GL rows run bottom-up.
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(s.target.Texture()))
	imgui.ImageWithBgV(
		*texRef,
		avail,
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)

	if imgui.IsItemHovered() {
		mouse := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			cam.HandleDrag(mouse.X-s.lastMouse.X, mouse.Y-s.lastMouse.Y)
		}
		s.lastMouse = mouse
		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			cam.HandleZoom(wheel)
		}
	}
}

// openFileDialog shows a native file dialog without blocking the frame
// loop. The chosen path is loaded on the main thread.
func (s *studio) openFileDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Models", "gltf", "glb", "yaml", "yml").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				s.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case s.pending <- path:
		default:
		}
	}()
}

func (s *studio) screenshot() {
	s.shotQueued = false
	pixels, w, h := s.target.ReadPixels()
	path, err := s.shots.SavePixels(pixels, w, h)
	if err != nil {
		s.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	s.status = "Saved " + path
	s.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GL resources before the context goes away.
func (s *studio) Close() {
	s.stage.Release()
	s.target.Destroy()
	s.renderer.Close()
}

func describe(path string) string {
	if path == "" {
		return "Built-in rig"
	}
	return path
}
