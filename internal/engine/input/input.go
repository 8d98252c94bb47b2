// Package input turns SDL2 events into viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is a viewer command.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionResize
	ActionTogglePlay
	ActionToggleLoop
	ActionFaster
	ActionSlower
	ActionRewind
	ActionGoEnd
	ActionNextClip
	ActionPrevClip
	ActionOrbitLeft
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionWireframe
	ActionFrame // refit the camera
	ActionOpen
	ActionSkeleton // toggle the bone overlay
	ActionScreenshot
	ActionDrag
	ActionZoom
)

// Event is a processed input event.
type Event struct {
	Action Action
	Width  int
	Height int
	DX, DY float32 // drag delta in pixels or wheel steps
}

// bindings maps key presses to actions.
var bindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE:       ActionQuit,
	sdl.SCANCODE_SPACE:        ActionTogglePlay,
	sdl.SCANCODE_L:            ActionToggleLoop,
	sdl.SCANCODE_EQUALS:       ActionFaster,
	sdl.SCANCODE_KP_PLUS:      ActionFaster,
	sdl.SCANCODE_MINUS:        ActionSlower,
	sdl.SCANCODE_KP_MINUS:     ActionSlower,
	sdl.SCANCODE_R:            ActionRewind,
	sdl.SCANCODE_E:            ActionGoEnd,
	sdl.SCANCODE_TAB:          ActionNextClip,
	sdl.SCANCODE_RIGHTBRACKET: ActionNextClip,
	sdl.SCANCODE_LEFTBRACKET:  ActionPrevClip,
	sdl.SCANCODE_LEFT:         ActionOrbitLeft,
	sdl.SCANCODE_RIGHT:        ActionOrbitRight,
	sdl.SCANCODE_UP:           ActionOrbitUp,
	sdl.SCANCODE_DOWN:         ActionOrbitDown,
	sdl.SCANCODE_W:            ActionWireframe,
	sdl.SCANCODE_F:            ActionFrame,
	sdl.SCANCODE_O:            ActionOpen,
	sdl.SCANCODE_B:            ActionSkeleton,
	sdl.SCANCODE_F12:          ActionScreenshot,
}

// Bind returns the action for a key, ActionNone if unbound.
func Bind(key sdl.Scancode) Action {
	return bindings[key]
}

// Input collects actions once per frame.
type Input struct {
	events   []Event
	dragging bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update polls SDL events. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.push(Event{Action: ActionResize, Width: int(e.Data1), Height: int(e.Data2)})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			a := Bind(e.Keysym.Scancode)
			if a == ActionQuit {
				quit = true
			}
			// Held arrows repeat; other keys fire once.
			if e.Repeat != 0 && !orbit(a) {
				continue
			}
			i.push(Event{Action: a})

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_LEFT {
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseMotionEvent:
			if i.dragging {
				i.push(Event{Action: ActionDrag, DX: float32(e.XRel), DY: float32(e.YRel)})
			}

		case *sdl.MouseWheelEvent:
			i.push(Event{Action: ActionZoom, DY: float32(e.Y)})
		}
	}
	return quit
}

func (i *Input) push(e Event) {
	if e.Action != ActionNone {
		i.events = append(i.events, e)
	}
}

func orbit(a Action) bool {
	return a >= ActionOrbitLeft && a <= ActionOrbitDown
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
