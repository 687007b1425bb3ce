package viewer

import (
	"github.com/veandco/go-sdl2/sdl"
)

type eventType int

const (
	eventNone eventType = iota
	eventQuit
	eventWindowResize
	eventKeyDown
	eventMouseMove
	eventMouseDown
	eventMouseUp
	eventMouseWheel
)

// inputEvent is one processed SDL event.
type inputEvent struct {
	Type   eventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Button uint8
	WheelY float32
}

// input polls SDL events into a per-frame slice.
type input struct {
	events []inputEvent
}

func newInput() *input {
	return &input{
		events: make([]inputEvent, 0, 16),
	}
}

// Update polls SDL events. Returns true when the window was closed.
func (i *input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, inputEvent{Type: eventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, inputEvent{
					Type:   eventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.events = append(i.events, inputEvent{
					Type: eventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, inputEvent{
				Type:   eventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.events = append(i.events, inputEvent{
					Type:   eventMouseDown,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			} else if e.Type == sdl.MOUSEBUTTONUP {
				i.events = append(i.events, inputEvent{
					Type:   eventMouseUp,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, inputEvent{
				Type:   eventMouseWheel,
				WheelY: float32(e.PreciseY),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *input) Events() []inputEvent {
	return i.events
}
