// Package input turns SDL2 events into viewer input.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a polled event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventKeyDown
	EventDrag
	EventWheel
	EventDragEnd
)

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Width  int
	Height int
	// DX, DY are the drag delta in pixels.
	DX, DY float64
	// Wheel is the scroll amount, positive away from the user.
	Wheel float64
}

// Input collects the events of one frame and tracks the drag button.
type Input struct {
	events   []Event
	dragging bool
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update drains the SDL queue. It returns true when the user asked to quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.push(Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.push(Event{Type: EventResize, Width: int(e.Data1), Height: int(e.Data2)})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.push(Event{Type: EventKeyDown, Key: e.Keysym.Sym})
			}

		case *sdl.MouseButtonEvent:
			if e.Button != sdl.BUTTON_LEFT {
				continue
			}
			switch e.Type {
			case sdl.MOUSEBUTTONDOWN:
				i.dragging = true
			case sdl.MOUSEBUTTONUP:
				if i.dragging {
					i.push(Event{Type: EventDragEnd})
				}
				i.dragging = false
			}

		case *sdl.MouseMotionEvent:
			if i.dragging && (e.XRel != 0 || e.YRel != 0) {
				i.push(Event{Type: EventDrag, DX: float64(e.XRel), DY: float64(e.YRel)})
			}

		case *sdl.MouseWheelEvent:
			if e.Y != 0 {
				i.push(Event{Type: EventWheel, Wheel: float64(e.Y)})
			}
		}
	}

	return quit
}

func (i *Input) push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Dragging reports whether the left button is held.
func (i *Input) Dragging() bool {
	return i.dragging
}
