package viewer

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType is the kind of a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventDrag
	EventWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DX, DY int // drag motion in pixels
	Wheel  int
}

// Input turns SDL events into viewer events.
type Input struct {
	events   []Event
	dragging bool
	mouseX   int
	mouseY   int
}

// NewInput creates an input handler.
func NewInput() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update polls SDL events. It returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				i.events = append(i.events, Event{Type: EventQuit})
				return true
			}
			i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_LEFT {
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseMotionEvent:
			i.mouseX, i.mouseY = int(e.X), int(e.Y)
			if i.dragging {
				i.events = append(i.events, Event{
					Type:   EventDrag,
					MouseX: i.mouseX,
					MouseY: i.mouseY,
					DX:     int(e.XRel),
					DY:     int(e.YRel),
				})
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:   EventWheel,
				MouseX: i.mouseX,
				MouseY: i.mouseY,
				Wheel:  int(e.Y),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
