package window

import (
	"github.com/Faultbox/solar/internal/engine/input"
	"github.com/veandco/go-sdl2/sdl"
)

// Wheel notches are reported as this many pixels of DOM-style deltaY.
const wheelPixels = 100

// PollEvents drains the SDL queue, forwarding input to the hubs.
// Returns true if the window should close.
func (w *Window) PollEvents() bool {
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true

		case *sdl.KeyboardEvent:
			t := input.KeyDown
			if e.Type == sdl.KEYUP {
				t = input.KeyUp
			}
			name := sdl.GetScancodeName(e.Keysym.Scancode)
			w.Document.Emit(input.KeyboardEvent(t, name))

		case *sdl.MouseMotionEvent:
			w.Element.Emit(&input.Event{
				Type:      input.MouseMove,
				X:         int(e.X),
				Y:         int(e.Y),
				MovementX: int(e.XRel),
				MovementY: int(e.YRel),
				Buttons:   domButtons(e.State),
			})

		case *sdl.MouseButtonEvent:
			t := input.MouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = input.MouseUp
			}
			w.Element.Emit(&input.Event{
				Type:   t,
				X:      int(e.X),
				Y:      int(e.Y),
				Button: domButton(e.Button),
			})

		case *sdl.MouseWheelEvent:
			dy := -float64(e.Y) * wheelPixels
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			x, y, _ := sdl.GetMouseState()
			w.Element.Emit(&input.Event{
				Type:   input.Wheel,
				X:      int(x),
				Y:      int(y),
				DeltaY: dy,
			})
		}
	}
	return quit
}

// domButton maps SDL buttons (1 left, 2 middle, 3 right) to DOM ids
// (0 left, 1 middle, 2 right).
func domButton(b uint8) int {
	if b == 0 {
		return 0
	}
	return int(b) - 1
}

// SDL button state bits: 1 << (button-1).
const (
	sdlLeftMask   = 1 << 0
	sdlMiddleMask = 1 << 1
	sdlRightMask  = 1 << 2
)

// domButtons maps an SDL button mask to the DOM mask (1 left, 2 right, 4 middle).
func domButtons(state uint32) int {
	mask := 0
	if state&sdlLeftMask != 0 {
		mask |= 1
	}
	if state&sdlRightMask != 0 {
		mask |= 2
	}
	if state&sdlMiddleMask != 0 {
		mask |= 4
	}
	return mask
}
