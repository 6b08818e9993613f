package input

import "testing"

// countingHub records how often listeners are attached.
type countingHub struct {
	*Hub
	adds    map[EventType]int
	removes map[EventType]int
}

func newCountingHub() *countingHub {
	return &countingHub{Hub: NewHub(), adds: map[EventType]int{}, removes: map[EventType]int{}}
}

func (h *countingHub) AddListener(t EventType, fn func(*Event)) {
	h.adds[t]++
	h.Hub.AddListener(t, fn)
}

func (h *countingHub) RemoveListener(t EventType) {
	h.removes[t]++
	h.Hub.RemoveListener(t)
}

func setup() (*Dispatcher, *countingHub, *countingHub) {
	element, document := newCountingHub(), newCountingHub()
	return New(element, document), element, document
}

func TestArrowLeftSetsFlag(t *testing.T) {
	d, _, document := setup()
	left := false
	d.Bind(KeyDown, Code("ArrowLeft"), func(*Dispatcher, *Event) { left = true })

	ev := &Event{Type: KeyDown, Code: "ArrowLeft", Which: 37, KeyCode: 37}
	if !document.Emit(ev) {
		t.Fatal("document has no keydown listener")
	}
	if !left {
		t.Error("handler did not run")
	}
	if !ev.DefaultPrevented() {
		t.Error("keyboard event not prevented")
	}
}

func TestKeyboardListensOnDocumentPointerOnElement(t *testing.T) {
	d, element, document := setup()
	noop := func(*Dispatcher, *Event) {}
	d.Bind(KeyUp, Code("KeyA"), noop)
	d.Bind(MouseDown, Button(0), noop)
	d.Bind(Wheel, Button(0), noop)

	if !document.Listening(KeyUp) || element.Listening(KeyUp) {
		t.Error("keyup should listen on document only")
	}
	if !element.Listening(MouseDown) || document.Listening(MouseDown) {
		t.Error("mousedown should listen on element only")
	}
	if !element.Listening(Wheel) {
		t.Error("wheel should listen on element")
	}
}

func TestOneListenerPerType(t *testing.T) {
	d, _, document := setup()
	noop := func(*Dispatcher, *Event) {}
	d.Bind(KeyDown, Code("ArrowLeft"), noop)
	d.Bind(KeyDown, Code("ArrowRight"), noop)
	d.Bind(KeyDown, Code("ArrowLeft"), noop)

	if got := document.adds[KeyDown]; got != 1 {
		t.Errorf("keydown listeners attached %d times, want 1", got)
	}
}

func TestRebindOverwrites(t *testing.T) {
	d, _, document := setup()
	var got string
	d.Bind(KeyDown, Code("Space"), func(*Dispatcher, *Event) { got = "first" })
	d.Bind(KeyDown, Code("Space"), func(*Dispatcher, *Event) { got = "second" })

	document.Emit(&Event{Type: KeyDown, Code: "Space"})
	if got != "second" {
		t.Errorf("handler = %q, want second", got)
	}
}

func TestUnboundKeyIsNoop(t *testing.T) {
	d, _, document := setup()
	calls := 0
	d.Bind(KeyDown, Code("ArrowLeft"), func(*Dispatcher, *Event) { calls++ })

	ev := &Event{Type: KeyDown, Code: "KeyQ", Which: 81, KeyCode: 81}
	document.Emit(ev)
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if !ev.DefaultPrevented() {
		t.Error("unbound keyboard event should still be prevented")
	}
}

func TestLegacyNumericKey(t *testing.T) {
	d, _, document := setup()
	calls := 0
	d.Bind(KeyDown, Num(27), func(*Dispatcher, *Event) { calls++ })

	document.Emit(&Event{Type: KeyDown, Code: "Escape", Which: 27, KeyCode: 27})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPointerByButton(t *testing.T) {
	d, element, _ := setup()
	var left, right int
	d.Bind(MouseDown, Button(0), func(*Dispatcher, *Event) { left++ })
	d.Bind(MouseDown, Button(2), func(*Dispatcher, *Event) { right++ })

	element.Emit(&Event{Type: MouseDown, Button: 2})
	element.Emit(&Event{Type: MouseDown, Button: 0})
	ev := &Event{Type: MouseDown, Button: 1}
	element.Emit(ev)

	if left != 1 || right != 1 {
		t.Errorf("left=%d right=%d, want 1 and 1", left, right)
	}
	if !ev.DefaultPrevented() {
		t.Error("pointer event not prevented")
	}
}

func TestHandlerReceivesEvent(t *testing.T) {
	d, element, _ := setup()
	var delta float64
	var from *Dispatcher
	d.Bind(Wheel, Button(0), func(got *Dispatcher, ev *Event) {
		from = got
		delta = ev.DeltaY
	})
	element.Emit(&Event{Type: Wheel, DeltaY: -120})
	if delta != -120 || from != d {
		t.Errorf("delta=%v dispatcher=%p, want -120 and %p", delta, from, d)
	}
}

func TestUnbindAll(t *testing.T) {
	d, element, document := setup()
	calls := 0
	h := func(*Dispatcher, *Event) { calls++ }
	d.Bind(KeyDown, Code("ArrowLeft"), h)
	d.Bind(MouseMove, Button(0), h)

	d.UnbindAll()
	d.UnbindAll()

	if document.Listening(KeyDown) || element.Listening(MouseMove) {
		t.Error("listeners still attached after UnbindAll")
	}
	if document.removes[KeyDown] != 1 || element.removes[MouseMove] != 1 {
		t.Errorf("removes = %v / %v, want one each", document.removes, element.removes)
	}

	d.Dispatch(&Event{Type: KeyDown, Code: "ArrowLeft"})
	d.Dispatch(&Event{Type: MouseMove})
	if calls != 0 {
		t.Errorf("late dispatch ran %d handlers", calls)
	}
}

func TestKeyString(t *testing.T) {
	if Code("ArrowUp").String() != "ArrowUp" || Num(38).String() != "38" {
		t.Error("unexpected Key.String()")
	}
	if Code("38") == Num(38) {
		t.Error("code and numeric keys must not collide")
	}
}
