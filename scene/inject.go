package scene

// syntheticPointerEvent is a queued pointer event in screen coordinates.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next Update.
func (m *Map) InjectPress(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, pressed: true})
}

// InjectMove queues a pointer move with the button held down. Use it between
// InjectPress and InjectRelease to drag.
func (m *Map) InjectMove(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, pressed: true})
}

// InjectHover queues a pointer move with the button released.
func (m *Map) InjectHover(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{screenX: x, screenY: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (m *Map) InjectRelease(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{screenX: x, screenY: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (m *Map) InjectClick(x, y float64) {
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY). Minimum frames is 2.
func (m *Map) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		m.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	m.InjectRelease(toX, toY)
}

// PendingInput returns the number of queued synthetic events.
func (m *Map) PendingInput() int {
	return len(m.injectQueue)
}

// processInjectedInput feeds one queued event through the pointer state
// machine and reports whether one was consumed.
func (m *Map) processInjectedInput() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	evt := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]

	m.processPointer(evt.screenX, evt.screenY, evt.pressed)
	return true
}
