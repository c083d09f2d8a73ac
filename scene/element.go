package scene

import (
	"github.com/phanxgames/marker"
)

const (
	defaultContentWidth  = 64
	defaultContentHeight = 24
)

type elementListener struct {
	id uint32
	fn func(marker.Event)
}

// Element is the DOM-like node of a marker view. It holds style properties,
// a class name and event listeners. Used as custom content, it is drawn as a
// labelled box styled by the --marker-* properties of the view it sits in.
type Element struct {
	// Text is drawn inside the box when the element is custom content.
	Text string
	// Width and Height size the box. Zero means the default size.
	Width, Height float64

	style     map[string]string
	className string
	listeners map[string][]elementListener
	nextID    uint32
}

// NewElement creates an empty element.
func NewElement() *Element {
	return &Element{}
}

func (e *Element) SetStyleProperty(name, value string) {
	if e.style == nil {
		e.style = map[string]string{}
	}
	e.style[name] = value
}

func (e *Element) RemoveStyleProperty(name string) {
	delete(e.style, name)
}

// StyleProperty returns the value of a style property.
func (e *Element) StyleProperty(name string) (string, bool) {
	v, ok := e.style[name]
	return v, ok
}

func (e *Element) SetClassName(className string) {
	e.className = className
}

// ClassName returns the class attribute.
func (e *Element) ClassName() string {
	return e.className
}

// AddEventListener registers fn for events named name.
func (e *Element) AddEventListener(name string, fn func(marker.Event)) marker.Listener {
	if e.listeners == nil {
		e.listeners = map[string][]elementListener{}
	}
	e.nextID++
	id := e.nextID
	e.listeners[name] = append(e.listeners[name], elementListener{id: id, fn: fn})
	return marker.ListenerFunc(func() { e.removeListener(name, id) })
}

func (e *Element) removeListener(name string, id uint32) {
	s := e.listeners[name]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = elementListener{}
			e.listeners[name] = s[:len(s)-1]
			return
		}
	}
}

// Dispatch calls the listeners registered for ev.Type in registration order.
func (e *Element) Dispatch(ev marker.Event) {
	ls := e.listeners[ev.Type]
	if len(ls) == 0 {
		return
	}
	// listeners may remove themselves
	for _, l := range append([]elementListener(nil), ls...) {
		l.fn(ev)
	}
}

func (e *Element) size() (w, h float64) {
	w, h = e.Width, e.Height
	if w <= 0 {
		w = defaultContentWidth
	}
	if h <= 0 {
		h = defaultContentHeight
	}
	return w, h
}
