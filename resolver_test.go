package marker

import (
	"errors"
	"strings"
	"testing"
)

func TestResolverReadsStaticValue(t *testing.T) {
	env := setup(t)
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{
			KeyBackgroundColor: "#123456",
			KeyColor: Dynamic[any](func(s State[any]) any {
				return s.Attr.BackgroundColor()
			}),
		},
	})
	if got := mk.Computed().Color(); got != "#123456" {
		t.Errorf("Color = %q, want #123456", got)
	}
}

func TestResolverDynamicUsesData(t *testing.T) {
	env := setup(t)
	mk, _ := newTestMarker(env, Options[string]{
		Data: "Cafe",
		Attributes: Attributes{
			KeyTitle: Dynamic[string](func(s State[string]) any { return s.Data + "!" }),
		},
	})
	if got := mk.Computed().Title(); got != "Cafe!" {
		t.Errorf("Title = %q, want Cafe!", got)
	}
	mk.SetData("Bar")
	if got := mk.Computed().Title(); got != "Bar!" {
		t.Errorf("Title = %q, want Bar! (no caching between reads)", got)
	}
}

func TestResolverCycleAtDepth11(t *testing.T) {
	env := setup(t)
	calls := 0
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{
			KeyColor: Dynamic[any](func(s State[any]) any {
				calls++
				return s.Attr.Color()
			}),
		},
	})

	v := expectPanic(t, func() { mk.Computed().Color() })
	err, ok := v.(error)
	if !ok {
		t.Fatalf("panic value = %T, want error", v)
	}
	if !errors.Is(err, ErrCyclicDependency) {
		t.Errorf("error %v does not match ErrCyclicDependency", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not a *CycleError", err)
	}
	if len(ce.Path) != 11 {
		t.Errorf("cycle detected at depth %d, want 11", len(ce.Path))
	}
	if calls != 10 {
		t.Errorf("callback ran %d times, want 10", calls)
	}
	if !strings.Contains(err.Error(), "color -> color") {
		t.Errorf("error message %q does not show the path", err.Error())
	}

	// the resolver is usable again after the panic
	if d := mk.Computed().Depth(); d != 0 {
		t.Errorf("Depth after panic = %d, want 0", d)
	}
	mk.SetAttribute(KeyColor, "#fff")
	if got := mk.Computed().Color(); got != "#fff" {
		t.Errorf("Color = %q, want #fff", got)
	}
}

func TestResolverIndirectCycle(t *testing.T) {
	env := setup(t)
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{
			KeyColor: Dynamic[any](func(s State[any]) any {
				return s.Attr.BackgroundColor()
			}),
			KeyBackgroundColor: Dynamic[any](func(s State[any]) any {
				return s.Attr.Color()
			}),
		},
	})
	v := expectPanic(t, func() { mk.Computed().BorderColor(); mk.Computed().Color() })
	ce, ok := v.(*CycleError)
	if !ok {
		t.Fatalf("panic value = %T, want *CycleError", v)
	}
	if len(ce.Path) != 11 || ce.Path[0] != KeyColor || ce.Path[1] != KeyBackgroundColor {
		t.Errorf("Path = %v", ce.Path)
	}
}

func TestResolverDepth(t *testing.T) {
	env := setup(t)
	var depths []int
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{
			KeyTitle: Dynamic[any](func(s State[any]) any {
				depths = append(depths, s.Attr.Depth())
				return s.Attr.Color()
			}),
			KeyColor: Dynamic[any](func(s State[any]) any {
				depths = append(depths, s.Attr.Depth())
				return "red"
			}),
		},
	})
	mk.Computed().Title()
	if len(depths) != 2 || depths[0] != 1 || depths[1] != 2 {
		t.Errorf("depths = %v, want [1 2]", depths)
	}
}

func TestResolverRejectsWrongDynamicResult(t *testing.T) {
	env := setup(t)
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{
			KeyScale: Dynamic[any](func(State[any]) any { return "big" }),
		},
	})
	expectPanic(t, func() { mk.Computed().Scale() })
}

func TestResolverNormalizesPosition(t *testing.T) {
	env := setup(t)
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{
			KeyPosition: Dynamic[any](func(State[any]) any { return [2]float64{10.001, 53.555} }),
		},
	})
	got, ok := mk.Computed().Get(KeyPosition).(LatLng)
	if !ok || got != NewLatLng(53.555, 10.001) {
		t.Errorf("Get(position) = %v, want %v", got, NewLatLng(53.555, 10.001))
	}
}

func TestResolverViewportNilWithoutMap(t *testing.T) {
	env := setup(t)
	var vp *ViewportState
	called := false
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{
			KeyTitle: Dynamic[any](func(s State[any]) any {
				called = true
				vp = s.Viewport
				return nil
			}),
		},
	})
	mk.Computed().Title()
	if !called || vp != nil {
		t.Errorf("Viewport = %v, want nil while detached", vp)
	}
}

func TestResolverDefaultsPrecedence(t *testing.T) {
	env := setup(t)
	var userColor any
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{
			KeyColor: Dynamic[any](func(State[any]) any { return userColor }),
		},
		Defaults: Attributes{KeyColor: "#000"},
	})

	if got := mk.Computed().Color(); got != "#000" {
		t.Errorf("dynamic nil: Color = %q, want default #000", got)
	}
	userColor = "#fff"
	if got := mk.Computed().Color(); got != "#fff" {
		t.Errorf("dynamic value: Color = %q, want #fff", got)
	}
	mk.SetAttribute(KeyColor, "#abc")
	if got := mk.Computed().Color(); got != "#abc" {
		t.Errorf("static value: Color = %q, want #abc", got)
	}
	mk.SetAttribute(KeyColor, nil)
	if got := mk.Computed().Color(); got != "#000" {
		t.Errorf("cleared: Color = %q, want default #000", got)
	}
	mk.SetDefault(KeyColor, nil)
	if got := mk.Computed().Color(); got != "" {
		t.Errorf("unset: Color = %q, want empty", got)
	}
}

func TestResolverClassList(t *testing.T) {
	env := setup(t)
	mk, _ := newTestMarker(env, Options[any]{
		Attributes: Attributes{KeyClassList: []string{"a", "b", "c"}},
	})
	if got := mk.Computed().ClassList(); got != "a b c" {
		t.Errorf("ClassList = %q, want %q", got, "a b c")
	}
	mk.SetAttribute(KeyClassList, "x y")
	if got := mk.Computed().ClassList(); got != "x y" {
		t.Errorf("ClassList = %q, want %q", got, "x y")
	}
}
