package scene

import (
	"testing"

	"github.com/phanxgames/marker"
)

func TestLoadScript(t *testing.T) {
	s, err := LoadScript([]byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "zoom", "zoom": 14, "duration": 0.5}
		]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(s.steps))
	}
	if st := s.steps[1]; st.Action != "click" || st.X != 100 || st.Y != 200 {
		t.Errorf("step 1 = %+v", st)
	}
	if st := s.steps[3]; st.Zoom != 14 || st.Duration != 0.5 {
		t.Errorf("step 3 = %+v", st)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	for name, data := range map[string]string{
		"invalid": `not json`,
		"empty":   `{"steps": []}`,
		"unknown": `{"steps": [{"action": "teleport"}]}`,
	} {
		if _, err := LoadScript([]byte(data)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func runScript(t *testing.T, m *Map, s *Script) int {
	t.Helper()
	m.SetScript(s)
	for i := 1; i <= 300; i++ {
		m.step(frame, false)
		if s.Done() {
			return i
		}
	}
	t.Fatal("script did not finish")
	return 0
}

func TestScriptClick(t *testing.T) {
	m := newTestMap(t)
	v := newViewAt(m, hamburg)
	got := recordEvents(v, "click")

	s, err := LoadScript([]byte(`{"steps": [{"action": "click", "x": 400, "y": 280}]}`))
	if err != nil {
		t.Fatal(err)
	}
	// press, release, then the frame that notices the end
	if n := runScript(t, m, s); n != 3 {
		t.Errorf("finished after %d frames, want 3", n)
	}
	if !equalStrings(*got, []string{"click"}) {
		t.Errorf("events = %v, want [click]", *got)
	}
}

func TestScriptWaitThenScreenshot(t *testing.T) {
	m := newTestMap(t)
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "after wait"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	m.SetScript(s)
	for i := 0; i < 3; i++ {
		m.step(frame, false)
	}
	if m.PendingScreenshots() != 0 {
		t.Fatal("screenshot queued before the wait ended")
	}
	m.step(frame, false)
	if m.PendingScreenshots() != 1 {
		t.Errorf("pending screenshots = %d, want 1", m.PendingScreenshots())
	}
	if !s.Done() {
		t.Error("script not done after its last step")
	}
}

func TestScriptCameraSteps(t *testing.T) {
	m := newTestMap(t)
	signals := countSignals(m)
	target := marker.NewLatLng(53.54, 9.98)

	s, err := LoadScript([]byte(`{"steps": [
		{"action": "zoom", "zoom": 14, "duration": 0.25},
		{"action": "pan", "lat": 53.54, "lng": 9.98}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, m, s)
	m.step(frame, false)

	if !approxEqual(m.Zoom(), 14, epsilon) {
		t.Errorf("zoom = %v, want 14", m.Zoom())
	}
	if c, _ := m.Center(); !approxLatLng(c, target, 1e-4) {
		t.Errorf("center = %v, want %v", c, target)
	}
	if *signals == 0 {
		t.Error("no bounds signal after the camera steps")
	}
}

func TestScriptDragMovesView(t *testing.T) {
	m := newTestMap(t)
	v := newViewAt(m, hamburg)
	v.SetDraggable(true)

	s, err := LoadScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 400, "fromY": 280, "toX": 500, "toY": 280, "frames": 5}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, m, s)

	x, y := m.Camera().LatLngToScreen(v.Position())
	if !approxEqual(x, 500, 1e-6) || !approxEqual(y, 300, 1e-6) {
		t.Errorf("view at (%f,%f), want (500,300)", x, y)
	}
}

func TestSetScriptNilDetaches(t *testing.T) {
	m := newTestMap(t)
	s, err := LoadScript([]byte(`{"steps": [{"action": "hover", "x": 1, "y": 1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	m.SetScript(s)
	m.SetScript(nil)
	m.step(frame, false)
	if s.Done() || m.PendingInput() != 0 {
		t.Error("detached script still ran")
	}
}
