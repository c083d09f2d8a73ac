package scene

import (
	"encoding/json"
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/marker"
)

// scriptStep is one action of a Script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	// Zoom, Lat and Lng are targets of the zoom and pan actions.
	Zoom float64 `json:"zoom,omitempty"`
	Lat  float64 `json:"lat,omitempty"`
	Lng  float64 `json:"lng,omitempty"`
	// Duration of a camera animation in seconds. Zero jumps.
	Duration float32 `json:"duration,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences synthetic pointer input, camera moves and screenshots
// across frames. Attach it to a Map with SetScript.
//
// Actions: click (x, y), hover (x, y), drag (fromX, fromY, toX, toY, frames),
// wait (frames), zoom (zoom, duration), pan (lat, lng, duration) and
// screenshot (label).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script of the form {"steps": [...]}.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scene: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("scene: parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "hover", "drag", "wait", "zoom", "pan", "screenshot":
		default:
			return nil, fmt.Errorf("scene: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches a script to the map. It advances once per frame,
// before input is processed. A nil script detaches the current one.
func (m *Map) SetScript(s *Script) {
	m.script = s
}

// Done reports whether every step has run and its input was consumed.
func (s *Script) Done() bool {
	return s.done
}

// step advances the script by one frame.
func (s *Script) step(m *Map) {
	if s.done {
		return
	}
	// earlier input and camera moves finish first
	if len(m.injectQueue) > 0 || m.camera.Animating() {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++
	m.logger.Debug("scene: script step", "index", s.cursor-1, "action", st.Action)

	switch st.Action {
	case "screenshot":
		m.Screenshot(st.Label)
	case "click":
		m.InjectClick(st.X, st.Y)
	case "hover":
		m.InjectHover(st.X, st.Y)
	case "drag":
		m.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "zoom":
		if st.Duration > 0 {
			m.camera.ZoomTo(st.Zoom, st.Duration, ease.InOutQuad)
		} else {
			m.camera.SetZoom(st.Zoom)
		}
	case "pan":
		p := marker.NewLatLng(st.Lat, st.Lng)
		if st.Duration > 0 {
			m.camera.PanTo(p, st.Duration, ease.InOutQuad)
		} else {
			m.camera.SetCenter(p)
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(m.injectQueue) == 0 && !m.camera.Animating() {
		s.done = true
	}
}
