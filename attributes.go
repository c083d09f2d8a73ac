package marker

import (
	"fmt"
	"net/url"
)

// AttributeKey names one of the marker attributes. The set of keys is closed.
type AttributeKey uint8

const (
	KeyPosition          AttributeKey = iota // Position
	KeyDraggable                             // bool
	KeyCollisionBehavior                     // CollisionBehavior
	KeyTitle                                 // string
	KeyZIndex                                // int
	KeyColor                                 // CSS color string, shorthand for the three pin colors
	KeyBackgroundColor                       // CSS color string
	KeyBorderColor                           // CSS color string
	KeyGlyphColor                            // CSS color string
	KeyIcon                                  // "namespace:iconId" or "iconId"
	KeyGlyph                                 // Glyph
	KeyScale                                 // float64
	KeyContent                               // Element replacing the pin
	KeyClassList                             // []string or string

	numAttributeKeys
)

var attributeNames = [numAttributeKeys]string{
	"position",
	"draggable",
	"collisionBehavior",
	"title",
	"zIndex",
	"color",
	"backgroundColor",
	"borderColor",
	"glyphColor",
	"icon",
	"glyph",
	"scale",
	"content",
	"classList",
}

// String returns the attribute name, e.g. "backgroundColor".
func (k AttributeKey) String() string {
	if k < numAttributeKeys {
		return attributeNames[k]
	}
	return fmt.Sprintf("AttributeKey(%d)", uint8(k))
}

// ParseAttributeKey looks up a key by its name.
func ParseAttributeKey(name string) (AttributeKey, bool) {
	for i, n := range attributeNames {
		if n == name {
			return AttributeKey(i), true
		}
	}
	return 0, false
}

// AttributeKeys returns all attribute keys in declaration order.
func AttributeKeys() []AttributeKey {
	keys := make([]AttributeKey, numAttributeKeys)
	for i := range keys {
		keys[i] = AttributeKey(i)
	}
	return keys
}

// CollisionBehavior controls how a marker interacts with overlapping markers.
type CollisionBehavior string

const (
	// CollisionOptionalAndHidesLowerPriority shows the marker only if it does
	// not overlap other markers. Of two overlapping markers of this kind the
	// one with the higher z-index wins.
	CollisionOptionalAndHidesLowerPriority CollisionBehavior = "OPTIONAL_AND_HIDES_LOWER_PRIORITY"
	// CollisionRequired always shows the marker. This is the default.
	CollisionRequired CollisionBehavior = "REQUIRED"
	// CollisionRequiredAndHidesOptional always shows the marker and hides
	// overlapping optional markers.
	CollisionRequiredAndHidesOptional CollisionBehavior = "REQUIRED_AND_HIDES_OPTIONAL"
)

// Glyph is the content shown inside a pin: a string, an Element, a *url.URL
// pointing to an image, or a Ligature from an icon font.
type Glyph any

// Ligature is an icon-font glyph, as produced by MaterialIcons.
type Ligature struct {
	Family string // font family, e.g. "Material Icons"
	Class  string // class name for renderers that style by class
	Name   string // ligature name, e.g. "star"
}

// Attributes is a partial set of attribute values. Values are static values
// of the key's type, Dynamic callbacks, or nil to clear the key.
type Attributes map[AttributeKey]any

// Dynamic is an attribute value computed from the current state each time the
// marker updates. Returning nil leaves the attribute unset.
type Dynamic[T any] func(State[T]) any

// asDynamic reports whether v is a dynamic attribute value.
func asDynamic[T any](v any) (Dynamic[T], bool) {
	switch fn := v.(type) {
	case Dynamic[T]:
		return fn, fn != nil
	case func(State[T]) any:
		return fn, fn != nil
	}
	return nil, false
}

// isUnset reports whether v clears key: nil, or a nil pointer position.
func isUnset(key AttributeKey, v any) bool {
	return v == nil || key == KeyPosition && isNilPosition(v)
}

// checkAttributeValue verifies that a static (or resolved) value fits key.
func checkAttributeValue(key AttributeKey, v any) error {
	ok := true
	switch key {
	case KeyPosition:
		ok = isPosition(v)
	case KeyDraggable:
		_, ok = v.(bool)
	case KeyCollisionBehavior:
		_, ok = v.(CollisionBehavior)
	case KeyTitle, KeyColor, KeyBackgroundColor, KeyBorderColor, KeyGlyphColor, KeyIcon:
		_, ok = v.(string)
	case KeyZIndex:
		_, ok = v.(int)
	case KeyScale:
		_, ok = v.(float64)
	case KeyGlyph:
		switch v.(type) {
		case string, Element, *url.URL, Ligature:
		default:
			ok = false
		}
	case KeyContent:
		_, ok = v.(Element)
	case KeyClassList:
		switch v.(type) {
		case []string, string:
		default:
			ok = false
		}
	default:
		return fmt.Errorf("marker: unknown attribute key %d", uint8(key))
	}
	if !ok {
		return fmt.Errorf("marker: attribute %s does not accept a value of type %T", key, v)
	}
	return nil
}

// AttributeStore holds the attribute values of one marker. Every key is
// either static, dynamic or unset; never static and dynamic at once.
type AttributeStore[T any] struct {
	static  [numAttributeKeys]any
	dynamic [numAttributeKeys]Dynamic[T]
}

// Set stores value for key. Dynamic values replace a static value and vice
// versa; nil clears the key. Static values of the wrong type panic.
func (s *AttributeStore[T]) Set(key AttributeKey, value any) {
	if key >= numAttributeKeys {
		panic(fmt.Sprintf("marker: unknown attribute key %d", uint8(key)))
	}
	if fn, ok := asDynamic[T](value); ok {
		s.dynamic[key] = fn
		s.static[key] = nil
		return
	}
	s.dynamic[key] = nil
	if isUnset(key, value) {
		s.static[key] = nil
		return
	}
	if err := checkAttributeValue(key, value); err != nil {
		panic(err.Error())
	}
	s.static[key] = value
}

// SetAll applies Set for every entry of attrs. All entries are checked
// before any is stored, so a bad entry leaves the store unchanged.
func (s *AttributeStore[T]) SetAll(attrs Attributes) {
	for key, value := range attrs {
		if err := s.check(key, value); err != nil {
			panic(err.Error())
		}
	}
	for key, value := range attrs {
		s.Set(key, value)
	}
}

func (s *AttributeStore[T]) check(key AttributeKey, value any) error {
	if key >= numAttributeKeys {
		return fmt.Errorf("marker: unknown attribute key %d", uint8(key))
	}
	if _, ok := asDynamic[T](value); ok || isUnset(key, value) {
		return nil
	}
	return checkAttributeValue(key, value)
}

// Get returns the value as it was set: the static value, the Dynamic
// callback, or nil.
func (s *AttributeStore[T]) Get(key AttributeKey) any {
	if key >= numAttributeKeys {
		return nil
	}
	if fn := s.dynamic[key]; fn != nil {
		return fn
	}
	return s.static[key]
}

// Static returns the static value for key, or nil.
func (s *AttributeStore[T]) Static(key AttributeKey) any {
	if key >= numAttributeKeys {
		return nil
	}
	return s.static[key]
}

// Dynamic returns the dynamic callback for key, or nil.
func (s *AttributeStore[T]) Dynamic(key AttributeKey) Dynamic[T] {
	if key >= numAttributeKeys {
		return nil
	}
	return s.dynamic[key]
}

// Has reports whether key holds a static or dynamic value.
func (s *AttributeStore[T]) Has(key AttributeKey) bool {
	return key < numAttributeKeys && (s.static[key] != nil || s.dynamic[key] != nil)
}
