package marker

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// DefaultIconNamespace is the namespace used for icon ids without a prefix.
const DefaultIconNamespace = "default"

// IconProvider resolves an icon id to a glyph.
type IconProvider func(iconID string) Glyph

// The icon registry is process-wide. Providers are registered at startup and
// never removed; the last registration for a namespace wins.
var (
	iconProvidersMu sync.RWMutex
	iconProviders   = map[string]IconProvider{}
)

// RegisterIconProvider registers p for the default namespace, so that an icon
// attribute like "star" resolves through p.
func RegisterIconProvider(p IconProvider) {
	RegisterNamespacedIconProvider(DefaultIconNamespace, p)
}

// RegisterNamespacedIconProvider registers p for namespace, so that an icon
// attribute like "namespace:star" resolves through p.
func RegisterNamespacedIconProvider(namespace string, p IconProvider) {
	iconProvidersMu.Lock()
	iconProviders[namespace] = p
	iconProvidersMu.Unlock()
}

func iconProvider(namespace string) (IconProvider, bool) {
	iconProvidersMu.RLock()
	defer iconProvidersMu.RUnlock()
	p, ok := iconProviders[namespace]
	return p, ok
}

func resetIconProviders() {
	iconProvidersMu.Lock()
	iconProviders = map[string]IconProvider{}
	iconProvidersMu.Unlock()
}

// splitIcon splits "namespace:iconId" at the first colon.
func splitIcon(icon string) (namespace, iconID string) {
	if ns, id, ok := strings.Cut(icon, ":"); ok {
		return ns, id
	}
	return DefaultIconNamespace, icon
}

// resolveIcon looks up the glyph for icon. Unknown namespaces are reported
// once and yield false.
func resolveIcon(icon string) (Glyph, bool) {
	namespace, iconID := splitIcon(icon)
	p, ok := iconProvider(namespace)
	if !ok {
		nsText := ""
		if namespace != DefaultIconNamespace {
			nsText = fmt.Sprintf("with namespace '%s' ", namespace)
		}
		warnOnce("marker: an icon is set but no icon provider " + nsText + "is configured. " +
			"Register one with marker.RegisterIconProvider, e.g. marker.MaterialIcons(marker.MaterialIconsFilled).")
		return nil, false
	}
	return p(iconID), true
}

// MaterialIconsStyle selects one of the Material Icons font variants.
type MaterialIconsStyle uint8

const (
	MaterialIconsFilled MaterialIconsStyle = iota
	MaterialIconsOutlined
	MaterialIconsRounded
	MaterialIconsSharp
	MaterialIconsTwoTone
)

var materialIconsStyles = [...]struct{ class, family string }{
	MaterialIconsFilled:   {"material-icons", "Material Icons"},
	MaterialIconsOutlined: {"material-icons-outlined", "Material Icons Outlined"},
	MaterialIconsRounded:  {"material-icons-round", "Material Icons Round"},
	MaterialIconsSharp:    {"material-icons-sharp", "Material Icons Sharp"},
	MaterialIconsTwoTone:  {"material-icons-two-tone", "Material Icons Two Tone"},
}

// MaterialIcons returns a provider producing Material Icons ligature glyphs
// in the given style.
func MaterialIcons(style MaterialIconsStyle) IconProvider {
	if int(style) >= len(materialIconsStyles) {
		style = MaterialIconsFilled
	}
	s := materialIconsStyles[style]
	logger.Info("marker: initialize MaterialIcons icon provider", "family", s.family)
	return func(iconID string) Glyph {
		return Ligature{Family: s.family, Class: s.class, Name: iconID}
	}
}

const placeIconsBaseURL = "https://maps.gstatic.com/mapfiles/place_api/icons/v2/"

// PlaceIcons returns a provider resolving place icon ids (e.g. "restaurant")
// to the pinlet image URL.
func PlaceIcons() IconProvider {
	return func(iconID string) Glyph {
		u, err := url.Parse(placeIconsBaseURL + url.PathEscape(iconID) + "_pinlet.svg")
		if err != nil {
			return nil
		}
		return u
	}
}
