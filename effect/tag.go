package effect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownTag is returned by Parse for identifiers outside the catalog
var ErrUnknownTag = errors.New("unknown effect tag")

// Tag identifies one phenomenon
type Tag string

const (
	None Tag = "none"

	RainDrizzle Tag = "rain-drizzle"
	RainLight   Tag = "rain-light"
	Rain        Tag = "rain"
	RainHeavy   Tag = "rain-heavy"
	RainStorm   Tag = "rain-storm"
	RainThunder Tag = "rain-thunder"

	SnowLight    Tag = "snow-light"
	Snow         Tag = "snow"
	SnowHeavy    Tag = "snow-heavy"
	SnowBlizzard Tag = "snow-blizzard"

	FogLight Tag = "fog-light"
	Fog      Tag = "fog"
	FogDense Tag = "fog-dense"

	Lightning  Tag = "lightning"
	Clouds     Tag = "clouds"
	SunBeams   Tag = "sun-beams"
	Hail       Tag = "hail"
	Wind       Tag = "wind"
	AcidRain   Tag = "acid-rain"
	MatrixRain Tag = "matrix-rain"
)

var catalog = []Tag{
	None,
	RainDrizzle, RainLight, Rain, RainHeavy, RainStorm, RainThunder,
	SnowLight, Snow, SnowHeavy, SnowBlizzard,
	FogLight, Fog, FogDense,
	Lightning, Clouds, SunBeams, Hail, Wind, AcidRain, MatrixRain,
}

// Tags returns the catalog in display order
func Tags() []Tag {
	return slices.Clone(catalog)
}

// Parse validates an identifier against the catalog
func Parse(s string) (Tag, error) {
	t := Tag(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(catalog, t) {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTag, s)
}

// Family returns the category prefix of a tag, or the tag itself for singletons
func (t Tag) Family() string {
	s := string(t)
	if i := strings.IndexByte(s, '-'); i > 0 {
		switch s[:i] {
		case "rain", "snow", "fog":
			return s[:i]
		}
	}
	return s
}

func (t Tag) String() string {
	return string(t)
}
