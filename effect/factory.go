package effect

import (
	"strings"

	"github.com/lixenwraith/weatherfx/parameter"
)

// Builder constructs an effect, returning nil when the context names no effect
type Builder func(ctx BuildContext) Effect

var rainPresets = map[Tag]parameter.RainPreset{
	RainDrizzle: parameter.RainDrizzle,
	RainLight:   parameter.RainLight,
	Rain:        parameter.RainDefault,
	RainHeavy:   parameter.RainHeavy,
	RainStorm:   parameter.RainStorm,
	RainThunder: parameter.RainThunder,
}

var snowPresets = map[Tag]parameter.SnowPreset{
	SnowLight:    parameter.SnowLight,
	Snow:         parameter.SnowDefault,
	SnowHeavy:    parameter.SnowHeavy,
	SnowBlizzard: parameter.SnowBlizzard,
}

var fogPresets = map[Tag]parameter.FogPreset{
	FogLight: parameter.FogLight,
	Fog:      parameter.FogDefault,
	FogDense: parameter.FogDense,
}

// New maps ctx.Effect to an effect: exact identity first, then family prefix
// Unknown tags and None yield nil
func New(ctx BuildContext) Effect {
	switch ctx.Effect {
	case None, "":
		return nil
	case Lightning:
		return NewLightning(ctx)
	case Clouds:
		return NewClouds(ctx)
	case SunBeams:
		return NewSunBeams(ctx)
	case Hail:
		return NewHail(ctx)
	case Wind:
		return NewWind(ctx)
	case AcidRain:
		return NewAcidRain(ctx)
	case MatrixRain:
		return NewDigitalRain(ctx)
	}

	tag := string(ctx.Effect)
	switch {
	case hasFamily(tag, "rain"):
		preset, ok := rainPresets[ctx.Effect]
		if !ok {
			preset = parameter.RainDefault
		}
		return NewRain(ctx, preset)
	case hasFamily(tag, "snow"):
		preset, ok := snowPresets[ctx.Effect]
		if !ok {
			preset = parameter.SnowDefault
		}
		return NewSnow(ctx, preset)
	case hasFamily(tag, "fog"):
		preset, ok := fogPresets[ctx.Effect]
		if !ok {
			preset = parameter.FogDefault
		}
		return NewFog(ctx, preset)
	}
	return nil
}

// hasFamily matches "rain" and "rain-*" but not "rainbow"
func hasFamily(tag, family string) bool {
	return tag == family || strings.HasPrefix(tag, family+"-")
}
